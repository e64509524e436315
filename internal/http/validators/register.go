package validators

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func ValidateRegisterRequest(name, email, password string) error {
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if len(password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}
	return nil
}
