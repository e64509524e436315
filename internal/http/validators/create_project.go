package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ValidateCreateProjectRequest(name string) error {
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return nil
}
