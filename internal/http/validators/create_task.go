package validators

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func ValidateCreateTaskRequest(projectID, title string) error {
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project id is required")
	}
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return nil
}
