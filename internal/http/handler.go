package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/internal/models"
	"taskflow.com/taskflow/internal/services"
)

type Handler struct {
	auth          *services.AuthService
	tasks         *services.TaskService
	projects      *services.ProjectService
	activities    *services.ActivityService
	notifications *services.NotificationService
	reports       *services.ReportService
}

func NewHandler(
	auth *services.AuthService,
	tasks *services.TaskService,
	projects *services.ProjectService,
	activities *services.ActivityService,
	notifications *services.NotificationService,
	reports *services.ReportService,
) *Handler {
	return &Handler{
		auth:          auth,
		tasks:         tasks,
		projects:      projects,
		activities:    activities,
		notifications: notifications,
		reports:       reports,
	}
}

func currentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get("user").(*model.User)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{
		"success": true,
		"data":    data,
	})
}

func respondList(c echo.Context, count int, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"count":   count,
		"data":    data,
	})
}
