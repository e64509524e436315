package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	apperrors "taskflow.com/taskflow/internal/errors"
	middleware "taskflow.com/taskflow/internal/http/middlewares"
	"taskflow.com/taskflow/internal/realtime"
	"taskflow.com/taskflow/internal/services"
)

func Register(e *echo.Echo, h *Handler, hub *realtime.Hub, auth *services.AuthService, rateLimitPerMinute int, clientURL string) {
	e.HTTPErrorHandler = errorHandler
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{clientURL},
		AllowCredentials: true,
	}))
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	jwt := middleware.JWT(auth)

	api := e.Group("/api")

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", h.Me, jwt)

	api.GET("/projects", h.ListProjects, jwt)
	api.POST("/projects", h.CreateProject, jwt)
	api.GET("/projects/:id", h.GetProject, jwt)
	api.PUT("/projects/:id", h.UpdateProject, jwt)
	api.DELETE("/projects/:id", h.DeleteProject, jwt)
	api.POST("/projects/:id/members", h.AddProjectMember, jwt)
	api.DELETE("/projects/:id/members/:userId", h.RemoveProjectMember, jwt)

	// Reorder is registered ahead of /tasks/:id so "reorder" never binds as
	// a task id.
	api.PUT("/tasks/reorder", h.ReorderTasks, jwt)
	api.GET("/tasks/project/:projectId", h.ListProjectTasks, jwt)
	api.POST("/tasks", h.CreateTask, jwt)
	api.GET("/tasks/:id", h.GetTask, jwt)
	api.PUT("/tasks/:id", h.UpdateTask, jwt)
	api.DELETE("/tasks/:id", h.DeleteTask, jwt)
	api.POST("/tasks/:id/comments", h.AddComment, jwt)

	api.GET("/activities", h.ListActivities, jwt)
	api.GET("/activities/project/:projectId", h.ListProjectActivities, jwt)
	api.GET("/activities/user/:userId", h.ListUserActivities, jwt)

	api.GET("/notifications", h.ListNotifications, jwt)
	api.PUT("/notifications/read-all", h.MarkAllNotificationsRead, jwt)
	api.PUT("/notifications/:id/read", h.MarkNotificationRead, jwt)
	api.DELETE("/notifications/:id", h.DeleteNotification, jwt)
	api.DELETE("/notifications", h.ClearNotifications, jwt)

	api.GET("/reports/dashboard", h.DashboardReport, jwt)

	e.GET("/ws", hub.Handler(), jwt)
}

// errorHandler renders every error as the {success:false, error} envelope the
// frontend expects, mapping Exception sentinels to their status codes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.Exception
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		status = appErr.StatusCode
		message = appErr.Message
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	_ = c.JSON(status, echo.Map{
		"success": false,
		"error":   message,
	})
}
