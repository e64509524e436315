package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/http/validators"
	"taskflow.com/taskflow/internal/services"
)

type createTaskRequest struct {
	ProjectID   string             `json:"projectId"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    constants.Priority `json:"priority"`
	AssigneeID  *string            `json:"assigneeId"`
	DueDate     *time.Time         `json:"dueDate"`
}

type reorderRequest struct {
	TaskID      string               `json:"taskId"`
	NewStatus   constants.TaskStatus `json:"newStatus"`
	NewPosition int                  `json:"newPosition"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) ListProjectTasks(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListByProject(c.Request().Context(), user, c.Param("projectId"))
	if err != nil {
		return err
	}

	return respondList(c, len(tasks), tasks)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.tasks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, task)
}

func (h *Handler) CreateTask(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(req.ProjectID, req.Title); err != nil {
		return err
	}

	task, err := h.tasks.Create(c.Request().Context(), user, services.CreateTaskInput{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.UpdateTaskInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	task, err := h.tasks.Update(c.Request().Context(), user, c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{})
}

func (h *Handler) ReorderTasks(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateReorderRequest(req.TaskID); err != nil {
		return err
	}

	_, err := h.tasks.Reorder(c.Request().Context(), services.ReorderInput{
		TaskID:      req.TaskID,
		NewStatus:   req.NewStatus,
		NewPosition: req.NewPosition,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{"message": "Tasks reordered successfully"})
}

func (h *Handler) AddComment(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "comment text is required")
	}

	task, err := h.tasks.AddComment(c.Request().Context(), user, c.Param("id"), req.Text)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, task)
}
