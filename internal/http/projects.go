package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/http/validators"
	"taskflow.com/taskflow/internal/services"
)

type createProjectRequest struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Priority    constants.Priority `json:"priority"`
	Color       string             `json:"color"`
	StartDate   *time.Time         `json:"startDate"`
	EndDate     *time.Time         `json:"endDate"`
}

type memberRequest struct {
	UserID string               `json:"userId"`
	Role   constants.MemberRole `json:"role"`
}

func (h *Handler) ListProjects(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	projects, err := h.projects.List(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return respondList(c, len(projects), projects)
}

func (h *Handler) GetProject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	project, err := h.projects.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, project)
}

func (h *Handler) CreateProject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateProjectRequest(req.Name); err != nil {
		return err
	}

	project, err := h.projects.Create(c.Request().Context(), user, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Priority:    req.Priority,
		Color:       req.Color,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, project)
}

func (h *Handler) UpdateProject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.UpdateProjectInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}

	project, err := h.projects.Update(c.Request().Context(), user, c.Param("id"), input)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, project)
}

func (h *Handler) DeleteProject(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.projects.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{})
}

func (h *Handler) AddProjectMember(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req memberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user id is required")
	}

	project, err := h.projects.AddMember(c.Request().Context(), user, c.Param("id"), req.UserID, req.Role)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, project)
}

func (h *Handler) RemoveProjectMember(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	project, err := h.projects.RemoveMember(c.Request().Context(), user, c.Param("id"), c.Param("userId"))
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, project)
}
