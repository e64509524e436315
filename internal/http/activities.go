package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListActivities(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	activities, err := h.activities.ListForUser(c.Request().Context(), user.ID, limit)
	if err != nil {
		return err
	}

	return respondList(c, len(activities), activities)
}

func (h *Handler) ListProjectActivities(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	activities, err := h.activities.ListByProject(c.Request().Context(), c.Param("projectId"), limit)
	if err != nil {
		return err
	}

	return respondList(c, len(activities), activities)
}

func (h *Handler) ListUserActivities(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	activities, err := h.activities.ListByUser(c.Request().Context(), c.Param("userId"), limit)
	if err != nil {
		return err
	}

	return respondList(c, len(activities), activities)
}

func (h *Handler) DashboardReport(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	report, err := h.reports.Dashboard(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, report)
}
