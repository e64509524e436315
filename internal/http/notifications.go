package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	list, err := h.notifications.List(c.Request().Context(), user.ID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"count":       len(list.Items),
		"unreadCount": list.UnreadCount,
		"data":        list.Items,
	})
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	notification, err := h.notifications.MarkRead(c.Request().Context(), c.Param("id"), user.ID)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, notification)
}

func (h *Handler) MarkAllNotificationsRead(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAllRead(c.Request().Context(), user.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All notifications marked as read",
	})
}

func (h *Handler) DeleteNotification(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.Request().Context(), c.Param("id"), user.ID); err != nil {
		return err
	}

	return respond(c, http.StatusOK, echo.Map{})
}

func (h *Handler) ClearNotifications(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.notifications.DeleteAll(c.Request().Context(), user.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "All notifications cleared",
	})
}
