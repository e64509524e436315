package services

import (
	"context"
	"fmt"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

// NotificationDispatcher creates per-recipient notifications for qualifying
// events. A user never receives a notification for their own action.
type NotificationDispatcher struct {
	notifications *repository.NotificationRepository
}

func NewNotificationDispatcher(notifications *repository.NotificationRepository) *NotificationDispatcher {
	return &NotificationDispatcher{notifications: notifications}
}

func (d *NotificationDispatcher) HandleEvent(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.TaskCreated:
		if ev.Task.AssigneeID == nil || *ev.Task.AssigneeID == ev.Actor.ID {
			return nil
		}
		return d.notifications.Create(ctx, &model.Notification{
			RecipientID: *ev.Task.AssigneeID,
			Type:        constants.NotificationTaskAssigned,
			Title:       "New Task Assigned",
			Message:     fmt.Sprintf("%s assigned you a new task: %s", ev.Actor.Name, ev.Task.Title),
			Link:        "/tasks/" + ev.Task.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
		})

	case events.TaskUpdated:
		assignee := ev.Task.AssigneeID
		if assignee == nil || *assignee == ev.Actor.ID {
			return nil
		}
		if ev.PrevAssignee != nil && *ev.PrevAssignee == *assignee {
			return nil
		}
		return d.notifications.Create(ctx, &model.Notification{
			RecipientID: *assignee,
			Type:        constants.NotificationTaskAssigned,
			Title:       "Task Assigned",
			Message:     fmt.Sprintf("%s assigned you to task: %s", ev.Actor.Name, ev.Task.Title),
			Link:        "/tasks/" + ev.Task.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
		})

	case events.CommentAdded:
		if ev.Task.AssigneeID == nil || *ev.Task.AssigneeID == ev.Actor.ID {
			return nil
		}
		return d.notifications.Create(ctx, &model.Notification{
			RecipientID: *ev.Task.AssigneeID,
			Type:        constants.NotificationCommentReply,
			Title:       "New Comment",
			Message:     fmt.Sprintf("%s commented on %q", ev.Actor.Name, ev.Task.Title),
			Link:        "/tasks/" + ev.Task.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
		})

	case events.MemberAdded:
		if ev.Member.ID == ev.Actor.ID {
			return nil
		}
		return d.notifications.Create(ctx, &model.Notification{
			RecipientID: ev.Member.ID,
			Type:        constants.NotificationProjectInvite,
			Title:       "Added to Project",
			Message:     fmt.Sprintf("%s added you to project %s", ev.Actor.Name, ev.Project.Name),
			Link:        "/projects/" + ev.Project.ID,
			ProjectID:   &ev.Project.ID,
		})
	}

	return nil
}
