package services

import (
	"context"
	"encoding/json"
	"fmt"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

// ActivityRecorder subscribes to the domain event bus and appends one
// immutable activity record per user-visible state change.
type ActivityRecorder struct {
	activities *repository.ActivityRepository
}

func NewActivityRecorder(activities *repository.ActivityRepository) *ActivityRecorder {
	return &ActivityRecorder{activities: activities}
}

func (r *ActivityRecorder) HandleEvent(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.TaskCreated:
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityTaskCreated,
			Description: fmt.Sprintf("%s created task %q", ev.Actor.Name, ev.Task.Title),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
		})

	case events.TaskUpdated:
		if err := r.record(ctx, &model.Activity{
			Type:        constants.ActivityTaskUpdated,
			Description: fmt.Sprintf("%s updated task %q", ev.Actor.Name, ev.Task.Title),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
			Metadata:    ev.Changes,
		}); err != nil {
			return err
		}

		if ev.Task.Status == constants.StatusDone && ev.PrevStatus != string(constants.StatusDone) {
			return r.record(ctx, &model.Activity{
				Type:        constants.ActivityTaskCompleted,
				Description: fmt.Sprintf("%s completed task %q", ev.Actor.Name, ev.Task.Title),
				UserID:      ev.Actor.ID,
				ProjectID:   &ev.Task.ProjectID,
				TaskID:      &ev.Task.ID,
			})
		}
		return nil

	case events.CommentAdded:
		metadata, _ := json.Marshal(map[string]string{"comment": ev.Comment.Text})
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityCommentAdded,
			Description: fmt.Sprintf("%s commented on task %q", ev.Actor.Name, ev.Task.Title),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Task.ProjectID,
			TaskID:      &ev.Task.ID,
			Metadata:    string(metadata),
		})

	case events.ProjectCreated:
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityProjectCreated,
			Description: fmt.Sprintf("%s created project %s", ev.Actor.Name, ev.Project.Name),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Project.ID,
		})

	case events.ProjectUpdated:
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityProjectUpdated,
			Description: fmt.Sprintf("%s updated project %s", ev.Actor.Name, ev.Project.Name),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Project.ID,
			Metadata:    ev.Changes,
		})

	case events.MemberAdded:
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityMemberJoined,
			Description: fmt.Sprintf("%s added %s to project %s", ev.Actor.Name, ev.Member.Name, ev.Project.Name),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Project.ID,
		})

	case events.MemberRemoved:
		return r.record(ctx, &model.Activity{
			Type:        constants.ActivityMemberLeft,
			Description: fmt.Sprintf("%s removed %s from project %s", ev.Actor.Name, ev.Member.Name, ev.Project.Name),
			UserID:      ev.Actor.ID,
			ProjectID:   &ev.Project.ID,
		})
	}

	// Deletions and reorders carry no activity record.
	return nil
}

func (r *ActivityRecorder) record(ctx context.Context, activity *model.Activity) error {
	return r.activities.Create(ctx, activity)
}
