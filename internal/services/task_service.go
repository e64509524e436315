package services

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"taskflow.com/taskflow/internal/constants"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	bus      *events.Bus
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	bus *events.Bus,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		bus:      bus,
	}
}

type CreateTaskInput struct {
	ProjectID   string
	Title       string
	Description string
	Priority    constants.Priority
	AssigneeID  *string
	DueDate     *time.Time
}

// NullableString tells an omitted JSON field apart from an explicit null.
// Null clears the stored value; an absent field leaves it untouched.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	return json.Unmarshal(data, &n.Value)
}

type UpdateTaskInput struct {
	Title       *string               `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	Status      *constants.TaskStatus `json:"status,omitempty"`
	Priority    *constants.Priority   `json:"priority,omitempty"`
	AssigneeID  NullableString        `json:"assigneeId"`
	DueDate     *time.Time            `json:"dueDate,omitempty"`
}

type ReorderInput struct {
	TaskID      string
	NewStatus   constants.TaskStatus
	NewPosition int
}

func (s *TaskService) ListByProject(ctx context.Context, actor *model.User, projectID string) ([]model.Task, error) {
	ok, err := s.projects.HasAccess(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	return s.tasks.ListByProject(ctx, projectID)
}

func (s *TaskService) Get(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, actor *model.User, input CreateTaskInput) (*model.Task, error) {
	project, err := s.projects.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.projects.HasAccess(ctx, project.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	priority := input.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}

	// New tasks land at the end of the todo bucket.
	total, _, err := s.tasks.CountByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		ProjectID:    project.ID,
		Title:        input.Title,
		Description:  input.Description,
		Status:       constants.StatusTodo,
		Position:     int(total),
		Priority:     priority,
		AssigneeID:   input.AssigneeID,
		AssignedByID: actor.ID,
		DueDate:      input.DueDate,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.TaskCreated{Task: task, Actor: actor}); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, actor *model.User, id string, input UpdateTaskInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	prevStatus := task.Status
	prevAssignee := task.AssigneeID

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !constants.ValidTaskStatus(*input.Status) {
			return nil, apperrors.ErrInvalidStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.AssigneeID.Set {
		task.AssigneeID = input.AssigneeID.Value
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	// Completing a task moves the project's progress immediately rather than
	// waiting for the hourly recompute.
	if task.Status == constants.StatusDone && prevStatus != constants.StatusDone {
		if err := s.recomputeProgress(ctx, task.ProjectID); err != nil {
			return nil, err
		}
	}

	changes, _ := json.Marshal(changedFields(input))
	err = s.bus.Publish(ctx, events.TaskUpdated{
		Task:         task,
		Actor:        actor,
		PrevStatus:   string(prevStatus),
		PrevAssignee: prevAssignee,
		Changes:      string(changes),
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor *model.User, id string) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	return s.bus.Publish(ctx, events.TaskDeleted{
		TaskID:  task.ID,
		Project: task.ProjectID,
		Actor:   actor,
	})
}

// Reorder relocates a task inside the board and renumbers its new bucket.
// The status transition is unrestricted here; the board UI is what limits
// drags to forward moves.
func (s *TaskService) Reorder(ctx context.Context, input ReorderInput) (*model.Task, error) {
	if input.TaskID == "" {
		return nil, apperrors.ErrTaskIDRequired
	}
	if input.NewStatus != "" && !constants.ValidTaskStatus(input.NewStatus) {
		return nil, apperrors.ErrInvalidStatus
	}

	task, err := s.tasks.Reorder(ctx, input.TaskID, input.NewStatus, input.NewPosition)
	if err != nil {
		return nil, err
	}

	err = s.bus.Publish(ctx, events.TasksReordered{
		Task:        task,
		NewStatus:   string(task.Status),
		NewPosition: task.Position,
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) AddComment(ctx context.Context, actor *model.User, taskID, text string) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TaskID: task.ID,
		UserID: actor.ID,
		Text:   text,
	}
	if err := s.tasks.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	task.Comments = append(task.Comments, *comment)

	if err := s.bus.Publish(ctx, events.CommentAdded{Task: task, Comment: comment, Actor: actor}); err != nil {
		return nil, err
	}

	return task, nil
}

// changedFields collects only the fields the request actually carried, for
// the activity metadata blob.
func changedFields(input UpdateTaskInput) map[string]interface{} {
	changes := map[string]interface{}{}
	if input.Title != nil {
		changes["title"] = *input.Title
	}
	if input.Description != nil {
		changes["description"] = *input.Description
	}
	if input.Status != nil {
		changes["status"] = *input.Status
	}
	if input.Priority != nil {
		changes["priority"] = *input.Priority
	}
	if input.AssigneeID.Set {
		changes["assigneeId"] = input.AssigneeID.Value
	}
	if input.DueDate != nil {
		changes["dueDate"] = *input.DueDate
	}
	return changes
}

func (s *TaskService) recomputeProgress(ctx context.Context, projectID string) error {
	total, done, err := s.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return err
	}

	progress := 0
	if total > 0 {
		progress = int(math.Round(float64(done) / float64(total) * 100))
	}

	return s.projects.UpdateProgress(ctx, projectID, progress)
}
