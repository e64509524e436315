package events

import (
	model "taskflow.com/taskflow/internal/models"
)

// Every task and project mutation publishes exactly one domain event on the
// bus. Activity recording, notification dispatch and realtime broadcast all
// hang off these events instead of being wired into each handler by hand, so
// a new mutation cannot forget a side effect.
type Event interface {
	// Name is the wire name delivered to realtime subscribers.
	Name() string
	// ProjectID keys the broadcast room. Empty means a global broadcast.
	ProjectID() string
}

type TaskCreated struct {
	Task  *model.Task
	Actor *model.User
}

func (e TaskCreated) Name() string      { return "task-created" }
func (e TaskCreated) ProjectID() string { return e.Task.ProjectID }

type TaskUpdated struct {
	Task         *model.Task
	Actor        *model.User
	PrevStatus   string
	PrevAssignee *string
	// Changes is a JSON snapshot of the request body, stored as activity
	// metadata.
	Changes string
}

func (e TaskUpdated) Name() string      { return "task-updated" }
func (e TaskUpdated) ProjectID() string { return e.Task.ProjectID }

type TaskDeleted struct {
	TaskID  string
	Project string
	Actor   *model.User
}

func (e TaskDeleted) Name() string      { return "task-deleted" }
func (e TaskDeleted) ProjectID() string { return e.Project }

type TasksReordered struct {
	Task        *model.Task
	NewStatus   string
	NewPosition int
}

func (e TasksReordered) Name() string      { return "tasks-reordered" }
func (e TasksReordered) ProjectID() string { return e.Task.ProjectID }

type CommentAdded struct {
	Task    *model.Task
	Comment *model.Comment
	Actor   *model.User
}

func (e CommentAdded) Name() string      { return "comment-added" }
func (e CommentAdded) ProjectID() string { return e.Task.ProjectID }

type ProjectCreated struct {
	Project *model.Project
	Actor   *model.User
}

func (e ProjectCreated) Name() string      { return "project-created" }
func (e ProjectCreated) ProjectID() string { return "" }

type ProjectUpdated struct {
	Project *model.Project
	Actor   *model.User
	Changes string
}

func (e ProjectUpdated) Name() string      { return "project-updated" }
func (e ProjectUpdated) ProjectID() string { return e.Project.ID }

type ProjectDeleted struct {
	Project *model.Project
	Actor   *model.User
}

func (e ProjectDeleted) Name() string      { return "project-deleted" }
func (e ProjectDeleted) ProjectID() string { return e.Project.ID }

type MemberAdded struct {
	Project *model.Project
	Member  *model.User
	Actor   *model.User
}

func (e MemberAdded) Name() string      { return "project-updated" }
func (e MemberAdded) ProjectID() string { return e.Project.ID }

type MemberRemoved struct {
	Project *model.Project
	Member  *model.User
	Actor   *model.User
}

func (e MemberRemoved) Name() string      { return "project-updated" }
func (e MemberRemoved) ProjectID() string { return e.Project.ID }
