package model

import (
	"time"

	"taskflow.com/taskflow/internal/constants"
)

type Task struct {
	ID          string               `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string               `gorm:"size:36;not null;index:idx_tasks_bucket" json:"projectId"`
	Title       string               `gorm:"not null" json:"title"`
	Description string               `json:"description"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;index:idx_tasks_bucket" json:"status"`
	// Position orders a task inside its (project, status) bucket. The reorder
	// routine renumbers the bucket to a dense 0..n-1 sequence.
	Position     int                `gorm:"not null;default:0" json:"position"`
	Priority     constants.Priority `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	AssigneeID   *string            `gorm:"size:36;index" json:"assigneeId"`
	AssignedByID string             `gorm:"size:36;not null" json:"assignedById"`
	DueDate      *time.Time         `json:"dueDate"`
	Version      uint               `gorm:"not null;default:1" json:"-"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	Comments     []Comment          `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;not null;index" json:"taskId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	Text      string    `gorm:"not null" json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
