package model

import (
	"time"

	"taskflow.com/taskflow/internal/constants"
)

// Activity is an append-only log entry. Records are never updated; the weekly
// maintenance job prunes entries older than 90 days.
type Activity struct {
	ID          string                 `gorm:"primaryKey;size:36" json:"id"`
	Type        constants.ActivityType `gorm:"type:varchar(20);not null" json:"type"`
	Description string                 `gorm:"not null" json:"description"`
	UserID      string                 `gorm:"size:36;not null;index:idx_activities_user" json:"userId"`
	ProjectID   *string                `gorm:"size:36;index:idx_activities_project" json:"projectId"`
	TaskID      *string                `gorm:"size:36" json:"taskId"`
	// Metadata holds an optional JSON blob describing the change.
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_activities_project;index:idx_activities_user" json:"createdAt"`
}

type Notification struct {
	ID          string                     `gorm:"primaryKey;size:36" json:"id"`
	RecipientID string                     `gorm:"size:36;not null;index" json:"recipientId"`
	Type        constants.NotificationType `gorm:"type:varchar(25);not null" json:"type"`
	Title       string                     `gorm:"not null" json:"title"`
	Message     string                     `gorm:"not null" json:"message"`
	Link        string                     `json:"link,omitempty"`
	IsRead      bool                       `gorm:"not null;default:false;index" json:"isRead"`
	ProjectID   *string                    `gorm:"size:36" json:"projectId"`
	TaskID      *string                    `gorm:"size:36" json:"taskId"`
	CreatedAt   time.Time                  `json:"createdAt"`
}
