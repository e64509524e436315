package model

import (
	"time"

	"taskflow.com/taskflow/internal/constants"
)

type Project struct {
	ID          string                  `gorm:"primaryKey;size:36" json:"id"`
	Name        string                  `gorm:"not null" json:"name"`
	Description string                  `json:"description"`
	Status      constants.ProjectStatus `gorm:"type:varchar(20);not null;default:planning" json:"status"`
	Priority    constants.Priority      `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	// Progress is derived from task completion. It is recomputed by the hourly
	// maintenance job and inline when a task transitions to done.
	Progress  int             `gorm:"not null;default:0" json:"progress"`
	OwnerID   string          `gorm:"size:36;not null;index" json:"ownerId"`
	Color     string          `gorm:"size:10;default:#3B82F6" json:"color"`
	StartDate *time.Time      `json:"startDate"`
	EndDate   *time.Time      `json:"endDate"`
	Members   []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type ProjectMember struct {
	ID        string               `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string               `gorm:"size:36;not null;index" json:"projectId"`
	UserID    string               `gorm:"size:36;not null;index" json:"userId"`
	Role      constants.MemberRole `gorm:"type:varchar(10);not null;default:member" json:"role"`
}
