package model

import "time"

type User struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"not null;uniqueIndex" json:"email"`
	Password string `gorm:"not null" json:"-"`
	// EmailNotifications mirrors the per-user preference checked by the
	// due-soon scan before sending reminder mail.
	EmailNotifications bool      `gorm:"not null;default:false" json:"emailNotifications"`
	CreatedAt          time.Time `json:"createdAt"`
}
