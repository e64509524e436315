package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "taskflow.com/taskflow/internal/models"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity record. There is no update path; activities are
// immutable once written.
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	activity.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *ActivityRepository) ListByProjects(ctx context.Context, projectIDs []string, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ListByProject(ctx context.Context, projectID string, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}

// DeleteOlderThan prunes aged activity records and returns the number
// removed.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.Activity{})
	return res.RowsAffected, res.Error
}
