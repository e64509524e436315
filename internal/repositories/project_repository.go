package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow.com/taskflow/internal/constants"
	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/internal/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = time.Now().UTC()
	project.UpdatedAt = project.CreatedAt

	return r.db.WithContext(ctx).Create(project).Error
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Preload("Members").First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

// ListForUser returns projects the user owns or is a member of,
// newest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("owner_id = ? OR id IN (?)",
			userID,
			r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID),
		).
		Order("created_at desc").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) IDsForUser(ctx context.Context, userID string) ([]string, error) {
	projects, err := r.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (r *ProjectRepository) ListByStatus(ctx context.Context, status constants.ProjectStatus) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Where("status = ?", status).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	project.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
			"priority":    project.Priority,
			"progress":    project.Progress,
			"color":       project.Color,
			"start_date":  project.StartDate,
			"end_date":    project.EndDate,
			"updated_at":  project.UpdatedAt,
		}).Error
}

func (r *ProjectRepository) UpdateProgress(ctx context.Context, projectID string, progress int) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", projectID).
		Update("progress", progress).Error
}

// Delete removes the project together with its tasks, comments, members,
// activities and notifications. The observed frontend expects orphans to
// disappear with the project, so the cascade runs in one transaction.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN (?)",
			tx.Model(&model.Task{}).Select("id").Where("project_id = ?", id),
		).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Activity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, "id = ?", id).Error
	})
}

func (r *ProjectRepository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

// HasAccess reports whether the user owns the project or appears in its
// member list. This is the same check REST reads use and the one applied at
// socket room join time.
func (r *ProjectRepository) HasAccess(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ProjectRepository) IsOwnerOrAdmin(ctx context.Context, projectID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND owner_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND role = ?", projectID, userID, constants.RoleAdmin).
		Count(&count).Error
	return count > 0, err
}
