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

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Version = 1
	task.CreatedAt = time.Now().UTC()
	task.UpdatedAt = task.CreatedAt

	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Comments").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// ListByProject returns a project's tasks sorted by position, the order the
// kanban board renders them in.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position asc").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) ListByProjects(ctx context.Context, projectIDs []string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Find(&tasks).Error
	return tasks, err
}

// Update persists a task with an optimistic version check. A concurrent
// writer that bumped the version first wins and the loser gets
// ErrOptimisticLock.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"position":    task.Position,
			"priority":    task.Priority,
			"assignee_id": task.AssigneeID,
			"due_date":    task.DueDate,
			"updated_at":  time.Now().UTC(),
			"version":     gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}

	task.Version++
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, "id = ?", id).Error
	})
}

// Reorder moves a task to a new status bucket and position, then renumbers
// both affected buckets to dense ascending sequences: the destination bucket
// skips the slot the moved task occupies, and the vacated bucket closes the
// gap the task left behind. The whole pass runs in one transaction so a
// failed sibling write rolls back the entire move.
func (r *TaskRepository) Reorder(ctx context.Context, taskID string, newStatus constants.TaskStatus, newPosition int) (*model.Task, error) {
	var moved model.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&moved, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTaskNotFound
			}
			return err
		}

		prevStatus := moved.Status
		if newStatus != "" {
			moved.Status = newStatus
		}

		var siblings []model.Task
		if err := tx.
			Where("project_id = ? AND status = ? AND id <> ?", moved.ProjectID, moved.Status, moved.ID).
			Order("position asc").
			Find(&siblings).Error; err != nil {
			return err
		}

		// Clamp the requested position into [0, len(siblings)].
		if newPosition < 0 {
			newPosition = 0
		}
		if newPosition > len(siblings) {
			newPosition = len(siblings)
		}

		moved.Position = newPosition
		moved.UpdatedAt = time.Now().UTC()
		moved.Version++
		if err := tx.Save(&moved).Error; err != nil {
			return err
		}

		position := 0
		for i := range siblings {
			if position == newPosition {
				position++
			}
			if siblings[i].Position != position {
				if err := tx.Model(&model.Task{}).
					Where("id = ?", siblings[i].ID).
					Updates(map[string]interface{}{
						"position": position,
						"version":  gorm.Expr("version + 1"),
					}).Error; err != nil {
					return err
				}
			}
			position++
		}

		if moved.Status == prevStatus {
			return nil
		}

		// Close the gap the task left in its previous bucket.
		var vacated []model.Task
		if err := tx.
			Where("project_id = ? AND status = ?", moved.ProjectID, prevStatus).
			Order("position asc").
			Find(&vacated).Error; err != nil {
			return err
		}
		for i := range vacated {
			if vacated[i].Position != i {
				if err := tx.Model(&model.Task{}).
					Where("id = ?", vacated[i].ID).
					Updates(map[string]interface{}{
						"position": i,
						"version":  gorm.Expr("version + 1"),
					}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &moved, nil
}

// ListDueSoon returns tasks that are not done and fall due inside the given
// window. Used by the daily deadline scan.
func (r *TaskRepository) ListDueSoon(ctx context.Context, from, until time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("due_date >= ? AND due_date < ? AND status <> ?", from, until, constants.StatusDone).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) CountByProject(ctx context.Context, projectID string) (total, done int64, err error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID)
	if err = q.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&model.Task{}).
		Where("project_id = ? AND status = ?", projectID, constants.StatusDone).
		Count(&done).Error
	return total, done, err
}

func (r *TaskRepository) AddComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Create(comment).Error
}
