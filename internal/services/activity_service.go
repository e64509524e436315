package services

import (
	"context"

	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

const (
	feedLimit       = 100
	scopedFeedLimit = 50
)

type ActivityService struct {
	activities *repository.ActivityRepository
	projects   *repository.ProjectRepository
}

func NewActivityService(
	activities *repository.ActivityRepository,
	projects *repository.ProjectRepository,
) *ActivityService {
	return &ActivityService{
		activities: activities,
		projects:   projects,
	}
}

// ListForUser returns the newest activities across every project the user
// owns or belongs to.
func (s *ActivityService) ListForUser(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > feedLimit {
		limit = feedLimit
	}

	projectIDs, err := s.projects.IDsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return []model.Activity{}, nil
	}

	return s.activities.ListByProjects(ctx, projectIDs, limit)
}

func (s *ActivityService) ListByProject(ctx context.Context, projectID string, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > scopedFeedLimit {
		limit = scopedFeedLimit
	}
	return s.activities.ListByProject(ctx, projectID, limit)
}

func (s *ActivityService) ListByUser(ctx context.Context, userID string, limit int) ([]model.Activity, error) {
	if limit <= 0 || limit > scopedFeedLimit {
		limit = scopedFeedLimit
	}
	return s.activities.ListByUser(ctx, userID, limit)
}
