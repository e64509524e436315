package services

import (
	"context"
	"encoding/json"
	"time"

	"taskflow.com/taskflow/internal/constants"
	apperrors "taskflow.com/taskflow/internal/errors"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

type ProjectService struct {
	projects *repository.ProjectRepository
	users    *repository.UserRepository
	bus      *events.Bus
}

func NewProjectService(
	projects *repository.ProjectRepository,
	users *repository.UserRepository,
	bus *events.Bus,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		bus:      bus,
	}
}

type CreateProjectInput struct {
	Name        string
	Description string
	Priority    constants.Priority
	Color       string
	StartDate   *time.Time
	EndDate     *time.Time
}

type UpdateProjectInput struct {
	Name        *string                  `json:"name,omitempty"`
	Description *string                  `json:"description,omitempty"`
	Status      *constants.ProjectStatus `json:"status,omitempty"`
	Priority    *constants.Priority      `json:"priority,omitempty"`
	Color       *string                  `json:"color,omitempty"`
	StartDate   *time.Time               `json:"startDate,omitempty"`
	EndDate     *time.Time               `json:"endDate,omitempty"`
}

func (s *ProjectService) List(ctx context.Context, actor *model.User) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, actor.ID)
}

func (s *ProjectService) Get(ctx context.Context, actor *model.User, id string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.projects.HasAccess(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, actor *model.User, input CreateProjectInput) (*model.Project, error) {
	priority := input.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}

	project := &model.Project{
		Name:        input.Name,
		Description: input.Description,
		Status:      constants.ProjectPlanning,
		Priority:    priority,
		OwnerID:     actor.ID,
		Color:       input.Color,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.ProjectCreated{Project: project, Actor: actor}); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, actor *model.User, id string, input UpdateProjectInput) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.projects.IsOwnerOrAdmin(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		project.Status = *input.Status
	}
	if input.Priority != nil {
		project.Priority = *input.Priority
	}
	if input.Color != nil {
		project.Color = *input.Color
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		project.EndDate = input.EndDate
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}

	changes, _ := json.Marshal(input)
	err = s.bus.Publish(ctx, events.ProjectUpdated{
		Project: project,
		Actor:   actor,
		Changes: string(changes),
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, actor *model.User, id string) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if project.OwnerID != actor.ID {
		return apperrors.ErrForbidden
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}

	return s.bus.Publish(ctx, events.ProjectDeleted{Project: project, Actor: actor})
}

func (s *ProjectService) AddMember(ctx context.Context, actor *model.User, projectID, userID string, role constants.MemberRole) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.projects.IsOwnerOrAdmin(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	member, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = constants.RoleMember
	}

	if err := s.projects.AddMember(ctx, &model.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}); err != nil {
		return nil, err
	}

	project, err = s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.MemberAdded{Project: project, Member: member, Actor: actor}); err != nil {
		return nil, err
	}

	return project, nil
}

func (s *ProjectService) RemoveMember(ctx context.Context, actor *model.User, projectID, userID string) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.projects.IsOwnerOrAdmin(ctx, projectID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	member, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.projects.RemoveMember(ctx, projectID, userID); err != nil {
		return nil, err
	}

	project, err = s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.MemberRemoved{Project: project, Member: member, Actor: actor}); err != nil {
		return nil, err
	}

	return project, nil
}
