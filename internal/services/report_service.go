package services

import (
	"context"
	"sort"
	"time"

	"taskflow.com/taskflow/internal/constants"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

type ReportService struct {
	tasks      *repository.TaskRepository
	projects   *repository.ProjectRepository
	activities *repository.ActivityRepository
}

func NewReportService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	activities *repository.ActivityRepository,
) *ReportService {
	return &ReportService{
		tasks:      tasks,
		projects:   projects,
		activities: activities,
	}
}

type TaskStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Overdue  int            `json:"overdue"`
}

type ProjectStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

type DashboardReport struct {
	TaskStats         TaskStats        `json:"taskStats"`
	ProjectStats      ProjectStats     `json:"projectStats"`
	RecentActivities  []model.Activity `json:"recentActivities"`
	UpcomingDeadlines []model.Task     `json:"upcomingDeadlines"`
}

// Dashboard aggregates counts across everything the user can see: their
// projects' tasks by status, project states, the ten newest activities and
// tasks falling due inside the next week.
func (s *ReportService) Dashboard(ctx context.Context, actor *model.User) (*DashboardReport, error) {
	projects, err := s.projects.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	projectIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}

	var tasks []model.Task
	if len(projectIDs) > 0 {
		tasks, err = s.tasks.ListByProjects(ctx, projectIDs)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	weekAhead := now.Add(7 * 24 * time.Hour)

	taskStats := TaskStats{
		Total: len(tasks),
		ByStatus: map[string]int{
			"todo":       0,
			"inProgress": 0,
			"review":     0,
			"done":       0,
		},
	}

	var upcoming []model.Task
	for _, t := range tasks {
		switch t.Status {
		case constants.StatusTodo:
			taskStats.ByStatus["todo"]++
		case constants.StatusInProgress:
			taskStats.ByStatus["inProgress"]++
		case constants.StatusReview:
			taskStats.ByStatus["review"]++
		case constants.StatusDone:
			taskStats.ByStatus["done"]++
		}

		if t.Status != constants.StatusDone && t.DueDate != nil {
			if t.DueDate.Before(now) {
				taskStats.Overdue++
			} else if t.DueDate.Before(weekAhead) {
				upcoming = append(upcoming, t)
			}
		}
	}

	sortTasksByDueDate(upcoming)
	if len(upcoming) > 10 {
		upcoming = upcoming[:10]
	}

	projectStats := ProjectStats{
		Total: len(projects),
		ByStatus: map[string]int{
			"planning":  0,
			"active":    0,
			"onHold":    0,
			"completed": 0,
		},
	}
	for _, p := range projects {
		switch p.Status {
		case constants.ProjectPlanning:
			projectStats.ByStatus["planning"]++
		case constants.ProjectActive:
			projectStats.ByStatus["active"]++
		case constants.ProjectOnHold:
			projectStats.ByStatus["onHold"]++
		case constants.ProjectCompleted:
			projectStats.ByStatus["completed"]++
		}
	}

	recent := []model.Activity{}
	if len(projectIDs) > 0 {
		recent, err = s.activities.ListByProjects(ctx, projectIDs, 10)
		if err != nil {
			return nil, err
		}
	}

	if upcoming == nil {
		upcoming = []model.Task{}
	}

	return &DashboardReport{
		TaskStats:         taskStats,
		ProjectStats:      projectStats,
		RecentActivities:  recent,
		UpcomingDeadlines: upcoming,
	}, nil
}

func sortTasksByDueDate(tasks []model.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(*tasks[j].DueDate)
	})
}
