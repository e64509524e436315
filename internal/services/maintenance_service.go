package services

import (
	"context"
	"math"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/mail"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

const activityRetention = 90 * 24 * time.Hour

// MaintenanceService runs the three periodic jobs: the daily due-soon scan,
// the hourly project progress recompute and the weekly activity prune. Each
// job catches and logs its own failures so one job never blocks the others.
type MaintenanceService struct {
	tasks         *repository.TaskRepository
	projects      *repository.ProjectRepository
	activities    *repository.ActivityRepository
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	mailer        mail.Mailer
	logger        zerolog.Logger
	cron          *cron.Cron
}

func NewMaintenanceService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	activities *repository.ActivityRepository,
	notifications *repository.NotificationRepository,
	users *repository.UserRepository,
	mailer mail.Mailer,
	logger zerolog.Logger,
) *MaintenanceService {
	return &MaintenanceService{
		tasks:         tasks,
		projects:      projects,
		activities:    activities,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		logger:        logger,
	}
}

func (s *MaintenanceService) Start() error {
	s.cron = cron.New()

	// Due-soon scan every day at 9 AM.
	if _, err := s.cron.AddFunc("0 9 * * *", func() {
		count, err := s.RunDueSoonScan(context.Background())
		if err != nil {
			s.logger.Error().Err(err).Msg("due-soon scan failed")
			return
		}
		s.logger.Info().Int("tasks", count).Msg("due-soon scan finished")
	}); err != nil {
		return err
	}

	// Progress recompute every hour.
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		count, err := s.RunProgressRecompute(context.Background())
		if err != nil {
			s.logger.Error().Err(err).Msg("progress recompute failed")
			return
		}
		s.logger.Info().Int("projects", count).Msg("progress recompute finished")
	}); err != nil {
		return err
	}

	// Activity prune every Sunday at 2 AM.
	if _, err := s.cron.AddFunc("0 2 * * 0", func() {
		count, err := s.RunActivityPrune(context.Background())
		if err != nil {
			s.logger.Error().Err(err).Msg("activity prune failed")
			return
		}
		s.logger.Info().Int64("activities", count).Msg("activity prune finished")
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Msg("maintenance jobs scheduled")
	return nil
}

func (s *MaintenanceService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// RunDueSoonScan notifies the assignee of every unfinished task falling due
// tomorrow, and mails a reminder when the assignee opted into email. A mail
// failure is logged but does not stop the scan.
func (s *MaintenanceService) RunDueSoonScan(ctx context.Context) (int, error) {
	now := time.Now()
	tomorrow := midnight(now.AddDate(0, 0, 1))
	dayAfter := midnight(now.AddDate(0, 0, 2))

	dueTasks, err := s.tasks.ListDueSoon(ctx, tomorrow, dayAfter)
	if err != nil {
		return 0, err
	}

	notified := 0
	for i := range dueTasks {
		task := &dueTasks[i]
		if task.AssigneeID == nil {
			continue
		}

		if err := s.notifications.Create(ctx, &model.Notification{
			RecipientID: *task.AssigneeID,
			Type:        constants.NotificationDeadline,
			Title:       "Task Due Tomorrow",
			Message:     "Task \"" + task.Title + "\" is due tomorrow",
			Link:        "/tasks/" + task.ID,
			ProjectID:   &task.ProjectID,
			TaskID:      &task.ID,
		}); err != nil {
			return notified, err
		}
		notified++

		assignee, err := s.users.FindByID(ctx, *task.AssigneeID)
		if err != nil {
			s.logger.Warn().Err(err).Str("task", task.ID).Msg("assignee lookup failed")
			continue
		}
		if assignee.EmailNotifications {
			if err := s.mailer.SendDueDateReminder(ctx, assignee, task); err != nil {
				s.logger.Warn().Err(err).Str("task", task.ID).Msg("reminder mail failed")
			}
		}
	}

	return notified, nil
}

// RunProgressRecompute refreshes the derived progress of every active
// project: completed over total, as a rounded percentage, 0 for empty
// projects.
func (s *MaintenanceService) RunProgressRecompute(ctx context.Context) (int, error) {
	projects, err := s.projects.ListByStatus(ctx, constants.ProjectActive)
	if err != nil {
		return 0, err
	}

	for _, project := range projects {
		total, done, err := s.tasks.CountByProject(ctx, project.ID)
		if err != nil {
			return 0, err
		}

		progress := 0
		if total > 0 {
			progress = int(math.Round(float64(done) / float64(total) * 100))
		}

		if err := s.projects.UpdateProgress(ctx, project.ID, progress); err != nil {
			return 0, err
		}
	}

	return len(projects), nil
}

// RunActivityPrune deletes activity records older than the 90-day retention
// window. No archival step.
func (s *MaintenanceService) RunActivityPrune(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-activityRetention)
	return s.activities.DeleteOlderThan(ctx, cutoff)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
