package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	repository "taskflow.com/taskflow/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Comment{},
		&model.Activity{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

type fixture struct {
	db            *gorm.DB
	tasks         *repository.TaskRepository
	projects      *repository.ProjectRepository
	activities    *repository.ActivityRepository
	notifications *repository.NotificationRepository
	users         *repository.UserRepository
	bus           *events.Bus
	taskService   *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	f := &fixture{
		db:            db,
		tasks:         repository.NewTaskRepository(db),
		projects:      repository.NewProjectRepository(db),
		activities:    repository.NewActivityRepository(db),
		notifications: repository.NewNotificationRepository(db),
		users:         repository.NewUserRepository(db),
		bus:           events.NewBus(),
	}

	f.bus.Subscribe(NewActivityRecorder(f.activities))
	f.bus.Subscribe(NewNotificationDispatcher(f.notifications))

	f.taskService = NewTaskService(f.tasks, f.projects, f.bus)
	return f
}

func (f *fixture) createUser(t *testing.T, name string) *model.User {
	t.Helper()

	user := &model.User{Name: name, Email: name + "@example.com", Password: "x"}
	if err := f.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (f *fixture) createProject(t *testing.T, owner *model.User) *model.Project {
	t.Helper()

	project := &model.Project{
		Name:        "Test Project",
		Description: "Test Description",
		Status:      constants.ProjectActive,
		Priority:    constants.PriorityMedium,
		OwnerID:     owner.ID,
	}
	if err := f.projects.Create(context.Background(), project); err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	return project
}

func (f *fixture) createTask(t *testing.T, project *model.Project, owner *model.User, status constants.TaskStatus, position int) *model.Task {
	t.Helper()

	task := &model.Task{
		ProjectID:    project.ID,
		Title:        "Task " + uuid.NewString()[:8],
		Status:       status,
		Position:     position,
		Priority:     constants.PriorityMedium,
		AssignedByID: owner.ID,
	}
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func (f *fixture) bucketPositions(t *testing.T, projectID string, status constants.TaskStatus) map[string]int {
	t.Helper()

	var tasks []model.Task
	err := f.db.Where("project_id = ? AND status = ?", projectID, status).
		Order("position asc").Find(&tasks).Error
	if err != nil {
		t.Fatalf("failed to list bucket: %v", err)
	}

	positions := make(map[string]int, len(tasks))
	for _, task := range tasks {
		positions[task.ID] = task.Position
	}
	return positions
}

func daysFromNow(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}
