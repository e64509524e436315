package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"taskflow.com/taskflow/internal/constants"
	model "taskflow.com/taskflow/internal/models"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendDueDateReminder(_ context.Context, user *model.User, _ *model.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, user.Email)
	return nil
}

func newMaintenance(f *fixture, mailer *recordingMailer) *MaintenanceService {
	return NewMaintenanceService(
		f.tasks, f.projects, f.activities, f.notifications, f.users,
		mailer, zerolog.Nop(),
	)
}

func TestDueSoonScan_NotifiesAssigneesOfTomorrowsTasks(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	assignee := f.createUser(t, "assignee")
	project := f.createProject(t, owner)

	ctx := context.Background()

	dueTomorrow := f.createTask(t, project, owner, constants.StatusReview, 0)
	if err := f.db.Model(&model.Task{}).Where("id = ?", dueTomorrow.ID).
		Updates(map[string]interface{}{"assignee_id": assignee.ID, "due_date": daysFromNow(1)}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	dueLater := f.createTask(t, project, owner, constants.StatusTodo, 1)
	if err := f.db.Model(&model.Task{}).Where("id = ?", dueLater.ID).
		Updates(map[string]interface{}{"assignee_id": assignee.ID, "due_date": daysFromNow(3)}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// A done task due tomorrow must not alert.
	doneTask := f.createTask(t, project, owner, constants.StatusDone, 0)
	if err := f.db.Model(&model.Task{}).Where("id = ?", doneTask.ID).
		Updates(map[string]interface{}{"assignee_id": assignee.ID, "due_date": daysFromNow(1)}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	mailer := &recordingMailer{}
	svc := newMaintenance(f, mailer)

	count, err := svc.RunDueSoonScan(ctx)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 notified task, got %d", count)
	}

	list, _ := f.notifications.ListByRecipient(ctx, assignee.ID, 10)
	if len(list) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(list))
	}
	if list[0].Type != constants.NotificationDeadline {
		t.Errorf("expected type %s, got %s", constants.NotificationDeadline, list[0].Type)
	}

	// The assignee never opted into email.
	if len(mailer.sent) != 0 {
		t.Errorf("expected no reminder mail, got %d", len(mailer.sent))
	}
}

func TestDueSoonScan_MailsOptedInAssignees(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	assignee := f.createUser(t, "assignee")
	project := f.createProject(t, owner)

	if err := f.db.Model(&model.User{}).Where("id = ?", assignee.ID).
		Update("email_notifications", true).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	task := f.createTask(t, project, owner, constants.StatusInProgress, 0)
	if err := f.db.Model(&model.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{"assignee_id": assignee.ID, "due_date": daysFromNow(1)}).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	mailer := &recordingMailer{}
	svc := newMaintenance(f, mailer)

	if _, err := svc.RunDueSoonScan(context.Background()); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	if len(mailer.sent) != 1 || mailer.sent[0] != assignee.Email {
		t.Errorf("expected one reminder mail to %s, got %v", assignee.Email, mailer.sent)
	}
}

func TestProgressRecompute(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	project := f.createProject(t, owner)
	empty := f.createProject(t, owner)

	for i := 0; i < 3; i++ {
		f.createTask(t, project, owner, constants.StatusDone, i)
	}
	f.createTask(t, project, owner, constants.StatusTodo, 0)

	svc := newMaintenance(f, &recordingMailer{})

	count, err := svc.RunProgressRecompute(context.Background())
	if err != nil {
		t.Fatalf("recompute failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 projects recomputed, got %d", count)
	}

	updated, _ := f.projects.FindByID(context.Background(), project.ID)
	if updated.Progress != 75 {
		t.Errorf("expected progress 75, got %d", updated.Progress)
	}

	emptyUpdated, _ := f.projects.FindByID(context.Background(), empty.ID)
	if emptyUpdated.Progress != 0 {
		t.Errorf("expected progress 0 for empty project, got %d", emptyUpdated.Progress)
	}
}

func TestActivityPrune_RemovesOnlyAgedRecords(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t, "owner")
	project := f.createProject(t, owner)

	old := &model.Activity{
		ID:          "old",
		Type:        constants.ActivityTaskCreated,
		Description: "old entry",
		UserID:      owner.ID,
		ProjectID:   &project.ID,
		CreatedAt:   time.Now().AddDate(0, 0, -91),
	}
	if err := f.db.Create(old).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	recent := &model.Activity{
		ID:          "recent",
		Type:        constants.ActivityTaskCreated,
		Description: "recent entry",
		UserID:      owner.ID,
		ProjectID:   &project.ID,
		CreatedAt:   time.Now().AddDate(0, 0, -30),
	}
	if err := f.db.Create(recent).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	svc := newMaintenance(f, &recordingMailer{})

	deleted, err := svc.RunActivityPrune(context.Background())
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned activity, got %d", deleted)
	}

	remaining, _ := f.activities.ListByProject(context.Background(), project.ID, 50)
	if len(remaining) != 1 || remaining[0].ID != "recent" {
		t.Errorf("expected only the recent activity to survive, got %v", remaining)
	}
}

func TestMaintenanceJobs_FailuresAreIsolated(t *testing.T) {
	f := newFixture(t)

	// Drop the activities table so the prune job fails, then check the
	// progress job still runs.
	if err := f.db.Migrator().DropTable(&model.Activity{}); err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	svc := newMaintenance(f, &recordingMailer{})
	ctx := context.Background()

	if _, err := svc.RunActivityPrune(ctx); err == nil {
		t.Error("expected prune to fail without its table")
	}

	if _, err := svc.RunProgressRecompute(ctx); err != nil {
		t.Errorf("progress recompute should be unaffected: %v", err)
	}
}
