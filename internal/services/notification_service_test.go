package services

import (
	"context"
	"errors"
	"testing"

	"taskflow.com/taskflow/internal/constants"
	apperrors "taskflow.com/taskflow/internal/errors"
	model "taskflow.com/taskflow/internal/models"
)

func seedNotification(t *testing.T, f *fixture, recipientID string) *model.Notification {
	t.Helper()

	n := &model.Notification{
		RecipientID: recipientID,
		Type:        constants.NotificationTaskAssigned,
		Title:       "Test",
		Message:     "Test message",
	}
	if err := f.notifications.Create(context.Background(), n); err != nil {
		t.Fatalf("failed to create notification: %v", err)
	}
	return n
}

func TestMarkRead_Idempotent(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "reader")
	n := seedNotification(t, f, user.ID)

	svc := NewNotificationService(f.notifications)
	ctx := context.Background()

	first, err := svc.MarkRead(ctx, n.ID, user.ID)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !first.IsRead {
		t.Error("expected notification to be read")
	}

	second, err := svc.MarkRead(ctx, n.ID, user.ID)
	if err != nil {
		t.Fatalf("second mark read failed: %v", err)
	}
	if !second.IsRead {
		t.Error("expected notification to stay read")
	}
}

func TestMarkRead_ScopedToRecipient(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	n := seedNotification(t, f, alice.ID)

	svc := NewNotificationService(f.notifications)

	_, err := svc.MarkRead(context.Background(), n.ID, bob.ID)
	if !errors.Is(err, apperrors.ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound for foreign recipient, got %v", err)
	}
}

func TestList_ReturnsUnreadCount(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "reader")

	seedNotification(t, f, user.ID)
	seedNotification(t, f, user.ID)
	read := seedNotification(t, f, user.ID)

	svc := NewNotificationService(f.notifications)
	ctx := context.Background()

	if _, err := svc.MarkRead(ctx, read.ID, user.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	list, err := svc.List(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Items) != 3 {
		t.Errorf("expected 3 notifications, got %d", len(list.Items))
	}
	if list.UnreadCount != 2 {
		t.Errorf("expected unread count 2, got %d", list.UnreadCount)
	}
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t, "reader")
	seedNotification(t, f, user.ID)
	seedNotification(t, f, user.ID)

	svc := NewNotificationService(f.notifications)
	ctx := context.Background()

	if err := svc.MarkAllRead(ctx, user.ID); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}

	list, _ := svc.List(ctx, user.ID, 0)
	if list.UnreadCount != 0 {
		t.Errorf("expected unread count 0, got %d", list.UnreadCount)
	}
}

func TestDeleteAll_ScopedToRecipient(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	seedNotification(t, f, alice.ID)
	seedNotification(t, f, alice.ID)
	seedNotification(t, f, bob.ID)

	svc := NewNotificationService(f.notifications)
	ctx := context.Background()

	if err := svc.DeleteAll(ctx, alice.ID); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}

	aliceList, _ := svc.List(ctx, alice.ID, 0)
	if len(aliceList.Items) != 0 {
		t.Errorf("expected alice's notifications cleared, got %d", len(aliceList.Items))
	}

	bobList, _ := svc.List(ctx, bob.ID, 0)
	if len(bobList.Items) != 1 {
		t.Errorf("expected bob's notification untouched, got %d", len(bobList.Items))
	}
}

func TestDeleteOne_ScopedToRecipient(t *testing.T) {
	f := newFixture(t)
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	n := seedNotification(t, f, alice.ID)

	svc := NewNotificationService(f.notifications)
	ctx := context.Background()

	if err := svc.Delete(ctx, n.ID, bob.ID); !errors.Is(err, apperrors.ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound for foreign recipient, got %v", err)
	}

	if err := svc.Delete(ctx, n.ID, alice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
}
