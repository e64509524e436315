package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (f *fakeConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([]byte, len(p))
	copy(buf, p)
	f.frames = append(f.frames, buf)
	return nil
}

func (f *fakeConn) Close(websocket.StatusCode, string) error { return nil }

func (f *fakeConn) received() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var msgs []Message
	for _, frame := range f.frames {
		var m Message
		if err := json.Unmarshal(frame, &m); err == nil {
			msgs = append(msgs, m)
		}
	}
	return msgs
}

func allowAll(context.Context, string, string) (bool, error) { return true, nil }

func newTestClient(hub *Hub, userID string) (*Client, *fakeConn) {
	conn := &fakeConn{}
	client := &Client{conn: conn, userID: userID, rooms: make(map[string]struct{})}
	hub.register(client)
	return client, conn
}

func TestHub_RoomScopedBroadcast(t *testing.T) {
	hub := NewHub(zerolog.Nop(), allowAll)
	ctx := context.Background()

	member, memberConn := newTestClient(hub, "u1")
	outsider, outsiderConn := newTestClient(hub, "u2")
	_ = outsider

	if err := hub.Join(ctx, member, "p1"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	hub.Broadcast(Message{Event: "task-created", Room: RoomKey("p1"), Payload: map[string]string{"id": "t1"}})

	if got := len(memberConn.received()); got != 1 {
		t.Errorf("expected member to receive 1 message, got %d", got)
	}
	if got := len(outsiderConn.received()); got != 0 {
		t.Errorf("expected outsider to receive 0 messages, got %d", got)
	}
}

func TestHub_GlobalBroadcastReachesEveryone(t *testing.T) {
	hub := NewHub(zerolog.Nop(), allowAll)

	_, conn1 := newTestClient(hub, "u1")
	_, conn2 := newTestClient(hub, "u2")

	hub.Broadcast(Message{Event: "project-created", Payload: map[string]string{"id": "p1"}})

	if len(conn1.received()) != 1 || len(conn2.received()) != 1 {
		t.Error("expected every connected client to receive a global broadcast")
	}
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub(zerolog.Nop(), allowAll)
	ctx := context.Background()

	client, conn := newTestClient(hub, "u1")
	if err := hub.Join(ctx, client, "p1"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	hub.Leave(client, "p1")

	hub.Broadcast(Message{Event: "task-updated", Room: RoomKey("p1")})

	if got := len(conn.received()); got != 0 {
		t.Errorf("expected no messages after leave, got %d", got)
	}
	if hub.roomSize(RoomKey("p1")) != 0 {
		t.Error("expected empty room to be dropped")
	}
}

func TestHub_JoinRequiresAuthorization(t *testing.T) {
	deny := func(context.Context, string, string) (bool, error) { return false, nil }
	hub := NewHub(zerolog.Nop(), deny)
	ctx := context.Background()

	client, conn := newTestClient(hub, "u1")
	if err := hub.Join(ctx, client, "p1"); err != nil {
		t.Fatalf("join returned error: %v", err)
	}

	if hub.roomSize(RoomKey("p1")) != 0 {
		t.Error("unauthorized client must not enter the room")
	}

	hub.Broadcast(Message{Event: "task-created", Room: RoomKey("p1")})
	if len(conn.received()) != 0 {
		t.Error("unauthorized client must not receive room events")
	}
}

func TestHub_UnregisterCleansRooms(t *testing.T) {
	hub := NewHub(zerolog.Nop(), allowAll)
	ctx := context.Background()

	client, _ := newTestClient(hub, "u1")
	if err := hub.Join(ctx, client, "p1"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	hub.unregister(client)

	if hub.roomSize(RoomKey("p1")) != 0 {
		t.Error("expected disconnect to remove client from its rooms")
	}
}

func TestSink_MapsDomainEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop(), allowAll)
	ctx := context.Background()

	client, conn := newTestClient(hub, "u1")
	if err := hub.Join(ctx, client, "p1"); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	sink := NewSink(hub)
	actor := &model.User{ID: "u2", Name: "Actor"}
	task := &model.Task{ID: "t1", ProjectID: "p1", Status: constants.StatusInProgress, Position: 0}

	err := sink.HandleEvent(ctx, events.TasksReordered{
		Task:        task,
		NewStatus:   string(task.Status),
		NewPosition: task.Position,
	})
	if err != nil {
		t.Fatalf("sink failed: %v", err)
	}

	if err := sink.HandleEvent(ctx, events.TaskDeleted{TaskID: "t1", Project: "p1", Actor: actor}); err != nil {
		t.Fatalf("sink failed: %v", err)
	}

	msgs := conn.received()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Event != "tasks-reordered" {
		t.Errorf("expected tasks-reordered, got %s", msgs[0].Event)
	}
	if msgs[1].Event != "task-deleted" {
		t.Errorf("expected task-deleted, got %s", msgs[1].Event)
	}

	payload, ok := msgs[0].Payload.(map[string]interface{})
	if !ok {
		t.Fatal("expected object payload")
	}
	if payload["taskId"] != "t1" || payload["projectId"] != "p1" {
		t.Errorf("unexpected reorder payload: %v", payload)
	}
}
