package realtime

import (
	"context"

	"taskflow.com/taskflow/internal/events"
)

// Sink subscribes the hub to the domain event bus. Broadcast is best-effort,
// so the sink never fails the publishing mutation.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) HandleEvent(_ context.Context, e events.Event) error {
	room := ""
	if id := e.ProjectID(); id != "" {
		room = RoomKey(id)
	}

	msg := Message{Event: e.Name(), Room: room}

	switch ev := e.(type) {
	case events.TaskCreated:
		msg.Payload = map[string]interface{}{"task": ev.Task, "user": ev.Actor}
	case events.TaskUpdated:
		msg.Payload = map[string]interface{}{"task": ev.Task, "user": ev.Actor}
	case events.TaskDeleted:
		msg.Payload = map[string]interface{}{"taskId": ev.TaskID, "projectId": ev.Project, "user": ev.Actor}
	case events.TasksReordered:
		msg.Payload = map[string]interface{}{
			"projectId":   ev.Task.ProjectID,
			"taskId":      ev.Task.ID,
			"newPosition": ev.NewPosition,
			"newStatus":   ev.NewStatus,
		}
	case events.CommentAdded:
		msg.Payload = map[string]interface{}{"task": ev.Task, "comment": ev.Comment, "user": ev.Actor}
	case events.ProjectCreated:
		msg.Payload = map[string]interface{}{"project": ev.Project, "user": ev.Actor}
	case events.ProjectUpdated:
		msg.Payload = map[string]interface{}{"project": ev.Project, "user": ev.Actor}
	case events.ProjectDeleted:
		msg.Payload = map[string]interface{}{"projectId": ev.Project.ID, "user": ev.Actor}
	case events.MemberAdded:
		msg.Payload = map[string]interface{}{"project": ev.Project, "user": ev.Actor}
	case events.MemberRemoved:
		msg.Payload = map[string]interface{}{"project": ev.Project, "user": ev.Actor}
	default:
		return nil
	}

	s.hub.Broadcast(msg)
	return nil
}
