package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskflow.com/taskflow/internal/constants"
	"taskflow.com/taskflow/internal/events"
	model "taskflow.com/taskflow/internal/models"
	"taskflow.com/taskflow/internal/realtime"
	repository "taskflow.com/taskflow/internal/repositories"
	"taskflow.com/taskflow/internal/services"
)

type testApp struct {
	e     *echo.Echo
	db    *gorm.DB
	auth  *services.AuthService
	tasks *repository.TaskRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{}, &model.Project{}, &model.ProjectMember{},
		&model.Task{}, &model.Comment{}, &model.Activity{}, &model.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	taskRepo := repository.NewTaskRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)

	bus := events.NewBus()
	bus.Subscribe(services.NewActivityRecorder(activityRepo))
	bus.Subscribe(services.NewNotificationDispatcher(notificationRepo))

	auth := services.NewAuthService(userRepo, []byte("test-secret"), time.Hour)
	hub := realtime.NewHub(zerolog.Nop(), func(ctx context.Context, userID, projectID string) (bool, error) {
		return projectRepo.HasAccess(ctx, projectID, userID)
	})
	bus.Subscribe(realtime.NewSink(hub))

	handler := NewHandler(
		auth,
		services.NewTaskService(taskRepo, projectRepo, bus),
		services.NewProjectService(projectRepo, userRepo, bus),
		services.NewActivityService(activityRepo, projectRepo),
		services.NewNotificationService(notificationRepo),
		services.NewReportService(taskRepo, projectRepo, activityRepo),
	)

	e := echo.New()
	Register(e, handler, hub, auth, 1000, "http://localhost")

	return &testApp{e: e, db: db, auth: auth, tasks: taskRepo}
}

func (a *testApp) registerUser(t *testing.T, name string) (*model.User, string) {
	t.Helper()

	user, token, err := a.auth.Register(context.Background(), name, name+"@example.com", "supersecret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user, token
}

func (a *testApp) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestReorderEndpoint_RequiresTaskID(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "alice")

	rec := app.request(t, http.MethodPut, "/api/tasks/reorder", token, `{"newPosition":1}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("expected success:false in error envelope")
	}
	if body["error"] != "task id is required" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestReorderEndpoint_RejectsMissingToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.request(t, http.MethodPut, "/api/tasks/reorder", "", `{"taskId":"t1"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestReorderEndpoint_MovesTask(t *testing.T) {
	app := newTestApp(t)
	user, token := app.registerUser(t, "alice")

	// Seed a project and two tasks through the API.
	rec := app.request(t, http.MethodPost, "/api/projects", token,
		`{"name":"Board","description":"d"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("project create failed: %d %s", rec.Code, rec.Body.String())
	}
	projectID := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = app.request(t, http.MethodPost, "/api/tasks", token,
		`{"projectId":"`+projectID+`","title":"T"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("task create failed: %d %s", rec.Code, rec.Body.String())
	}
	taskID := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = app.request(t, http.MethodPut, "/api/tasks/reorder", token,
		`{"taskId":"`+taskID+`","newStatus":"in-progress","newPosition":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	task, err := app.tasks.FindByID(context.Background(), taskID)
	if err != nil {
		t.Fatalf("find task failed: %v", err)
	}
	if task.Status != constants.StatusInProgress || task.Position != 0 {
		t.Errorf("expected in-progress/0, got %s/%d", task.Status, task.Position)
	}
	if task.AssignedByID != user.ID {
		t.Errorf("expected assignedBy %s, got %s", user.ID, task.AssignedByID)
	}
}

func TestReorderEndpoint_UnknownTask(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "alice")

	rec := app.request(t, http.MethodPut, "/api/tasks/reorder", token,
		`{"taskId":"missing","newPosition":0}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "task not found" {
		t.Errorf("unexpected error message: %v", body["error"])
	}
}

func TestNotificationEndpoints_ScopeAndEnvelope(t *testing.T) {
	app := newTestApp(t)
	alice, aliceToken := app.registerUser(t, "alice")
	_, bobToken := app.registerUser(t, "bob")

	// Bob creates a project and assigns a task to Alice, producing one
	// notification for her.
	rec := app.request(t, http.MethodPost, "/api/projects", bobToken,
		`{"name":"Board","description":"d"}`)
	projectID := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = app.request(t, http.MethodPost, "/api/tasks", bobToken,
		`{"projectId":"`+projectID+`","title":"T","assigneeId":"`+alice.ID+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("task create failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request(t, http.MethodGet, "/api/notifications", aliceToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["unreadCount"] != float64(1) {
		t.Errorf("expected unreadCount 1, got %v", body["unreadCount"])
	}

	// Bob clearing his notifications must not touch Alice's.
	rec = app.request(t, http.MethodDelete, "/api/notifications", bobToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = app.request(t, http.MethodGet, "/api/notifications", aliceToken, "")
	body = decodeBody(t, rec)
	if body["count"] != float64(1) {
		t.Errorf("expected alice to keep 1 notification, got %v", body["count"])
	}
}

func TestDashboardEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, token := app.registerUser(t, "alice")

	rec := app.request(t, http.MethodPost, "/api/projects", token,
		`{"name":"Board","description":"d"}`)
	projectID := decodeBody(t, rec)["data"].(map[string]interface{})["id"].(string)

	app.request(t, http.MethodPost, "/api/tasks", token,
		`{"projectId":"`+projectID+`","title":"T1"}`)
	app.request(t, http.MethodPost, "/api/tasks", token,
		`{"projectId":"`+projectID+`","title":"T2"}`)

	rec = app.request(t, http.MethodGet, "/api/reports/dashboard", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	taskStats := data["taskStats"].(map[string]interface{})
	if taskStats["total"] != float64(2) {
		t.Errorf("expected 2 tasks in stats, got %v", taskStats["total"])
	}
	projectStats := data["projectStats"].(map[string]interface{})
	if projectStats["total"] != float64(1) {
		t.Errorf("expected 1 project in stats, got %v", projectStats["total"])
	}
}
