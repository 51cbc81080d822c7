package tui

import (
	"errors"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tracktime/internal/models"
	"tracktime/internal/server"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ts := httptest.NewServer(server.New(db))
	t.Cleanup(ts.Close)
	return NewClient(ts.URL)
}

func TestClientFullFlow(t *testing.T) {
	c := setupClient(t)

	if err := c.Register("alice", "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := c.Login("alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != res.Token || c.Token == "" {
		t.Fatalf("token not stored on client")
	}

	project, err := c.CreateProject("Website", "marketing site")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := c.CreateTask(project.ID, "build", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := c.CreateEntry(task.ID, "1h 30m", "2024-03-01", "layout"); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if _, err := c.CreateEntry(task.ID, "2h 15m", "2024-03-02", ""); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	list, err := c.Entries(task.ID)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if len(list.Entries) != 2 || list.TotalHours != 3.75 {
		t.Fatalf("unexpected entries: %d, total %v", len(list.Entries), list.TotalHours)
	}

	summary, err := c.Summary("", "")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 1 || summary[0].TotalHours != "3.75" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	filtered, err := c.Summary("2024-03-02", "")
	if err != nil {
		t.Fatalf("filtered summary: %v", err)
	}
	if filtered[0].TotalHours != "2.25" {
		t.Fatalf("unexpected filtered summary: %+v", filtered)
	}

	profile, err := c.Profile()
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.UserEmail != "alice@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	updated, err := c.UpdateProfile(Profile{Name: "Alice", Company: "Acme"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Alice" {
		t.Fatalf("profile not updated: %+v", updated)
	}

	if err := c.DeleteProject(project.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	projects, err := c.Projects()
	if err != nil {
		t.Fatalf("projects: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("project survived delete")
	}
}

func TestClientUnauthenticated(t *testing.T) {
	c := setupClient(t)
	c.Token = "deadbeef"
	if _, err := c.Projects(); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
	c.Token = ""
	if _, err := c.Projects(); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("want ErrUnauthenticated, got %v", err)
	}
}

func TestClientFieldErrors(t *testing.T) {
	c := setupClient(t)
	if err := c.Register("alice", "", "pw"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := c.Login("alice", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	project, err := c.CreateProject("Website", "")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	task, err := c.CreateTask(project.ID, "build", "")
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	_, err = c.CreateEntry(task.ID, "1h 90m", "2024-03-01", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != 400 {
		t.Fatalf("unexpected status: %d", apiErr.Status)
	}
	if got := apiErr.Error(); got != "duration: Minutes must be less than 60." {
		t.Fatalf("unexpected message: %q", got)
	}
}
