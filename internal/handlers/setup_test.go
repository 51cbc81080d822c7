package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tracktime/internal/auth"
	"tracktime/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Username: username, Email: username + "@example.com", Password: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	if err := db.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("profile: %v", err)
	}
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, ownerID uint, name string) *models.Project {
	t.Helper()
	project := models.Project{Name: name, OwnerID: ownerID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("project: %v", err)
	}
	return &project
}

func seedTask(t *testing.T, db *gorm.DB, projectID uint, name string) *models.Task {
	t.Helper()
	task := models.Task{ProjectID: projectID, Name: name}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("task: %v", err)
	}
	return &task
}

func seedEntry(t *testing.T, db *gorm.DB, taskID, userID uint, hours, date string) *models.TimeEntry {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	entry := models.TimeEntry{TaskID: taskID, UserID: userID, Hours: decimal.RequireFromString(hours), Date: d}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("entry: %v", err)
	}
	return &entry
}

// authedRequest builds a JSON request with the user id already in context,
// the way the token middleware would leave it.
func authedRequest(t *testing.T, method, target string, body string, userID uint) *http.Request {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func wantStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected %d got %d: %s", want, w.Code, w.Body.String())
	}
}
