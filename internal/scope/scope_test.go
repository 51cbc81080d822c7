package scope

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

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

// seedUser creates a user with one project, one task, and one time entry,
// returning their ids.
func seedUser(t *testing.T, db *gorm.DB, username string) (userID, projectID, taskID, entryID uint) {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	project := models.Project{Name: username + "'s project", OwnerID: user.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("project: %v", err)
	}
	task := models.Task{ProjectID: project.ID, Name: "task"}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("task: %v", err)
	}
	entry := models.TimeEntry{
		TaskID: task.ID,
		UserID: user.ID,
		Hours:  decimal.RequireFromString("1.50"),
		Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("entry: %v", err)
	}
	return user.ID, project.ID, task.ID, entry.ID
}

func TestProjectOwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	aliceID, aliceProject, aliceTask, aliceEntry := seedUser(t, db, "alice")
	bobID, _, _, _ := seedUser(t, db, "bob")

	alice := For(db, aliceID)
	if _, err := alice.Project(aliceProject); err != nil {
		t.Fatalf("own project: %v", err)
	}

	bob := For(db, bobID)
	if _, err := bob.Project(aliceProject); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign project: want ErrNotFound, got %v", err)
	}
	if _, err := bob.Task(aliceTask); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign task: want ErrNotFound, got %v", err)
	}
	if _, err := bob.TimeEntry(aliceEntry); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign entry: want ErrNotFound, got %v", err)
	}
	if err := bob.DeleteProject(aliceProject); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: want ErrNotFound, got %v", err)
	}
}

func TestMissingIDsReadAsNotFound(t *testing.T) {
	db := setupTestDB(t)
	userID, _, _, _ := seedUser(t, db, "alice")
	s := For(db, userID)

	if _, err := s.Project(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing project: want ErrNotFound, got %v", err)
	}
	if _, err := s.Task(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing task: want ErrNotFound, got %v", err)
	}
	if _, err := s.TimeEntry(9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing entry: want ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	db := setupTestDB(t)
	userID, projectID, taskID, entryID := seedUser(t, db, "alice")
	s := For(db, userID)

	if err := s.DeleteProject(projectID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	var count int64
	db.Model(&models.Task{}).Where("id = ?", taskID).Count(&count)
	if count != 0 {
		t.Fatalf("task survived project delete")
	}
	db.Model(&models.TimeEntry{}).Where("id = ?", entryID).Count(&count)
	if count != 0 {
		t.Fatalf("entry survived project delete")
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	db := setupTestDB(t)
	userID, projectID, taskID, entryID := seedUser(t, db, "alice")
	s := For(db, userID)

	if err := s.DeleteTask(taskID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	var count int64
	db.Model(&models.TimeEntry{}).Where("id = ?", entryID).Count(&count)
	if count != 0 {
		t.Fatalf("entry survived task delete")
	}
	// The parent project stays.
	db.Model(&models.Project{}).Where("id = ?", projectID).Count(&count)
	if count != 1 {
		t.Fatalf("project should survive task delete")
	}
}

func TestTasksScopedToProject(t *testing.T) {
	db := setupTestDB(t)
	userID, projectID, _, _ := seedUser(t, db, "alice")
	s := For(db, userID)

	other := models.Project{Name: "other", OwnerID: userID}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("project: %v", err)
	}

	tasks, err := s.Tasks(projectID)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	tasks, err = s.Tasks(other.ID)
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(tasks))
	}
}
