package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tracktime/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

func mustUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return user.ID
}

func mustProject(t *testing.T, db *gorm.DB, ownerID uint, name string) uint {
	t.Helper()
	project := models.Project{Name: name, OwnerID: ownerID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("project: %v", err)
	}
	return project.ID
}

func mustTask(t *testing.T, db *gorm.DB, projectID uint) uint {
	t.Helper()
	task := models.Task{ProjectID: projectID, Name: "work"}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("task: %v", err)
	}
	return task.ID
}

func mustEntry(t *testing.T, db *gorm.DB, taskID, userID uint, hours, date string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("date: %v", err)
	}
	entry := models.TimeEntry{
		TaskID: taskID,
		UserID: userID,
		Hours:  decimal.RequireFromString(hours),
		Date:   d,
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("entry: %v", err)
	}
}

func TestProjectTotalsExactSums(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "alice")
	projectID := mustProject(t, db, owner, "Website")
	taskID := mustTask(t, db, projectID)
	mustEntry(t, db, taskID, owner, "1.50", "2024-03-01")
	mustEntry(t, db, taskID, owner, "2.25", "2024-03-02")

	svc := NewSummaryService(db)
	totals, err := svc.ProjectTotals(owner, nil, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 {
		t.Fatalf("expected 1 row, got %d", len(totals))
	}
	if got := totals[0].Total.StringFixed(2); got != "3.75" {
		t.Fatalf("expected 3.75, got %s", got)
	}
}

func TestProjectTotalsIncludesEmptyProjects(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "alice")
	busyID := mustProject(t, db, owner, "Busy")
	mustProject(t, db, owner, "Idle")
	taskID := mustTask(t, db, busyID)
	mustEntry(t, db, taskID, owner, "4.00", "2024-03-01")

	svc := NewSummaryService(db)
	totals, err := svc.ProjectTotals(owner, nil, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(totals))
	}
	// Ordered by total descending, so the idle project comes last with zero.
	if totals[0].Name != "Busy" || totals[0].Total.StringFixed(2) != "4.00" {
		t.Fatalf("unexpected first row: %s %s", totals[0].Name, totals[0].Total)
	}
	if totals[1].Name != "Idle" || !totals[1].Total.IsZero() {
		t.Fatalf("unexpected last row: %s %s", totals[1].Name, totals[1].Total)
	}
}

func TestProjectTotalsOrderDescending(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "alice")
	smallID := mustProject(t, db, owner, "Small")
	bigID := mustProject(t, db, owner, "Big")
	mustEntry(t, db, mustTask(t, db, smallID), owner, "1.00", "2024-03-01")
	mustEntry(t, db, mustTask(t, db, bigID), owner, "8.00", "2024-03-01")

	svc := NewSummaryService(db)
	totals, err := svc.ProjectTotals(owner, nil, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals[0].Name != "Big" || totals[1].Name != "Small" {
		t.Fatalf("unexpected order: %s, %s", totals[0].Name, totals[1].Name)
	}
}

func TestProjectTotalsDateFilters(t *testing.T) {
	db := setupTestDB(t)
	owner := mustUser(t, db, "alice")
	projectID := mustProject(t, db, owner, "Website")
	taskID := mustTask(t, db, projectID)
	mustEntry(t, db, taskID, owner, "1.00", "2024-03-01")
	mustEntry(t, db, taskID, owner, "2.00", "2024-03-10")
	mustEntry(t, db, taskID, owner, "4.00", "2024-03-20")

	svc := NewSummaryService(db)
	day := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("date: %v", err)
		}
		return &d
	}

	cases := []struct {
		name       string
		start, end *time.Time
		want       string
	}{
		{"both bounds", day("2024-03-05"), day("2024-03-15"), "2.00"},
		{"start only", day("2024-03-10"), nil, "6.00"},
		{"end only", nil, day("2024-03-10"), "3.00"},
		{"inclusive bounds", day("2024-03-01"), day("2024-03-20"), "7.00"},
		{"empty range", day("2024-04-01"), nil, "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals, err := svc.ProjectTotals(owner, tc.start, tc.end)
			if err != nil {
				t.Fatalf("totals: %v", err)
			}
			if got := totals[0].Total.StringFixed(2); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestProjectTotalsScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := mustUser(t, db, "alice")
	bob := mustUser(t, db, "bob")
	aliceProject := mustProject(t, db, alice, "Alice's")
	bobProject := mustProject(t, db, bob, "Bob's")
	mustEntry(t, db, mustTask(t, db, aliceProject), alice, "1.00", "2024-03-01")
	mustEntry(t, db, mustTask(t, db, bobProject), bob, "9.00", "2024-03-01")

	svc := NewSummaryService(db)
	totals, err := svc.ProjectTotals(alice, nil, nil)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 || totals[0].Name != "Alice's" {
		t.Fatalf("expected only alice's project, got %+v", totals)
	}
	if got := totals[0].Total.StringFixed(2); got != "1.00" {
		t.Fatalf("expected 1.00, got %s", got)
	}
}

func TestTaskTotal(t *testing.T) {
	entries := []models.TimeEntry{
		{Hours: decimal.RequireFromString("1.50")},
		{Hours: decimal.RequireFromString("0.17")},
		{Hours: decimal.RequireFromString("2.25")},
	}
	if got := TaskTotal(entries).StringFixed(2); got != "3.92" {
		t.Fatalf("expected 3.92, got %s", got)
	}
	if !TaskTotal(nil).IsZero() {
		t.Fatalf("empty total should be zero")
	}
}
