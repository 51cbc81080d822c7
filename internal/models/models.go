package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account that can authenticate and own projects.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"size:150;uniqueIndex;not null"`
	Email     string `gorm:"index"`
	Password  string `gorm:"not null"` // bcrypt hash
	Profile   Profile
	Projects  []Project `gorm:"foreignKey:OwnerID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile holds optional personal details for a user. Exactly one profile
// exists per user; it is created inside the registration transaction.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	Name      string
	Company   string
	Team      string
	Position  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Token is an opaque bearer credential bound 1:1 to a user. The unique
// index on UserID enforces the at-most-one-token invariant.
type Token struct {
	Key       string `gorm:"primaryKey;size:40"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

type Project struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	Description string
	OwnerID     uint   `gorm:"not null;index"`
	Owner       User   `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Tasks       []Task `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID          uint    `gorm:"primaryKey"`
	ProjectID   uint    `gorm:"not null;index"`
	Project     Project `gorm:"constraint:OnDelete:CASCADE"`
	Name        string  `gorm:"size:100;not null"`
	Description string
	TimeEntries []TimeEntry `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeEntry records hours spent on a task on a given date. UserID is the
// recording user and is always set from the authenticated caller, never
// from client input. Hours carries exactly two fractional digits.
type TimeEntry struct {
	ID        uint            `gorm:"primaryKey"`
	TaskID    uint            `gorm:"not null;index"`
	Task      Task            `gorm:"constraint:OnDelete:CASCADE"`
	UserID    uint            `gorm:"not null;index"`
	User      User            `gorm:"constraint:OnDelete:CASCADE"`
	Hours     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Comment   string
	Date      time.Time `gorm:"type:date;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// All lists every model in migration order.
func All() []any {
	return []any{&User{}, &Profile{}, &Token{}, &Project{}, &Task{}, &TimeEntry{}}
}
