// Package scope restricts every query to records transitively owned by one
// user. Handlers construct a Scope from the authenticated user id and go
// through it for all reads and writes, so an out-of-scope id is
// indistinguishable from a missing one.
package scope

import (
	"errors"

	"gorm.io/gorm"

	"tracktime/internal/models"
)

// ErrNotFound covers both a missing record and a record owned by someone
// else.
var ErrNotFound = errors.New("record not found")

// Scope is the explicit ownership context threaded through queries.
type Scope struct {
	db     *gorm.DB
	UserID uint
}

func For(db *gorm.DB, userID uint) Scope {
	return Scope{db: db, UserID: userID}
}

// DB exposes the underlying handle for writes that have already been
// scoped (creates under a verified parent).
func (s Scope) DB() *gorm.DB { return s.db }

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Projects returns all projects owned by the user.
func (s Scope) Projects() ([]models.Project, error) {
	var projects []models.Project
	err := s.db.Where("owner_id = ?", s.UserID).Order("id").Find(&projects).Error
	return projects, err
}

// Project fetches one owned project by id.
func (s Scope) Project(id uint) (*models.Project, error) {
	var project models.Project
	err := s.db.Where("id = ? AND owner_id = ?", id, s.UserID).First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// tasks joined through their project's owner.
func (s Scope) taskQuery() *gorm.DB {
	return s.db.Model(&models.Task{}).
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.owner_id = ?", s.UserID)
}

// Tasks lists the tasks of one owned project.
func (s Scope) Tasks(projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.taskQuery().Where("tasks.project_id = ?", projectID).Order("tasks.id").Find(&tasks).Error
	return tasks, err
}

// Task fetches one task whose project the user owns.
func (s Scope) Task(id uint) (*models.Task, error) {
	var task models.Task
	err := s.taskQuery().Where("tasks.id = ?", id).First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// entries joined through task -> project -> owner.
func (s Scope) entryQuery() *gorm.DB {
	return s.db.Model(&models.TimeEntry{}).
		Joins("JOIN tasks ON tasks.id = time_entries.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.owner_id = ?", s.UserID)
}

// TimeEntries lists the entries of one owned task.
func (s Scope) TimeEntries(taskID uint) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := s.entryQuery().Where("time_entries.task_id = ?", taskID).Order("time_entries.id").Find(&entries).Error
	return entries, err
}

// TimeEntry fetches one entry whose task's project the user owns.
func (s Scope) TimeEntry(id uint) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := s.entryQuery().Where("time_entries.id = ?", id).First(&entry).Error
	if err != nil {
		return nil, translate(err)
	}
	return &entry, nil
}

// DeleteProject removes an owned project and, in the same transaction, its
// tasks and their time entries.
func (s Scope) DeleteProject(id uint) error {
	project, err := s.Project(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id IN (?)",
			tx.Model(&models.Task{}).Select("id").Where("project_id = ?", project.ID),
		).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, project.ID).Error
	})
}

// DeleteTask removes an owned task and its time entries in one transaction.
func (s Scope) DeleteTask(id uint) error {
	task, err := s.Task(id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TimeEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, task.ID).Error
	})
}

// DeleteTimeEntry removes one owned entry.
func (s Scope) DeleteTimeEntry(id uint) error {
	entry, err := s.TimeEntry(id)
	if err != nil {
		return err
	}
	return s.db.Delete(&models.TimeEntry{}, entry.ID).Error
}
