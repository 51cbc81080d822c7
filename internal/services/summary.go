// Package services holds the reporting queries that sit between handlers
// and the models.
package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tracktime/internal/models"
)

// ProjectTotal is one row of the summary report.
type ProjectTotal struct {
	ProjectID uint
	Name      string
	Total     decimal.Decimal
}

// SummaryService computes per-project total hours for one owner.
type SummaryService struct{ DB *gorm.DB }

func NewSummaryService(db *gorm.DB) *SummaryService { return &SummaryService{DB: db} }

// ProjectTotals returns every project owned by ownerID with the exact sum
// of hours over its tasks' time entries, ordered by total descending
// (ties keep ascending project id). Projects without qualifying entries
// appear with a zero total. Either date bound may be nil; a present bound
// filters inclusively on its side.
//
// Sums are accumulated in Go over decimal values rather than in SQL so the
// result stays exact on every driver.
func (s *SummaryService) ProjectTotals(ownerID uint, start, end *time.Time) ([]ProjectTotal, error) {
	var projects []models.Project
	if err := s.DB.Where("owner_id = ?", ownerID).Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}

	totals := make(map[uint]decimal.Decimal, len(projects))
	for _, p := range projects {
		totals[p.ID] = decimal.Zero
	}

	q := s.DB.Model(&models.TimeEntry{}).
		Select("tasks.project_id AS project_id, time_entries.hours AS hours").
		Joins("JOIN tasks ON tasks.id = time_entries.task_id").
		Joins("JOIN projects ON projects.id = tasks.project_id").
		Where("projects.owner_id = ?", ownerID)
	if start != nil {
		q = q.Where("time_entries.date >= ?", *start)
	}
	if end != nil {
		q = q.Where("time_entries.date <= ?", *end)
	}

	var rows []struct {
		ProjectID uint
		Hours     decimal.Decimal
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ProjectID] = totals[row.ProjectID].Add(row.Hours)
	}

	out := make([]ProjectTotal, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectTotal{ProjectID: p.ID, Name: p.Name, Total: totals[p.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out, nil
}

// TaskTotal sums the hours of one task's entries exactly.
func TaskTotal(entries []models.TimeEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}
