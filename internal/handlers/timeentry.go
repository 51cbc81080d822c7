package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"tracktime/internal/duration"
	"tracktime/internal/httpx"
	"tracktime/internal/models"
	"tracktime/internal/services"
	"tracktime/internal/validation"
)

const dateLayout = "2006-01-02"

type TimeEntryHandler struct{ DB *gorm.DB }

func NewTimeEntryHandler(db *gorm.DB) *TimeEntryHandler { return &TimeEntryHandler{DB: db} }

type timeEntryResponse struct {
	ID      uint   `json:"id"`
	Task    uint   `json:"task"`
	User    uint   `json:"user"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
	Hours   string `json:"hours"`
}

func newTimeEntryResponse(e *models.TimeEntry) timeEntryResponse {
	return timeEntryResponse{
		ID:      e.ID,
		Task:    e.TaskID,
		User:    e.UserID,
		Comment: e.Comment,
		Date:    e.Date.Format(dateLayout),
		Hours:   e.Hours.StringFixed(2),
	}
}

type timeEntryRequest struct {
	Duration *string `json:"duration"`
	Comment  *string `json:"comment"`
	Date     *string `json:"date"`
}

type entryListResponse struct {
	Entries    []timeEntryResponse `json:"entries"`
	TotalHours float64             `json:"total_hours"`
}

// List returns a task's entries together with the task total.
func (h *TimeEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	task, err := s.Task(pathID(r, "task_id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	entries, err := s.TimeEntries(task.ID)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}
	out := entryListResponse{Entries: make([]timeEntryResponse, 0, len(entries))}
	for i := range entries {
		out.Entries = append(out.Entries, newTimeEntryResponse(&entries[i]))
	}
	out.TotalHours = services.TaskTotal(entries).InexactFloat64()
	httpx.JSON(w, http.StatusOK, out)
}

// Create logs hours against a task the caller owns. The recording user is
// always the caller; the hours come from parsing the duration field.
func (h *TimeEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	task, err := s.Task(pathID(r, "task_id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	var req timeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}

	v := validation.Violations{}
	entry := models.TimeEntry{TaskID: task.ID, UserID: s.UserID}

	if req.Duration == nil {
		v.Add("duration", "This field is required.")
	} else if hours, perr := duration.Parse(*req.Duration); perr != nil {
		v.Add("duration", durationMessage(perr))
	} else {
		entry.Hours = hours
	}
	if req.Date == nil {
		v.Add("date", "This field is required.")
	} else if d, derr := time.Parse(dateLayout, *req.Date); derr != nil {
		v.Add("date", "Date has wrong format. Use YYYY-MM-DD.")
	} else {
		entry.Date = d
	}
	if !v.Empty() {
		httpx.FieldErrors(w, v)
		return
	}
	if req.Comment != nil {
		entry.Comment = *req.Comment
	}
	if err := s.DB().Create(&entry).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not create time entry.")
		return
	}
	httpx.JSON(w, http.StatusCreated, newTimeEntryResponse(&entry))
}

func (h *TimeEntryHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	entry, err := s.TimeEntry(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newTimeEntryResponse(entry))
}

// Update patches comment, date, or duration (re-parsed into hours). Task
// and recording user stay fixed.
func (h *TimeEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	entry, err := s.TimeEntry(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	var req timeEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}

	v := validation.Violations{}
	if req.Duration != nil {
		if hours, perr := duration.Parse(*req.Duration); perr != nil {
			v.Add("duration", durationMessage(perr))
		} else {
			entry.Hours = hours
		}
	}
	if req.Date != nil {
		if d, derr := time.Parse(dateLayout, *req.Date); derr != nil {
			v.Add("date", "Date has wrong format. Use YYYY-MM-DD.")
		} else {
			entry.Date = d
		}
	}
	if !v.Empty() {
		httpx.FieldErrors(w, v)
		return
	}
	if req.Comment != nil {
		entry.Comment = *req.Comment
	}
	if err := s.DB().Save(entry).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not update time entry.")
		return
	}
	httpx.JSON(w, http.StatusOK, newTimeEntryResponse(entry))
}

func (h *TimeEntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	if err := s.DeleteTimeEntry(pathID(r, "id")); err != nil {
		respondScopeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func durationMessage(err error) string {
	if errors.Is(err, duration.ErrInvalidMinutes) {
		return "Minutes must be less than 60."
	}
	return "Invalid format. Use 'h' for hours and 'm' for minutes (e.g., '1h 30m', '1h', or '30m')."
}
