package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"tracktime/internal/auth"
	"tracktime/internal/httpx"
	"tracktime/internal/models"
	"tracktime/internal/scope"
	"tracktime/internal/services"
	"tracktime/internal/validation"
)

// pathID parses a numeric {id}-style path value. Zero means malformed,
// which callers treat as not-found.
func pathID(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func callerScope(r *http.Request, db *gorm.DB) scope.Scope {
	userID, _ := auth.UserIDFromContext(r.Context())
	return scope.For(db, userID)
}

type ProjectHandler struct {
	DB      *gorm.DB
	Summary *services.SummaryService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{DB: db, Summary: services.NewSummaryService(db)}
}

type projectResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       uint   `json:"owner"`
}

func newProjectResponse(p *models.Project) projectResponse {
	return projectResponse{ID: p.ID, Name: p.Name, Description: p.Description, Owner: p.OwnerID}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	projects, err := s.Projects()
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, newProjectResponse(&projects[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

type projectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	v := validation.Violations{}
	validation.Required("name", name, v)
	validation.MaxLength("name", name, 100, v)
	if !v.Empty() {
		httpx.FieldErrors(w, v)
		return
	}
	project := models.Project{Name: name, OwnerID: s.UserID}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := s.DB().Create(&project).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not create project.")
		return
	}
	httpx.JSON(w, http.StatusCreated, newProjectResponse(&project))
}

func (h *ProjectHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	project, err := s.Project(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newProjectResponse(project))
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	project, err := s.Project(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.Detail(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		v := validation.Violations{}
		validation.Required("name", name, v)
		validation.MaxLength("name", name, 100, v)
		if !v.Empty() {
			httpx.FieldErrors(w, v)
			return
		}
		project.Name = name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := s.DB().Save(project).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not update project.")
		return
	}
	httpx.JSON(w, http.StatusOK, newProjectResponse(project))
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	if err := s.DeleteProject(pathID(r, "id")); err != nil {
		respondScopeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	TotalHours string `json:"total_hours"`
}

// SummaryReport returns per-project total hours, optionally restricted to
// an inclusive date range. Each bound is applied independently: a lone
// start_date filters entries on or after it, a lone end_date on or before.
func (h *ProjectHandler) SummaryReport(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	var start, end *time.Time
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			v := validation.Violations{}
			v.Add("start_date", "Date has wrong format. Use YYYY-MM-DD.")
			httpx.FieldErrors(w, v)
			return
		}
		start = &t
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			v := validation.Violations{}
			v.Add("end_date", "Date has wrong format. Use YYYY-MM-DD.")
			httpx.FieldErrors(w, v)
			return
		}
		end = &t
	}
	totals, err := h.Summary.ProjectTotals(s.UserID, start, end)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}
	out := make([]summaryRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, summaryRow{ID: t.ProjectID, Name: t.Name, TotalHours: t.Total.StringFixed(2)})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func respondScopeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, scope.ErrNotFound) {
		httpx.NotFound(w)
		return
	}
	httpx.Detail(w, http.StatusInternalServerError, "Database error.")
}
