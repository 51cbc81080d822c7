package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"tracktime/internal/httpx"
	"tracktime/internal/models"
	"tracktime/internal/validation"
)

type TaskHandler struct{ DB *gorm.DB }

func NewTaskHandler(db *gorm.DB) *TaskHandler { return &TaskHandler{DB: db} }

type taskResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func newTaskResponse(t *models.Task) taskResponse {
	return taskResponse{ID: t.ID, Name: t.Name, Description: t.Description}
}

type taskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List returns the tasks of one project the caller owns.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	project, err := s.Project(pathID(r, "project_id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	tasks, err := s.Tasks(project.ID)
	if err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Database error.")
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Create adds a task under a project the caller owns. A foreign project id
// fails the project lookup and reads as not-found.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	project, err := s.Project(pathID(r, "project_id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	var req taskRequest
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
	task := models.Task{ProjectID: project.ID, Name: name}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if err := s.DB().Create(&task).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not create task.")
		return
	}
	httpx.JSON(w, http.StatusCreated, newTaskResponse(&task))
}

func (h *TaskHandler) Retrieve(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	task, err := s.Task(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	task, err := s.Task(pathID(r, "id"))
	if err != nil {
		respondScopeErr(w, err)
		return
	}
	var req taskRequest
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
		task.Name = name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if err := s.DB().Save(task).Error; err != nil {
		httpx.Detail(w, http.StatusInternalServerError, "Could not update task.")
		return
	}
	httpx.JSON(w, http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s := callerScope(r, h.DB)
	if err := s.DeleteTask(pathID(r, "id")); err != nil {
		respondScopeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
