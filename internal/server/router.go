// Package server wires handlers, auth middleware, and health endpoints
// into the root http.Handler.
package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"tracktime/internal/auth"
	"tracktime/internal/handlers"
	"tracktime/internal/httpx"
)

// New constructs the root handler with all routes and middleware applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandler(db)
	ph := handlers.NewProjectHandler(db)
	th := handlers.NewTaskHandler(db)
	eh := handlers.NewTimeEntryHandler(db)

	withToken := auth.Middleware(db)
	protected := func(h http.HandlerFunc) http.Handler {
		return withToken(auth.RequireAuth(h))
	}

	// Public auth endpoints
	mux.HandleFunc("POST /auth/register/{$}", ah.Register)
	mux.HandleFunc("POST /auth/login/{$}", ah.Login)

	// Profile (the caller's own, no id in the path)
	mux.Handle("GET /auth/profile/{$}", protected(ah.Profile))
	mux.Handle("PATCH /auth/profile/{$}", protected(ah.Profile))

	// Projects
	mux.Handle("GET /projects/{$}", protected(ph.List))
	mux.Handle("POST /projects/{$}", protected(ph.Create))
	mux.Handle("GET /projects/summary/{$}", protected(ph.SummaryReport))
	mux.Handle("GET /projects/{id}/{$}", protected(ph.Retrieve))
	mux.Handle("PATCH /projects/{id}/{$}", protected(ph.Update))
	mux.Handle("DELETE /projects/{id}/{$}", protected(ph.Delete))

	// Tasks
	mux.Handle("GET /projects/{project_id}/tasks/{$}", protected(th.List))
	mux.Handle("POST /projects/{project_id}/tasks/{$}", protected(th.Create))
	mux.Handle("GET /tasks/{id}/{$}", protected(th.Retrieve))
	mux.Handle("PATCH /tasks/{id}/{$}", protected(th.Update))
	mux.Handle("DELETE /tasks/{id}/{$}", protected(th.Delete))

	// Time entries
	mux.Handle("GET /tasks/{task_id}/time-entries/{$}", protected(eh.List))
	mux.Handle("POST /tasks/{task_id}/time-entries/{$}", protected(eh.Create))
	mux.Handle("GET /time-entries/{id}/{$}", protected(eh.Retrieve))
	mux.Handle("PATCH /time-entries/{id}/{$}", protected(eh.Update))
	mux.Handle("DELETE /time-entries/{id}/{$}", protected(eh.Delete))

	return withRecover(withLogging(mux))
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				httpx.Detail(w, http.StatusInternalServerError, "Internal server error.")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
