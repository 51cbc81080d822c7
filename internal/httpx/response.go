// Package httpx contains small helpers for writing JSON responses and the
// two error body shapes used by the API: {"detail": "..."} for auth and
// not-found failures, and {field: [messages]} for validation failures.
package httpx

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the body for auth and not-found errors.
type DetailResponse struct {
	Detail string `json:"detail"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"detail":"encode error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

// Detail writes a {"detail": msg} error body.
func Detail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, DetailResponse{Detail: msg})
}

// NotFound writes the standard 404 body. Out-of-scope ids use the same
// body as missing ids so existence never leaks.
func NotFound(w http.ResponseWriter) {
	Detail(w, http.StatusNotFound, "Not found.")
}

// FieldErrors writes a 400 with per-field message lists.
func FieldErrors(w http.ResponseWriter, fields map[string][]string) {
	JSON(w, http.StatusBadRequest, fields)
}
