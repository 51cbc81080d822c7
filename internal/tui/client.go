package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUnauthenticated is returned when the API rejects the session token.
// The app reacts by dropping all session state and returning to login.
var ErrUnauthenticated = errors.New("session invalid or expired")

// APIError carries a non-2xx response: either a detail message or
// per-field validation messages.
type APIError struct {
	Status int
	Detail string
	Fields map[string][]string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	for field, msgs := range e.Fields {
		if len(msgs) > 0 {
			return field + ": " + msgs[0]
		}
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client is a typed HTTP client for the tracktime API.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: 15 * time.Second}}
}

// do sends one request and decodes the response into out (when non-nil).
// 401 maps to ErrUnauthenticated, other failures to *APIError.
func (c *Client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		var detail struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		} else {
			var fields map[string][]string
			if json.Unmarshal(raw, &fields) == nil {
				apiErr.Fields = fields
			}
		}
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// --- auth ---

type LoginResult struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

func (c *Client) Register(username, email, password string) error {
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.do(http.MethodPost, "/auth/register/", body, nil)
}

// Login stores the returned token on the client for subsequent calls.
func (c *Client) Login(username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.do(http.MethodPost, "/auth/login/", body, &res); err != nil {
		return nil, err
	}
	c.Token = res.Token
	return &res, nil
}

type Profile struct {
	Name      string `json:"name"`
	Company   string `json:"company"`
	Team      string `json:"team"`
	Position  string `json:"position"`
	UserEmail string `json:"user_email"`
}

func (c *Client) Profile() (*Profile, error) {
	var p Profile
	if err := c.do(http.MethodGet, "/auth/profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProfile(p Profile) (*Profile, error) {
	body := map[string]string{"name": p.Name, "company": p.Company, "team": p.Team, "position": p.Position}
	var out Profile
	if err := c.do(http.MethodPatch, "/auth/profile/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- projects ---

type Project struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       uint   `json:"owner"`
}

func (c *Client) Projects() ([]Project, error) {
	var out []Project
	if err := c.do(http.MethodGet, "/projects/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateProject(name, description string) (*Project, error) {
	var out Project
	body := map[string]string{"name": name, "description": description}
	if err := c.do(http.MethodPost, "/projects/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(id uint, name, description string) (*Project, error) {
	var out Project
	body := map[string]string{"name": name, "description": description}
	if err := c.do(http.MethodPatch, fmt.Sprintf("/projects/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/projects/%d/", id), nil, nil)
}

type SummaryRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	TotalHours string `json:"total_hours"`
}

// Summary fetches per-project totals; either date may be empty.
func (c *Client) Summary(startDate, endDate string) ([]SummaryRow, error) {
	path := "/projects/summary/"
	sep := "?"
	if startDate != "" {
		path += sep + "start_date=" + startDate
		sep = "&"
	}
	if endDate != "" {
		path += sep + "end_date=" + endDate
	}
	var out []SummaryRow
	if err := c.do(http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- tasks ---

type Task struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Tasks(projectID uint) ([]Task, error) {
	var out []Task
	if err := c.do(http.MethodGet, fmt.Sprintf("/projects/%d/tasks/", projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(projectID uint, name, description string) (*Task, error) {
	var out Task
	body := map[string]string{"name": name, "description": description}
	if err := c.do(http.MethodPost, fmt.Sprintf("/projects/%d/tasks/", projectID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(id uint, name, description string) (*Task, error) {
	var out Task
	body := map[string]string{"name": name, "description": description}
	if err := c.do(http.MethodPatch, fmt.Sprintf("/tasks/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/tasks/%d/", id), nil, nil)
}

// --- time entries ---

type TimeEntry struct {
	ID      uint   `json:"id"`
	Task    uint   `json:"task"`
	User    uint   `json:"user"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
	Hours   string `json:"hours"`
}

type EntryList struct {
	Entries    []TimeEntry `json:"entries"`
	TotalHours float64     `json:"total_hours"`
}

func (c *Client) Entries(taskID uint) (*EntryList, error) {
	var out EntryList
	if err := c.do(http.MethodGet, fmt.Sprintf("/tasks/%d/time-entries/", taskID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEntry(taskID uint, durationText, date, comment string) (*TimeEntry, error) {
	var out TimeEntry
	body := map[string]string{"duration": durationText, "date": date, "comment": comment}
	if err := c.do(http.MethodPost, fmt.Sprintf("/tasks/%d/time-entries/", taskID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEntry(id uint, durationText, date, comment string) (*TimeEntry, error) {
	var out TimeEntry
	body := map[string]string{"duration": durationText, "date": date, "comment": comment}
	if err := c.do(http.MethodPatch, fmt.Sprintf("/time-entries/%d/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEntry(id uint) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/time-entries/%d/", id), nil, nil)
}
