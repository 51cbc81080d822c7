// Package tui is the terminal client for the tracktime API: a bubbletea
// program whose navigation is an explicit page state machine.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// page identifies the screen currently shown. All navigation happens by
// assigning a new page (plus its scratch ids) in one place per action.
type page int

const (
	pageLogin page = iota
	pageRegister
	pageDashboard
	pageProjects
	pageProjectForm
	pageTasks
	pageTaskForm
	pageEntries
	pageEntryForm
	pageProfile
	pageProfileForm
)

// session is the client-side session state: who is logged in, which page
// is shown, and the per-page scratch ids (entity being edited, pending
// delete confirmation).
type session struct {
	loggedIn bool
	token    string
	username string
	page     page

	editingProjectID uint // 0 while creating
	editingTaskID    uint
	editingEntryID   uint
	confirmDeleteID  uint // pending two-step delete on the current list page

	currentProject Project // context for the tasks page
	currentTask    Task    // context for the entries page

	filtering bool // dashboard date-filter inputs focused
}

// Model is the bubbletea model for the whole client.
type Model struct {
	client *Client
	sess   session

	projects []Project
	tasks    []Task
	entries  *EntryList
	summary  []SummaryRow
	profile  *Profile

	cursor int
	inputs []textinput.Model
	focus  int

	startDate string // applied dashboard filters, YYYY-MM-DD or empty
	endDate   string

	status  string
	lastErr string
	loading bool
	width   int
	height  int
}

func NewModel(client *Client) *Model {
	m := &Model{client: client}
	m.enterLogin()
	return m
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// --- messages ---

type errorMsg struct{ err error }
type loginDoneMsg struct{ res *LoginResult }
type registerDoneMsg struct{}
type projectsMsg []Project
type tasksMsg []Task
type entriesMsg struct{ list *EntryList }
type summaryMsg []SummaryRow
type profileMsg struct{ profile *Profile }
type savedMsg struct{ target page }
type deletedMsg struct{}
type exportedMsg struct{ path string }

// --- commands ---

func (m *Model) loginCmd(username, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		res, err := c.Login(username, password)
		if err != nil {
			return errorMsg{err}
		}
		return loginDoneMsg{res}
	}
}

func (m *Model) registerCmd(username, email, password string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		if err := c.Register(username, email, password); err != nil {
			return errorMsg{err}
		}
		return registerDoneMsg{}
	}
}

func (m *Model) loadProjectsCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		projects, err := c.Projects()
		if err != nil {
			return errorMsg{err}
		}
		return projectsMsg(projects)
	}
}

func (m *Model) loadTasksCmd(projectID uint) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		tasks, err := c.Tasks(projectID)
		if err != nil {
			return errorMsg{err}
		}
		return tasksMsg(tasks)
	}
}

func (m *Model) loadEntriesCmd(taskID uint) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		list, err := c.Entries(taskID)
		if err != nil {
			return errorMsg{err}
		}
		return entriesMsg{list}
	}
}

func (m *Model) loadSummaryCmd(start, end string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		rows, err := c.Summary(start, end)
		if err != nil {
			return errorMsg{err}
		}
		return summaryMsg(rows)
	}
}

func (m *Model) loadProfileCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.Profile()
		if err != nil {
			return errorMsg{err}
		}
		return profileMsg{p}
	}
}

// --- update ---

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case errorMsg:
		m.loading = false
		if errors.Is(msg.err, ErrUnauthenticated) {
			// The original client dropped the whole session on any 401.
			m.resetSession()
			m.lastErr = "Session invalid or expired. Please log in again."
			return m, nil
		}
		m.lastErr = msg.err.Error()
		return m, nil

	case loginDoneMsg:
		m.loading = false
		m.sess = session{loggedIn: true, token: msg.res.Token, username: msg.res.Username}
		m.gotoDashboard()
		return m, m.loadSummaryCmd(m.startDate, m.endDate)

	case registerDoneMsg:
		m.loading = false
		m.enterLogin()
		m.status = "Account created! You can now login."
		return m, nil

	case projectsMsg:
		m.loading = false
		m.projects = msg
		m.clampCursor(len(m.projects))
		return m, nil

	case tasksMsg:
		m.loading = false
		m.tasks = msg
		m.clampCursor(len(m.tasks))
		return m, nil

	case entriesMsg:
		m.loading = false
		m.entries = msg.list
		m.clampCursor(len(msg.list.Entries))
		return m, nil

	case summaryMsg:
		m.loading = false
		m.summary = msg
		return m, nil

	case profileMsg:
		m.loading = false
		m.profile = msg.profile
		return m, nil

	case savedMsg:
		m.loading = false
		m.status = "Saved."
		return m, m.gotoPageCmd(msg.target)

	case deletedMsg:
		m.loading = false
		m.status = "Deleted."
		return m, m.reloadCurrentList()

	case exportedMsg:
		m.loading = false
		m.status = "Exported to " + msg.path
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// gotoPageCmd navigates after a form submit and reloads that page's data.
func (m *Model) gotoPageCmd(target page) tea.Cmd {
	switch target {
	case pageProjects:
		m.enterProjects()
		return m.loadProjectsCmd()
	case pageTasks:
		m.enterTasks()
		return m.loadTasksCmd(m.sess.currentProject.ID)
	case pageEntries:
		m.enterEntries()
		return m.loadEntriesCmd(m.sess.currentTask.ID)
	case pageProfile:
		m.enterProfile()
		return m.loadProfileCmd()
	default:
		m.gotoDashboard()
		return m.loadSummaryCmd(m.startDate, m.endDate)
	}
}

// reloadCurrentList refreshes the list backing the current page, used
// after deletes.
func (m *Model) reloadCurrentList() tea.Cmd {
	switch m.sess.page {
	case pageProjects:
		return m.loadProjectsCmd()
	case pageTasks:
		return m.loadTasksCmd(m.sess.currentProject.ID)
	case pageEntries:
		return m.loadEntriesCmd(m.sess.currentTask.ID)
	}
	return nil
}

func (m *Model) resetSession() {
	m.client.Token = ""
	m.projects = nil
	m.tasks = nil
	m.entries = nil
	m.summary = nil
	m.profile = nil
	m.startDate = ""
	m.endDate = ""
	m.enterLogin()
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
