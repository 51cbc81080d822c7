package tui

import (
	"encoding/csv"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"tracktime/internal/duration"
)

// --- form plumbing ---

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 150
	ti.Width = 40
	return ti
}

func (m *Model) setForm(inputs ...textinput.Model) {
	m.inputs = inputs
	m.focus = 0
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
}

func (m *Model) cycleFocus(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// --- page transitions ---

func (m *Model) enterLogin() {
	m.sess = session{page: pageLogin}
	m.status = ""
	m.lastErr = ""
	password := newInput("Password", "")
	password.EchoMode = textinput.EchoPassword
	m.setForm(newInput("Username", ""), password)
}

func (m *Model) enterRegister() {
	m.sess = session{page: pageRegister}
	m.status = ""
	m.lastErr = ""
	password := newInput("Password", "")
	password.EchoMode = textinput.EchoPassword
	m.setForm(newInput("Username", ""), newInput("Email", ""), password)
}

func (m *Model) gotoDashboard() {
	m.sess.page = pageDashboard
	m.sess.filtering = false
	m.sess.confirmDeleteID = 0
	m.lastErr = ""
	m.inputs = nil
}

func (m *Model) enterFilter() {
	m.sess.filtering = true
	m.setForm(newInput("Start date (YYYY-MM-DD)", m.startDate), newInput("End date (YYYY-MM-DD)", m.endDate))
}

func (m *Model) enterProjects() {
	m.sess.page = pageProjects
	m.sess.confirmDeleteID = 0
	m.sess.editingProjectID = 0
	m.lastErr = ""
	m.cursor = 0
	m.inputs = nil
}

func (m *Model) enterProjectForm(edit bool) {
	name, desc := "", ""
	m.sess.editingProjectID = 0
	if edit {
		if m.cursor >= len(m.projects) {
			return
		}
		p := m.projects[m.cursor]
		m.sess.editingProjectID = p.ID
		name, desc = p.Name, p.Description
	}
	m.sess.page = pageProjectForm
	m.lastErr = ""
	m.setForm(newInput("Project name", name), newInput("Description", desc))
}

func (m *Model) enterTasks() {
	m.sess.page = pageTasks
	m.sess.confirmDeleteID = 0
	m.sess.editingTaskID = 0
	m.lastErr = ""
	m.cursor = 0
	m.inputs = nil
}

func (m *Model) enterTaskForm(edit bool) {
	name, desc := "", ""
	m.sess.editingTaskID = 0
	if edit {
		if m.cursor >= len(m.tasks) {
			return
		}
		t := m.tasks[m.cursor]
		m.sess.editingTaskID = t.ID
		name, desc = t.Name, t.Description
	}
	m.sess.page = pageTaskForm
	m.lastErr = ""
	m.setForm(newInput("Task name", name), newInput("Description", desc))
}

func (m *Model) enterEntries() {
	m.sess.page = pageEntries
	m.sess.confirmDeleteID = 0
	m.sess.editingEntryID = 0
	m.lastErr = ""
	m.cursor = 0
	m.inputs = nil
}

func (m *Model) enterEntryForm(edit bool) {
	durationText, date, comment := "", "", ""
	m.sess.editingEntryID = 0
	if edit {
		if m.entries == nil || m.cursor >= len(m.entries.Entries) {
			return
		}
		e := m.entries.Entries[m.cursor]
		m.sess.editingEntryID = e.ID
		if hours, err := decimal.NewFromString(e.Hours); err == nil {
			durationText = duration.Format(hours)
		}
		date, comment = e.Date, e.Comment
	}
	m.sess.page = pageEntryForm
	m.lastErr = ""
	m.setForm(
		newInput("Duration (e.g. 1h 30m)", durationText),
		newInput("Date (YYYY-MM-DD)", date),
		newInput("Comment", comment),
	)
}

func (m *Model) enterProfile() {
	m.sess.page = pageProfile
	m.sess.confirmDeleteID = 0
	m.lastErr = ""
	m.inputs = nil
}

func (m *Model) enterProfileForm() {
	var p Profile
	if m.profile != nil {
		p = *m.profile
	}
	m.sess.page = pageProfileForm
	m.lastErr = ""
	m.setForm(
		newInput("Full name", p.Name),
		newInput("Company", p.Company),
		newInput("Team", p.Team),
		newInput("Position", p.Position),
	)
}

// --- submit / mutation commands ---

func (m *Model) submitLogin() tea.Cmd {
	m.loading = true
	m.lastErr = ""
	return m.loginCmd(m.inputs[0].Value(), m.inputs[1].Value())
}

func (m *Model) submitRegister() tea.Cmd {
	m.loading = true
	m.lastErr = ""
	return m.registerCmd(m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value())
}

func (m *Model) submitProjectForm() tea.Cmd {
	c := m.client
	id := m.sess.editingProjectID
	name, desc := m.inputs[0].Value(), m.inputs[1].Value()
	m.loading = true
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = c.CreateProject(name, desc)
		} else {
			_, err = c.UpdateProject(id, name, desc)
		}
		if err != nil {
			return errorMsg{err}
		}
		return savedMsg{pageProjects}
	}
}

func (m *Model) submitTaskForm() tea.Cmd {
	c := m.client
	projectID := m.sess.currentProject.ID
	id := m.sess.editingTaskID
	name, desc := m.inputs[0].Value(), m.inputs[1].Value()
	m.loading = true
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = c.CreateTask(projectID, name, desc)
		} else {
			_, err = c.UpdateTask(id, name, desc)
		}
		if err != nil {
			return errorMsg{err}
		}
		return savedMsg{pageTasks}
	}
}

func (m *Model) submitEntryForm() tea.Cmd {
	c := m.client
	taskID := m.sess.currentTask.ID
	id := m.sess.editingEntryID
	durationText, date, comment := m.inputs[0].Value(), m.inputs[1].Value(), m.inputs[2].Value()
	m.loading = true
	return func() tea.Msg {
		var err error
		if id == 0 {
			_, err = c.CreateEntry(taskID, durationText, date, comment)
		} else {
			_, err = c.UpdateEntry(id, durationText, date, comment)
		}
		if err != nil {
			return errorMsg{err}
		}
		return savedMsg{pageEntries}
	}
}

func (m *Model) submitProfileForm() tea.Cmd {
	c := m.client
	p := Profile{
		Name:     m.inputs[0].Value(),
		Company:  m.inputs[1].Value(),
		Team:     m.inputs[2].Value(),
		Position: m.inputs[3].Value(),
	}
	m.loading = true
	return func() tea.Msg {
		if _, err := c.UpdateProfile(p); err != nil {
			return errorMsg{err}
		}
		return savedMsg{pageProfile}
	}
}

func (m *Model) applyFilter() tea.Cmd {
	m.startDate = m.inputs[0].Value()
	m.endDate = m.inputs[1].Value()
	m.sess.filtering = false
	m.inputs = nil
	m.loading = true
	return m.loadSummaryCmd(m.startDate, m.endDate)
}

func (m *Model) deleteConfirmedCmd() tea.Cmd {
	c := m.client
	id := m.sess.confirmDeleteID
	m.sess.confirmDeleteID = 0
	m.loading = true
	switch m.sess.page {
	case pageProjects:
		return func() tea.Msg {
			if err := c.DeleteProject(id); err != nil {
				return errorMsg{err}
			}
			return deletedMsg{}
		}
	case pageTasks:
		return func() tea.Msg {
			if err := c.DeleteTask(id); err != nil {
				return errorMsg{err}
			}
			return deletedMsg{}
		}
	case pageEntries:
		return func() tea.Msg {
			if err := c.DeleteEntry(id); err != nil {
				return errorMsg{err}
			}
			return deletedMsg{}
		}
	}
	return nil
}

// exportSummaryCmd writes the current report to a CSV file with a trailing
// total row, like the original spreadsheet export.
func (m *Model) exportSummaryCmd() tea.Cmd {
	rows := m.summary
	return func() tea.Msg {
		path := "track_time_records.csv"
		f, err := os.Create(path)
		if err != nil {
			return errorMsg{err}
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if err := w.Write([]string{"Project", "Total Hours"}); err != nil {
			return errorMsg{err}
		}
		total := decimal.Zero
		for _, row := range rows {
			hours, perr := decimal.NewFromString(row.TotalHours)
			if perr == nil {
				total = total.Add(hours)
			}
			if err := w.Write([]string{row.Name, row.TotalHours}); err != nil {
				return errorMsg{err}
			}
		}
		if err := w.Write([]string{"Total", total.StringFixed(2)}); err != nil {
			return errorMsg{err}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return errorMsg{err}
		}
		return exportedMsg{path}
	}
}
