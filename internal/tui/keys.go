package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.sess.page {
	case pageLogin:
		return m.keyLogin(msg)
	case pageRegister:
		return m.keyForm(msg, m.submitRegister, m.enterLogin)
	case pageDashboard:
		return m.keyDashboard(msg)
	case pageProjects:
		return m.keyProjects(msg)
	case pageProjectForm:
		return m.keyForm(msg, m.submitProjectForm, func() {
			m.enterProjects()
		})
	case pageTasks:
		return m.keyTasks(msg)
	case pageTaskForm:
		return m.keyForm(msg, m.submitTaskForm, func() {
			m.enterTasks()
		})
	case pageEntries:
		return m.keyEntries(msg)
	case pageEntryForm:
		return m.keyForm(msg, m.submitEntryForm, func() {
			m.enterEntries()
		})
	case pageProfile:
		return m.keyProfile(msg)
	case pageProfileForm:
		return m.keyForm(msg, m.submitProfileForm, m.enterProfile)
	}
	return m, nil
}

// keyForm drives any input form: tab/arrows move focus, enter on the last
// field submits, esc cancels, everything else types.
func (m *Model) keyForm(msg tea.KeyMsg, submit func() tea.Cmd, cancel func()) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		cancel()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.cycleFocus(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.cycleFocus(-1)
		return m, nil
	case tea.KeyEnter:
		if m.focus == len(m.inputs)-1 {
			return m, submit()
		}
		m.cycleFocus(1)
		return m, nil
	}
	return m, m.updateFocusedInput(msg)
}

func (m *Model) keyLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlR {
		m.enterRegister()
		return m, nil
	}
	return m.keyForm(msg, m.submitLogin, func() {})
}

func (m *Model) logout() {
	m.resetSession()
	m.status = "Logged out."
}

func (m *Model) keyDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess.filtering {
		return m.keyForm(msg, m.applyFilter, func() {
			m.sess.filtering = false
			m.inputs = nil
		})
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "p":
		m.enterProjects()
		return m, m.loadProjectsCmd()
	case "o":
		m.enterProfile()
		return m, m.loadProfileCmd()
	case "f":
		m.enterFilter()
		return m, nil
	case "c":
		m.startDate, m.endDate = "", ""
		return m, m.loadSummaryCmd("", "")
	case "x":
		return m, m.exportSummaryCmd()
	case "r":
		return m, m.loadSummaryCmd(m.startDate, m.endDate)
	case "l":
		m.logout()
		return m, nil
	}
	return m, nil
}

// keyList handles the shared list behavior: movement, the two-step delete
// confirmation, and the common navigation keys. It reports whether the key
// was consumed.
func (m *Model) keyList(msg tea.KeyMsg, length int, selectedID func() uint) (tea.Cmd, bool) {
	if m.sess.confirmDeleteID != 0 {
		if msg.String() == "y" {
			return m.deleteConfirmedCmd(), true
		}
		m.sess.confirmDeleteID = 0
		return nil, true
	}
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil, true
	case "down", "j":
		if m.cursor < length-1 {
			m.cursor++
		}
		return nil, true
	case "d":
		if length > 0 {
			m.sess.confirmDeleteID = selectedID()
		}
		return nil, true
	case "l":
		m.logout()
		return nil, true
	case "q":
		return tea.Quit, true
	}
	return nil, false
}

func (m *Model) keyProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, done := m.keyList(msg, len(m.projects), func() uint { return m.projects[m.cursor].ID })
	if done {
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		if m.cursor < len(m.projects) {
			m.sess.currentProject = m.projects[m.cursor]
			m.enterTasks()
			return m, m.loadTasksCmd(m.sess.currentProject.ID)
		}
	case "n":
		m.enterProjectForm(false)
	case "e":
		if len(m.projects) > 0 {
			m.enterProjectForm(true)
		}
	case "esc", "r":
		m.gotoDashboard()
		return m, m.loadSummaryCmd(m.startDate, m.endDate)
	case "o":
		m.enterProfile()
		return m, m.loadProfileCmd()
	}
	return m, nil
}

func (m *Model) keyTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, done := m.keyList(msg, len(m.tasks), func() uint { return m.tasks[m.cursor].ID })
	if done {
		return m, cmd
	}
	switch msg.String() {
	case "enter":
		if m.cursor < len(m.tasks) {
			m.sess.currentTask = m.tasks[m.cursor]
			m.enterEntries()
			return m, m.loadEntriesCmd(m.sess.currentTask.ID)
		}
	case "n":
		m.enterTaskForm(false)
	case "e":
		if len(m.tasks) > 0 {
			m.enterTaskForm(true)
		}
	case "esc":
		m.enterProjects()
		return m, m.loadProjectsCmd()
	}
	return m, nil
}

func (m *Model) keyEntries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entryCount := 0
	if m.entries != nil {
		entryCount = len(m.entries.Entries)
	}
	cmd, done := m.keyList(msg, entryCount, func() uint { return m.entries.Entries[m.cursor].ID })
	if done {
		return m, cmd
	}
	switch msg.String() {
	case "n":
		m.enterEntryForm(false)
	case "e":
		if entryCount > 0 {
			m.enterEntryForm(true)
		}
	case "esc":
		m.enterTasks()
		return m, m.loadTasksCmd(m.sess.currentProject.ID)
	}
	return m, nil
}

func (m *Model) keyProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.enterProfileForm()
	case "esc", "r":
		m.gotoDashboard()
		return m, m.loadSummaryCmd(m.startDate, m.endDate)
	case "p":
		m.enterProjects()
		return m, m.loadProjectsCmd()
	case "l":
		m.logout()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}
