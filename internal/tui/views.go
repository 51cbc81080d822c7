package tui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.sess.page {
	case pageLogin:
		m.viewLogin(&b)
	case pageRegister:
		m.viewRegister(&b)
	case pageDashboard:
		m.viewDashboard(&b)
	case pageProjects:
		m.viewProjects(&b)
	case pageProjectForm:
		m.viewForm(&b, formTitle("Project", m.sess.editingProjectID))
	case pageTasks:
		m.viewTasks(&b)
	case pageTaskForm:
		m.viewForm(&b, formTitle("Task", m.sess.editingTaskID))
	case pageEntries:
		m.viewEntries(&b)
	case pageEntryForm:
		m.viewForm(&b, formTitle("Time Entry", m.sess.editingEntryID))
	case pageProfile:
		m.viewProfile(&b)
	case pageProfileForm:
		m.viewForm(&b, "Edit Profile")
	}

	if m.loading {
		b.WriteString("\n" + labelStyle.Render("Loading...") + "\n")
	}
	if m.lastErr != "" {
		b.WriteString("\n" + errorStyle.Render(m.lastErr) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func formTitle(entity string, editingID uint) string {
	if editingID != 0 {
		return "Edit " + entity
	}
	return "New " + entity
}

func (m *Model) viewInputs(b *strings.Builder) {
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}
}

func (m *Model) viewLogin(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Track Time · Login") + "\n\n")
	m.viewInputs(b)
	b.WriteString("\n" + helpStyle.Render("enter: login • ctrl+r: create account • ctrl+c: quit"))
}

func (m *Model) viewRegister(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Create Account") + "\n\n")
	m.viewInputs(b)
	b.WriteString("\n" + helpStyle.Render("enter: register • esc: back to login • ctrl+c: quit"))
}

func (m *Model) viewForm(b *strings.Builder, title string) {
	b.WriteString(titleStyle.Render(title) + "\n\n")
	m.viewInputs(b)
	b.WriteString("\n" + helpStyle.Render("tab: next field • enter: save • esc: cancel"))
}

func (m *Model) viewDashboard(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Dashboard · "+m.sess.username) + "\n\n")

	rangeLabel := "All time"
	if m.startDate != "" || m.endDate != "" {
		rangeLabel = fmt.Sprintf("%s .. %s", orAny(m.startDate), orAny(m.endDate))
	}
	b.WriteString(labelStyle.Render("Period: "+rangeLabel) + "\n\n")

	if m.sess.filtering {
		m.viewInputs(b)
		b.WriteString("\n" + helpStyle.Render("enter: apply • esc: cancel"))
		return
	}

	if len(m.summary) == 0 {
		b.WriteString(itemStyle.Render("No projects yet.") + "\n")
	} else {
		var rows strings.Builder
		rows.WriteString(headerStyle.Render(fmt.Sprintf("%-30s %12s", "Project", "Total Hours")) + "\n")
		for _, row := range m.summary {
			rows.WriteString(fmt.Sprintf("%-30s %12s\n", truncate(row.Name, 30), row.TotalHours))
		}
		b.WriteString(boxStyle.Render(rows.String()) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("p: projects • o: profile • f: filter dates • c: clear filter • x: export csv • r: refresh • l: logout • q: quit"))
}

func orAny(s string) string {
	if s == "" {
		return "…"
	}
	return s
}

func (m *Model) viewConfirm(b *strings.Builder, what string) {
	b.WriteString("\n" + confirmStyle.Render(fmt.Sprintf("Delete %s? This cannot be undone. (y: delete • any other key: cancel)", what)) + "\n")
}

func (m *Model) viewProjects(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Projects") + "\n\n")
	if len(m.projects) == 0 {
		b.WriteString(itemStyle.Render("No projects. Press 'n' to create one.") + "\n")
	}
	for i, p := range m.projects {
		line := fmt.Sprintf("%-30s %s", truncate(p.Name, 30), labelStyle.Render(truncate(p.Description, 40)))
		if i == m.cursor {
			b.WriteString(itemSelectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(itemStyle.Render(line) + "\n")
		}
	}
	if m.sess.confirmDeleteID != 0 {
		m.viewConfirm(b, "project (with its tasks and time entries)")
	}
	b.WriteString("\n" + helpStyle.Render("enter: tasks • n: new • e: edit • d: delete • r: dashboard • o: profile • l: logout • q: quit"))
}

func (m *Model) viewTasks(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Tasks · "+m.sess.currentProject.Name) + "\n\n")
	if len(m.tasks) == 0 {
		b.WriteString(itemStyle.Render("No tasks. Press 'n' to create one.") + "\n")
	}
	for i, t := range m.tasks {
		line := fmt.Sprintf("%-30s %s", truncate(t.Name, 30), labelStyle.Render(truncate(t.Description, 40)))
		if i == m.cursor {
			b.WriteString(itemSelectedStyle.Render(line) + "\n")
		} else {
			b.WriteString(itemStyle.Render(line) + "\n")
		}
	}
	if m.sess.confirmDeleteID != 0 {
		m.viewConfirm(b, "task (with its time entries)")
	}
	b.WriteString("\n" + helpStyle.Render("enter: time entries • n: new • e: edit • d: delete • esc: projects • l: logout • q: quit"))
}

func (m *Model) viewEntries(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Time Entries · "+m.sess.currentTask.Name) + "\n\n")
	if m.entries == nil || len(m.entries.Entries) == 0 {
		b.WriteString(itemStyle.Render("No time entries. Press 'n' to log hours.") + "\n")
	} else {
		for i, e := range m.entries.Entries {
			line := fmt.Sprintf("%s  %6sh  %s", e.Date, e.Hours, labelStyle.Render(truncate(e.Comment, 40)))
			if i == m.cursor {
				b.WriteString(itemSelectedStyle.Render(line) + "\n")
			} else {
				b.WriteString(itemStyle.Render(line) + "\n")
			}
		}
		b.WriteString("\n" + totalStyle.Render(fmt.Sprintf("Total: %.2f hours", m.entries.TotalHours)) + "\n")
	}
	if m.sess.confirmDeleteID != 0 {
		m.viewConfirm(b, "time entry")
	}
	b.WriteString("\n" + helpStyle.Render("n: new • e: edit • d: delete • esc: tasks • l: logout • q: quit"))
}

func (m *Model) viewProfile(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Profile") + "\n\n")
	if m.profile == nil {
		b.WriteString(itemStyle.Render("Loading profile...") + "\n")
	} else {
		b.WriteString(labelStyle.Render("Name:     ") + m.profile.Name + "\n")
		b.WriteString(labelStyle.Render("Company:  ") + m.profile.Company + "\n")
		b.WriteString(labelStyle.Render("Team:     ") + m.profile.Team + "\n")
		b.WriteString(labelStyle.Render("Position: ") + m.profile.Position + "\n")
		b.WriteString(labelStyle.Render("Email:    ") + m.profile.UserEmail + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("e: edit • p: projects • r: dashboard • l: logout • q: quit"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
