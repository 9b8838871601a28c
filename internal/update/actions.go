package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/remindd/internal/model"
)

func (m Model) createTaskCmd(title string) tea.Cmd {
	tasks := m.Tasks
	return func() tea.Msg {
		title = strings.TrimSpace(title)
		if title == "" {
			return SetStatusMsg{Text: "task title is empty", IsError: true}
		}
		created := tasks.Create(context.Background(), model.Task{Title: title})
		if created == nil {
			return SetStatusMsg{Text: tasks.LastError(), IsError: true}
		}
		return SetStatusMsg{Text: fmt.Sprintf("added task: %s", created.Title)}
	}
}

func (m Model) completeTaskCmd(id string) tea.Cmd {
	tasks := m.Tasks
	return func() tea.Msg {
		done, err := tasks.Complete(context.Background(), id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if done == nil {
			return SetStatusMsg{Text: tasks.LastError(), IsError: true}
		}
		return SetStatusMsg{Text: fmt.Sprintf("completed: %s", done.Title)}
	}
}

func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	switch m.CurrentView {
	case ViewTasks:
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		tasks := m.Tasks
		return m, func() tea.Msg {
			ok, err := tasks.Delete(context.Background(), task.ID)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			if !ok {
				return SetStatusMsg{Text: tasks.LastError(), IsError: true}
			}
			return SetStatusMsg{Text: fmt.Sprintf("deleted task: %s", task.Title)}
		}
	case ViewReminders:
		rem, ok := m.selectedReminder()
		if !ok {
			return m, nil
		}
		reminders := m.Reminders
		return m, func() tea.Msg {
			ok, err := reminders.Delete(context.Background(), rem.ID)
			if err != nil {
				return AppErrorMsg{Err: err}
			}
			if !ok {
				return SetStatusMsg{Text: reminders.LastError(), IsError: true}
			}
			return SetStatusMsg{Text: fmt.Sprintf("deleted reminder: %s", rem.Title)}
		}
	}
	return m, nil
}

func (m Model) snoozeReminderCmd(id string) tea.Cmd {
	reminders := m.Reminders
	snooze := m.Config.SnoozeDuration()
	return func() tea.Msg {
		rem, err := reminders.Snooze(context.Background(), id, snooze)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		if rem == nil {
			return SetStatusMsg{Text: reminders.LastError(), IsError: true}
		}
		return SetStatusMsg{Text: fmt.Sprintf("snoozed until %s", rem.RemindAt.Format("15:04"))}
	}
}
