package update

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/remindd/internal/remote"
	"github.com/sandeepkv93/remindd/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickToastsCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.syncBubbleData()

	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		if m.quickAddActive {
			return m.handleQuickAddKey(typed)
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Reminders:
			m.CurrentView = ViewReminders
			return m, nil
		case m.Keys.QuickAdd:
			m.quickAddActive = true
			m.quickAddInput.SetValue("")
			m.quickAddInput.Focus()
			m.Status = StatusBar{Text: "quick add: type a title, enter to save"}
			return m, nil
		case m.Keys.Online:
			return m.toggleOnlineTo(!m.Tasks.Online())
		case m.Keys.Sync:
			if !m.spinnerActive {
				m.spinnerActive = true
				m.Status = StatusBar{Text: "sync started"}
				return m, tea.Batch(m.syncSpinner.Tick, m.refreshCmd())
			}
			return m, nil
		case "d":
			if m.CurrentView == ViewTasks {
				if task, ok := m.selectedTask(); ok {
					return m, m.completeTaskCmd(task.ID)
				}
			}
			return m, nil
		case "x":
			return m.deleteSelected()
		case "z":
			if m.CurrentView == ViewReminders {
				if rem, ok := m.selectedReminder(); ok {
					return m, m.snoozeReminderCmd(rem.ID)
				}
			}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		// remaining keys drive the focused list
		var cmd tea.Cmd
		if m.CurrentView == ViewTasks {
			m.taskList, cmd = m.taskList.Update(typed)
		} else {
			m.reminderList, cmd = m.reminderList.Update(typed)
		}
		return m, cmd

	case spinner.TickMsg:
		if m.spinnerActive {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
		return m, nil

	case StoresRefreshed:
		m.spinnerActive = false
		m.Status = StatusBar{Text: "sync complete"}
		m.syncBubbleData()
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil

	case AppErrorMsg:
		m.spinnerActive = false
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil

	case ToastMsg:
		m.pushToast(typed.Title, typed.Body, typed.Duration)
		return m, nil

	case expireToastsMsg:
		m.expireToasts()
		return m, tickToastsCmd()

	case ReminderFiredMsg:
		// The toast itself arrives through the scheduler's toaster; here
		// we only refresh the panes and the status line.
		m.Status = StatusBar{Text: "reminder due: " + typed.Reminder.Title}
		m.syncBubbleData()
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.Quitting {
		return "bye\n"
	}

	left := ""
	switch m.CurrentView {
	case ViewTasks:
		left = m.taskList.View()
	case ViewReminders:
		left = m.reminderList.View()
	}

	right := ""
	if m.quickAddActive {
		right += "quick add\n" + m.quickAddInput.View() + "\n"
	}
	if m.Palette.Active {
		right += "command\n" + m.commandInput.View() + "\n"
	}
	if m.HelpVisible {
		right += m.helpModel.View(helpKeyMap{keys: m.Keys}) + "\n" + views.RenderHelp()
	}
	if right == "" {
		right = m.renderSyncPane()
	}

	status := m.Status.Text
	if m.Status.IsError {
		status = "error: " + m.Status.Text
	}
	if m.spinnerActive {
		status = m.syncSpinner.View() + " syncing · " + status
	}

	toasts := ""
	for _, t := range m.Toasts {
		toasts += fmt.Sprintf("%s: %s\n", t.Title, t.Body)
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("remindd | view: %s | %s", m.CurrentView, m.connectivityLabel()),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		Notification: toasts,
		Footer: fmt.Sprintf("keys: %s tasks | %s reminders | %s add | %s online | %s sync | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Reminders, m.Keys.QuickAdd, m.Keys.Online, m.Keys.Sync, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) connectivityLabel() string {
	if !m.Tasks.Online() {
		pending := len(m.Tasks.PendingOps()) + len(m.Reminders.PendingOps())
		return fmt.Sprintf("offline (%d pending)", pending)
	}
	if last := m.Tasks.LastSyncedAt(); !last.IsZero() {
		return "online · synced " + last.Format("15:04:05")
	}
	return "online"
}

func (m Model) renderSyncPane() string {
	return views.RenderSyncPane(views.SyncPaneData{
		Online:           m.Tasks.Online(),
		TaskCount:        len(m.Tasks.Items()),
		ReminderCount:    len(m.Reminders.Items()),
		PendingTasks:     len(m.Tasks.PendingOps()),
		PendingReminders: len(m.Reminders.PendingOps()),
		LastSyncedAt:     m.Tasks.LastSyncedAt(),
		LastError:        m.Tasks.LastError(),
	})
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.quickAddActive = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "quick add cancelled"}
		return m, nil
	case "enter":
		title := m.quickAddInput.Value()
		m.quickAddActive = false
		m.quickAddInput.Blur()
		return m, m.createTaskCmd(title)
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		return m, cmd
	}
}

func (m Model) refreshCmd() tea.Cmd {
	tasks, reminders, tags := m.Tasks, m.Reminders, m.Tags
	return func() tea.Msg {
		ctx := context.Background()
		if err := tasks.FetchAll(ctx, remote.ListFilter{}); err != nil {
			return AppErrorMsg{Err: err}
		}
		if err := reminders.FetchAll(ctx, remote.ListFilter{}); err != nil {
			return AppErrorMsg{Err: err}
		}
		if tags != nil {
			if err := tags.FetchAll(ctx, remote.ListFilter{}); err != nil {
				return AppErrorMsg{Err: err}
			}
		}
		return StoresRefreshed{}
	}
}

func tickToastsCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return expireToastsMsg{} })
}
