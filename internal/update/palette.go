package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/remindd/internal/commands"
	"github.com/sandeepkv93/remindd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var followUp tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			m.CurrentView = ViewTasks
			created := m.Tasks.Create(context.Background(), model.Task{Title: a.Title})
			if created == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Tasks.LastError()}
			}
			return commands.Result{Message: fmt.Sprintf("added task: %s", created.Title)}, nil
		},
		Remind: func(r commands.RemindArgs) (commands.Result, error) {
			d, ok := r.In.Unit.Duration(r.In.Value)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "invalid interval"}
			}
			m.CurrentView = ViewReminders
			created := m.Reminders.Create(context.Background(), model.Reminder{
				Title:    r.Title,
				RemindAt: m.now().Add(d),
				Repeat:   r.Repeat,
				IsActive: true,
			})
			if created == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Reminders.LastError()}
			}
			return commands.Result{Message: fmt.Sprintf("reminder set for %s", created.RemindAt.Format("Jan 2 15:04"))}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			id, ok := m.resolveTaskID(d.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matching %q", d.Target)}
			}
			done, err := m.Tasks.Complete(context.Background(), id)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if done == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Tasks.LastError()}
			}
			return commands.Result{Message: fmt.Sprintf("completed: %s", done.Title)}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			return m.deleteByCommand(d)
		},
		Snooze: func(s commands.SnoozeArgs) (commands.Result, error) {
			snooze := m.Config.SnoozeDuration()
			if s.For != nil {
				d, ok := s.For.Unit.Duration(s.For.Value)
				if !ok {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "invalid snooze duration"}
				}
				snooze = d
			}
			rem, err := m.Reminders.Snooze(context.Background(), s.Target, snooze)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if rem == nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: m.Reminders.LastError()}
			}
			return commands.Result{Message: fmt.Sprintf("snoozed until %s", rem.RemindAt.Format("15:04"))}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			switch s.Subject {
			case "tasks", "tags":
				m.CurrentView = ViewTasks
			case "reminders":
				m.CurrentView = ViewReminders
			case "pending":
				pending := len(m.Tasks.PendingOps()) + len(m.Reminders.PendingOps())
				return commands.Result{Message: fmt.Sprintf("%d operation(s) pending sync", pending)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("showing %s", s.Subject)}, nil
		},
		Online: func() (commands.Result, error) {
			_, followUp = m.toggleOnlineTo(true)
			return commands.Result{Message: "going online"}, nil
		},
		Offline: func() (commands.Result, error) {
			_, followUp = m.toggleOnlineTo(false)
			return commands.Result{Message: "going offline"}, nil
		},
		Sync: func() (commands.Result, error) {
			followUp = m.refreshCmd()
			return commands.Result{Message: "sync started"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, followUp
}

func (m *Model) deleteByCommand(d commands.DeleteArgs) (commands.Result, error) {
	ctx := context.Background()
	var (
		ok  bool
		err error
	)
	switch d.Subject {
	case "task":
		var id string
		if id, ok = m.resolveTaskID(d.Target); ok {
			ok, err = m.Tasks.Delete(ctx, id)
		}
	case "reminder":
		ok, err = m.Reminders.Delete(ctx, d.Target)
	case "tag":
		ok, err = m.Tags.Delete(ctx, d.Target)
	}
	if err != nil {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
	}
	if !ok {
		return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("could not delete %s %s", d.Subject, d.Target)}
	}
	return commands.Result{Message: fmt.Sprintf("deleted %s %s", d.Subject, d.Target)}, nil
}

// resolveTaskID accepts a full id or an unambiguous prefix.
func (m Model) resolveTaskID(target string) (string, bool) {
	match := ""
	for _, t := range m.Tasks.Items() {
		if t.ID == target {
			return t.ID, true
		}
		if strings.HasPrefix(t.ID, target) {
			if match != "" {
				return "", false
			}
			match = t.ID
		}
	}
	return match, match != ""
}

func (m Model) toggleOnlineTo(online bool) (tea.Model, tea.Cmd) {
	tasks, reminders := m.Tasks, m.Reminders
	return m, func() tea.Msg {
		ctx := context.Background()
		if err := tasks.SetOnline(ctx, online); err != nil {
			return AppErrorMsg{Err: err}
		}
		if err := reminders.SetOnline(ctx, online); err != nil {
			return AppErrorMsg{Err: err}
		}
		if online {
			return SetStatusMsg{Text: "back online, changes synced"}
		}
		return SetStatusMsg{Text: "offline: changes will queue"}
	}
}
