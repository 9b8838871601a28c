package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Header       string
	LeftPane     string
	RightPane    string
	StatusLine   string
	Footer       string
	Notification string
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	offlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func RenderApp(data AppData) string {
	left := panelStyle.Width(58).Render(data.LeftPane)
	right := panelStyle.Width(58).Render(data.RightPane)
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := statusStyle.Render(data.StatusLine)
	if strings.Contains(strings.ToLower(data.StatusLine), "error") {
		status = errorStyle.Render(data.StatusLine)
	}

	lines := []string{
		headerStyle.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, panelStyle.Render(strings.TrimRight(data.Notification, "\n")))
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

type SyncPaneData struct {
	Online           bool
	TaskCount        int
	ReminderCount    int
	PendingTasks     int
	PendingReminders int
	LastSyncedAt     time.Time
	LastError        string
}

func RenderSyncPane(data SyncPaneData) string {
	var b strings.Builder
	if data.Online {
		b.WriteString(statusStyle.Render("● online"))
	} else {
		b.WriteString(offlineStyle.Render("○ offline"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "tasks:     %d\n", data.TaskCount)
	fmt.Fprintf(&b, "reminders: %d\n", data.ReminderCount)
	pending := data.PendingTasks + data.PendingReminders
	if pending > 0 {
		fmt.Fprintf(&b, "pending:   %d change(s) queued\n", pending)
	}
	if !data.LastSyncedAt.IsZero() {
		fmt.Fprintf(&b, "synced:    %s\n", data.LastSyncedAt.Format("15:04:05"))
	}
	if data.LastError != "" {
		b.WriteString(errorStyle.Render("last error: " + data.LastError))
	}
	return b.String()
}

const helpMarkdown = `# remindd

## Keys

- **t** tasks view, **r** reminders view
- **a** quick add task, **d** complete, **x** delete, **z** snooze
- **o** toggle online/offline, **S** sync now
- **/** command palette, **?** toggle help, **q** quit

## Commands

- add <title>
- remind <title> in <value> <unit> [every <value> <unit>]
- done <id>, delete <task|reminder|tag> <id>, snooze <id> [<value> <unit>]
- show <tasks|reminders|pending>, online, offline, sync
`

func RenderHelp() string {
	return RenderMarkdown(helpMarkdown)
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
