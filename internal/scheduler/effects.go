package scheduler

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

const toastDuration = 5 * time.Second

type Notification struct {
	Title string
	Body  string
}

// DesktopNotifier requests a platform-native notification.
type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

// ExecDesktopNotifier shells out to the platform notification command.
type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// CuePlayer plays the audible cue for a delivery.
type CuePlayer interface {
	Play() error
}

type NoopCuePlayer struct{}

func (NoopCuePlayer) Play() error { return nil }

// BellCuePlayer rings the terminal bell on the given writer, usually the
// program's stdout.
type BellCuePlayer struct {
	W io.Writer
}

func (p BellCuePlayer) Play() error {
	if p.W == nil {
		return nil
	}
	_, err := p.W.Write([]byte("\a"))
	return err
}

// Toaster raises the transient in-app message for a delivery.
type Toaster interface {
	Toast(title, body string, d time.Duration)
}

type NoopToaster struct{}

func (NoopToaster) Toast(string, string, time.Duration) {}

// FuncToaster adapts a function, letting the TUI feed toasts into its
// message loop.
type FuncToaster func(title, body string, d time.Duration)

func (f FuncToaster) Toast(title, body string, d time.Duration) { f(title, body, d) }
