package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/store"
)

type View string

const (
	ViewTasks     View = "Tasks"
	ViewReminders View = "Reminders"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks     string
	Reminders string
	QuickAdd  string
	Online    string
	Sync      string
	Help      string
	Quit      string
}

func DefaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Tasks:     "t",
		Reminders: "r",
		QuickAdd:  "a",
		Online:    "o",
		Sync:      "S",
		Help:      "?",
		Quit:      "q",
	}
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Toast struct {
	Title string
	Body  string
	Until time.Time
}

// Messages flowing through the bubbletea loop.
type (
	SetStatusMsg struct {
		Text    string
		IsError bool
	}
	ClearStatusMsg  struct{}
	AppErrorMsg     struct{ Err error }
	StoresRefreshed struct{}
	ToastMsg        struct {
		Title    string
		Body     string
		Duration time.Duration
	}
	expireToastsMsg struct{}
	// ReminderFiredMsg arrives from the scheduler via Program.Send.
	ReminderFiredMsg struct{ Reminder model.Reminder }
)

type Model struct {
	CurrentView View
	Tasks       *store.TaskStore
	Reminders   *store.ReminderStore
	Tags        *store.TagStore
	Config      RuntimeConfig
	Palette     CommandPaletteState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error
	Toasts      []Toast

	taskList       list.Model
	reminderList   list.Model
	quickAddInput  textinput.Model
	commandInput   textinput.Model
	syncSpinner    spinner.Model
	helpModel      help.Model
	spinnerActive  bool
	quickAddActive bool
	now            func() time.Time
}

type taskItem struct{ task model.Task }

func (i taskItem) Title() string { return i.task.Title }
func (i taskItem) Description() string {
	desc := fmt.Sprintf("%s · %s", i.task.Status, i.task.Priority)
	if i.task.DueDate != nil {
		desc += " · due " + i.task.DueDate.Format("Jan 2 15:04")
	}
	if store.IsTempID(i.task.ID) {
		desc += " · pending sync"
	}
	return desc
}
func (i taskItem) FilterValue() string { return i.task.Title }

type reminderItem struct{ rem model.Reminder }

func (i reminderItem) Title() string { return i.rem.Title }
func (i reminderItem) Description() string {
	desc := i.rem.RemindAt.Format("Jan 2 15:04") + " · " + i.rem.Repeat.Describe()
	if !i.rem.IsActive {
		desc += " · inactive"
	}
	if store.IsTempID(i.rem.ID) {
		desc += " · pending sync"
	}
	return desc
}
func (i reminderItem) FilterValue() string { return i.rem.Title }

type helpKeyMap struct{ keys GlobalKeyMap }

func (h helpKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys(h.keys.Tasks), key.WithHelp(h.keys.Tasks, "tasks")),
		key.NewBinding(key.WithKeys(h.keys.Reminders), key.WithHelp(h.keys.Reminders, "reminders")),
		key.NewBinding(key.WithKeys(h.keys.QuickAdd), key.WithHelp(h.keys.QuickAdd, "quick add")),
		key.NewBinding(key.WithKeys(h.keys.Online), key.WithHelp(h.keys.Online, "online/offline")),
		key.NewBinding(key.WithKeys(h.keys.Sync), key.WithHelp(h.keys.Sync, "sync now")),
		key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command")),
		key.NewBinding(key.WithKeys(h.keys.Quit), key.WithHelp(h.keys.Quit, "quit")),
	}
}

func (h helpKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

func NewModel(tasks *store.TaskStore, reminders *store.ReminderStore, tags *store.TagStore, cfg RuntimeConfig) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "task title"
	quickAdd.CharLimit = 200

	command := textinput.New()
	command.Placeholder = "add ... | remind ... in 10 minutes | online | sync"
	command.CharLimit = 300

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	delegate := list.NewDefaultDelegate()
	taskList := list.New(nil, delegate, 56, 14)
	taskList.Title = "Tasks"
	taskList.SetShowHelp(false)
	reminderList := list.New(nil, delegate, 56, 14)
	reminderList.Title = "Reminders"
	reminderList.SetShowHelp(false)

	return Model{
		CurrentView:   ViewTasks,
		Tasks:         tasks,
		Reminders:     reminders,
		Tags:          tags,
		Config:        cfg,
		Keys:          DefaultKeyMap(),
		taskList:      taskList,
		reminderList:  reminderList,
		quickAddInput: quickAdd,
		commandInput:  command,
		syncSpinner:   spin,
		helpModel:     help.New(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// syncBubbleData pushes current store state into the list components.
func (m *Model) syncBubbleData() {
	tasks := m.Tasks.Items()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	m.taskList.SetItems(items)

	rems := m.Reminders.Items()
	remItems := make([]list.Item, 0, len(rems))
	for _, r := range rems {
		remItems = append(remItems, reminderItem{rem: r})
	}
	m.reminderList.SetItems(remItems)
}

func (m *Model) pushToast(title, body string, d time.Duration) {
	if d <= 0 {
		d = 5 * time.Second
	}
	m.Toasts = append(m.Toasts, Toast{Title: title, Body: body, Until: m.now().Add(d)})
	if len(m.Toasts) > 5 {
		m.Toasts = m.Toasts[len(m.Toasts)-5:]
	}
}

func (m *Model) expireToasts() {
	now := m.now()
	kept := m.Toasts[:0]
	for _, t := range m.Toasts {
		if t.Until.After(now) {
			kept = append(kept, t)
		}
	}
	m.Toasts = kept
}

func (m Model) selectedTask() (model.Task, bool) {
	item, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.task, true
}

func (m Model) selectedReminder() (model.Reminder, bool) {
	item, ok := m.reminderList.SelectedItem().(reminderItem)
	if !ok {
		return model.Reminder{}, false
	}
	return item.rem, true
}
