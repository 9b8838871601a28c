package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/remindd/internal/model"
	"github.com/sandeepkv93/remindd/internal/remote"
	"github.com/sandeepkv93/remindd/internal/scheduler"
	"github.com/sandeepkv93/remindd/internal/storage"
	"github.com/sandeepkv93/remindd/internal/store"
	"github.com/sandeepkv93/remindd/internal/update"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "remindd failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := update.LoadRuntimeConfig(update.DefaultConfigPath())
	if err != nil {
		return err
	}
	cfg = update.RuntimeConfigFromEnv(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	local := remote.NewLocal(repo)
	tasks := store.NewTaskStore(local.Tasks(), store.WithSyncInterval(cfg.SyncInterval()))
	reminders := store.NewReminderStore(local.Reminders(), store.WithSyncInterval(cfg.SyncInterval()))
	tags := store.NewTagStore(local.Tags(), store.WithSyncInterval(cfg.SyncInterval()))

	program := tea.NewProgram(update.NewModel(tasks, reminders, tags, cfg), tea.WithAltScreen())

	sched := scheduler.New(local.Reminders(), reminders,
		scheduler.WithPollInterval(cfg.DuePollInterval()),
		scheduler.WithCuePlayer(scheduler.BellCuePlayer{W: os.Stdout}),
		scheduler.WithToaster(scheduler.FuncToaster(func(title, body string, _ time.Duration) {
			program.Send(update.ToastMsg{Title: title, Body: body})
		})),
		scheduler.WithDesktopNotifier(scheduler.ExecDesktopNotifier{}, cfg.DesktopNotifications),
		scheduler.WithDeliveryHook(func(rem model.Reminder) {
			program.Send(update.ReminderFiredMsg{Reminder: rem})
		}))
	sched.Start()
	defer sched.Stop()

	tasks.StartBackgroundSync()
	reminders.StartBackgroundSync()
	defer tasks.StopBackgroundSync()
	defer reminders.StopBackgroundSync()

	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}
