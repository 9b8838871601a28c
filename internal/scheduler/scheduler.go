// Package scheduler watches for due reminders and presents them. It owns
// two inputs, a periodic due-poll against the remote client and an
// externally emitted reminder-triggered event channel, and runs three
// presentation effects per delivery: an audio cue, a transient toast and a
// platform notification.
// After presenting it settles the reminder's state through the reminder
// store: one-shot policies are deactivated, repeating ones get their
// last-triggered stamp.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sandeepkv93/remindd/internal/model"
)

const defaultPollInterval = 30 * time.Second

var ErrAlreadySubscribed = errors.New("scheduler: reminder event channel already subscribed")

// DuePoller is the slice of the remote contract the scheduler needs. The
// remote side decides what "due now" means; the scheduler only reacts.
type DuePoller interface {
	ListDue(ctx context.Context) ([]model.Reminder, error)
}

// ReminderSettler settles a presented reminder's state. *store.ReminderStore
// satisfies it.
type ReminderSettler interface {
	MarkTriggered(ctx context.Context, id string, at time.Time) (*model.Reminder, error)
	Deactivate(ctx context.Context, id string, at time.Time) (*model.Reminder, error)
}

type Scheduler struct {
	mu         sync.Mutex
	poller     DuePoller
	settler    ReminderSettler
	cue        CuePlayer
	toaster    Toaster
	notifier   DesktopNotifier
	desktopOK  bool
	onDeliver  func(model.Reminder)
	interval   time.Duration
	clock      func() time.Time
	events     <-chan model.Reminder
	subscribed bool
	started    bool
	stopped    bool
	stopCh     chan struct{}
	doneCh     chan struct{}

	presented uint64
}

type SchedulerOption func(*Scheduler)

func WithPollInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(clock func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

func WithCuePlayer(p CuePlayer) SchedulerOption {
	return func(s *Scheduler) { s.cue = p }
}

func WithToaster(t Toaster) SchedulerOption {
	return func(s *Scheduler) { s.toaster = t }
}

// WithDesktopNotifier installs the platform notifier. The enabled flag is
// the outcome of the permission query; when false the notifier is never
// invoked.
func WithDesktopNotifier(n DesktopNotifier, enabled bool) SchedulerOption {
	return func(s *Scheduler) {
		s.notifier = n
		s.desktopOK = enabled
	}
}

// WithDeliveryHook registers a callback invoked once per presented
// reminder, after the presentation effects. The UI uses it to learn about
// fires without polling the store.
func WithDeliveryHook(fn func(model.Reminder)) SchedulerOption {
	return func(s *Scheduler) { s.onDeliver = fn }
}

func New(poller DuePoller, settler ReminderSettler, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		poller:   poller,
		settler:  settler,
		cue:      NoopCuePlayer{},
		toaster:  NoopToaster{},
		notifier: NoopDesktopNotifier{},
		interval: defaultPollInterval,
		clock:    func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe attaches the external reminder-triggered channel. The scheduler
// subscribes at most once per lifetime; a second call is rejected. The
// channel must be attached before Start: the loop picks it up once.
func (s *Scheduler) Subscribe(events <-chan model.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscribed {
		return ErrAlreadySubscribed
	}
	s.subscribed = true
	s.events = events
	return nil
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.loop()
}

// Stop halts the poll loop and drops the event subscription. Safe to call
// when never started or already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.subscribed = false
	close(s.stopCh)
	s.mu.Unlock()
	<-s.doneCh
}

// Presented reports how many reminders have been delivered to the user so
// far.
func (s *Scheduler) Presented() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presented
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.mu.Lock()
	events := s.events
	s.mu.Unlock()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.pollOnce(context.Background())
		case rem, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			batch := append([]model.Reminder{rem}, drainPending(events)...)
			s.deliver(context.Background(), batch)
		}
	}
}

// drainPending collects whatever else is already buffered so duplicates
// observed in the same tick land in one batch and de-duplicate together.
func drainPending(events <-chan model.Reminder) []model.Reminder {
	var out []model.Reminder
	for {
		select {
		case rem, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, rem)
		default:
			return out
		}
	}
}

func (s *Scheduler) pollOnce(ctx context.Context) {
	due, err := s.poller.ListDue(ctx)
	if err != nil {
		// nothing to do until the next tick
		return
	}
	s.deliver(ctx, due)
}

// deliver presents each due reminder once, de-duplicating by id within the
// batch, then settles its state.
func (s *Scheduler) deliver(ctx context.Context, batch []model.Reminder) {
	seen := make(map[string]struct{}, len(batch))
	for _, rem := range batch {
		if _, dup := seen[rem.ID]; dup {
			continue
		}
		seen[rem.ID] = struct{}{}
		s.present(rem)
		s.settle(ctx, rem)
	}
}

// present runs the three delivery effects. Each is fire-and-forget: a
// blocked audio runtime or a failed notify-send must not silence the others.
func (s *Scheduler) present(rem model.Reminder) {
	_ = s.cue.Play()
	s.toaster.Toast(rem.Title, toastBody(rem), toastDuration)
	if s.desktopOK {
		_ = s.notifier.Send(Notification{Title: rem.Title, Body: toastBody(rem)})
	}
	if s.onDeliver != nil {
		s.onDeliver(rem)
	}
	s.mu.Lock()
	s.presented++
	s.mu.Unlock()
}

func (s *Scheduler) settle(ctx context.Context, rem model.Reminder) {
	now := s.clock()
	if rem.Repeat.FiresOnce() {
		_, _ = s.settler.Deactivate(ctx, rem.ID, now)
		return
	}
	_, _ = s.settler.MarkTriggered(ctx, rem.ID, now)
}

func toastBody(rem model.Reminder) string {
	if rem.Description != "" {
		return rem.Description
	}
	return "Reminder due"
}
