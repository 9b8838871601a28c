package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/remindd/internal/remote"
)

const defaultSyncInterval = 30 * time.Second

// Client is the slice of the remote contract a Store needs. remote.TaskClient,
// remote.ReminderClient and remote.TagClient all satisfy it for their entity
// type.
type Client[T Entity] interface {
	List(ctx context.Context, f remote.ListFilter) (remote.Page[T], error)
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, id string, in T) (T, error)
	Delete(ctx context.Context, id string) error
}

type Config[T Entity] struct {
	// Name appears in user-facing error strings ("task", "reminder").
	Name   string
	Client Client[T]
	// Synthesize builds the full optimistic entity from caller-supplied
	// fields, the minted temp id and the current time.
	Synthesize func(input T, tempID string, now time.Time) T
	// Sort, when set, defines the collection order restored after
	// reconciles and delete rollbacks.
	Sort         func(items []T)
	SyncInterval time.Duration
	Clock        func() time.Time
}

// Store is the in-memory authoritative mirror for one entity type. It is the
// only writer of its collection; every operation serializes through one
// mutex, with remote calls made outside the critical section. Online
// mutations apply optimistically and reconcile or roll back when the call
// settles; offline mutations apply optimistically and queue for replay.
//
// A second mutation issued while an earlier one on the same entity is still
// in flight is not blocked: it applies on top of the optimistic state, and
// if the earlier call later rolls back, the restored snapshot predates the
// newer mutation. Callers that need stronger ordering must wait for
// settlement.
type Store[T Entity] struct {
	mu  sync.Mutex
	cfg Config[T]

	items      []T
	queue      offlineQueue
	online     bool
	loading    bool
	syncing    bool
	draining   bool
	lastError  string
	lastSynced time.Time
	lastFilter remote.ListFilter
	tempSeq    int64

	// idRemap carries temp ids to their server-minted replacements across
	// drains, so a queued update or delete that references a temp-created
	// entity replays against the real id even when an earlier drain attempt
	// failed partway.
	idRemap map[string]string

	syncStop chan struct{}
}

func New[T Entity](cfg Config[T]) *Store[T] {
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = defaultSyncInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	return &Store[T]{cfg: cfg, online: true, idRemap: make(map[string]string)}
}

func (s *Store[T]) now() time.Time { return s.cfg.Clock() }

func (s *Store[T]) nextTempID() string {
	s.tempSeq++
	return fmt.Sprintf("%s%d", tempIDPrefix, s.tempSeq)
}

// Items returns a copy of the collection in store order.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store[T]) Syncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncing
}

func (s *Store[T]) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// LastError is the human-readable failure from the most recent operation,
// empty after a success.
func (s *Store[T]) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *Store[T]) LastSyncedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSynced
}

func (s *Store[T]) PendingOps() []PendingOp {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.snapshot()
}

// FetchAll replaces the whole collection with server truth. On failure the
// previous collection is left untouched and the error is surfaced; the
// last-sync timestamp moves only on success.
func (s *Store[T]) FetchAll(ctx context.Context, f remote.ListFilter) error {
	s.mu.Lock()
	if !s.online {
		s.lastError = fmt.Sprintf("cannot refresh %ss while offline", s.cfg.Name)
		s.mu.Unlock()
		return fmt.Errorf("store: %s fetch while offline", s.cfg.Name)
	}
	s.loading = true
	s.syncing = true
	s.lastFilter = f
	s.mu.Unlock()

	page, err := s.cfg.Client.List(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.syncing = false
	if err != nil {
		s.lastError = fmt.Sprintf("failed to load %ss", s.cfg.Name)
		return err
	}
	s.items = page.Items
	if s.cfg.Sort != nil {
		s.cfg.Sort(s.items)
	}
	s.lastSynced = s.now()
	s.lastError = ""
	return nil
}

// Create applies an optimistic entity immediately and returns it. Online,
// the optimistic entry is reconciled with the server's answer or rolled
// back; a failed call yields nil with the reason in LastError. Offline (or
// mid-drain) the mutation queues for replay and the optimistic entity is
// trusted to exist once synced; there is no rollback on that path.
func (s *Store[T]) Create(ctx context.Context, input T) *T {
	now := s.now()
	s.mu.Lock()
	entity := s.cfg.Synthesize(input, s.nextTempID(), now)
	var tok *rollbackToken[T]
	s.items, tok = applyCreate(s.items, entity)
	if s.deferToQueue(PendingOp{ID: entity.EntityID(), Kind: MutationCreate, Payload: entity, EnqueuedAt: now}) {
		s.mu.Unlock()
		return &entity
	}
	s.mu.Unlock()

	created, err := s.cfg.Client.Create(ctx, entity)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.items = rollback(s.items, tok)
		s.lastError = fmt.Sprintf("failed to create %s", s.cfg.Name)
		return nil
	}
	s.items = reconcile(s.items, tok, created)
	s.resort()
	s.lastError = ""
	return &created
}

// Update overwrites the local entity, then settles with the server. The
// only error it returns is ErrNotFoundLocally, raised before any apply;
// remote failures roll back and yield nil.
func (s *Store[T]) Update(ctx context.Context, input T) (*T, error) {
	now := s.now()
	s.mu.Lock()
	items, tok, err := applyUpdate(s.items, input)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.items = items
	if s.deferToQueue(PendingOp{ID: input.EntityID(), Kind: MutationUpdate, Payload: input, EnqueuedAt: now}) {
		s.mu.Unlock()
		return &input, nil
	}
	s.mu.Unlock()

	updated, err := s.cfg.Client.Update(ctx, input.EntityID(), input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.items = rollback(s.items, tok)
		s.lastError = fmt.Sprintf("failed to update %s", s.cfg.Name)
		return nil, nil
	}
	s.items = reconcile(s.items, tok, updated)
	s.resort()
	s.lastError = ""
	return &updated, nil
}

// Delete removes the entity locally, then settles with the server. It
// reports whether the delete stuck; a remote failure restores the entity at
// its prior slot and returns false. ErrNotFoundLocally is the only error.
func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	now := s.now()
	s.mu.Lock()
	items, tok, err := applyDelete(s.items, id)
	if err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.items = items
	if s.deferToQueue(PendingOp{ID: id, Kind: MutationDelete, EnqueuedAt: now}) {
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	callErr := s.cfg.Client.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if callErr != nil {
		s.items = rollback(s.items, tok)
		s.resort()
		s.lastError = fmt.Sprintf("failed to delete %s", s.cfg.Name)
		return false, nil
	}
	tok.used = true
	s.lastError = ""
	return true, nil
}

// deferToQueue enqueues op when the store cannot send it right now. Held
// under s.mu.
func (s *Store[T]) deferToQueue(op PendingOp) bool {
	if s.online && !s.draining {
		return false
	}
	s.queue.enqueue(op)
	return true
}

// SetOnline flips connectivity. Going offline only raises the flag future
// mutations consult. Going online triggers exactly one drain of the pending
// queue; on success the queue is empty and a refetch reconciles any id
// remapping, on failure the unsent operations stay queued and a sync error
// is surfaced.
func (s *Store[T]) SetOnline(ctx context.Context, online bool) error {
	s.mu.Lock()
	if s.online == online {
		s.mu.Unlock()
		return nil
	}
	s.online = online
	if !online || s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true
	s.syncing = true
	s.mu.Unlock()

	err := s.drainQueue(ctx)

	s.mu.Lock()
	s.draining = false
	s.syncing = false
	if err != nil {
		s.lastError = fmt.Sprintf("sync failed: %d %s change(s) still pending", s.queue.size(), s.cfg.Name)
		s.mu.Unlock()
		return err
	}
	filter := s.lastFilter
	s.mu.Unlock()
	return s.FetchAll(ctx, filter)
}

// drainQueue replays pending operations strictly in FIFO order and fails
// fast: the first rejected replay stops the drain with the failed operation
// (and everything behind it) still queued. Mutations applied while the
// drain runs append to the queue and are picked up in the same pass.
func (s *Store[T]) drainQueue(ctx context.Context) error {
	for {
		s.mu.Lock()
		op, ok := s.queue.peek()
		if !ok {
			// every op resolved; temp ids are gone after the refetch
			s.idRemap = make(map[string]string)
			s.mu.Unlock()
			return nil
		}
		s.mu.Unlock()
		if err := s.replay(ctx, op); err != nil {
			return err
		}
		s.mu.Lock()
		s.queue.popFront()
		s.mu.Unlock()
	}
}

// replay resends one queued op. A successful create records the server's id
// for the temp-created entity, and later ops referencing that temp id are
// rewritten to the real id before sending.
func (s *Store[T]) replay(ctx context.Context, op PendingOp) error {
	switch op.Kind {
	case MutationCreate:
		entity, ok := op.Payload.(T)
		if !ok {
			return fmt.Errorf("store: bad %s create payload", s.cfg.Name)
		}
		created, err := s.cfg.Client.Create(ctx, entity)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.idRemap[op.ID] = created.EntityID()
		s.mu.Unlock()
		return nil
	case MutationUpdate:
		entity, ok := op.Payload.(T)
		if !ok {
			return fmt.Errorf("store: bad %s update payload", s.cfg.Name)
		}
		_, err := s.cfg.Client.Update(ctx, s.replayID(op.ID), entity)
		return err
	case MutationDelete:
		return s.cfg.Client.Delete(ctx, s.replayID(op.ID))
	default:
		return fmt.Errorf("store: unknown mutation kind %q", op.Kind)
	}
}

func (s *Store[T]) replayID(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mapped, ok := s.idRemap[id]; ok {
		return mapped
	}
	return id
}

// StartBackgroundSync installs the periodic refetch timer. Calling it while
// a timer is already running is a no-op, so repeated mounts of UI surfaces
// never stack tickers.
func (s *Store[T]) StartBackgroundSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncStop != nil {
		return
	}
	stop := make(chan struct{})
	s.syncStop = stop
	go s.backgroundSyncLoop(stop)
}

// StopBackgroundSync cancels the timer; safe to call when not running.
func (s *Store[T]) StopBackgroundSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncStop == nil {
		return
	}
	close(s.syncStop)
	s.syncStop = nil
}

func (s *Store[T]) backgroundSyncLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			idle := s.online && !s.syncing
			filter := s.lastFilter
			s.mu.Unlock()
			if idle {
				_ = s.FetchAll(context.Background(), filter)
			}
		}
	}
}

func (s *Store[T]) resort() {
	if s.cfg.Sort != nil {
		s.cfg.Sort(s.items)
	}
}
