// Package store implements the client-side optimistic state layer: an
// in-memory mirror of the authoritative collection that applies mutations
// before the remote call settles, reconciles with server truth on success,
// and rolls back to the exact prior state on failure. Mutations made while
// offline are queued and replayed in order on reconnect.
package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFoundLocally means an update or delete targeted an id absent from
// the in-memory collection. It is raised synchronously, before any
// optimistic apply: it signals a caller bug, not a transient condition.
var ErrNotFoundLocally = errors.New("store: entity not found locally")

type Entity interface {
	EntityID() string
}

type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

const tempIDPrefix = "temp-"

// IsTempID reports whether id was minted locally for an entity the server
// has not confirmed yet. Temp ids are visible only between an optimistic
// apply and its reconcile or rollback.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// rollbackToken captures what an optimistic apply changed so the exact
// prior state can be restored. A token is single-use: reconcile or rollback
// consumes it, and a second rollback on a consumed token is a no-op.
type rollbackToken[T Entity] struct {
	id    string
	kind  MutationKind
	prev  *T
	index int
	used  bool
}

// applyCreate prepends the synthesized entity (collections read
// most-recent-first) and returns a token recording that its temp id did not
// exist before.
func applyCreate[T Entity](items []T, entity T) ([]T, *rollbackToken[T]) {
	out := make([]T, 0, len(items)+1)
	out = append(out, entity)
	out = append(out, items...)
	return out, &rollbackToken[T]{id: entity.EntityID(), kind: MutationCreate}
}

// applyUpdate snapshots the entity's full prior value before overwriting it
// in place.
func applyUpdate[T Entity](items []T, entity T) ([]T, *rollbackToken[T], error) {
	id := entity.EntityID()
	idx := indexByID(items, id)
	if idx < 0 {
		return items, nil, fmt.Errorf("%w: %s", ErrNotFoundLocally, id)
	}
	prev := items[idx]
	out := append([]T(nil), items...)
	out[idx] = entity
	return out, &rollbackToken[T]{id: id, kind: MutationUpdate, prev: &prev, index: idx}, nil
}

// applyDelete snapshots the entity and its position so rollback can
// reinsert at the same logical slot.
func applyDelete[T Entity](items []T, id string) ([]T, *rollbackToken[T], error) {
	idx := indexByID(items, id)
	if idx < 0 {
		return items, nil, fmt.Errorf("%w: %s", ErrNotFoundLocally, id)
	}
	prev := items[idx]
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return out, &rollbackToken[T]{id: id, kind: MutationDelete, prev: &prev, index: idx}, nil
}

// reconcile replaces the optimistic entity with the authoritative one the
// server returned. The slot is found through the token's id, not the
// server's, so a create whose temp id was remapped still lands on the right
// entry.
func reconcile[T Entity](items []T, tok *rollbackToken[T], truth T) []T {
	if tok == nil || tok.used {
		return items
	}
	tok.used = true
	if tok.kind == MutationDelete {
		return items
	}
	idx := indexByID(items, tok.id)
	if idx < 0 {
		return items
	}
	out := append([]T(nil), items...)
	out[idx] = truth
	return out
}

// rollback restores the exact pre-mutation snapshot. It always succeeds and
// is idempotent on an already-consumed token.
func rollback[T Entity](items []T, tok *rollbackToken[T]) []T {
	if tok == nil || tok.used {
		return items
	}
	tok.used = true
	switch tok.kind {
	case MutationCreate:
		idx := indexByID(items, tok.id)
		if idx < 0 {
			return items
		}
		out := make([]T, 0, len(items)-1)
		out = append(out, items[:idx]...)
		out = append(out, items[idx+1:]...)
		return out
	case MutationUpdate:
		idx := indexByID(items, tok.id)
		if idx < 0 {
			return items
		}
		out := append([]T(nil), items...)
		out[idx] = *tok.prev
		return out
	case MutationDelete:
		idx := tok.index
		if idx > len(items) {
			idx = len(items)
		}
		out := make([]T, 0, len(items)+1)
		out = append(out, items[:idx]...)
		out = append(out, *tok.prev)
		out = append(out, items[idx:]...)
		return out
	default:
		return items
	}
}

func indexByID[T Entity](items []T, id string) int {
	for i := range items {
		if items[i].EntityID() == id {
			return i
		}
	}
	return -1
}
