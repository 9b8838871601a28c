package store

import (
	"testing"
	"time"
)

type thing struct {
	ID   string
	Name string
	At   time.Time
}

func (t thing) EntityID() string { return t.ID }

func things(ids ...string) []thing {
	out := make([]thing, 0, len(ids))
	for _, id := range ids {
		out = append(out, thing{ID: id, Name: "name-" + id})
	}
	return out
}

func TestApplyCreatePrependsAndRollbackRemoves(t *testing.T) {
	items := things("a", "b")
	items2, tok := applyCreate(items, thing{ID: "temp-1", Name: "new"})

	if len(items2) != 3 || items2[0].ID != "temp-1" {
		t.Fatalf("create not prepended: %#v", items2)
	}
	if len(items) != 2 {
		t.Fatalf("input slice mutated")
	}

	items3 := rollback(items2, tok)
	if len(items3) != 2 || items3[0].ID != "a" {
		t.Fatalf("rollback did not remove temp entity: %#v", items3)
	}
}

func TestApplyUpdateSnapshotsPriorValue(t *testing.T) {
	items := things("a", "b", "c")
	items2, tok, err := applyUpdate(items, thing{ID: "b", Name: "renamed"})
	if err != nil {
		t.Fatalf("apply update: %v", err)
	}
	if items2[1].Name != "renamed" {
		t.Fatalf("update not applied: %#v", items2)
	}

	items3 := rollback(items2, tok)
	if items3[1].Name != "name-b" {
		t.Fatalf("rollback did not restore snapshot: %#v", items3)
	}
}

func TestApplyUpdateMissingIDFailsSynchronously(t *testing.T) {
	items := things("a")
	_, _, err := applyUpdate(items, thing{ID: "ghost"})
	if err == nil {
		t.Fatalf("expected ErrNotFoundLocally")
	}
}

func TestApplyDeleteRollbackReinsertsAtSameSlot(t *testing.T) {
	items := things("a", "b", "c")
	items2, tok, err := applyDelete(items, "b")
	if err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if len(items2) != 2 || items2[0].ID != "a" || items2[1].ID != "c" {
		t.Fatalf("delete not applied: %#v", items2)
	}

	items3 := rollback(items2, tok)
	if len(items3) != 3 || items3[1].ID != "b" || items3[1].Name != "name-b" {
		t.Fatalf("rollback did not reinsert at slot: %#v", items3)
	}
}

func TestReconcileRemapsTempID(t *testing.T) {
	items := things("a")
	items2, tok := applyCreate(items, thing{ID: "temp-1", Name: "draft"})

	truth := thing{ID: "srv-9", Name: "draft"}
	items3 := reconcile(items2, tok, truth)
	if items3[0].ID != "srv-9" {
		t.Fatalf("reconcile did not adopt server id: %#v", items3)
	}
	for _, it := range items3 {
		if IsTempID(it.ID) {
			t.Fatalf("temp id survived reconcile: %#v", items3)
		}
	}
}

func TestRollbackIsIdempotentOnConsumedToken(t *testing.T) {
	items := things("a", "b")
	items2, tok, err := applyDelete(items, "a")
	if err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	items3 := rollback(items2, tok)
	items4 := rollback(items3, tok)
	if len(items4) != len(items3) {
		t.Fatalf("second rollback was not a no-op: %#v", items4)
	}

	// same for a token consumed by reconcile
	items5, tok2, err := applyUpdate(items, thing{ID: "b", Name: "x"})
	if err != nil {
		t.Fatalf("apply update: %v", err)
	}
	items6 := reconcile(items5, tok2, thing{ID: "b", Name: "server"})
	items7 := rollback(items6, tok2)
	if items7[1].Name != "server" {
		t.Fatalf("rollback after reconcile clobbered server truth: %#v", items7)
	}
}

func TestOfflineQueueIsFIFO(t *testing.T) {
	var q offlineQueue
	for _, id := range []string{"1", "2", "3"} {
		q.enqueue(PendingOp{ID: id, Kind: MutationUpdate})
	}
	q.enqueue(PendingOp{ID: "1", Kind: MutationUpdate}) // duplicates allowed, never merged
	if q.size() != 4 {
		t.Fatalf("expected 4 ops, got %d", q.size())
	}

	order := make([]string, 0, 4)
	for {
		op, ok := q.peek()
		if !ok {
			break
		}
		order = append(order, op.ID)
		q.popFront()
	}
	want := []string{"1", "2", "3", "1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("unexpected order: %v", order)
		}
	}
}
