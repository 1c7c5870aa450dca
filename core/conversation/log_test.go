package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pgcopilot/session-core/core/persistence"
)

func TestAppendAssignsSequentialPositions(t *testing.T) {
	log := NewLog(nil, "session")

	for i, content := range []string{"first", "second", "third"} {
		seq, err := log.Append(context.Background(), Turn{ID: content, Content: content})
		if err != nil {
			t.Fatalf("unexpected append error: %v", err)
		}
		if seq != i {
			t.Fatalf("expected sequence %d, got %d", i, seq)
		}
	}

	snapshot := log.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(snapshot))
	}
	for i, content := range []string{"first", "second", "third"} {
		if snapshot[i].Content != content {
			t.Fatalf("expected turn %d to be %q, got %q", i, content, snapshot[i].Content)
		}
	}
}

func TestAppendWritesThroughToStore(t *testing.T) {
	store := newMemoryStoreStub()
	log := NewLog(store, "session")

	if _, err := log.Append(context.Background(), Turn{ID: "a", Content: "hello"}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}

	data, ok := store.data["session"]
	if !ok {
		t.Fatalf("expected persisted data under session key")
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		t.Fatalf("failed to decode persisted turns: %v", err)
	}
	if len(turns) != 1 || turns[0].Content != "hello" {
		t.Fatalf("expected one persisted turn with content hello, got %v", turns)
	}
}

func TestAppendCommitsInMemoryWhenStoreFails(t *testing.T) {
	store := newMemoryStoreStub()
	store.saveErr = errors.New("disk full")
	log := NewLog(store, "session")

	seq, err := log.Append(context.Background(), Turn{ID: "a", Content: "kept"})
	if err == nil {
		t.Fatalf("expected append to report the store failure")
	}
	if seq != 0 {
		t.Fatalf("expected sequence 0, got %d", seq)
	}

	if log.Len() != 1 {
		t.Fatalf("expected the turn to stay in memory, got %d turns", log.Len())
	}
}

func TestRestoreReplacesInMemoryView(t *testing.T) {
	store := newMemoryStoreStub()
	persisted := []Turn{
		{ID: "a", Role: RoleUser, Kind: KindMessage, Content: "restored", CreatedAt: time.Now()},
	}
	data, err := json.Marshal(persisted)
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	store.data["session"] = data

	log := NewLog(store, "session")
	if err := log.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}

	snapshot := log.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Content != "restored" {
		t.Fatalf("expected the restored turn, got %v", snapshot)
	}
}

func TestRestoreWithoutPersistedStateIsNoOp(t *testing.T) {
	log := NewLog(newMemoryStoreStub(), "session")

	if err := log.Restore(context.Background()); err != nil {
		t.Fatalf("unexpected restore error: %v", err)
	}
	if log.Len() != 0 {
		t.Fatalf("expected an empty log, got %d turns", log.Len())
	}
}

func TestClearEmptiesLogAndErasesPersistedState(t *testing.T) {
	store := newMemoryStoreStub()
	log := NewLog(store, "session")

	if _, err := log.Append(context.Background(), Turn{ID: "a", Content: "gone"}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}
	if err := log.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected clear error: %v", err)
	}

	if log.Len() != 0 {
		t.Fatalf("expected an empty log after clear, got %d turns", log.Len())
	}
	if _, ok := store.data["session"]; ok {
		t.Fatalf("expected persisted state to be erased")
	}
}

func TestSnapshotIsIsolatedFromLaterAppends(t *testing.T) {
	log := NewLog(nil, "session")

	if _, err := log.Append(context.Background(), Turn{ID: "a", Content: "first"}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}
	snapshot := log.Snapshot()
	if _, err := log.Append(context.Background(), Turn{ID: "b", Content: "second"}); err != nil {
		t.Fatalf("unexpected append error: %v", err)
	}

	if len(snapshot) != 1 {
		t.Fatalf("expected snapshot to keep 1 turn, got %d", len(snapshot))
	}
}

func TestAllIteratesInAppendOrder(t *testing.T) {
	log := NewLog(nil, "session")
	for _, content := range []string{"one", "two"} {
		if _, err := log.Append(context.Background(), Turn{ID: content, Content: content}); err != nil {
			t.Fatalf("unexpected append error: %v", err)
		}
	}

	var seen []string
	for seq, turn := range log.All() {
		if seq != len(seen) {
			t.Fatalf("expected sequence %d, got %d", len(seen), seq)
		}
		seen = append(seen, turn.Content)
	}
	if len(seen) != 2 || seen[0] != "one" || seen[1] != "two" {
		t.Fatalf("expected [one two], got %v", seen)
	}
}

type memoryStoreStub struct {
	data    map[string][]byte
	saveErr error
}

func newMemoryStoreStub() *memoryStoreStub {
	return &memoryStoreStub{data: map[string][]byte{}}
}

func (s *memoryStoreStub) Save(_ context.Context, key string, data []byte) error {
	if s.saveErr != nil {
		return persistence.ErrWriteFailed
	}
	s.data[key] = data
	return nil
}

func (s *memoryStoreStub) Load(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := s.data[key]
	return data, ok, nil
}

func (s *memoryStoreStub) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}
