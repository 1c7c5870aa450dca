package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"sync"

	"github.com/pgcopilot/session-core/core/persistence"
)

// Log is the append-only, ordered store of turns for one session.
//
// Every append and clear is written through to the configured store before the
// call returns; the in-memory view stays authoritative even when the write
// fails, so a flaky store degrades durability, never availability.
type Log struct {
	mu    sync.RWMutex
	turns []Turn

	store persistence.Store
	key   string
}

// NewLog creates a log persisted under the given session key. A nil store
// yields an in-memory-only log.
func NewLog(store persistence.Store, sessionKey string) *Log {
	return &Log{store: store, key: sessionKey}
}

// Restore loads previously persisted turns. It replaces the in-memory view
// and is intended to run once, before the session starts appending.
func (l *Log) Restore(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	data, ok, err := l.store.Load(ctx, l.key)
	if err != nil {
		return fmt.Errorf("failed to restore conversation log: %w", err)
	}
	if !ok {
		return nil
	}

	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return fmt.Errorf("failed to decode persisted conversation log: %w", err)
	}

	l.mu.Lock()
	l.turns = turns
	l.mu.Unlock()
	return nil
}

// Append adds turn at the end of the log and writes the updated sequence
// through to the store. It returns the turn's log sequence. The in-memory
// append commits even when persistence fails; the returned error then wraps
// persistence.ErrWriteFailed so the caller can surface it.
func (l *Log) Append(ctx context.Context, turn Turn) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, turn)
	seq := len(l.turns) - 1

	return seq, l.persistLocked(ctx)
}

// Clear empties the log and erases persisted state. It holds the write lock
// across both so no append can interleave and leave a partial log behind.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = nil

	if l.store == nil {
		return nil
	}
	if err := l.store.Delete(ctx, l.key); err != nil {
		return fmt.Errorf("failed to erase persisted conversation log: %w", err)
	}
	return nil
}

// Snapshot returns a point-in-time copy of the log in append order.
func (l *Log) Snapshot() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	turns := make([]Turn, len(l.turns))
	copy(turns, l.turns)
	return turns
}

// All returns a restartable iterator over a point-in-time view of the log.
// Iteration never blocks writers: the view is captured once, when iteration
// starts.
func (l *Log) All() iter.Seq2[int, Turn] {
	return func(yield func(int, Turn) bool) {
		for seq, turn := range l.Snapshot() {
			if !yield(seq, turn) {
				return
			}
		}
	}
}

// Len reports the number of appended turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

func (l *Log) persistLocked(ctx context.Context) error {
	if l.store == nil {
		return nil
	}

	data, err := json.Marshal(l.turns)
	if err != nil {
		return fmt.Errorf("%w: encode conversation log: %v", persistence.ErrWriteFailed, err)
	}
	if err := l.store.Save(ctx, l.key, data); err != nil {
		return fmt.Errorf("failed to persist conversation log: %w", err)
	}
	return nil
}
