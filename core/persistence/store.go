// Package persistence defines the durable store capability the conversation
// log writes through. Implementations are injected; the log never reaches for
// ambient storage.
package persistence

import (
	"context"
	"errors"
)

// ErrWriteFailed wraps any failure to durably record conversation state.
var ErrWriteFailed = errors.New("persistence write failed")

// Store is a key-value durable store for serialized conversation state,
// addressed by session identity.
type Store interface {
	// Save durably writes data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error
	// Load returns the value stored under key. A missing key is not an
	// error: it returns (nil, false, nil).
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Delete removes the value stored under key. Deleting a missing key is
	// a no-op.
	Delete(ctx context.Context, key string) error
}
