// Package events defines the typed events merged into a session's single
// orchestration queue. Every producer (channel reader, capture callbacks,
// narration completion, user-initiated operations) is converted into one of
// these values before it can touch conversation state.
package events
