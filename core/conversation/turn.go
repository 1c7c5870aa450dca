// Package conversation holds the turn model and the append-only log that is
// the single source of truth for what a session displays.
package conversation

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Kind string

const (
	KindMessage      Kind = "message"
	KindThought      Kind = "thought"
	KindFunctionCall Kind = "function_call"
)

// Turn is one immutable entry in the conversation log. CreatedAt is a
// wall-clock display timestamp only; ordering is defined solely by the log
// sequence a turn was appended at.
type Turn struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Kind        Kind      `json:"kind"`
	Content     string    `json:"content"`
	SpeakerName string    `json:"speakerName"`
	CreatedAt   time.Time `json:"createdAt"`
}
