package events

const (
	// KindUserTextSubmitted identifies a typed user message.
	KindUserTextSubmitted Kind = "user_input.text_submitted"
	// KindUserUtteranceFinalized identifies the final transcript of a captured utterance.
	KindUserUtteranceFinalized Kind = "user_input.utterance_finalized"
	// KindUserTranscriptInterimUpdated identifies mutable interim transcript updates.
	KindUserTranscriptInterimUpdated Kind = "user_input.transcript_interim_updated"
)

// UserTextSubmitted carries a message the user typed.
type UserTextSubmitted struct {
	Base
	Text string
}

// NewUserTextSubmitted creates a typed user message event.
func NewUserTextSubmitted(text string) UserTextSubmitted {
	return UserTextSubmitted{Base: NewBase(KindUserTextSubmitted), Text: text}
}

// UserUtteranceFinalized carries the final transcript for one captured utterance.
type UserUtteranceFinalized struct {
	Base
	Transcript string
}

// NewUserUtteranceFinalized creates a finalized utterance event.
func NewUserUtteranceFinalized(transcript string) UserUtteranceFinalized {
	return UserUtteranceFinalized{Base: NewBase(KindUserUtteranceFinalized), Transcript: transcript}
}

// UserTranscriptInterimUpdated carries the mutable interim transcript snapshot.
// Each update replaces the previous one; interim text is never appended to the log.
type UserTranscriptInterimUpdated struct {
	Base
	Transcript string
}

// NewUserTranscriptInterimUpdated creates an interim transcript update event.
func NewUserTranscriptInterimUpdated(transcript string) UserTranscriptInterimUpdated {
	return UserTranscriptInterimUpdated{Base: NewBase(KindUserTranscriptInterimUpdated), Transcript: transcript}
}
