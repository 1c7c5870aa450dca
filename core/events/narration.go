package events

const (
	// KindNarrationFinished identifies completion of a narration, successful or not.
	KindNarrationFinished Kind = "narration.finished"
)

// NarrationFinished marks the end of a narration attempt for a turn. It is
// injected back into the queue so capture requests parked behind an audible
// narration can proceed. ID identifies which narration finished; a finish
// reported by a narration that was cancelled by its successor must not be
// mistaken for the successor's own completion.
type NarrationFinished struct {
	Base
	ID      uint64
	Content string
}

// NewNarrationFinished creates a narration finished event.
func NewNarrationFinished(id uint64, content string) NarrationFinished {
	return NarrationFinished{Base: NewBase(KindNarrationFinished), ID: id, Content: content}
}
