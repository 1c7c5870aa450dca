package events

const (
	// KindLogClearRequested identifies a request to erase the conversation log.
	KindLogClearRequested Kind = "log.clear_requested"
)

// LogClearRequested marks a request to empty the log and its persisted state.
type LogClearRequested struct{ Base }

// NewLogClearRequested creates a log clear request event.
func NewLogClearRequested() LogClearRequested {
	return LogClearRequested{Base: NewBase(KindLogClearRequested)}
}
