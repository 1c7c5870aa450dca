// Package session implements the real-time multi-modal session orchestrator:
// it owns one conversation log, one session channel, and the capture and
// narration facilities, and merges their independently-paced events into a
// single serialized stream of log mutations.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pgcopilot/session-core/core/audio"
	"github.com/pgcopilot/session-core/core/conversation"
	"github.com/pgcopilot/session-core/core/events"
	"github.com/pgcopilot/session-core/core/persistence"
	"github.com/pgcopilot/session-core/core/transport"
)

const outboundQueueCapacity = 32

// Orchestrator coordinates one user's live conversation session. It is the
// sole writer of its conversation log; every producer (channel frames,
// capture results, narration completions, user-initiated operations) is
// funneled through one single-consumer event queue.
type Orchestrator struct {
	sessionID     string
	identity      Identity
	assistantName string
	encoding      audio.EncodingInfo

	log   *conversation.Log
	store persistence.Store

	channel   sessionChannel
	capture   captureSource
	narration narrationSink

	runtime    *sessionRuntime
	runOptions RunOptions

	baseContext context.Context
	closeOnce   sync.Once

	subscribersMu sync.Mutex
	subscribers   []func(turns []conversation.Turn)

	outbound chan string

	// Loop-owned coordination state; touched only by the event loop.
	narrating           bool
	pendingCaptureStart bool
	narrationSeq        uint64
	activeNarrationID   uint64
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		sessionID:     uuid.NewString(),
		identity:      Identity{DisplayName: "User"},
		assistantName: "Assistant",
		encoding:      audio.GetDefaultEncodingInfo(),
		baseContext:   context.Background(),
		runtime:       newSessionRuntime(),
		outbound:      make(chan string, outboundQueueCapacity),
	}
	o.narration.setEncoding(o.encoding)

	for _, opt := range opts {
		opt(o)
	}

	o.log = conversation.NewLog(o.store, o.sessionID)

	return o
}

// Start begins orchestration: it restores persisted turns, starts the event
// loop, wires the channel's inbound consumer, and connects the channel in the
// background.
//
// ctx is the session's base context; cancelling it closes the session.
//
// Contract: call Start at most once per orchestrator instance.
func (o *Orchestrator) Start(ctx context.Context, opts ...RunOption) error {
	if o.runtime.isClosed() {
		return fmt.Errorf("orchestrator already closed")
	}

	o.runOptions = RunOptions{}
	for _, opt := range opts {
		opt(&o.runOptions)
	}
	o.baseContext = ctx

	if err := o.log.Restore(ctx); err != nil {
		o.raiseAdvisory(fmt.Errorf("conversation log restore failed: %w", err))
	}

	o.channel.onInboundFrame(func(frame transport.Frame) {
		o.runtime.enqueue(events.NewChannelFrameReceived(string(frame.Kind), frame.Text))
	})
	o.channel.onClosed(func(err error) {
		o.runtime.enqueue(events.NewChannelClosed(err))
	})

	if started := o.runtime.start(o.handleEvent); started {
		go o.watchContext(ctx)
		go o.sendOutbound()
	}

	o.notifySubscribers()

	if o.channel.isConfigured() {
		go o.connectChannel()
	}

	return nil
}

// watchContext closes the session when its base context is cancelled. It must
// also exit on an explicit Close, or it would outlive the session.
func (o *Orchestrator) watchContext(ctx context.Context) {
	select {
	case <-ctx.Done():
		o.Close()
	case <-o.runtime.closeCh:
	}
}

// sendOutbound is the single writer on the session channel. Draining one
// queue in order preserves wire order across rapid submissions while keeping
// the event loop free of blocking sends.
func (o *Orchestrator) sendOutbound() {
	for {
		select {
		case <-o.runtime.closeCh:
			return
		case content := <-o.outbound:
			if err := o.channel.send(content); err != nil {
				o.raiseAdvisory(fmt.Errorf("failed to deliver user turn: %w", err))
			}
		}
	}
}

func (o *Orchestrator) connectChannel() {
	if err := o.channel.connect(o.baseContext); err != nil {
		o.raiseAdvisory(err)
	}
	o.emitChannelState()
}

// SubmitUserText submits a typed user message for routing.
func (o *Orchestrator) SubmitUserText(text string) {
	o.runtime.enqueue(events.NewUserTextSubmitted(text))
}

// SubmitFinalizedUtterance submits a completed captured utterance for
// routing, as if the capture source had finalized it.
func (o *Orchestrator) SubmitFinalizedUtterance(text string) {
	o.runtime.enqueue(events.NewUserUtteranceFinalized(text))
}

// SetCaptureEnabled starts or stops speech capture. A start issued while a
// narration is audibly in flight is parked until the narration finishes, so
// the session never listens to its own voice.
func (o *Orchestrator) SetCaptureEnabled(enabled bool) {
	if enabled {
		o.runtime.enqueue(events.NewCaptureStartRequested())
		return
	}
	o.runtime.enqueue(events.NewCaptureStopRequested())
}

// SetNarrationEnabled toggles narration of assistant message turns.
func (o *Orchestrator) SetNarrationEnabled(enabled bool) {
	o.narration.setEnabled(enabled)
}

func (o *Orchestrator) IsNarrationEnabled() bool { return o.narration.isEnabled() }

func (o *Orchestrator) IsListening() bool { return o.capture.isListening() }

// Subscribe registers a callback invoked with a fresh snapshot after every
// log mutation. Callbacks run on the orchestration loop and must not block.
func (o *Orchestrator) Subscribe(onLogChanged func(turns []conversation.Turn)) {
	if onLogChanged == nil {
		return
	}

	o.subscribersMu.Lock()
	o.subscribers = append(o.subscribers, onLogChanged)
	o.subscribersMu.Unlock()
}

// Snapshot returns a point-in-time copy of the conversation log.
func (o *Orchestrator) Snapshot() []conversation.Turn {
	return o.log.Snapshot()
}

// Clear requests erasure of the conversation log and its persisted state.
func (o *Orchestrator) Clear() {
	o.runtime.enqueue(events.NewLogClearRequested())
}

// ChannelState reports the session channel's current state.
func (o *Orchestrator) ChannelState() transport.State {
	return o.channel.state()
}

// Reconnect requests one reconnect attempt on a closed channel. There is no
// automatic retry loop; cadence is the caller's policy.
func (o *Orchestrator) Reconnect() error {
	if state := o.channel.state(); state != transport.StateClosed {
		return fmt.Errorf("cannot reconnect while channel is %s", state)
	}

	go o.connectChannel()
	return nil
}

// SendAudio forwards one chunk of captured audio to the active capture
// session.
func (o *Orchestrator) SendAudio(audio []byte) error {
	return o.capture.sendAudio(audio)
}

// Close tears the session down in order: capture stops, in-flight narration
// is cancelled, the channel closes, and the event queue stops accepting, so
// no component keeps operating against a dead session.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		if err := o.capture.stop(); err != nil {
			logger.Warn("failed to stop capture on close", "error", err)
		}

		o.narration.cancelActive()

		if err := o.channel.close(); err != nil {
			logger.Warn("failed to close session channel", "error", err)
		}

		o.runtime.end()
		o.runtime.awaitCompletion()
	})
}

func (o *Orchestrator) appendTurn(turn conversation.Turn) {
	if _, err := o.log.Append(o.baseContext, turn); err != nil {
		o.raiseAdvisory(err)
	}
	o.notifySubscribers()
}

func (o *Orchestrator) notifySubscribers() {
	o.subscribersMu.Lock()
	subscribers := make([]func([]conversation.Turn), len(o.subscribers))
	copy(subscribers, o.subscribers)
	o.subscribersMu.Unlock()

	if len(subscribers) == 0 {
		return
	}

	snapshot := o.log.Snapshot()
	for _, subscriber := range subscribers {
		subscriber(snapshot)
	}
}

func (o *Orchestrator) raiseAdvisory(err error) {
	o.raiseAdvisoryWithCode(classifyAdvisory(err), err)
}

func (o *Orchestrator) raiseAdvisoryWithCode(code AdvisoryCode, err error) {
	logger.Warn("session advisory", "code", string(code), "error", err)
	if o.runOptions.onAdvisory != nil {
		o.runOptions.onAdvisory(Advisory{Code: code, Err: err})
	}
}

func (o *Orchestrator) emitInterim(transcript string) {
	if o.runOptions.onInterimTranscription != nil {
		o.runOptions.onInterimTranscription(transcript)
	}
}

func (o *Orchestrator) emitCaptureState(listening bool) {
	if o.runOptions.onCaptureStateChanged != nil {
		o.runOptions.onCaptureStateChanged(listening)
	}
}

func (o *Orchestrator) emitChannelState() {
	if o.runOptions.onChannelStateChanged != nil {
		o.runOptions.onChannelStateChanged(o.channel.state())
	}
}
