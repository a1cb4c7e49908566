package voice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voxfolio/internal/logging"
	"voxfolio/internal/metrics"
)

// State is the voice session lifecycle state.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateError      State = "error"
)

// TranscriptDebounce is the minimum gap between accepted transcripts. It is
// a heuristic against duplicate near-simultaneous speech events, not a
// correctness guarantee.
const TranscriptDebounce = 900 * time.Millisecond

// TranscriptHandler receives accepted user speech transcripts. The manager
// calls it from its consumer goroutine; the dispatcher serializes internally.
type TranscriptHandler func(text string)

// Manager owns the voice session: transport lifecycle, the pre-open event
// queue, the assistant-speaking flag, and transcript-triggered dispatch.
// Exactly one Manager exists per running instance.
type Manager struct {
	factory TransportFactory
	handler TranscriptHandler

	mu           sync.Mutex
	state        State
	speaking     bool
	voiceMode    bool
	pending      [][]byte
	transport    Transport
	lastAccepted time.Time
	consumerDone chan struct{}

	now func() time.Time
}

// NewManager creates an idle manager. handler may be nil when transcripts
// should be ignored (text-only deployments keep the voice wiring dormant).
func NewManager(factory TransportFactory, handler TranscriptHandler) *Manager {
	return &Manager{
		factory: factory,
		handler: handler,
		state:   StateIdle,
		now:     time.Now,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// AssistantSpeaking reports whether assistant output is in flight.
func (m *Manager) AssistantSpeaking() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speaking
}

// SetVoiceMode switches transcript forwarding on or off. Transcripts that
// arrive outside voice interaction mode are dropped.
func (m *Manager) SetVoiceMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voiceMode = enabled
}

// Connect establishes the peer session using the given short-lived
// credential. It returns once the data channel is open; events queued before
// that point are flushed in order, none dropped or reordered. Connecting
// while not idle is an error (one voice session per instance).
func (m *Manager) Connect(ctx context.Context, credential string) error {
	m.mu.Lock()
	if m.state == StateConnecting || m.state == StateConnected {
		m.mu.Unlock()
		return fmt.Errorf("voice session already %s", m.state)
	}
	m.state = StateConnecting
	transport := m.factory(credential)
	m.transport = transport
	m.mu.Unlock()

	logging.Voice("connecting voice session")
	if err := transport.Open(ctx); err != nil {
		m.mu.Lock()
		m.state = StateError
		m.transport = nil
		m.mu.Unlock()
		transport.Close()
		return fmt.Errorf("failed to open voice transport: %w", err)
	}

	m.mu.Lock()
	if m.transport != transport {
		// Disconnected while the handshake was in flight.
		m.mu.Unlock()
		transport.Close()
		return fmt.Errorf("voice session torn down during connect")
	}
	// The queue flushes before the state flips to connected, under the same
	// lock, so a concurrent SendEvent can never jump ahead of queued events.
	pending := m.pending
	m.pending = nil
	for _, data := range pending {
		if err := transport.Send(data); err != nil {
			logging.VoiceWarn("failed to flush queued event: %v", err)
		}
	}
	m.state = StateConnected
	done := make(chan struct{})
	m.consumerDone = done
	m.mu.Unlock()

	logging.Voice("voice session connected, flushed %d queued events", len(pending))

	go m.consume(transport, done)
	return nil
}

// SendEvent writes an event to the data channel if it is open, and queues it
// otherwise. Queued events survive until the next successful Connect.
func (m *Manager) SendEvent(e Event) error {
	metrics.VoiceEvents.WithLabelValues("out").Inc()
	data := e.Encode()
	m.mu.Lock()
	if m.state != StateConnected || m.transport == nil {
		m.pending = append(m.pending, data)
		m.mu.Unlock()
		return nil
	}
	transport := m.transport
	m.mu.Unlock()
	return transport.Send(data)
}

// CancelResponse requests cancellation of in-flight assistant output and
// clears the speaking flag immediately, without waiting for the remote
// acknowledgement.
func (m *Manager) CancelResponse() {
	m.mu.Lock()
	wasSpeaking := m.speaking
	m.speaking = false
	m.mu.Unlock()
	if wasSpeaking {
		logging.Voice("barge-in: cancelling assistant output")
	}
	if err := m.SendEvent(NewEvent(TypeResponseCancel)); err != nil {
		logging.VoiceWarn("failed to send response cancel: %v", err)
	}
}

// Disconnect releases transport resources and returns to idle. Safe to call
// multiple times and from any state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	transport := m.transport
	m.transport = nil
	m.state = StateIdle
	m.speaking = false
	m.pending = nil
	done := m.consumerDone
	m.consumerDone = nil
	m.mu.Unlock()

	if transport != nil {
		_ = transport.Close()
	}
	if done != nil {
		<-done
	}
	logging.Voice("voice session disconnected")
}

// consume is the single consumer loop over incoming data channel events.
func (m *Manager) consume(transport Transport, done chan struct{}) {
	defer close(done)
	for data := range transport.Incoming() {
		m.handleEvent(DecodeEvent(data))
	}
}

// handleEvent updates the speaking flag and forwards accepted transcripts.
func (m *Manager) handleEvent(e Event) {
	metrics.VoiceEvents.WithLabelValues("in").Inc()
	switch {
	case IsSpeakingStart(e):
		m.mu.Lock()
		m.speaking = true
		m.mu.Unlock()
	case IsSpeakingEnd(e):
		m.mu.Lock()
		m.speaking = false
		m.mu.Unlock()
	case IsFinalTranscript(e):
		m.mu.Lock()
		now := m.now()
		accept := m.voiceMode && now.Sub(m.lastAccepted) >= TranscriptDebounce
		if accept {
			m.lastAccepted = now
		}
		handler := m.handler
		m.mu.Unlock()

		if !accept {
			logging.VoiceDebug("transcript dropped (debounce or voice mode off): %q", e.Transcript)
			return
		}
		logging.Voice("transcript accepted: %q", e.Transcript)
		if handler != nil {
			handler(e.Transcript)
		}
	}
}
