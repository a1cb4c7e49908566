package voice

import (
	"context"
	"fmt"
	"sync"

	"github.com/pion/webrtc/v4"

	"voxfolio/internal/logging"
)

// Transport abstracts the peer connection and its event data channel so the
// session manager can be driven by a fake in tests.
type Transport interface {
	// Open establishes the peer session and returns once the data channel
	// is open.
	Open(ctx context.Context) error
	// Send writes one message to the data channel.
	Send(data []byte) error
	// Incoming returns the stream of data channel messages. The channel is
	// closed when the transport closes.
	Incoming() <-chan []byte
	// Close releases transport and media resources. Safe to call from any
	// state and more than once.
	Close() error
}

// TransportFactory builds a transport for one session credential.
type TransportFactory func(credential string) Transport

// WebRTCTransport is the production transport: a pion peer connection
// carrying bidirectional audio plus an "events" data channel, negotiated via
// the HTTPS signaling client.
type WebRTCTransport struct {
	signaling  *SignalingClient
	credential string

	mu        sync.Mutex
	pc        *webrtc.PeerConnection
	dc        *webrtc.DataChannel
	incoming  chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewWebRTCTransport creates a transport for one session.
func NewWebRTCTransport(signaling *SignalingClient, credential string) *WebRTCTransport {
	return &WebRTCTransport{
		signaling:  signaling,
		credential: credential,
		incoming:   make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// WebRTCFactory adapts NewWebRTCTransport to the factory signature.
func WebRTCFactory(signaling *SignalingClient) TransportFactory {
	return func(credential string) Transport {
		return NewWebRTCTransport(signaling, credential)
	}
}

// Open implements Transport. The handshake: create the peer connection with
// an audio transceiver and the event channel, gather ICE, post the offer over
// HTTPS, apply the answer, then wait for the data channel to open.
func (t *WebRTCTransport) Open(ctx context.Context) error {
	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return fmt.Errorf("failed to create peer connection: %w", err)
	}

	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionSendrecv,
	}); err != nil {
		pc.Close()
		return fmt.Errorf("failed to add audio transceiver: %w", err)
	}

	dc, err := pc.CreateDataChannel("events", nil)
	if err != nil {
		pc.Close()
		return fmt.Errorf("failed to create data channel: %w", err)
	}

	opened := make(chan struct{})
	dc.OnOpen(func() {
		logging.Voice("data channel open")
		close(opened)
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		select {
		case <-t.done:
			return
		default:
		}
		select {
		case t.incoming <- msg.Data:
		default:
			logging.VoiceWarn("incoming event dropped: buffer full")
		}
	})
	dc.OnClose(func() {
		t.Close()
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		pc.Close()
		return fmt.Errorf("failed to create offer: %w", err)
	}
	gatherComplete := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		pc.Close()
		return fmt.Errorf("failed to set local description: %w", err)
	}
	select {
	case <-gatherComplete:
	case <-ctx.Done():
		pc.Close()
		return ctx.Err()
	}

	answerSDP, err := t.signaling.ExchangeSDP(ctx, t.credential, pc.LocalDescription().SDP)
	if err != nil {
		pc.Close()
		return fmt.Errorf("signaling exchange failed: %w", err)
	}
	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answerSDP,
	}); err != nil {
		pc.Close()
		return fmt.Errorf("failed to set remote description: %w", err)
	}

	select {
	case <-opened:
	case <-ctx.Done():
		pc.Close()
		return ctx.Err()
	}

	t.mu.Lock()
	t.pc = pc
	t.dc = dc
	t.mu.Unlock()
	return nil
}

// Send implements Transport.
func (t *WebRTCTransport) Send(data []byte) error {
	t.mu.Lock()
	dc := t.dc
	t.mu.Unlock()
	if dc == nil {
		return fmt.Errorf("data channel not open")
	}
	if err := dc.Send(data); err != nil {
		return fmt.Errorf("failed to send event: %w", err)
	}
	return nil
}

// Incoming implements Transport.
func (t *WebRTCTransport) Incoming() <-chan []byte {
	return t.incoming
}

// Close implements Transport.
func (t *WebRTCTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		t.mu.Lock()
		pc := t.pc
		t.pc = nil
		t.dc = nil
		t.mu.Unlock()
		if pc != nil {
			err = pc.Close()
		}
		close(t.incoming)
	})
	return err
}
