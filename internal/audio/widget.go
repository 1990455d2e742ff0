// Package audio implements the audio chat widget: it captures local audio,
// attaches it to a WebRTC peer connection, records it to a downloadable
// blob, and forwards the local offer and ICE candidates to a signaling
// endpoint.
package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/models"
	"github.com/mossy-p/form-builder/internal/signaling"
)

// State is the widget state
type State string

const (
	StateIdle      State = "idle"
	StateStreaming State = "streaming"
)

var (
	ErrAlreadyStreaming = errors.New("already streaming")
	ErrClosed           = errors.New("audio widget closed")
)

// Config wires a widget to its collaborators
type Config struct {
	Capturer Capturer
	NewPeer  PeerFactory
	Signaler signaling.Sender
	Blobs    *BlobStore
	Format   PCMFormat
	Logger   *zap.Logger
}

// Snapshot is what the audio chat page shows
type Snapshot struct {
	State        State         `json:"state"`
	RecordingURL string        `json:"recordingUrl,omitempty"`
	RemoteTracks []RemoteTrack `json:"remoteTracks,omitempty"`
}

// Widget owns one peer connection and at most one live capture stream
type Widget struct {
	cfg    Config
	logger *zap.Logger
	pc     PeerConnection

	mu           sync.Mutex
	state        State
	stream       Stream
	recorder     *Recorder
	recordingURL string
	closed       bool

	remoteMu sync.Mutex
	remote   []RemoteTrack

	sigMu     sync.Mutex
	sigClosed bool
	inflight  sync.WaitGroup
}

// New mounts a widget: the peer connection is created immediately with its
// candidate and track handlers attached.
func New(cfg Config) (*Widget, error) {
	if cfg.Capturer == nil || cfg.NewPeer == nil || cfg.Signaler == nil || cfg.Blobs == nil {
		return nil, errors.New("audio widget: capturer, peer factory, signaler and blob store are required")
	}
	cfg.Format = cfg.Format.withDefaults()
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	pc, err := cfg.NewPeer()
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}

	w := &Widget{
		cfg:    cfg,
		logger: cfg.Logger.Named("audio"),
		pc:     pc,
		state:  StateIdle,
	}
	pc.OnICECandidate(w.handleCandidate)
	pc.OnTrack(w.handleTrack)
	return w, nil
}

func (w *Widget) handleCandidate(c models.ICECandidate) {
	w.sigMu.Lock()
	if w.sigClosed {
		w.sigMu.Unlock()
		return
	}
	w.inflight.Add(1)
	w.sigMu.Unlock()

	go func() {
		defer w.inflight.Done()
		if err := w.cfg.Signaler.Send(context.Background(), models.CandidateMessage(c)); err != nil {
			w.logger.Error("Signaling error", zap.String("type", string(models.SignalTypeCandidate)), zap.Error(err))
		}
	}()
}

func (w *Widget) handleTrack(t RemoteTrack) {
	w.remoteMu.Lock()
	w.remote = append(w.remote, t)
	w.remoteMu.Unlock()
	w.logger.Info("Remote track attached", zap.String("track_id", t.ID), zap.String("stream_id", t.StreamID))
}

// Start captures the microphone, starts recording, attaches the audio
// tracks and sends a local offer. A failed offer delivery is only logged.
func (w *Widget) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if w.state == StateStreaming {
		return ErrAlreadyStreaming
	}

	stream, err := w.cfg.Capturer.Capture(ctx)
	if err != nil {
		w.logger.Error("Error accessing microphone", zap.Error(err))
		return fmt.Errorf("capture audio: %w", err)
	}
	recorder := StartRecorder(stream)

	abort := func(err error) error {
		stream.Stop()
		recorder.Stop()
		return err
	}

	for _, track := range stream.AudioTracks() {
		if err := w.pc.AddTrack(track, stream); err != nil {
			w.logger.Error("Failed to add track", zap.String("track_id", track.ID()), zap.Error(err))
			return abort(fmt.Errorf("add track %s: %w", track.ID(), err))
		}
	}

	offer, err := w.pc.CreateOffer(ctx)
	if err != nil {
		w.logger.Error("Failed to create offer", zap.Error(err))
		return abort(fmt.Errorf("create offer: %w", err))
	}
	if err := w.pc.SetLocalDescription(offer); err != nil {
		w.logger.Error("Failed to set local description", zap.Error(err))
		return abort(fmt.Errorf("set local description: %w", err))
	}

	if err := w.cfg.Signaler.Send(ctx, models.OfferMessage(offer)); err != nil {
		w.logger.Error("Signaling error", zap.String("type", string(models.SignalTypeOffer)), zap.Error(err))
	}

	w.stream = stream
	w.recorder = recorder
	w.state = StateStreaming
	w.logger.Info("Streaming started", zap.String("stream_id", stream.ID()))
	return nil
}

// Stop ends streaming and publishes the recording. It returns the playback
// URL. Stopping an idle widget does nothing.
func (w *Widget) Stop() (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return "", ErrClosed
	}
	if w.state != StateStreaming {
		return w.recordingURL, nil
	}

	w.stream.Stop()
	data := w.cfg.Format.WAV(w.recorder.Stop())

	if w.recordingURL != "" {
		w.cfg.Blobs.Revoke(w.recordingURL)
	}
	w.recordingURL = w.cfg.Blobs.Put(RecordingMIMEType, data)

	w.stream = nil
	w.recorder = nil
	w.state = StateIdle
	w.logger.Info("Streaming stopped", zap.Int("recorded_bytes", len(data)), zap.String("recording_url", w.recordingURL))
	return w.recordingURL, nil
}

// ClearRecording drops the current recording.
func (w *Widget) ClearRecording() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.recordingURL != "" {
		w.cfg.Blobs.Revoke(w.recordingURL)
		w.recordingURL = ""
	}
}

// Snapshot reports the widget state.
func (w *Widget) Snapshot() Snapshot {
	w.mu.Lock()
	snap := Snapshot{State: w.state, RecordingURL: w.recordingURL}
	w.mu.Unlock()

	w.remoteMu.Lock()
	snap.RemoteTracks = append([]RemoteTrack(nil), w.remote...)
	w.remoteMu.Unlock()
	return snap
}

// Close releases everything the widget holds: the capture stream, the peer
// connection and the recording. Further calls are no-ops.
func (w *Widget) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true

	if w.stream != nil {
		w.stream.Stop()
		w.recorder.Stop()
		w.stream = nil
		w.recorder = nil
	}
	w.state = StateIdle
	if w.recordingURL != "" {
		w.cfg.Blobs.Revoke(w.recordingURL)
		w.recordingURL = ""
	}
	err := w.pc.Close()
	w.mu.Unlock()

	w.sigMu.Lock()
	w.sigClosed = true
	w.sigMu.Unlock()
	w.inflight.Wait()

	if err != nil {
		return fmt.Errorf("close peer connection: %w", err)
	}
	return nil
}
