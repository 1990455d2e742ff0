package audio

import (
	"context"

	"github.com/mossy-p/form-builder/internal/models"
)

// Track is one local media track
type Track interface {
	ID() string
	Kind() string
	Stop()
}

// Stream is a captured local media stream. Chunks delivers encoded audio
// and is closed once the stream stops.
type Stream interface {
	ID() string
	AudioTracks() []Track
	Chunks() <-chan []byte
	Stop()
}

// Capturer opens the local audio capture device
type Capturer interface {
	Capture(ctx context.Context) (Stream, error)
}

// RemoteTrack describes a track received from the remote peer
type RemoteTrack struct {
	ID       string `json:"id"`
	StreamID string `json:"streamId"`
	Kind     string `json:"kind"`
}

// PeerConnection is the subset of a WebRTC peer connection the widget drives
type PeerConnection interface {
	OnICECandidate(func(models.ICECandidate))
	OnTrack(func(RemoteTrack))
	AddTrack(track Track, stream Stream) error
	CreateOffer(ctx context.Context) (models.SessionDescription, error)
	SetLocalDescription(desc models.SessionDescription) error
	Close() error
}

// PeerFactory creates a new peer connection
type PeerFactory func() (PeerConnection, error)
