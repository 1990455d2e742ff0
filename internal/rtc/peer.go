// Package rtc adapts pion/webrtc to the audio widget's PeerConnection.
package rtc

import (
	"context"
	"fmt"

	"github.com/pion/webrtc/v4"

	"github.com/mossy-p/form-builder/internal/audio"
	"github.com/mossy-p/form-builder/internal/models"
)

// DefaultICEServers are the public STUN servers used when none are configured
var DefaultICEServers = []string{
	"stun:stun.l.google.com:19302",
}

// Peer wraps a pion peer connection
type Peer struct {
	pc *webrtc.PeerConnection
}

// NewPeer creates a peer connection using the given STUN/TURN URLs.
func NewPeer(iceServers []string) (*Peer, error) {
	cfg := webrtc.Configuration{}
	if len(iceServers) > 0 {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: iceServers}}
	}
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	return &Peer{pc: pc}, nil
}

// Factory returns an audio.PeerFactory bound to iceServers.
func Factory(iceServers []string) audio.PeerFactory {
	return func() (audio.PeerConnection, error) {
		return NewPeer(iceServers)
	}
}

func (p *Peer) OnICECandidate(fn func(models.ICECandidate)) {
	p.pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		// nil marks the end of gathering
		if c == nil {
			return
		}
		cand := c.ToJSON()
		fn(models.ICECandidate{
			Candidate:        cand.Candidate,
			SDPMid:           cand.SDPMid,
			SDPMLineIndex:    cand.SDPMLineIndex,
			UsernameFragment: cand.UsernameFragment,
		})
	})
}

func (p *Peer) OnTrack(fn func(audio.RemoteTrack)) {
	p.pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		fn(audio.RemoteTrack{
			ID:       track.ID(),
			StreamID: track.StreamID(),
			Kind:     track.Kind().String(),
		})
	})
}

// AddTrack attaches an Opus track mirroring the captured track.
func (p *Peer) AddTrack(track audio.Track, stream audio.Stream) error {
	local, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
		track.ID(),
		stream.ID(),
	)
	if err != nil {
		return fmt.Errorf("new local track: %w", err)
	}
	if _, err := p.pc.AddTrack(local); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	return nil
}

func (p *Peer) CreateOffer(ctx context.Context) (models.SessionDescription, error) {
	if err := ctx.Err(); err != nil {
		return models.SessionDescription{}, err
	}
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return models.SessionDescription{}, err
	}
	return models.SessionDescription{Type: offer.Type.String(), SDP: offer.SDP}, nil
}

func (p *Peer) SetLocalDescription(desc models.SessionDescription) error {
	return p.pc.SetLocalDescription(webrtc.SessionDescription{
		Type: webrtc.NewSDPType(desc.Type),
		SDP:  desc.SDP,
	})
}

func (p *Peer) Close() error {
	return p.pc.Close()
}
