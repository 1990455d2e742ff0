package models

// SignalType represents the type of a message sent to the signaling endpoint
type SignalType string

const (
	SignalTypeCandidate SignalType = "ice-candidate"
	SignalTypeOffer     SignalType = "offer"
)

// ICECandidate mirrors the browser's RTCIceCandidateInit JSON shape
type ICECandidate struct {
	Candidate        string  `json:"candidate"`
	SDPMid           *string `json:"sdpMid,omitempty"`
	SDPMLineIndex    *uint16 `json:"sdpMLineIndex,omitempty"`
	UsernameFragment *string `json:"usernameFragment,omitempty"`
}

// SessionDescription is an SDP offer or answer
type SessionDescription struct {
	Type string `json:"type"`
	SDP  string `json:"sdp"`
}

// SignalMessage is posted to the signaling endpoint. Exactly one of
// Candidate or Offer is set, matching Type.
type SignalMessage struct {
	Type      SignalType          `json:"type"`
	Candidate *ICECandidate       `json:"candidate,omitempty"`
	Offer     *SessionDescription `json:"offer,omitempty"`
}

// CandidateMessage wraps an ICE candidate for the signaling endpoint.
func CandidateMessage(c ICECandidate) SignalMessage {
	return SignalMessage{Type: SignalTypeCandidate, Candidate: &c}
}

// OfferMessage wraps a local offer for the signaling endpoint.
func OfferMessage(offer SessionDescription) SignalMessage {
	return SignalMessage{Type: SignalTypeOffer, Offer: &offer}
}
