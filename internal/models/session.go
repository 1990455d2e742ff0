package models

import "time"

// CreateSessionResponse represents the response when creating a session
type CreateSessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EditorPatch carries draft edits for the field editor. Nil members are left
// unchanged.
type EditorPatch struct {
	Label       *string `json:"label"`
	Kind        *string `json:"type"`
	Placeholder *string `json:"placeholder"`
	Required    *bool   `json:"required"`
	OptionDraft *Option `json:"optionDraft"`
}

// AddOptionRequest adds an option to the editor. When both members are empty
// the current option draft is added instead.
type AddOptionRequest struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SetValueRequest represents user input for one field
type SetValueRequest struct {
	Value *Value `json:"value" binding:"required"`
}

// MoveRequest reorders the field list
type MoveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// DragEventType identifies messages on the drag websocket
type DragEventType string

const (
	DragStart DragEventType = "start"
	DragHover DragEventType = "hover"
	DragEnd   DragEventType = "end"
	DragMoved DragEventType = "moved"
	DragError DragEventType = "error"
)

// DragEvent is sent by the client while a field is being dragged.
type DragEvent struct {
	Type DragEventType `json:"type"`
	// Index is the dragged field (start) or the hovered field (hover).
	Index  int     `json:"index"`
	Name   string  `json:"name,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Bottom float64 `json:"bottom,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// DragReply is sent back for every committed move or rejected event.
type DragReply struct {
	Type  DragEventType `json:"type"`
	From  int           `json:"from"`
	To    int           `json:"to"`
	Order []string      `json:"order,omitempty"`
	Error string        `json:"error,omitempty"`
}
