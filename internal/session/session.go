package session

import (
	"context"
	"errors"
	"time"

	"github.com/mossy-p/form-builder/internal/editor"
	"github.com/mossy-p/form-builder/internal/form"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrConflict = errors.New("session modified concurrently")
)

// Snapshot is the builder page state of one session
type Snapshot struct {
	ID        string       `json:"id"`
	Form      form.State   `json:"form"`
	Editor    editor.State `json:"editor"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// NewSnapshot returns an empty page: no fields and a closed editor.
func NewSnapshot(id string, now time.Time) *Snapshot {
	return &Snapshot{
		ID:        id,
		Form:      form.New().State(),
		Editor:    editor.New().State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WithForm runs fn against the snapshot's form and keeps the result when fn
// succeeds.
func (s *Snapshot) WithForm(fn func(f *form.Form) error) error {
	f := form.Restore(s.Form)
	if err := fn(f); err != nil {
		return err
	}
	s.Form = f.State()
	return nil
}

// WithEditor runs fn against the editor and the form it appends to.
func (s *Snapshot) WithEditor(fn func(e *editor.Editor, f *form.Form) error) error {
	e := editor.Restore(s.Editor)
	f := form.Restore(s.Form)
	if err := fn(e, f); err != nil {
		return err
	}
	s.Editor = e.State()
	s.Form = f.State()
	return nil
}

// Store keeps session snapshots for the lifetime of a page session
type Store interface {
	Create(ctx context.Context) (*Snapshot, error)
	Load(ctx context.Context, id string) (*Snapshot, error)
	// Update loads the snapshot, applies fn and saves the result. Nothing is
	// saved when fn fails; fn's error is returned as is.
	Update(ctx context.Context, id string, fn func(*Snapshot) error) (*Snapshot, error)
	// Touch restarts the idle timer of a live session.
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
