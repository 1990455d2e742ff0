// Package editor implements the modal used to create a new form field.
//
// The modal is either closed or open. While open it holds a draft field and a
// list of draft options; submitting a valid draft appends the field through a
// caller supplied function and closes the modal.
package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mossy-p/form-builder/internal/models"
)

// Status is the modal state.
type Status string

const (
	StatusClosed Status = "closed"
	StatusOpen   Status = "open"
)

var (
	ErrEditorClosed     = errors.New("field editor is not open")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrOptionIncomplete = models.ErrOptionIncomplete
)

// Inline messages shown next to the draft inputs.
const (
	MsgLabelRequired       = "Label is required"
	MsgLabelUnnamed        = "Label must contain a letter or digit"
	MsgPlaceholderRequired = "Placeholder is required"
	MsgOptionsRequired     = "Add at least one option"
)

// FieldError is a recoverable submission error attached to one draft input.
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Draft is the field being edited.
type Draft struct {
	Label       string      `json:"label"`
	Kind        models.Kind `json:"type"`
	Placeholder string      `json:"placeholder"`
	Required    bool        `json:"required"`
}

// State is the serialisable form of an Editor.
type State struct {
	Status      Status          `json:"status"`
	Draft       Draft           `json:"draft"`
	Options     []models.Option `json:"options,omitempty"`
	OptionDraft models.Option   `json:"optionDraft"`
	Error       string          `json:"error,omitempty"`
}

// AppendFunc receives a finished field definition.
type AppendFunc func(models.FieldDefinition) error

// Editor is the field creation modal.
type Editor struct {
	state State
}

func freshDraft() Draft {
	return Draft{Kind: models.KindText}
}

// New returns a closed editor.
func New() *Editor {
	return &Editor{state: State{Status: StatusClosed, Draft: freshDraft()}}
}

// Restore rebuilds an editor from a snapshot.
func Restore(state State) *Editor {
	if state.Status == "" {
		state.Status = StatusClosed
	}
	if state.Draft.Kind == "" {
		state.Draft.Kind = models.KindText
	}
	state.Options = append([]models.Option(nil), state.Options...)
	return &Editor{state: state}
}

// State returns a copy of the editor state.
func (e *Editor) State() State {
	s := e.state
	s.Options = append([]models.Option(nil), e.state.Options...)
	return s
}

// Status reports whether the modal is open.
func (e *Editor) Status() Status {
	return e.state.Status
}

// Open shows the modal. A closed modal starts from a fresh draft; an open one
// keeps what was typed.
func (e *Editor) Open() {
	if e.state.Status == StatusOpen {
		return
	}
	e.reset()
	e.state.Status = StatusOpen
}

// Close hides the modal and discards the draft.
func (e *Editor) Close() {
	e.reset()
	e.state.Status = StatusClosed
}

func (e *Editor) reset() {
	e.state.Draft = freshDraft()
	e.state.Options = nil
	e.state.OptionDraft = models.Option{}
	e.state.Error = ""
}

func (e *Editor) editing() error {
	if e.state.Status != StatusOpen {
		return ErrEditorClosed
	}
	return nil
}

func (e *Editor) SetLabel(label string) error {
	if err := e.editing(); err != nil {
		return err
	}
	e.state.Draft.Label = label
	return nil
}

func (e *Editor) SetPlaceholder(placeholder string) error {
	if err := e.editing(); err != nil {
		return err
	}
	e.state.Draft.Placeholder = placeholder
	return nil
}

func (e *Editor) SetKind(kind models.Kind) error {
	if err := e.editing(); err != nil {
		return err
	}
	if _, err := models.ParseKind(string(kind)); err != nil {
		return err
	}
	e.state.Draft.Kind = kind
	return nil
}

func (e *Editor) SetRequired(required bool) error {
	if err := e.editing(); err != nil {
		return err
	}
	e.state.Draft.Required = required
	return nil
}

// SetOptionDraft updates the option inputs without adding anything.
func (e *Editor) SetOptionDraft(label, value string) error {
	if err := e.editing(); err != nil {
		return err
	}
	e.state.OptionDraft = models.Option{Label: label, Value: value}
	return nil
}

// AddOption moves the option draft into the option list.
func (e *Editor) AddOption() error {
	if err := e.editing(); err != nil {
		return err
	}
	opt := e.state.OptionDraft
	if opt.Label == "" || opt.Value == "" {
		return ErrOptionIncomplete
	}
	e.state.Options = append(e.state.Options, opt)
	e.state.OptionDraft = models.Option{}
	return nil
}

func (e *Editor) RemoveOption(index int) error {
	if err := e.editing(); err != nil {
		return err
	}
	if index < 0 || index >= len(e.state.Options) {
		return fmt.Errorf("%w: %d", ErrOptionOutOfRange, index)
	}
	e.state.Options = append(e.state.Options[:index:index], e.state.Options[index+1:]...)
	return nil
}

// Hints returns the inline messages for the inputs as currently typed.
func (e *Editor) Hints() map[string]string {
	hints := make(map[string]string)
	if strings.TrimSpace(e.state.Draft.Label) == "" {
		hints["label"] = MsgLabelRequired
	}
	if strings.TrimSpace(e.state.Draft.Placeholder) == "" {
		hints["placeholder"] = MsgPlaceholderRequired
	}
	return hints
}

// Submit builds the field and hands it to appendFn. On any failure the
// modal stays open with the draft intact and the returned error is a
// *FieldError.
func (e *Editor) Submit(appendFn AppendFunc) (models.FieldDefinition, error) {
	if err := e.editing(); err != nil {
		return models.FieldDefinition{}, err
	}

	d := e.state.Draft
	var options []models.Option
	if d.Kind.IsChoice() {
		options = e.state.Options
	}
	spec, err := models.SpecFor(d.Kind, d.Label, d.Placeholder, d.Required, options)
	if err != nil {
		return models.FieldDefinition{}, e.fail("type", err.Error(), err)
	}

	def, err := models.NewFieldDefinition(spec)
	if err != nil {
		return models.FieldDefinition{}, e.reject(err)
	}

	if err := appendFn(def); err != nil {
		return models.FieldDefinition{}, e.fail("label", err.Error(), err)
	}

	e.Close()
	return def, nil
}

func (e *Editor) reject(err error) error {
	switch {
	case errors.Is(err, models.ErrLabelRequired):
		return e.fail("label", MsgLabelRequired, err)
	case errors.Is(err, models.ErrLabelUnnamed):
		return e.fail("label", MsgLabelUnnamed, err)
	case errors.Is(err, models.ErrPlaceholderRequired):
		return e.fail("placeholder", MsgPlaceholderRequired, err)
	case errors.Is(err, models.ErrOptionsRequired):
		return e.fail("options", MsgOptionsRequired, err)
	default:
		return e.fail("options", err.Error(), err)
	}
}

func (e *Editor) fail(field, msg string, err error) error {
	e.state.Error = msg
	return &FieldError{Field: field, Message: msg, Err: err}
}
