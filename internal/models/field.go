package models

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the input type of a form field
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindDropdown Kind = "dropdown"
	KindCheckbox Kind = "checkbox"
	KindRadio    Kind = "radio"
)

// Kinds lists every supported field kind in menu order.
var Kinds = []Kind{KindText, KindNumber, KindDropdown, KindCheckbox, KindRadio}

// ParseKind converts a raw kind name into a Kind.
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Kinds {
		if kind == known {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, raw)
}

// IsChoice reports whether the kind needs a predefined option set.
func (k Kind) IsChoice() bool {
	return k == KindDropdown || k == KindCheckbox || k == KindRadio
}

// IsMulti reports whether values of this kind are lists.
func (k Kind) IsMulti() bool {
	return k == KindCheckbox
}

// Option is one selectable entry of a choice field
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldDefinition describes one input in the form. Name is derived from
// Label and keys the values and errors maps.
type FieldDefinition struct {
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Kind        Kind     `json:"type"`
	Placeholder string   `json:"placeholder"`
	Required    bool     `json:"required,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// InternalName lowercases label and replaces anything outside [a-z0-9] with
// an underscore, trimming underscores at both ends.
func InternalName(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	return strings.Trim(b.String(), "_")
}

var (
	ErrLabelRequired       = errors.New("label is required")
	ErrLabelUnnamed        = errors.New("label must contain a letter or digit")
	ErrPlaceholderRequired = errors.New("placeholder is required")
	ErrOptionsRequired     = errors.New("choice fields need at least one option")
	ErrOptionIncomplete    = errors.New("option label and value are required")
	ErrUnknownKind         = errors.New("unknown field kind")
)

// InputKind is a Kind that takes free input.
type InputKind Kind

const (
	InputText   InputKind = InputKind(KindText)
	InputNumber InputKind = InputKind(KindNumber)
)

// ChoiceKind is a Kind that selects from options.
type ChoiceKind Kind

const (
	ChoiceDropdown ChoiceKind = ChoiceKind(KindDropdown)
	ChoiceCheckbox ChoiceKind = ChoiceKind(KindCheckbox)
	ChoiceRadio    ChoiceKind = ChoiceKind(KindRadio)
)

// FieldSpec is the payload used to create a field. It is implemented only
// by InputSpec and ChoiceSpec.
type FieldSpec interface {
	kind() Kind
	base() (label, placeholder string, required bool)
	options() []Option
}

// InputSpec creates a text or number field.
type InputSpec struct {
	Kind        InputKind
	Label       string
	Placeholder string
	Required    bool
}

func (s InputSpec) kind() Kind { return Kind(s.Kind) }
func (s InputSpec) base() (string, string, bool) {
	return s.Label, s.Placeholder, s.Required
}
func (s InputSpec) options() []Option { return nil }

// ChoiceSpec creates a dropdown, checkbox or radio field. Options must not be
// empty.
type ChoiceSpec struct {
	Kind        ChoiceKind
	Label       string
	Placeholder string
	Required    bool
	Options     []Option
}

func (s ChoiceSpec) kind() Kind { return Kind(s.Kind) }
func (s ChoiceSpec) base() (string, string, bool) {
	return s.Label, s.Placeholder, s.Required
}
func (s ChoiceSpec) options() []Option { return s.Options }

// SpecFor builds the spec variant matching kind. Options are dropped for
// input kinds.
func SpecFor(kind Kind, label, placeholder string, required bool, options []Option) (FieldSpec, error) {
	switch kind {
	case KindText, KindNumber:
		return InputSpec{Kind: InputKind(kind), Label: label, Placeholder: placeholder, Required: required}, nil
	case KindDropdown, KindCheckbox, KindRadio:
		return ChoiceSpec{Kind: ChoiceKind(kind), Label: label, Placeholder: placeholder, Required: required, Options: options}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
}

// NewFieldDefinition validates spec and derives the field's internal name.
// Checks run in order: label, placeholder, options.
func NewFieldDefinition(spec FieldSpec) (FieldDefinition, error) {
	label, placeholder, required := spec.base()
	if strings.TrimSpace(label) == "" {
		return FieldDefinition{}, ErrLabelRequired
	}
	if strings.TrimSpace(placeholder) == "" {
		return FieldDefinition{}, ErrPlaceholderRequired
	}
	kind := spec.kind()
	if _, err := ParseKind(string(kind)); err != nil {
		return FieldDefinition{}, err
	}

	def := FieldDefinition{
		Label:       label,
		Name:        InternalName(label),
		Kind:        kind,
		Placeholder: placeholder,
		Required:    required,
	}
	if def.Name == "" {
		return FieldDefinition{}, ErrLabelUnnamed
	}

	if kind.IsChoice() {
		opts := spec.options()
		if len(opts) == 0 {
			return FieldDefinition{}, ErrOptionsRequired
		}
		for _, opt := range opts {
			if opt.Label == "" || opt.Value == "" {
				return FieldDefinition{}, ErrOptionIncomplete
			}
		}
		def.Options = append([]Option(nil), opts...)
	}
	return def, nil
}
