package form

import (
	"errors"
	"fmt"

	"github.com/mossy-p/form-builder/internal/models"
)

var (
	ErrDuplicateName   = errors.New("a field with this name already exists")
	ErrUnknownField    = errors.New("field not found")
	ErrIndexOutOfRange = errors.New("field index out of range")
	ErrValueShape      = errors.New("value does not match field type")
)

// Form is the ordered field list of a builder page together with the
// current values and validation errors.
type Form struct {
	fields []models.FieldDefinition
	values models.Values
	errors models.Errors
}

// State is the serialisable form of a Form.
type State struct {
	Fields []models.FieldDefinition `json:"fields"`
	Values models.Values            `json:"values"`
	Errors models.Errors            `json:"errors,omitempty"`
}

// New returns an empty form.
func New() *Form {
	return &Form{
		values: make(models.Values),
		errors: make(models.Errors),
	}
}

// Restore rebuilds a form from a snapshot.
func Restore(state State) *Form {
	f := New()
	f.fields = append(f.fields, state.Fields...)
	for name, v := range state.Values {
		f.values[name] = v
	}
	for name, msg := range state.Errors {
		f.errors[name] = msg
	}
	return f
}

// State returns a copy of the form's contents.
func (f *Form) State() State {
	return State{
		Fields: f.Fields(),
		Values: f.Values(),
		Errors: f.Errors(),
	}
}

// Fields returns the fields in render order.
func (f *Form) Fields() []models.FieldDefinition {
	return append([]models.FieldDefinition{}, f.fields...)
}

// Len returns the number of fields.
func (f *Form) Len() int {
	return len(f.fields)
}

// Values returns a copy of the values map.
func (f *Form) Values() models.Values {
	out := make(models.Values, len(f.values))
	for name, v := range f.values {
		out[name] = v
	}
	return out
}

// Errors returns a copy of the errors map.
func (f *Form) Errors() models.Errors {
	out := make(models.Errors, len(f.errors))
	for name, msg := range f.errors {
		out[name] = msg
	}
	return out
}

// Names returns the internal names in render order.
func (f *Form) Names() []string {
	names := make([]string, len(f.fields))
	for i, field := range f.fields {
		names[i] = field.Name
	}
	return names
}

func (f *Form) indexOf(name string) int {
	for i, field := range f.fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

// Add appends def and seeds an empty value for it.
func (f *Form) Add(def models.FieldDefinition) error {
	if f.indexOf(def.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateName, def.Name)
	}
	f.fields = append(f.fields, def)
	f.values[def.Name] = models.EmptyValue(def.Kind)
	return nil
}

// Remove drops the field called name along with its value and error. It
// reports whether a field was removed.
func (f *Form) Remove(name string) bool {
	i := f.indexOf(name)
	if i < 0 {
		return false
	}
	f.fields = append(f.fields[:i], f.fields[i+1:]...)
	delete(f.values, name)
	delete(f.errors, name)
	return true
}

// Move takes the field at from out of the list and reinserts it at to.
// Equal indexes are a no-op, even outside the list.
func (f *Form) Move(from, to int) error {
	if from == to {
		return nil
	}
	n := len(f.fields)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: move %d -> %d with %d fields", ErrIndexOutOfRange, from, to, n)
	}
	moved := f.fields[from]
	rest := append(f.fields[:from:from], f.fields[from+1:]...)
	out := make([]models.FieldDefinition, 0, n)
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	f.fields = out
	return nil
}

// SetValue records user input for a field and clears that field's error.
func (f *Form) SetValue(name string, v models.Value) error {
	i := f.indexOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if f.fields[i].Kind.IsMulti() != v.Multi {
		return fmt.Errorf("%w: %s is %s", ErrValueShape, name, f.fields[i].Kind)
	}
	f.values[name] = v
	delete(f.errors, name)
	return nil
}

// Submit validates the whole form, replacing the error map. It returns the
// values and whether the form is valid.
func (f *Form) Submit() (models.Values, bool) {
	f.errors = Validate(f.fields, f.values)
	return f.Values(), len(f.errors) == 0
}
