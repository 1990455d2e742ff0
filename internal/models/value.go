package models

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Value is the current input of a field: a single string for most kinds, a
// list of checked option values for checkboxes.
type Value struct {
	Text  string
	Items []string
	Multi bool
}

// Text returns a scalar value.
func Text(s string) Value {
	return Value{Text: s}
}

// List returns a multi-valued value.
func List(items ...string) Value {
	return Value{Items: append([]string{}, items...), Multi: true}
}

// EmptyValue returns the seed value for a freshly added field of kind.
func EmptyValue(kind Kind) Value {
	if kind.IsMulti() {
		return List()
	}
	return Text("")
}

// IsBlank reports whether the value is empty or whitespace only.
func (v Value) IsBlank() bool {
	if v.Multi {
		return len(v.Items) == 0
	}
	return strings.TrimSpace(v.Text) == ""
}

// IsEmpty reports whether the value is the zero string or an empty list.
func (v Value) IsEmpty() bool {
	if v.Multi {
		return len(v.Items) == 0
	}
	return v.Text == ""
}

func (v Value) String() string {
	if v.Multi {
		return strings.Join(v.Items, ",")
	}
	return v.Text
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.Multi {
		items := v.Items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	}
	return json.Marshal(v.Text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*v = Text("")
		return nil
	case trimmed[0] == '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("decode list value: %w", err)
		}
		*v = List(items...)
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*v = Text(s)
		return nil
	default:
		// numbers and booleans keep their literal spelling
		*v = Text(string(trimmed))
		return nil
	}
}

// Values maps internal field names to their current input.
type Values map[string]Value

// Errors maps internal field names to a validation message.
type Errors map[string]string
