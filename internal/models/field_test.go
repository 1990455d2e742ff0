package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalName(t *testing.T) {
	tests := map[string]string{
		"First Name!":   "first_name",
		"Email":         "email",
		"Phone #2":      "phone__2",
		"  Zip Code  ":  "zip_code",
		"ÉCOLE":         "cole",
		"already_snake": "already_snake",
		"!!!":           "",
	}
	for label, want := range tests {
		assert.Equal(t, want, InternalName(label), "label %q", label)
	}
}

func TestNewFieldDefinitionValidationOrder(t *testing.T) {
	_, err := NewFieldDefinition(InputSpec{Kind: InputText})
	require.ErrorIs(t, err, ErrLabelRequired)

	_, err = NewFieldDefinition(InputSpec{Kind: InputText, Label: "Name", Placeholder: "  "})
	require.ErrorIs(t, err, ErrPlaceholderRequired)

	_, err = NewFieldDefinition(ChoiceSpec{Kind: ChoiceRadio, Label: "Size", Placeholder: "size"})
	require.ErrorIs(t, err, ErrOptionsRequired)

	_, err = NewFieldDefinition(InputSpec{Kind: InputText, Label: "???", Placeholder: "x"})
	require.ErrorIs(t, err, ErrLabelUnnamed)
}

func TestNewFieldDefinitionChoice(t *testing.T) {
	opts := []Option{{Label: "Small", Value: "s"}, {Label: "Large", Value: "l"}}
	def, err := NewFieldDefinition(ChoiceSpec{
		Kind:        ChoiceDropdown,
		Label:       "T-Shirt Size",
		Placeholder: "size",
		Required:    true,
		Options:     opts,
	})
	require.NoError(t, err)

	assert.Equal(t, FieldDefinition{
		Label:       "T-Shirt Size",
		Name:        "t_shirt_size",
		Kind:        KindDropdown,
		Placeholder: "size",
		Required:    true,
		Options:     opts,
	}, def)

	opts[0].Label = "mutated"
	assert.Equal(t, "Small", def.Options[0].Label, "options must be copied")
}

func TestSpecForDropsOptionsOnInputKinds(t *testing.T) {
	spec, err := SpecFor(KindNumber, "Age", "age", false, []Option{{Label: "x", Value: "y"}})
	require.NoError(t, err)

	def, err := NewFieldDefinition(spec)
	require.NoError(t, err)
	assert.Nil(t, def.Options)
	assert.Equal(t, KindNumber, def.Kind)

	_, err = SpecFor(Kind("date"), "When", "when", false, nil)
	require.Error(t, err)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind(" Dropdown ")
	require.NoError(t, err)
	assert.Equal(t, KindDropdown, kind)
	assert.True(t, kind.IsChoice())
	assert.False(t, KindNumber.IsChoice())

	_, err = ParseKind("textarea")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestValueJSON(t *testing.T) {
	raw, err := json.Marshal(Values{"a": Text("x"), "b": List("1", "2"), "c": List()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":["1","2"],"c":[]}`, string(raw))

	var decoded Values
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":["1"],"n":12,"z":null}`), &decoded))
	assert.Equal(t, Text("x"), decoded["a"])
	assert.Equal(t, List("1"), decoded["b"])
	assert.Equal(t, Text("12"), decoded["n"])
	assert.Equal(t, Text(""), decoded["z"])
}

func TestSignalMessageJSON(t *testing.T) {
	mid := "0"
	raw, err := json.Marshal(CandidateMessage(ICECandidate{Candidate: "candidate:1 1 udp", SDPMid: &mid}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"ice-candidate","candidate":{"candidate":"candidate:1 1 udp","sdpMid":"0"}}`, string(raw))

	raw, err = json.Marshal(OfferMessage(SessionDescription{Type: "offer", SDP: "v=0"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"offer","offer":{"type":"offer","sdp":"v=0"}}`, string(raw))
}
