package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/form-builder/internal/form"
	"github.com/mossy-p/form-builder/internal/models"
)

func openEditor(t *testing.T) *Editor {
	t.Helper()
	e := New()
	e.Open()
	require.Equal(t, StatusOpen, e.Status())
	return e
}

func TestOpenStartsFreshTextDraft(t *testing.T) {
	e := New()
	require.Equal(t, StatusClosed, e.Status())

	e.Open()
	assert.Equal(t, models.KindText, e.State().Draft.Kind)
	assert.Empty(t, e.State().Draft.Label)

	require.NoError(t, e.SetLabel("Name"))
	e.Open()
	assert.Equal(t, "Name", e.State().Draft.Label, "reopening keeps the draft")
}

func TestEditsRequireOpenModal(t *testing.T) {
	e := New()

	require.ErrorIs(t, e.SetLabel("x"), ErrEditorClosed)
	require.ErrorIs(t, e.AddOption(), ErrEditorClosed)
	_, err := e.Submit(func(models.FieldDefinition) error { return nil })
	require.ErrorIs(t, err, ErrEditorClosed)
}

func TestSubmitValidationOrder(t *testing.T) {
	f := form.New()
	e := openEditor(t)

	_, err := e.Submit(f.Add)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "label", fieldErr.Field)
	assert.Equal(t, MsgLabelRequired, fieldErr.Message)

	require.NoError(t, e.SetLabel("Favourite Colour"))
	_, err = e.Submit(f.Add)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "placeholder", fieldErr.Field)

	require.NoError(t, e.SetPlaceholder("colour"))
	require.NoError(t, e.SetKind(models.KindRadio))
	_, err = e.Submit(f.Add)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "options", fieldErr.Field)
	assert.ErrorIs(t, err, models.ErrOptionsRequired)

	assert.Equal(t, StatusOpen, e.Status())
	assert.Equal(t, MsgOptionsRequired, e.State().Error)
	assert.Zero(t, f.Len(), "rejected submissions must not touch the form")
}

func TestSubmitChoiceField(t *testing.T) {
	f := form.New()
	e := openEditor(t)

	require.NoError(t, e.SetLabel("Size"))
	require.NoError(t, e.SetPlaceholder("size"))
	require.NoError(t, e.SetKind(models.KindDropdown))
	require.NoError(t, e.SetRequired(true))

	require.NoError(t, e.SetOptionDraft("Small", ""))
	require.ErrorIs(t, e.AddOption(), ErrOptionIncomplete)

	require.NoError(t, e.SetOptionDraft("Small", "s"))
	require.NoError(t, e.AddOption())
	assert.Equal(t, models.Option{}, e.State().OptionDraft)
	require.NoError(t, e.SetOptionDraft("Large", "l"))
	require.NoError(t, e.AddOption())
	require.NoError(t, e.SetOptionDraft("Huge", "xl"))
	require.NoError(t, e.AddOption())
	require.NoError(t, e.RemoveOption(2))
	require.ErrorIs(t, e.RemoveOption(5), ErrOptionOutOfRange)

	def, err := e.Submit(f.Add)
	require.NoError(t, err)

	assert.Equal(t, "size", def.Name)
	assert.Equal(t, []models.Option{{Label: "Small", Value: "s"}, {Label: "Large", Value: "l"}}, def.Options)
	assert.Equal(t, []string{"size"}, f.Names())

	assert.Equal(t, StatusClosed, e.Status())
	assert.Equal(t, freshDraft(), e.State().Draft)
	assert.Empty(t, e.State().Options)
}

func TestSubmitInputFieldDropsOptions(t *testing.T) {
	f := form.New()
	e := openEditor(t)

	require.NoError(t, e.SetKind(models.KindCheckbox))
	require.NoError(t, e.SetOptionDraft("A", "a"))
	require.NoError(t, e.AddOption())
	require.NoError(t, e.SetKind(models.KindNumber))
	require.NoError(t, e.SetLabel("Age"))
	require.NoError(t, e.SetPlaceholder("age"))

	def, err := e.Submit(f.Add)
	require.NoError(t, err)
	assert.Nil(t, def.Options)
	assert.Equal(t, models.KindNumber, def.Kind)
}

func TestSubmitSurfacesAppendFailure(t *testing.T) {
	f := form.New()
	for i := 0; i < 2; i++ {
		e := openEditor(t)
		require.NoError(t, e.SetLabel("Email"))
		require.NoError(t, e.SetPlaceholder("email"))
		_, err := e.Submit(f.Add)
		if i == 0 {
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, form.ErrDuplicateName)
		assert.Equal(t, StatusOpen, e.Status())
	}
	assert.Equal(t, 1, f.Len())
}

func TestCloseDiscardsDraft(t *testing.T) {
	e := openEditor(t)
	require.NoError(t, e.SetLabel("Name"))
	require.NoError(t, e.SetOptionDraft("a", "b"))
	require.NoError(t, e.AddOption())

	e.Close()
	assert.Equal(t, StatusClosed, e.Status())
	assert.Equal(t, freshDraft(), e.State().Draft)
	assert.Empty(t, e.State().Options)
}

func TestHints(t *testing.T) {
	e := openEditor(t)
	assert.Equal(t, map[string]string{"label": MsgLabelRequired, "placeholder": MsgPlaceholderRequired}, e.Hints())

	require.NoError(t, e.SetLabel("Name"))
	assert.Equal(t, map[string]string{"placeholder": MsgPlaceholderRequired}, e.Hints())
}

func TestRestore(t *testing.T) {
	e := openEditor(t)
	require.NoError(t, e.SetLabel("Name"))

	restored := Restore(e.State())
	assert.Equal(t, e.State(), restored.State())
	assert.Equal(t, StatusClosed, Restore(State{}).Status())
	assert.Equal(t, models.KindText, Restore(State{}).State().Draft.Kind)
}

func TestFieldErrorUnwrap(t *testing.T) {
	err := &FieldError{Field: "label", Message: "x", Err: models.ErrLabelRequired}
	assert.True(t, errors.Is(err, models.ErrLabelRequired))
	assert.Equal(t, "label: x", err.Error())
}
