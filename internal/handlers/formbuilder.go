package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/editor"
	"github.com/mossy-p/form-builder/internal/form"
	"github.com/mossy-p/form-builder/internal/models"
	"github.com/mossy-p/form-builder/internal/session"
)

// FormBuilderView is everything the form builder page renders
type FormBuilderView struct {
	Fields []models.FieldDefinition `json:"fields"`
	Values models.Values            `json:"values"`
	Errors models.Errors            `json:"errors"`
	Editor editor.State             `json:"editor"`
	Hints  map[string]string        `json:"hints,omitempty"`
}

func viewOf(snap *session.Snapshot) FormBuilderView {
	view := FormBuilderView{
		Fields: snap.Form.Fields,
		Values: snap.Form.Values,
		Errors: snap.Form.Errors,
		Editor: snap.Editor,
	}
	if view.Fields == nil {
		view.Fields = []models.FieldDefinition{}
	}
	if view.Values == nil {
		view.Values = models.Values{}
	}
	if view.Errors == nil {
		view.Errors = models.Errors{}
	}
	if snap.Editor.Status == editor.StatusOpen {
		view.Hints = editor.Restore(snap.Editor).Hints()
	}
	return view
}

// update applies fn to the caller's session. It reports false after writing
// an error response.
func (h *Handler) update(c *gin.Context, fn func(*session.Snapshot) error) (*session.Snapshot, bool) {
	snap, err := h.store.Update(c.Request.Context(), sessionID(c), fn)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return snap, true
}

func (h *Handler) editEditor(c *gin.Context, fn func(e *editor.Editor) error) {
	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithEditor(func(e *editor.Editor, _ *form.Form) error {
			return fn(e)
		})
	})
	if ok {
		c.JSON(http.StatusOK, viewOf(snap))
	}
}

func (h *Handler) GetFormBuilder(c *gin.Context) {
	snap, err := h.store.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(snap))
}

func (h *Handler) OpenEditor(c *gin.Context) {
	h.editEditor(c, func(e *editor.Editor) error {
		e.Open()
		return nil
	})
}

func (h *Handler) CloseEditor(c *gin.Context) {
	h.editEditor(c, func(e *editor.Editor) error {
		e.Close()
		return nil
	})
}

// PatchEditor applies draft edits. The edits are all or nothing.
func (h *Handler) PatchEditor(c *gin.Context) {
	var patch models.EditorPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.editEditor(c, func(e *editor.Editor) error {
		if patch.Kind != nil {
			kind, err := models.ParseKind(*patch.Kind)
			if err != nil {
				return err
			}
			if err := e.SetKind(kind); err != nil {
				return err
			}
		}
		if patch.Label != nil {
			if err := e.SetLabel(*patch.Label); err != nil {
				return err
			}
		}
		if patch.Placeholder != nil {
			if err := e.SetPlaceholder(*patch.Placeholder); err != nil {
				return err
			}
		}
		if patch.Required != nil {
			if err := e.SetRequired(*patch.Required); err != nil {
				return err
			}
		}
		if patch.OptionDraft != nil {
			if err := e.SetOptionDraft(patch.OptionDraft.Label, patch.OptionDraft.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handler) AddOption(c *gin.Context) {
	var req models.AddOptionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	h.editEditor(c, func(e *editor.Editor) error {
		if req.Label != "" || req.Value != "" {
			if err := e.SetOptionDraft(req.Label, req.Value); err != nil {
				return err
			}
		}
		return e.AddOption()
	})
}

func (h *Handler) RemoveOption(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid option index"})
		return
	}
	h.editEditor(c, func(e *editor.Editor) error {
		return e.RemoveOption(index)
	})
}

// SubmitEditor builds a field from the draft and appends it to the form.
// Rejected drafts are still saved so the inline message survives.
func (h *Handler) SubmitEditor(c *gin.Context) {
	var (
		def       models.FieldDefinition
		submitErr error
	)
	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithEditor(func(e *editor.Editor, f *form.Form) error {
			def, submitErr = e.Submit(f.Add)
			var fieldErr *editor.FieldError
			if submitErr != nil && !errors.As(submitErr, &fieldErr) {
				return submitErr
			}
			return nil
		})
	})
	if !ok {
		return
	}

	if submitErr != nil {
		var fieldErr *editor.FieldError
		errors.As(submitErr, &fieldErr)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fieldErr.Message,
			"field": fieldErr.Field,
			"state": viewOf(snap),
		})
		return
	}

	h.logger.Info("Field added",
		zap.String("session_id", snap.ID),
		zap.String("name", def.Name),
		zap.String("type", string(def.Kind)))
	c.JSON(http.StatusCreated, viewOf(snap))
}

func (h *Handler) SetValue(c *gin.Context) {
	var req models.SetValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	name := c.Param("name")

	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithForm(func(f *form.Form) error {
			return f.SetValue(name, *req.Value)
		})
	})
	if ok {
		c.JSON(http.StatusOK, viewOf(snap))
	}
}

func (h *Handler) RemoveField(c *gin.Context) {
	name := c.Param("name")

	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithForm(func(f *form.Form) error {
			if !f.Remove(name) {
				return fmt.Errorf("%w: %s", form.ErrUnknownField, name)
			}
			return nil
		})
	})
	if ok {
		c.JSON(http.StatusOK, viewOf(snap))
	}
}

func (h *Handler) MoveField(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithForm(func(f *form.Form) error {
			return f.Move(*req.From, *req.To)
		})
	})
	if ok {
		c.JSON(http.StatusOK, viewOf(snap))
	}
}

// SubmitForm validates every field. The error map is saved either way; an
// invalid form answers 422.
func (h *Handler) SubmitForm(c *gin.Context) {
	var (
		values models.Values
		valid  bool
	)
	snap, ok := h.update(c, func(s *session.Snapshot) error {
		return s.WithForm(func(f *form.Form) error {
			values, valid = f.Submit()
			return nil
		})
	})
	if !ok {
		return
	}

	if !valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Form has errors",
			"errors": snap.Form.Errors,
		})
		return
	}

	h.logger.Info("Form submitted", zap.String("session_id", snap.ID), zap.Any("values", values))
	c.JSON(http.StatusOK, gin.H{"values": values})
}
