package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/audio"
	"github.com/mossy-p/form-builder/internal/session"
)

// WidgetFactory mounts a new audio widget for a session
type WidgetFactory func(sessionID string) (*audio.Widget, error)

// Widgets keeps the mounted audio widget of every session
type Widgets struct {
	mu        sync.Mutex
	widgets   map[string]*audio.Widget
	newWidget WidgetFactory
}

func NewWidgets(factory WidgetFactory) *Widgets {
	return &Widgets{
		widgets:   make(map[string]*audio.Widget),
		newWidget: factory,
	}
}

// Get returns the session's widget, mounting it on first use.
func (w *Widgets) Get(sessionID string) (*audio.Widget, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	widget, exists := w.widgets[sessionID]
	if !exists {
		var err error
		widget, err = w.newWidget(sessionID)
		if err != nil {
			return nil, fmt.Errorf("mount audio widget: %w", err)
		}
		w.widgets[sessionID] = widget
	}
	return widget, nil
}

// Len returns the number of mounted widgets.
func (w *Widgets) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.widgets)
}

// Close unmounts the session's widget, if any.
func (w *Widgets) Close(sessionID string) error {
	w.mu.Lock()
	widget, exists := w.widgets[sessionID]
	delete(w.widgets, sessionID)
	w.mu.Unlock()

	if !exists {
		return nil
	}
	return widget.Close()
}

// CloseAll unmounts every widget.
func (w *Widgets) CloseAll() error {
	w.mu.Lock()
	widgets := w.widgets
	w.widgets = make(map[string]*audio.Widget)
	w.mu.Unlock()

	var errs []error
	for id, widget := range widgets {
		if err := widget.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Sweep closes the widgets whose sessions no longer exist in the store and
// returns how many it closed. Sessions that cannot be loaded for any other
// reason keep their widget until the next sweep.
func (w *Widgets) Sweep(ctx context.Context, store session.Store, logger *zap.Logger) int {
	w.mu.Lock()
	ids := make([]string, 0, len(w.widgets))
	for id := range w.widgets {
		ids = append(ids, id)
	}
	w.mu.Unlock()

	closed := 0
	for _, id := range ids {
		_, err := store.Load(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, session.ErrNotFound) {
			logger.Warn("Failed to check session", zap.String("session_id", id), zap.Error(err))
			continue
		}
		if err := w.Close(id); err != nil {
			logger.Warn("Failed to close audio widget", zap.String("session_id", id), zap.Error(err))
		}
		closed++
	}
	return closed
}

// Watch runs Sweep every interval until ctx is done.
func (w *Widgets) Watch(ctx context.Context, store session.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := w.Sweep(ctx, store, logger); n > 0 {
				logger.Info("Closed audio widgets of expired sessions", zap.Int("count", n))
			}
		}
	}
}

// widget resolves the caller's widget, checking that the session is still
// alive first.
func (h *Handler) widget(c *gin.Context) (*audio.Widget, bool) {
	id := sessionID(c)
	if _, err := h.store.Load(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return nil, false
	}
	widget, err := h.widgets.Get(id)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return widget, true
}

func (h *Handler) GetAudioChat(c *gin.Context) {
	widget, ok := h.widget(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, widget.Snapshot())
}

func (h *Handler) StartStreaming(c *gin.Context) {
	widget, ok := h.widget(c)
	if !ok {
		return
	}
	if err := widget.Start(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget.Snapshot())
}

func (h *Handler) StopStreaming(c *gin.Context) {
	widget, ok := h.widget(c)
	if !ok {
		return
	}
	if _, err := widget.Stop(); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, widget.Snapshot())
}

func (h *Handler) ClearRecording(c *gin.Context) {
	widget, ok := h.widget(c)
	if !ok {
		return
	}
	widget.ClearRecording()
	c.JSON(http.StatusOK, widget.Snapshot())
}

// GetRecording serves a published recording for playback or download.
func (h *Handler) GetRecording(c *gin.Context) {
	blob, ok := h.blobs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recording not found"})
		return
	}
	h.logger.Debug("Serving recording", zap.String("id", blob.ID), zap.Int("bytes", len(blob.Data)))
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, blob.Filename()))
	c.Data(http.StatusOK, blob.MIMEType, blob.Data)
}
