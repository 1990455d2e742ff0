package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/audio"
	"github.com/mossy-p/form-builder/internal/editor"
	"github.com/mossy-p/form-builder/internal/form"
	"github.com/mossy-p/form-builder/internal/middleware"
	"github.com/mossy-p/form-builder/internal/models"
	"github.com/mossy-p/form-builder/internal/session"
)

// Options wires the HTTP handlers to their backing services
type Options struct {
	Store      session.Store
	Widgets    *Widgets
	Blobs      *audio.BlobStore
	JWTSecret  string
	SessionTTL time.Duration
	Logger     *zap.Logger
}

// Handler serves the form builder and audio chat pages of a session
type Handler struct {
	store      session.Store
	widgets    *Widgets
	blobs      *audio.BlobStore
	jwtSecret  string
	sessionTTL time.Duration
	logger     *zap.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &Handler{
		store:      opts.Store,
		widgets:    opts.Widgets,
		blobs:      opts.Blobs,
		jwtSecret:  opts.JWTSecret,
		sessionTTL: ttl,
		logger:     logger.Named("handlers"),
	}
}

// Register mounts every route on router.
func (h *Handler) Register(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := middleware.JWTAuth(h.jwtSecret)

	apiGroup := router.Group("/api")
	{
		// Session issue (public) and teardown
		apiGroup.POST("/sessions", h.CreateSession)
		apiGroup.POST("/sessions/refresh", auth, h.RefreshSession)
		apiGroup.DELETE("/sessions", auth, h.DeleteSession)
	}

	formGroup := apiGroup.Group("/form-builder", auth)
	{
		formGroup.GET("", h.GetFormBuilder)
		formGroup.POST("/editor/open", h.OpenEditor)
		formGroup.POST("/editor/close", h.CloseEditor)
		formGroup.PATCH("/editor", h.PatchEditor)
		formGroup.POST("/editor/options", h.AddOption)
		formGroup.DELETE("/editor/options/:index", h.RemoveOption)
		formGroup.POST("/editor/submit", h.SubmitEditor)
		formGroup.PUT("/values/:name", h.SetValue)
		formGroup.DELETE("/fields/:name", h.RemoveField)
		formGroup.POST("/move", h.MoveField)
		formGroup.POST("/submit", h.SubmitForm)
	}

	audioGroup := apiGroup.Group("/audio-chat", auth)
	{
		audioGroup.GET("", h.GetAudioChat)
		audioGroup.POST("/start", h.StartStreaming)
		audioGroup.POST("/stop", h.StopStreaming)
		audioGroup.DELETE("/recording", h.ClearRecording)
	}

	// Recording playback; the blob id is the capability
	router.GET("/audio-chat/recordings/:id", h.GetRecording)

	wsGroup := router.Group("/ws")
	{
		wsGroup.GET("/form-builder/drag", middleware.QueryTokenAuth(h.jwtSecret), h.HandleDrag)
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(middleware.SessionKey)
}

// writeError maps err onto a status code and the {"error": ...} body.
func (h *Handler) writeError(c *gin.Context, err error) {
	var fieldErr *editor.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErr.Message, "field": fieldErr.Field})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, form.ErrUnknownField):
		status = http.StatusNotFound
	case errors.Is(err, form.ErrIndexOutOfRange),
		errors.Is(err, form.ErrValueShape),
		errors.Is(err, editor.ErrEditorClosed),
		errors.Is(err, editor.ErrOptionOutOfRange),
		errors.Is(err, editor.ErrOptionIncomplete),
		errors.Is(err, models.ErrUnknownKind):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrConflict),
		errors.Is(err, audio.ErrAlreadyStreaming):
		status = http.StatusConflict
	case errors.Is(err, audio.ErrDeviceUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("session_id", sessionID(c)), zap.Error(err))
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
