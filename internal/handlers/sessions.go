package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/middleware"
	"github.com/mossy-p/form-builder/internal/models"
	"github.com/mossy-p/form-builder/internal/session"
)

// CreateSession starts a builder session and issues its token
func (h *Handler) CreateSession(c *gin.Context) {
	snap, err := h.store.Create(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, snap.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.logger.Info("Session created", zap.String("session_id", snap.ID))

	c.JSON(http.StatusCreated, models.CreateSessionResponse{
		SessionID: snap.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(h.sessionTTL).UTC(),
	})
}

// RefreshSession restarts the session's idle timer and issues a token that
// lives as long as the refreshed session.
func (h *Handler) RefreshSession(c *gin.Context) {
	id := sessionID(c)

	if err := h.store.Touch(c.Request.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, id, h.sessionTTL)
	if err != nil {
		h.logger.Error("Failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.CreateSessionResponse{
		SessionID: id,
		Token:     token,
		ExpiresAt: time.Now().Add(h.sessionTTL).UTC(),
	})
}

// DeleteSession unmounts both pages: the audio widget is closed and the
// stored page state dropped.
func (h *Handler) DeleteSession(c *gin.Context) {
	id := sessionID(c)

	if err := h.widgets.Close(id); err != nil {
		h.logger.Warn("Failed to close audio widget", zap.String("session_id", id), zap.Error(err))
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	h.logger.Info("Session deleted", zap.String("session_id", id))

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}
