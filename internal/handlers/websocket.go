package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mossy-p/form-builder/internal/form"
	"github.com/mossy-p/form-builder/internal/models"
	"github.com/mossy-p/form-builder/internal/reorder"
	"github.com/mossy-p/form-builder/internal/session"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// dragClient is one browser tab dragging fields of its session's form
type dragClient struct {
	sessionID string
	conn      *websocket.Conn
	send      chan []byte
	store     session.Store
	drag      reorder.Controller
	logger    *zap.Logger
}

// HandleDrag upgrades to a websocket carrying drag events. Every move the
// hover rule commits is applied to the stored form and echoed back.
func (h *Handler) HandleDrag(c *gin.Context) {
	id := sessionID(c)
	if _, err := h.store.Load(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := &dragClient{
		sessionID: id,
		conn:      conn,
		send:      make(chan []byte, 64),
		store:     h.store,
		logger:    h.logger.With(zap.String("session_id", id)),
	}
	client.logger.Debug("Drag channel opened")

	// Start goroutines for reading and writing
	go client.writePump()
	go client.readPump()
}

func (c *dragClient) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		close(c.send)
		c.conn.Close()
		c.logger.Debug("Drag channel closed")
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket error", zap.Error(err))
			}
			break
		}

		var event models.DragEvent
		if err := json.Unmarshal(message, &event); err != nil {
			c.reply(models.DragReply{Type: models.DragError, Error: "invalid drag event"})
			continue
		}
		c.handle(ctx, event)
	}
}

func (c *dragClient) handle(ctx context.Context, event models.DragEvent) {
	switch event.Type {
	case models.DragStart:
		c.drag.Begin(event.Index, event.Name)

	case models.DragHover:
		var order []string
		mover := reorder.MoverFunc(func(from, to int) error {
			_, err := c.store.Update(ctx, c.sessionID, func(s *session.Snapshot) error {
				return s.WithForm(func(f *form.Form) error {
					if err := f.Move(from, to); err != nil {
						return err
					}
					order = f.Names()
					return nil
				})
			})
			return err
		})

		rect := reorder.Rect{Top: event.Top, Bottom: event.Bottom}
		cmd, moved, err := c.drag.HoverAndApply(mover, event.Index, rect, event.Y)
		if err != nil {
			c.logger.Warn("Failed to apply move", zap.Error(err))
			c.reply(models.DragReply{Type: models.DragError, Error: err.Error()})
			return
		}
		if moved {
			c.reply(models.DragReply{Type: models.DragMoved, From: cmd.From, To: cmd.To, Order: order})
		}

	case models.DragEnd:
		c.drag.End()

	default:
		c.reply(models.DragReply{Type: models.DragError, Error: "unknown drag event " + string(event.Type)})
	}
}

func (c *dragClient) reply(msg models.DragReply) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	select {
	case c.send <- data:
	default:
		c.logger.Warn("Failed to send message, buffer full")
	}
}

func (c *dragClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
