package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossy-p/form-builder/internal/models"
)

func dialDrag(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/form-builder/drag?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) models.DragReply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var reply models.DragReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestDragReordersFields(t *testing.T) {
	env := newTestEnv(t)
	id, token := env.newSession(t)
	for _, label := range []string{"A", "B", "C"} {
		env.addField(t, token, gin.H{"label": label, "placeholder": label})
	}

	srv := httptest.NewServer(env.router)
	defer srv.Close()
	conn := dialDrag(t, srv, token)

	// rows are 40px tall: A 0-40, B 40-80, C 80-120
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragStart, Index: 0, Name: "a"}))
	// upper half of B while moving down: no move
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragHover, Index: 1, Top: 40, Bottom: 80, Y: 50}))
	// lower half of B commits
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragHover, Index: 1, Top: 40, Bottom: 80, Y: 75}))

	reply := readReply(t, conn)
	assert.Equal(t, models.DragReply{Type: models.DragMoved, From: 0, To: 1, Order: []string{"b", "a", "c"}}, reply)

	// A now sits at index 1; lower half of C commits the next move
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragHover, Index: 2, Top: 80, Bottom: 120, Y: 119}))
	reply = readReply(t, conn)
	assert.Equal(t, []string{"b", "c", "a"}, reply.Order)

	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragEnd}))
	// hovering after the drag ended does nothing; the next reply is the error
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragHover, Index: 0, Top: 0, Bottom: 40, Y: 1}))
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: "drop"}))
	reply = readReply(t, conn)
	assert.Equal(t, models.DragError, reply.Type)
	assert.Contains(t, reply.Error, "drop")

	snap, err := env.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, names(snap.Form.Fields))
}

func TestDragReportsFailedMove(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newSession(t)
	env.addField(t, token, gin.H{"label": "A", "placeholder": "A"})

	srv := httptest.NewServer(env.router)
	defer srv.Close()
	conn := dialDrag(t, srv, token)

	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragStart, Index: 0, Name: "a"}))
	require.NoError(t, conn.WriteJSON(models.DragEvent{Type: models.DragHover, Index: 4, Top: 160, Bottom: 200, Y: 199}))

	reply := readReply(t, conn)
	assert.Equal(t, models.DragError, reply.Type)
	assert.Contains(t, reply.Error, "out of range")
}

func TestDragRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/form-builder/drag?token=nope"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
