package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/Ak-9647/financial-MAS-Project/domain"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
	wsSendBuffer   = 8
)

type statusConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
}

// StatusHub pushes completed poll snapshots to connected websocket
// clients. The stream is one-way; client messages are read only to keep
// the connection alive.
type StatusHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*statusConn
}

// NewStatusHub creates an empty hub.
func NewStatusHub() *StatusHub {
	return &StatusHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		conns: make(map[string]*statusConn),
	}
}

// Broadcast sends one snapshot to every connected client. Slow clients
// have the update dropped rather than stalling the poll loop.
func (h *StatusHub) Broadcast(snapshot domain.Snapshot) {
	msg, err := json.Marshal(map[string]interface{}{
		"type": "agent_status",
		"data": snapshot,
	})
	if err != nil {
		log.Printf("ERROR: failed to marshal status update: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		select {
		case conn.send <- msg:
		default:
			log.Printf("WARN: dropping status update for slow client %s", id)
		}
	}
}

// HandleWebSocket upgrades the connection and starts its pumps.
// GET /ws
func (h *StatusHub) HandleWebSocket(c echo.Context) error {
	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("WARN: failed to upgrade websocket: %v", err)
		return err
	}

	conn := &statusConn{
		id:   uuid.New().String()[:8],
		ws:   ws,
		send: make(chan []byte, wsSendBuffer),
	}

	h.mu.Lock()
	h.conns[conn.id] = conn
	h.mu.Unlock()

	go h.writePump(conn)
	go h.readPump(conn)
	return nil
}

func (h *StatusHub) unregister(conn *statusConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn.id]; ok {
		delete(h.conns, conn.id)
		close(conn.send)
	}
}

func (h *StatusHub) readPump(conn *statusConn) {
	defer func() {
		h.unregister(conn)
		conn.ws.Close()
	}()

	conn.ws.SetReadLimit(1024)
	conn.ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.ws.SetPongHandler(func(string) error {
		conn.ws.SetReadDeadline(time.Now().Add(wsPongTimeout))
		return nil
	})

	for {
		if _, _, err := conn.ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WARN: websocket error: %v", err)
			}
			return
		}
	}
}

func (h *StatusHub) writePump(conn *statusConn) {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		conn.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-conn.send:
			conn.ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if !ok {
				conn.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.ws.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
