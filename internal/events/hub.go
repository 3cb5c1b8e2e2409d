// Package events pushes draw events to websocket subscribers
package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/gorilla/websocket"
	"golang.org/x/exp/slog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	clientBuffer   = 64
	broadcastQueue = 256
)

// Publisher accepts draw events
type Publisher interface {
	Publish(event models.Event)
}

// Hub fans events out to every connected client
type Hub struct {
	clients map[*Client]struct{}

	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	connected atomic.Int64
	upgrader  websocket.Upgrader
}

// Client is one websocket subscriber
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Outgoing chan []byte
}

var _ Publisher = (*Hub)(nil)

// NewHub creates a hub accepting connections from allowedHosts; an empty list accepts any origin
func NewHub(allowedHosts []string) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastQueue),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedHosts),
	}
	return h
}

func originChecker(allowedHosts []string) func(r *http.Request) bool {
	if len(allowedHosts) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		for _, host := range allowedHosts {
			if host == "*" || strings.EqualFold(host, u.Host) {
				return true
			}
		}
		return false
	}
}

// Run dispatches registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.Register:
			h.clients[c] = struct{}{}
			h.connected.Add(1)
		case c := <-h.Unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.Outgoing <- msg:
				default:
					slog.Warn("Dropping slow event subscriber", "remote", c.Conn.RemoteAddr().String())
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.Outgoing)
	h.connected.Add(-1)
}

// Publish queues an event for every client. Events are dropped when the queue is full
// or the hub has stopped
func (h *Hub) Publish(event models.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to encode event", "type", event.Type, "error", err)
		return
	}
	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		slog.Warn("Event queue full, dropping event", "type", event.Type)
	}
}

// clientCount returns the number of connected clients
func (h *Hub) clientCount() int {
	return int(h.connected.Load())
}

// ServeWS upgrades the request and subscribes the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}
	c := &Client{Hub: h, Conn: conn, Outgoing: make(chan []byte, clientBuffer)}

	select {
	case h.Register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards client messages and detects disconnects
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Outgoing:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publishers fans each event out to several publishers in order
type Publishers []Publisher

// Publish forwards event to every publisher
func (p Publishers) Publish(event models.Event) {
	for _, pub := range p {
		pub.Publish(event)
	}
}
