package stream

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/ember/core"
)

const (
	// writeWait bounds a single frame write
	writeWait = 2 * time.Second
	// pongWait is how long a client may stay silent
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = pongWait * 9 / 10
	// maxMessageSize limits control messages from clients
	maxMessageSize = 1024
	// sendBuffer is the per-client queue, frames are dropped when it is full
	sendBuffer = 4
)

type message struct {
	kind int
	data []byte
}

type client struct {
	conn *websocket.Conn
	send chan message
}

// Hub fans frames out to websocket clients and forwards their commands
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	onCmd    func(Command)
	closed   bool
	dropped  uint64
}

// NewHub creates a hub delivering decoded client commands to onCmd
// onCmd runs on the client's reader goroutine
func NewHub(onCmd func(Command)) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		onCmd: onCmd,
	}
}

// ServeHTTP upgrades the request and registers the client
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Printf("stream: upgrade: %v", err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan message, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Printf("stream: client connected from %s", r.RemoteAddr)

	core.Go(func() { h.writePump(c) })
	core.Go(func() { h.readPump(c) })
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns the number of messages skipped for slow clients
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Broadcast queues data for every client without blocking
func (h *Hub) Broadcast(kind int, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m := message{kind: kind, data: data}
	for c := range h.clients {
		select {
		case c.send <- m:
		default:
			h.dropped++
		}
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		close(c.send)
	}
}

// remove unregisters c once, closing its queue ends the write pump
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		close(c.send)
		log.Printf("stream: client %s disconnected", c.conn.RemoteAddr())
	}
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("stream: read: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		cmd, err := ParseCommand(data)
		if err != nil {
			log.Printf("stream: %v", err)
			continue
		}
		if h.onCmd != nil {
			h.onCmd(cmd)
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case m, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(m.kind, m.data); err != nil {
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
