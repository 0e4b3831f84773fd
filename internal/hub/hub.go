package hub

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/CMihai83/documentiulia.ro-sub034/internal/notify"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans engine events out to connected WebSocket clients. It is a
// notify.Notifier: the engine publishes, the hub broadcasts.
type Hub struct {
	clients     map[chan []byte]bool
	subscribe   chan chan []byte
	unsubscribe chan chan []byte
	broadcast   chan []byte
	done        chan struct{}
}

var _ notify.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:     make(map[chan []byte]bool),
		subscribe:   make(chan chan []byte),
		unsubscribe: make(chan chan []byte),
		broadcast:   make(chan []byte, 64),
		done:        make(chan struct{}),
	}
}

// Run owns the client set. Call it once, in its own goroutine; it
// returns after Stop, closing every client channel on the way out.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.subscribe:
			h.clients[c] = true
		case c := <-h.unsubscribe:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c)
			}
		case msg := <-h.broadcast:
			for send := range h.clients {
				select {
				case send <- msg:
				default:
					// Slow consumer; drop the message rather than
					// stall every other client.
				}
			}
		case <-h.done:
			for send := range h.clients {
				delete(h.clients, send)
				close(send)
			}
			return
		}
	}
}

// Stop shuts the hub down and disconnects every client.
func (h *Hub) Stop() {
	close(h.done)
}

// Publish broadcasts the event to every connected client.
func (h *Hub) Publish(ctx context.Context, event notify.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- msg:
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Serve upgrades the request and streams events until the client hangs
// up. Incoming frames are read and discarded; the stream is one-way.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade failed: %v", err)
		return
	}

	send := make(chan []byte, 16)
	select {
	case h.subscribe <- send:
	case <-h.done:
		conn.Close()
		return
	}

	go func() {
		defer conn.Close()
		for msg := range send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unsubscribe <- send:
	case <-h.done:
	}
}
