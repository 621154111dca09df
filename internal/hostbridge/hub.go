package hostbridge

import (
	"encoding/json"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
)

const (
	broadcastQueue = 32
	clientQueue    = 16
)

type client struct {
	id   uuid.UUID
	send chan []byte
}

type countQuery struct {
	reply chan int
}

// Hub tracks connected host frames. One goroutine owns the client set;
// everything else talks to it over channels.
type Hub struct {
	logger     *log.Logger
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	counts     chan countQuery
	quit       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub starts the hub goroutine.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	h := &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastQueue),
		counts:     make(chan countQuery),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) loop() {
	defer close(h.done)
	clients := map[uuid.UUID]*client{}
	for {
		select {
		case c := <-h.register:
			clients[c.id] = c
			h.logger.Printf("[bridge] client %s connected (%d total)", c.id, len(clients))
		case c := <-h.unregister:
			if _, ok := clients[c.id]; ok {
				delete(clients, c.id)
				close(c.send)
				h.logger.Printf("[bridge] client %s disconnected", c.id)
			}
		case payload := <-h.broadcast:
			for _, c := range clients {
				select {
				case c.send <- payload:
				default:
					h.logger.Printf("[bridge] client %s is slow, dropping message", c.id)
				}
			}
		case q := <-h.counts:
			q.reply <- len(clients)
		case <-h.quit:
			for id, c := range clients {
				close(c.send)
				delete(clients, id)
			}
			return
		}
	}
}

// Post queues msg for every connected client. When the queue is full the
// message is dropped.
func (h *Hub) Post(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("[bridge] encoding %s: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	case <-h.done:
	default:
		h.logger.Printf("[bridge] broadcast queue full, dropping %s", msg.Type)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countQuery{reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Close disconnects every client and stops the hub.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.quit) })
	<-h.done
}

func (h *Hub) join() (*client, bool) {
	c := &client{id: uuid.New(), send: make(chan []byte, clientQueue)}
	select {
	case h.register <- c:
		return c, true
	case <-h.done:
		return nil, false
	}
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
