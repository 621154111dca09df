package hostbridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxInbound = 4096
)

// Section is one entry of the live section index.
type Section struct {
	Label string `json:"label"`
	Page  int    `json:"page"`
}

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Logger         *log.Logger
}

// Server exposes the hub over HTTP: a websocket for the host frame and a
// read-only section index.
type Server struct {
	cfg        Config
	hub        *Hub
	sections   func() []Section
	onCommand  func(Message)
	logger     *log.Logger
	upgrader   websocket.Upgrader
	router     chi.Router
	httpServer *http.Server
}

// New wires a server around hub. sections reports the current index;
// onCommand receives every decoded inbound command and must not block.
func New(cfg Config, hub *Hub, sections func() []Section, onCommand func(Message)) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if sections == nil {
		sections = func() []Section { return nil }
	}
	if onCommand == nil {
		onCommand = func(Message) {}
	}
	s := &Server{
		cfg:       cfg,
		hub:       hub,
		sections:  sections,
		onCommand: onCommand,
		logger:    logger,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(cfg.AllowedOrigins, r.Header.Get("Origin"))
		},
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/api/sections", s.handleSections)
	})

	// No timeout middleware here: the socket lives as long as the frame.
	r.Get("/ws", s.handleWebSocket)
	return r
}

// Handler returns the router for embedding or tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins listening on the configured address. It returns nil after
// Shutdown.
func (s *Server) Start() error {
	s.logger.Printf("[bridge] listening on %s", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server and the hub.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.hub.Close()
	return err
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	sections := s.sections()
	if sections == nil {
		sections = []Section{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sections); err != nil {
		s.logger.Printf("[bridge] encoding sections: %v", err)
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("[bridge] websocket upgrade: %v", err)
		return
	}
	c, ok := s.hub.join()
	if !ok {
		conn.Close()
		return
	}
	go s.writePump(conn, c)
	s.readPump(conn, c)
}

func (s *Server) readPump(conn *websocket.Conn, c *client) {
	defer func() {
		s.hub.leave(c)
		conn.Close()
	}()
	conn.SetReadLimit(maxInbound)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("[bridge] websocket read: %v", err)
			}
			return
		}
		msg, err := Decode(data)
		if err != nil {
			s.logger.Printf("[bridge] client %s: %v", c.id, err)
			continue
		}
		s.onCommand(msg)
	}
}

func (s *Server) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Printf("[bridge] websocket write: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// originAllowed matches the Origin header against the configured list.
// Requests without an Origin (non-browser clients) are accepted.
func originAllowed(allowed []string, origin string) bool {
	if origin == "" || len(allowed) == 0 {
		return true
	}
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}
