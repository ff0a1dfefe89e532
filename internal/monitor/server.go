package monitor

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/radioscan/p25rx/internal/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Local monitoring endpoint; origin checks are left to a fronting
		// proxy when exposed.
		return true
	},
}

// Server exposes the websocket message feed at /ws and Prometheus metrics at
// /metrics.
type Server struct {
	hub  *Hub
	bind string
	log  *logger.Logger
	http *http.Server
}

// NewServer creates a monitor server around the given hub.
func NewServer(hub *Hub, bind string, log *logger.Logger) *Server {
	return &Server{hub: hub, bind: bind, log: log}
}

// Start begins serving in a background goroutine and runs the hub loop until
// the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         s.bind,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go s.hub.Run(ctx)
	go func() {
		s.log.Info("monitor listening", logger.String("bind", s.bind))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("monitor server failed", logger.Err(err))
		}
	}()
}

// Stop shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", logger.Err(err))
		return
	}

	client := s.hub.addClient(conn)

	// Reader loop: we ignore client messages but need to notice closes.
	go func() {
		defer func() { s.hub.unregister <- client }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
