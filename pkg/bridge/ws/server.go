// Package ws streams decoded broadcast packets to WebSocket clients as JSON.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"um7go/pkg/engine"
)

const writeTimeout = 5 * time.Second

// Server upgrades HTTP requests and forwards one hub subscription per client.
type Server struct {
	hub      *engine.Hub
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger routes connection diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// NewServer builds a bridge on top of a running hub.
func NewServer(hub *engine.Hub, opts ...Option) *Server {
	s := &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The daemon binds to loopback by default; origin checks are
			// left to a fronting proxy when exposed.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the connection and streams packets until the client
// disconnects or the request context ends. Packet kinds can be restricted
// with repeated ?kind= query parameters.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	kinds := r.URL.Query()["kind"]
	sub := s.hub.SubscribeKinds(kinds...)
	defer s.hub.Unsubscribe(sub)

	// Drain client frames so pings and close handshakes are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.log.Debug().Str("remote", r.RemoteAddr).Strs("kinds", kinds).Msg("websocket client connected")
	for {
		select {
		case <-r.Context().Done():
			return
		case pkt, ok := <-sub:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(pkt); err != nil {
				s.log.Debug().Str("remote", r.RemoteAddr).Err(err).Msg("websocket client dropped")
				return
			}
		}
	}
}

// ListenAndServe runs an HTTP server for the bridge on addr until the
// context ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/stream", s)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
