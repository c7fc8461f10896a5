package ws

import (
	"context"
	"fmt"
	"kerek/auth"
	"kerek/contract"
	"kerek/domain"
	"kerek/observability"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
)

type Config struct {
	HeartbeatInterval time.Duration
	WriteTimeout      time.Duration
	MaxContentLength  int
	MaxFrameSize      int64
	// AllowedOrigins restricts browser handshakes, empty accepts any origin
	AllowedOrigins []string
}

// PresenceTracker is the write side of the presence authority.
type PresenceTracker interface {
	Connect(ctx context.Context, user domain.UserID)
	Disconnect(ctx context.Context, user domain.UserID)
}

type Server struct {
	log      *slog.Logger
	config   Config
	tokens   contract.TokenValidator
	members  contract.MembershipProvider
	messages contract.MessageStore
	registry RoomRegistry
	presence PresenceTracker
	upgrader websocket.Upgrader
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewServer(log *slog.Logger,
	config Config,
	tokens contract.TokenValidator,
	members contract.MembershipProvider,
	messages contract.MessageStore,
	registry RoomRegistry,
	presence PresenceTracker) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		log:      log,
		config:   config,
		tokens:   tokens,
		members:  members,
		messages: messages,
		registry: registry,
		presence: presence,
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Router exposes the relay endpoints.
//
//	GET /rooms/{roomId}?token=    room relay
//	GET /presence/{userId}?token= presence heartbeat
//	GET /health, GET /metrics
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(s.tokens, s.log))
		r.Get("/rooms/{roomId}", s.handleRoom)
		r.Get("/presence/{userId}", s.handlePresence)
	})
	return r
}

// Shutdown asks every open connection to close with 1001 going away.
// Hijacked connections are not tracked by http.Server.Shutdown.
func (s *Server) Shutdown() {
	s.cancel()
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || lo.Contains(s.config.AllowedOrigins, origin)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.ConnectionsRejected.WithLabelValues(strconv.Itoa(status)).Inc()
	s.log.Warn("Rejected connection attempt", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, err.Error(), status)
}
