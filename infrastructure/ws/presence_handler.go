package ws

import (
	"context"
	"fmt"
	"kerek/auth"
	"kerek/domain"
	errs "kerek/errors"
	"kerek/observability"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// handlePresence keeps a user online as long as the socket answers pings.
// Inbound data frames are ignored.
func (s *Server) handlePresence(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.reject(w, r, http.StatusUnauthorized, errs.ErrMissingToken)
		return
	}
	user := domain.UserID(chi.URLParam(r, "userId"))
	if user != identity.UserID {
		s.reject(w, r, http.StatusForbidden,
			fmt.Errorf("%w: token of %s used for %s", errs.ErrForbidden, identity.UserID, user))
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "user", user, "error", err)
		return
	}
	log := s.log.With("user", user)
	c := newConn(ws, log, s.config)
	ctx := s.ctx

	observability.ConnectionsOpened.WithLabelValues("presence").Inc()
	observability.ActiveConnections.WithLabelValues("presence").Inc()
	s.presence.Connect(ctx, user)
	log.Info("User online")

	done := make(chan struct{})
	defer func() {
		close(done)
		s.presence.Disconnect(context.WithoutCancel(ctx), user)
		c.close()
		observability.ActiveConnections.WithLabelValues("presence").Dec()
		log.Info("Presence connection ended")
	}()

	// Frames are read only to process pongs and close frames
	frames := make(chan []byte, 1)
	readErr := make(chan error, 1)
	go c.readLoop(frames, readErr, done)

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.closeWith(websocket.CloseGoingAway, "server shutting down")
			return
		case err := <-readErr:
			handleReadError(log, err)
			return
		case <-frames:
		case <-ticker.C:
			if err := c.ping(); err != nil {
				log.Info("Ping failed", "error", err)
				return
			}
		}
	}
}
