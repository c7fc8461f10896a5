package ws

import (
	"context"
	"errors"
	"fmt"
	"kerek/auth"
	"kerek/domain"
	errs "kerek/errors"
	"kerek/observability"
	"kerek/runtime"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

// handleRoom checks membership, upgrades and relays messages of one user in
// one room until the connection ends.
func (s *Server) handleRoom(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFrom(r.Context())
	if !ok {
		s.reject(w, r, http.StatusUnauthorized, errs.ErrMissingToken)
		return
	}
	room := domain.RoomID(chi.URLParam(r, "roomId"))

	members, err := s.members.GetRoomMembers(r.Context(), room)
	if err != nil {
		s.reject(w, r, errs.HTTPStatus(err), err)
		return
	}
	if !members.Contains(identity.UserID) {
		s.reject(w, r, http.StatusForbidden, fmt.Errorf("%w: %s", errs.ErrForbidden, room))
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WebSocket upgrade failed", "room", room, "error", err)
		return
	}

	session := roomSession{
		server:   s,
		log:      s.log.With("room", room, "user", identity.UserID),
		room:     room,
		identity: identity,
		members:  members,
	}
	session.conn = newConn(ws, session.log, s.config)
	session.run(s.ctx)
}

type roomSession struct {
	server   *Server
	log      *slog.Logger
	conn     *conn
	room     domain.RoomID
	identity domain.Identity
	members  domain.Members
	channel  *runtime.Channel
}

func (rs *roomSession) run(ctx context.Context) {
	s := rs.server
	user := rs.identity.UserID

	observability.ConnectionsOpened.WithLabelValues("room").Inc()
	observability.ActiveConnections.WithLabelValues("room").Inc()
	s.presence.Connect(ctx, user)
	rs.channel = s.registry.Register(rs.room, user)
	rs.log.Info("User joined room")

	done := make(chan struct{})
	defer func() {
		close(done)
		s.presence.Disconnect(context.WithoutCancel(ctx), user)
		s.registry.Unregister(rs.room, user, rs.channel)
		rs.conn.close()
		observability.ActiveConnections.WithLabelValues("room").Dec()
		rs.log.Info("User left room")
	}()

	if rest, err := flushPending(s.registry.DrainPending(rs.room, user), rs.conn.writeText); err != nil {
		evicted := s.registry.Requeue(rs.room, user, rest)
		rs.log.Warn("Unable to deliver pending messages, putting them back",
			"requeued", len(rest)-evicted, "evicted", evicted, "error", err)
		return
	}

	frames := make(chan []byte)
	readErr := make(chan error, 1)
	go rs.conn.readLoop(frames, readErr, done)

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rs.conn.closeWith(websocket.CloseGoingAway, "server shutting down")
			return
		case err := <-readErr:
			handleReadError(rs.log, err)
			return
		case raw := <-frames:
			if !rs.handleFrame(ctx, raw) {
				return
			}
		case payload, ok := <-rs.channel.C():
			if !ok {
				return
			}
			if err := rs.conn.writeText(payload); err != nil {
				rs.log.Warn("Unable to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := rs.conn.ping(); err != nil {
				rs.log.Info("Ping failed", "error", err)
				return
			}
		}
	}
}

// flushPending writes payloads in order and returns the ones left unwritten
// after the first failure.
func flushPending(payloads [][]byte, write func([]byte) error) ([][]byte, error) {
	for i, payload := range payloads {
		if err := write(payload); err != nil {
			return payloads[i:], err
		}
	}
	return nil, nil
}

// handleFrame persists and fans out one inbound frame. It returns false when
// the connection must end.
func (rs *roomSession) handleFrame(ctx context.Context, raw []byte) bool {
	s := rs.server
	command, err := domain.ParseFrame(raw, rs.room, rs.identity, s.config.MaxContentLength, time.Now().UTC())
	switch {
	case errors.Is(err, errs.ErrSenderSpoofed):
		return rs.violation("sender_spoofed", err)
	case errors.Is(err, errs.ErrRoomMismatch):
		return rs.violation("room_mismatch", err)
	case err != nil:
		observability.DroppedFrames.Inc()
		rs.log.Debug("Dropping frame", "error", err)
		return true
	}

	message, err := s.messages.PersistMessage(ctx, command.Room, command.SenderID, command.Content)
	if err != nil {
		observability.PersistFailures.Inc()
		rs.log.Error("Unable to persist message", "error", err)
		return true
	}
	observability.MessagesPersisted.Inc()

	payload, err := message.Encode()
	if err != nil {
		rs.log.Error("Unable to encode message", "id", message.ID, "error", err)
		return true
	}

	report := s.registry.Broadcast(rs.room, command.SenderID, rs.members, payload)
	observability.Deliveries.WithLabelValues(runtime.Delivered.String()).Add(float64(report.Delivered))
	observability.Deliveries.WithLabelValues(runtime.Queued.String()).Add(float64(report.Queued))
	observability.Deliveries.WithLabelValues("evicted").Add(float64(report.Evicted))
	rs.log.Debug("Message relayed", "id", message.ID,
		"delivered", report.Delivered, "queued", report.Queued)
	return true
}

func (rs *roomSession) violation(reason string, err error) bool {
	observability.ProtocolViolations.WithLabelValues(reason).Inc()
	rs.log.Warn("Protocol violation, closing", "error", err)
	rs.conn.closeWith(websocket.ClosePolicyViolation, reason)
	return false
}
