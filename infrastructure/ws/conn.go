package ws

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// conn wraps a websocket connection. Only the owning loop writes to it,
// only the reader goroutine reads from it.
type conn struct {
	ws           *websocket.Conn
	log          *slog.Logger
	writeTimeout time.Duration
	pongWait     time.Duration
}

func newConn(ws *websocket.Conn, log *slog.Logger, config Config) *conn {
	if config.MaxFrameSize > 0 {
		ws.SetReadLimit(config.MaxFrameSize)
	}
	c := &conn{
		ws:           ws,
		log:          log,
		writeTimeout: config.WriteTimeout,
		pongWait:     2 * config.HeartbeatInterval,
	}
	c.extendReadDeadline()
	ws.SetPongHandler(func(string) error {
		c.extendReadDeadline()
		return nil
	})
	return c
}

func (c *conn) extendReadDeadline() {
	if err := c.ws.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.log.Debug("Unable to set read deadline", "error", err)
	}
}

// readLoop forwards text frames to frames until the connection fails or done
// is closed. The terminal error is sent once on errs.
func (c *conn) readLoop(frames chan<- []byte, errs chan<- error, done <-chan struct{}) {
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			errs <- err
			return
		}
		c.extendReadDeadline()
		if messageType != websocket.TextMessage {
			continue
		}
		select {
		case frames <- data:
		case <-done:
			return
		}
	}
}

func (c *conn) writeText(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *conn) ping() error {
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeTimeout))
}

// closeWith sends a close frame, errors are only logged since the socket is
// torn down right after.
func (c *conn) closeWith(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	if err := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeTimeout)); err != nil && !isExpectedCloseError(err) {
		c.log.Debug("Unable to write close frame", "error", err)
	}
}

func (c *conn) close() {
	if err := c.ws.Close(); err != nil && !isExpectedCloseError(err) {
		c.log.Debug("Error closing connection", "error", err)
	}
}

// handleReadError logs the end of a read stream at the right level.
func handleReadError(log *slog.Logger, err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		log.Warn("Frame exceeded maximum size")
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived):
		log.Info("Client disconnected", "reason", err)
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		log.Info("Connection closed", "reason", err)
	case isTimeout(err):
		log.Info("Heartbeat lost", "reason", err)
	default:
		log.Warn("Unexpected websocket error", "error", err)
	}
}

func isExpectedCloseError(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, websocket.ErrCloseSent)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
