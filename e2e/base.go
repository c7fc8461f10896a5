package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"kerek/auth"
	"kerek/domain"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

type BaseRelaySuite struct {
	suite.Suite
	Config Config
	tokens *auth.TokenService
}

// SetupSuite loads the environment configuration, the suite is skipped when
// no relay is configured.
func (s *BaseRelaySuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.RelayURL == "" || s.Config.JwtSecret == "" {
		s.T().Skip("E2E_RELAY_URL and JWT_SECRET are required")
	}
	s.tokens = auth.NewTokenService(s.Config.JwtSecret, s.Config.JwtIssuer)
}

func (s *BaseRelaySuite) header(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

// Dial opens a websocket on path as user and closes it at the end of the test.
func (s *BaseRelaySuite) Dial(name, path string, user string) *websocket.Conn {
	s.header(s.T(), name)
	token, err := s.tokens.GenerateToken(domain.UserID(user), nil, time.Minute)
	s.Require().NoError(err)

	endpoint := strings.TrimRight(s.Config.RelayURL, "/") + path + "?token=" + url.QueryEscape(token)
	conn, resp, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if resp != nil {
		s.T().Logf("WS %s [%s]", path, resp.Status)
	}
	s.Require().NoError(err, "Failed to connect to relay at "+endpoint)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

// Read waits for the next message frame.
func (s *BaseRelaySuite) Read(conn *websocket.Conn, timeout time.Duration) domain.Message {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(timeout)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)
	if s.Config.DebugJSON {
		s.T().Logf("FRAME:\n%s", data)
	}
	var message domain.Message
	s.Require().NoError(json.Unmarshal(data, &message))
	return message
}

// WithHealth provides a gRPC health client within a contextual test step
func (s *BaseRelaySuite) WithHealth(name string, fn func(ctx context.Context, client grpc_health_v1.HealthClient)) {
	s.header(s.T(), name)
	conn, err := grpc.NewClient(s.Config.GrpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err, "Failed to connect to gRPC server at "+s.Config.GrpcAddr)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	fn(ctx, grpc_health_v1.NewHealthClient(conn))
}
