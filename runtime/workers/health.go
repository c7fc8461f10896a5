package workers

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthWorker serves the standard grpc.health.v1.Health service so that
// orchestrators can probe the relay without opening a websocket.
type HealthWorker struct {
	log  *slog.Logger
	addr string
}

func NewHealthWorker(log *slog.Logger, addr string) *HealthWorker {
	return &HealthWorker{log: log, addr: addr}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", w.addr)
	if err != nil {
		return err
	}

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	server := grpc.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)

	errCh := make(chan error, 1)
	go func() {
		w.log.Info("gRPC health server listening", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		healthServer.Shutdown()
		server.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
