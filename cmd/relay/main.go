package main

import (
	"context"
	"errors"
	"fmt"
	"kerek/auth"
	"kerek/contract"
	"kerek/infrastructure/ws"
	"kerek/repositories"
	"kerek/runtime"
	"kerek/runtime/workers"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Returning instead of exiting lets deferred cleanups (badger, redis) run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	policy, err := runtime.ParseOverflowPolicy(config.OverflowPolicy)
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(ctx, config, log))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if log.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		log.Info("Debug Badger inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(db, config.DebugPort, endpoint, RelayMapper)
	}

	// 3. Stores
	var presenceStore contract.PresenceStore = repositories.NewPresenceRepository(db)
	if config.RedisURL != "" {
		redisPresence, err := repositories.NewRedisPresenceRepository(ctx, config.RedisURL)
		if err != nil {
			return exitRuntime, fmt.Errorf("redis connection failed: %w", err)
		}
		defer func() {
			log.Info("Closing Redis...")
			_ = redisPresence.Close()
		}()
		presenceStore = redisPresence
		log.Info("Presence stored in redis")
	}
	messageRepository := repositories.NewMessageRepository(db, log)
	membershipRepository := repositories.NewMembershipRepository(db)
	tokenService := auth.NewTokenService(config.JwtSecret, config.JwtIssuer)

	// 4. Relay core
	presence := runtime.NewPresence(presenceStore, log)
	registry := runtime.NewRegistry(presence, runtime.RegistryConfig{
		BufferSize:        config.ConnectionBufferSize,
		Policy:            policy,
		MaxPendingPerUser: config.MaxPendingPerUser,
	})

	// 5. Background workers
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewTelemetryWorker(log, config.MetricInterval, registry, presence),
		workers.NewHealthWorker(log, net.JoinHostPort(config.Host, strconv.Itoa(config.GrpcPort))),
	)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 6. WebSocket server
	relay := ws.NewServer(log, ws.Config{
		HeartbeatInterval: config.HeartbeatInterval,
		WriteTimeout:      config.WriteTimeout,
		MaxContentLength:  config.MaxContentLength,
		MaxFrameSize:      int64(config.MaxFrameSize),
		AllowedOrigins:    config.Origins(),
	}, tokenService, membershipRepository, messageRepository, registry, presence)

	address := net.JoinHostPort(config.Host, strconv.Itoa(config.Port))
	httpServer := &http.Server{Addr: address, Handler: relay.Router()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting relay", "address", address, "overflow_policy", policy.String())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	code := exitOK
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		log.Error("Relay failed", "error", err)
		code = exitRuntime
	}

	// 8. Final Cleanup
	relay.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("HTTP shutdown incomplete", "error", shutdownErr)
	}
	sup.Stop()
	<-supDone
	log.Info("Relay stopped cleanly")

	return code, err
}

func buildBadgerOpts(ctx context.Context, config Config, log *slog.Logger) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if log.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}
