package main

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

type Config struct {
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	GrpcPort             int           `env:"GRPC_PORT,default=9090"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	JwtSecret            string        `env:"JWT_SECRET,required=true"`
	JwtIssuer            string        `env:"JWT_ISSUER"`
	HeartbeatInterval    time.Duration `env:"HEARTBEAT_INTERVAL,default=30s"`
	WriteTimeout         time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	OverflowPolicy       string        `env:"OVERFLOW_POLICY,default=queue"`
	MaxPendingPerUser    int           `env:"MAX_PENDING_PER_USER,default=0"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=4096"`
	MaxFrameSize         int           `env:"MAX_FRAME_SIZE,default=65536"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=15s"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	RedisURL             string        `env:"REDIS_URL"`
	AllowedOrigins       string        `env:"ALLOWED_ORIGINS"`
}

// Origins splits the comma separated ALLOWED_ORIGINS list.
func (c Config) Origins() []string {
	origins := lo.Map(strings.Split(c.AllowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimSpace(o)
	})
	return lo.Compact(origins)
}
