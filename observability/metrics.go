package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Connections
	ConnectionsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kerek_connections_opened_total",
			Help: "Total websocket connections upgraded",
		},
		[]string{"kind"}, // "room" or "presence"
	)

	ConnectionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kerek_connections_rejected_total",
			Help: "Total connection attempts refused before upgrade",
		},
		[]string{"status"},
	)

	ActiveConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kerek_active_connections",
			Help: "Currently open websocket connections",
		},
		[]string{"kind"},
	)

	// Registry, sampled by the telemetry worker
	Rooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_rooms",
			Help: "Rooms held by the registry",
		},
	)

	Channels = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_channels",
			Help: "Live outbound channels",
		},
	)

	PendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_pending_messages",
			Help: "Payloads waiting in pending queues",
		},
	)

	OnlineUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_online_users",
			Help: "Users with at least one live session",
		},
	)

	// Messages
	MessagesPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kerek_messages_persisted_total",
			Help: "Total messages stored",
		},
	)

	PersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kerek_persist_failures_total",
			Help: "Total messages dropped because the store failed",
		},
	)

	Deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kerek_deliveries_total",
			Help: "Total per recipient delivery outcomes",
		},
		[]string{"outcome"}, // "delivered", "queued" or "evicted"
	)

	DroppedFrames = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kerek_dropped_frames_total",
			Help: "Total inbound frames dropped as malformed",
		},
	)

	ProtocolViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kerek_protocol_violations_total",
			Help: "Total connections closed for a protocol violation",
		},
		[]string{"reason"},
	)

	// Process, sampled by the telemetry worker
	ProcessCPUPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_process_cpu_percent",
			Help: "CPU usage of the relay process",
		},
	)

	ProcessRSSBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kerek_process_rss_bytes",
			Help: "Resident memory of the relay process",
		},
	)
)
