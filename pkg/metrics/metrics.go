// Package metrics provides Prometheus metrics for API clients and CLI commands
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "zadarapy"

// Metrics holds the Prometheus collectors. Each instance owns its registry
// so several can coexist in one process.
type Metrics struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// API requests by resource, method and HTTP status (or "error")
	requestsTotal *prometheus.CounterVec

	// API request latency
	requestDuration *prometheus.HistogramVec

	// CLI commands by result
	commandsTotal *prometheus.CounterVec

	// CLI command latency including output rendering
	commandDuration *prometheus.HistogramVec

	mu sync.Mutex
}

// New creates and registers all metrics.
func New(logger *zap.Logger) (*Metrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests by resource, method and status",
			},
			[]string{"resource", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "method"},
		),
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cli",
				Name:      "commands_total",
				Help:      "Total number of CLI commands by result",
			},
			[]string{"command", "result"},
		),
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cli",
				Name:      "command_duration_seconds",
				Help:      "CLI command duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.commandsTotal, m.commandDuration} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	logger.Debug("Prometheus metrics initialized")
	return m, nil
}

// RecordRequest records an API request with its status and duration.
func (m *Metrics) RecordRequest(resource, method, status string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestsTotal.WithLabelValues(resource, method, status).Inc()
	m.requestDuration.WithLabelValues(resource, method).Observe(duration)
}

// RecordCommand records a CLI command with its result and duration.
func (m *Metrics) RecordCommand(command, result string, duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.commandsTotal.WithLabelValues(command, result).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration)
}

// WriteTextfile writes all metrics in the text exposition format, suitable
// for the node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := prometheus.WriteToTextfile(path, m.GetRegistry()); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	m.logger.Debug("Metrics written", zap.String("path", path))
	return nil
}

// ResetMetrics resets all metrics to zero (useful for testing)
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestsTotal.Reset()
	m.requestDuration.Reset()
	m.commandsTotal.Reset()
	m.commandDuration.Reset()
}

// GetRegistry returns the Prometheus registry
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}
