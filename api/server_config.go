package api

import (
	"log/slog"
	"time"
)

// HTTPServerConfig configures the devnet HTTP server.
type HTTPServerConfig struct {
	ListenAddr string

	// MetricsAddr is where Prometheus metrics are served. Empty disables the
	// metrics listener; call metrics are still collected.
	MetricsAddr string

	EnablePprof bool
	Log         *slog.Logger

	// DrainDuration is how long /drain keeps the server unready before
	// logging that the drain completed.
	DrainDuration            time.Duration
	GracefulShutdownDuration time.Duration
	ReadTimeout              time.Duration
	WriteTimeout             time.Duration
}
