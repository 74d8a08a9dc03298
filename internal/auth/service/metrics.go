package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// serviceMetrics holds the auth counters. Instruments come from the global
// MeterProvider, so they are no-ops until telemetry is configured.
type serviceMetrics struct {
	logins        metric.Int64Counter
	rotations     metric.Int64Counter
	reuseDetected metric.Int64Counter
	revocations   metric.Int64Counter
}

func newServiceMetrics() *serviceMetrics {
	meter := otel.Meter("ticketvault.auth")
	logins, _ := meter.Int64Counter("auth.logins",
		metric.WithDescription("Successful logins"))
	rotations, _ := meter.Int64Counter("auth.refresh.rotations",
		metric.WithDescription("Successful refresh token rotations"))
	reuse, _ := meter.Int64Counter("auth.refresh.reuse_detected",
		metric.WithDescription("Refresh presentations treated as reuse, each followed by full teardown"))
	revocations, _ := meter.Int64Counter("auth.sessions.revoked",
		metric.WithDescription("Sessions revoked by logout, revoke-all, or reuse teardown"))
	return &serviceMetrics{
		logins:        logins,
		rotations:     rotations,
		reuseDetected: reuse,
		revocations:   revocations,
	}
}
