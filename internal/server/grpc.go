// Package server assembles the gRPC server: interceptor chain, telemetry
// stats handler, health service, and the error-to-status mapping.
package server

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"ticketvault/backend/internal/audit"
	"ticketvault/backend/internal/server/interceptors"
)

// Deps holds the collaborators the server wiring needs.
type Deps struct {
	// Authn resolves bearer tokens for the auth interceptor. Required.
	Authn interceptors.Authenticator
	// Audit records authenticated RPCs. May be nil; then the audit
	// interceptor no-ops.
	Audit audit.AuditLogger
}

// PublicMethods is the set of full method names reachable without a bearer
// token: the credential and token endpoints themselves, plus health checks.
var PublicMethods = map[string]bool{
	"/ticketvault.auth.v1.AuthService/Register":     true,
	"/ticketvault.auth.v1.AuthService/Login":        true,
	"/ticketvault.auth.v1.AuthService/RefreshToken": true,
	"/grpc.health.v1.Health/Check":                  true,
	"/grpc.health.v1.Health/Watch":                  true,
}

// auditSkipMethods are RPCs the interceptor does not audit: health probes are
// noise, and the auth service writes its own richer entries for its RPCs.
var auditSkipMethods = map[string]bool{
	"/ticketvault.auth.v1.AuthService/Register":          true,
	"/ticketvault.auth.v1.AuthService/Login":             true,
	"/ticketvault.auth.v1.AuthService/RefreshToken":      true,
	"/ticketvault.auth.v1.AuthService/Logout":            true,
	"/ticketvault.auth.v1.AuthService/RevokeAllSessions": true,
	"/grpc.health.v1.Health/Check":                       true,
	"/grpc.health.v1.Health/Watch":                       true,
}

// New builds the gRPC server with the auth and audit interceptors, OTel
// instrumentation, and the standard health service registered. The returned
// health server starts in NOT_SERVING; main flips it once the database is
// reachable.
func New(deps Deps) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.AuthUnary(deps.Authn, PublicMethods),
			interceptors.AuditUnary(deps.Audit, auditSkipMethods),
		),
	)
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(s, healthSrv)
	return s, healthSrv
}
