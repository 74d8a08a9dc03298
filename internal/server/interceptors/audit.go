package interceptors

import (
	"context"

	"google.golang.org/grpc"

	"ticketvault/backend/internal/audit"
)

// AuditUnary returns a unary server interceptor that records an audit event
// after each authenticated RPC. skipMethods is the set of full method names to
// leave out (health checks, and auth RPCs the service already audits itself).
// Writes are best-effort through the logger and never fail the RPC.
func AuditUnary(logger audit.AuditLogger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if logger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		principal, ok := PrincipalFromContext(ctx)
		if !ok {
			return resp, err
		}
		ar := audit.ParseFullMethod(info.FullMethod)
		logger.LogEvent(ctx, principal.UserID, ar.Action, ar.Resource, "")
		return resp, err
	}
}
