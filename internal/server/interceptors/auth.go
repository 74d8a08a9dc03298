package interceptors

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"ticketvault/backend/internal/auth/service"
)

const bearerPrefix = "bearer "

// Authenticator resolves a bearer access token to a live principal. It is the
// auth service in production and a fake in tests.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*service.Principal, error)
}

// AuthUnary returns a unary server interceptor that validates the Bearer
// (access) token from gRPC metadata and attaches the resolved principal to the
// context for protected RPCs. publicMethods is the set of full method names
// that do not require a token (e.g. Register, Login, Refresh, health checks).
// A deactivated account fails PermissionDenied; every other failure mode fails
// Unauthenticated without detail.
func AuthUnary(authn Authenticator, publicMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		token := extractBearer(ctx)
		public := publicMethods[info.FullMethod]

		if token == "" {
			if public {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		principal, err := authn.Authenticate(ctx, token)
		if err != nil {
			if public {
				return handler(ctx, req)
			}
			if errors.Is(err, service.ErrAccountDisabled) {
				return nil, status.Error(codes.PermissionDenied, "account is deactivated")
			}
			return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization")
		}

		ctx = WithPrincipal(ctx, principal)
		return handler(ctx, req)
	}
}

// extractBearer returns the Bearer token from ctx metadata, or "" if missing or malformed.
func extractBearer(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return ""
	}
	v := strings.TrimSpace(vals[0])
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
