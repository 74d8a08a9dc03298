package server

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"ticketvault/backend/internal/auth/service"
)

// StatusFromError maps auth service sentinels to gRPC status errors.
// Unrecognized errors become Internal with a generic message so storage and
// crypto failures never leak detail to clients. nil passes through as nil.
func StatusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrInvalidAccessToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, service.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
