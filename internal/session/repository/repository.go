package repository

import (
	"context"
	"errors"

	"ticketvault/backend/internal/session/domain"
)

// ErrDuplicateTokenHash is returned when a create would violate the global
// uniqueness of token_hash. The constraint is the integrity backstop for the
// rotation protocol: no two sessions, even across users, may share a digest.
var ErrDuplicateTokenHash = errors.New("refresh token hash already stored")

// Repository defines persistence for refresh sessions. Sessions are never
// deleted; all mutations set revoked_at (and optionally the replacement
// link), preserving the audit chain.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// GetValidByTokenHash returns the session for the digest only if it is
	// neither revoked nor expired; the validity predicate is part of the
	// query, not applied by the caller. Returns nil when no valid session
	// matches.
	GetValidByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	// RevokeByTokenHash sets revoked_at on the matching still-valid session
	// and optionally links the replacement. Idempotent: revoking an unknown
	// or already-revoked digest is not an error.
	RevokeByTokenHash(ctx context.Context, tokenHash, replacedByTokenID string) error
	// RevokeAllByUser revokes every currently-valid session for the user and
	// returns how many were newly revoked.
	RevokeAllByUser(ctx context.Context, userID string) (int64, error)
	// Rotate atomically revokes the session identified by presentedHash and
	// persists next as its replacement, linking replaced_by_token_id. When
	// the presented session is no longer valid (a concurrent rotation won, or
	// next's token hash already exists), Rotate returns (nil, nil) and
	// persists nothing; the caller routes that into reuse teardown.
	Rotate(ctx context.Context, presentedHash string, next *domain.Session) (*domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
}
