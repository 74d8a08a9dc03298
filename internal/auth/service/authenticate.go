package service

import (
	"context"
)

// Principal is the resolved identity behind a verified access token.
// Authorization policy is an external collaborator that consumes it; Role is
// carried as data, not enforced here.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

// Authenticate verifies an inbound access token and resolves it to a live,
// active user. The live record is fetched on every call — token claims alone
// are never trusted for liveness, so a deleted or deactivated account is cut
// off within one access-token lifetime at most.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*Principal, error) {
	if accessToken == "" {
		return nil, ErrInvalidAccessToken
	}
	claims, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidAccessToken
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return &Principal{UserID: user.ID, Email: user.Email, Role: string(user.Role)}, nil
}
