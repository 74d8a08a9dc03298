package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"ticketvault/backend/internal/audit"
	auditdomain "ticketvault/backend/internal/audit/domain"
	"ticketvault/backend/internal/security"
	sessiondomain "ticketvault/backend/internal/session/domain"
	sessionrepo "ticketvault/backend/internal/session/repository"
	userdomain "ticketvault/backend/internal/user/domain"
	userrepo "ticketvault/backend/internal/user/repository"
)

// Sentinel errors for the auth service; transport adapters map them to status
// codes via server.StatusFromError. Every refresh-token failure mode —
// expiry, bad signature, unknown digest, and reuse — collapses into
// ErrInvalidRefreshToken so callers cannot distinguish them.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account is deactivated")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken     = errors.New("invalid or expired access token")

	// ErrInvalidArgument wraps field validation failures so transports can
	// distinguish caller mistakes from internal faults.
	ErrInvalidArgument = errors.New("invalid argument")
)

// AuthResult holds the outcome of Login or Refresh.
type AuthResult struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
	UserID          string
}

// AuthService composes hashing, token issuance, and the session store into
// register, login, refresh, logout, and revoke-all. It owns the rotation and
// reuse-detection protocol. No session state is cached in memory: every check
// is a store round-trip, which is what keeps rotation single-writer.
type AuthService struct {
	users    userrepo.Repository
	sessions sessionrepo.Repository
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	audit    audit.AuditLogger
	metrics  *serviceMetrics
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger may be nil; events are then not recorded.
func NewAuthService(
	users userrepo.Repository,
	sessions sessionrepo.Repository,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	auditLogger audit.AuditLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		audit:    auditLogger,
		metrics:  newServiceMetrics(),
	}
}

// Register creates a user with role USER and returns the public profile
// projection. The password hash never leaves the service. Fails with
// ErrEmailAlreadyRegistered for a duplicate email.
func (s *AuthService) Register(ctx context.Context, name, email, phone, password string) (*userdomain.Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hashed,
		Role:         userdomain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The unique constraint is the backstop for a concurrent register
		// racing the existence check.
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	s.logEvent(ctx, user.ID, auditdomain.ActionRegister, "user", "")
	return user.Profile(), nil
}

// Login authenticates with email/password, persists a session keyed by the
// hash of the new refresh token, and returns the pair. Unknown email or wrong
// password fail ErrInvalidCredentials; a matched but deactivated account
// fails ErrAccountDisabled.
func (s *AuthService) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.logEvent(ctx, "", auditdomain.ActionLoginFailure, "session", "unknown email")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logEvent(ctx, user.ID, auditdomain.ActionLoginFailure, "session", "account deactivated")
		return nil, ErrAccountDisabled
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		s.logEvent(ctx, user.ID, auditdomain.ActionLoginFailure, "session", "bad password")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	sess := &sessiondomain.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		TokenHash:  security.HashRefreshToken(pair.RefreshToken),
		ExpiresAt:  pair.RefreshExpiresAt,
		CreatedAt:  time.Now().UTC(),
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	s.logEvent(ctx, user.ID, auditdomain.ActionLogin, "session", "")
	s.metrics.logins.Add(ctx, 1)
	return &AuthResult{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		UserID:          user.ID,
	}, nil
}

// Refresh redeems a refresh token for a new pair, rotating the backing
// session. Refresh tokens are strictly single-use: presenting a digest that
// is unknown, already rotated, or revoked is indistinguishable from theft and
// tears down every session of the claimed subject before failing.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken, deviceInfo, ipAddress string) (*AuthResult, error) {
	if rawRefreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	claims, err := s.tokens.ValidateRefresh(rawRefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// From here on the operation mutates session state; run it to completion
	// even if the caller disconnects, so a revoked session is never left
	// without its replacement.
	ctx = context.WithoutCancel(ctx)

	tokenHash := security.HashRefreshToken(rawRefreshToken)
	sess, err := s.sessions.GetValidByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, s.teardown(ctx, claims.Subject, ErrInvalidRefreshToken, "presented digest not valid")
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.teardown(ctx, sess.UserID, ErrInvalidRefreshToken, "owner missing")
	}
	if !user.IsActive {
		return nil, s.teardown(ctx, user.ID, ErrAccountDisabled, "owner deactivated")
	}

	// Reissue from the live user record, not the presented claims, so role or
	// email changes propagate at rotation.
	pair, err := s.tokens.IssuePair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}
	next := &sessiondomain.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		TokenHash:  security.HashRefreshToken(pair.RefreshToken),
		ExpiresAt:  pair.RefreshExpiresAt,
		CreatedAt:  time.Now().UTC(),
		DeviceInfo: deviceInfo,
		IPAddress:  ipAddress,
	}
	rotated, err := s.sessions.Rotate(ctx, tokenHash, next)
	if err != nil {
		return nil, err
	}
	if rotated == nil {
		// A concurrent refresh of the same token won the race; this
		// presentation is a second use.
		return nil, s.teardown(ctx, user.ID, ErrInvalidRefreshToken, "lost rotation race")
	}

	s.logEvent(ctx, user.ID, auditdomain.ActionRefresh, "session", "")
	s.metrics.rotations.Add(ctx, 1)
	return &AuthResult{
		AccessToken:     pair.AccessToken,
		RefreshToken:    pair.RefreshToken,
		AccessExpiresAt: pair.AccessExpiresAt,
		UserID:          user.ID,
	}, nil
}

// teardown revokes every session of the subject, records the event, and
// returns the error the caller must surface. The mass revocation precedes the
// error return; its own failure takes precedence so the caller does not
// mistake a partial teardown for a completed one.
func (s *AuthService) teardown(ctx context.Context, userID string, kind error, reason string) error {
	if userID == "" {
		return kind
	}
	count, err := s.sessions.RevokeAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logEvent(ctx, userID, auditdomain.ActionReuseDetect, "session", reason)
	s.metrics.reuseDetected.Add(ctx, 1)
	s.metrics.revocations.Add(ctx, count)
	return kind
}

// Logout revokes the session matching the supplied refresh token, or every
// session of the user when no token is supplied. Idempotent: revoking a
// token that matches nothing still succeeds.
func (s *AuthService) Logout(ctx context.Context, userID, rawRefreshToken string) error {
	if rawRefreshToken != "" {
		if err := s.sessions.RevokeByTokenHash(ctx, security.HashRefreshToken(rawRefreshToken), ""); err != nil {
			return err
		}
		s.logEvent(ctx, userID, auditdomain.ActionLogout, "session", "single")
		return nil
	}
	count, err := s.sessions.RevokeAllByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logEvent(ctx, userID, auditdomain.ActionLogout, "session", "all")
	s.metrics.revocations.Add(ctx, count)
	return nil
}

// ListSessions returns every session of the user, newest first, including
// revoked and expired ones. Lets users review their devices and spot ones
// they do not recognize.
func (s *AuthService) ListSessions(ctx context.Context, userID string) ([]*sessiondomain.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// RevokeAllSessions revokes every valid session for the user and returns the
// count. Administrative hook for logout-everywhere.
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	count, err := s.sessions.RevokeAllByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logEvent(ctx, userID, auditdomain.ActionRevokeAll, "session", "")
	s.metrics.revocations.Add(ctx, count)
	return count, nil
}

func (s *AuthService) logEvent(ctx context.Context, userID, action, resource, metadata string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, userID, action, resource, metadata)
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", ErrInvalidArgument)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidArgument)
	}
	var hasUpper, hasLower, hasNumber, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasNumber = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must contain at least one uppercase letter", ErrInvalidArgument)
	}
	if !hasLower {
		return fmt.Errorf("%w: password must contain at least one lowercase letter", ErrInvalidArgument)
	}
	if !hasNumber {
		return fmt.Errorf("%w: password must contain at least one number", ErrInvalidArgument)
	}
	if !hasSymbol {
		return fmt.Errorf("%w: password must contain at least one symbol", ErrInvalidArgument)
	}
	return nil
}
