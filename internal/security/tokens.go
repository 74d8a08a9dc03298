package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, signed
	// with the wrong secret or algorithm, or carries the wrong issuer.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims holds the JWT claims carried by both access and refresh tokens:
// subject (user id), email, and role, plus a unique jti per issuance so no
// two issuances are ever bit-identical.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenPair is one access/refresh issuance. RefreshExpiresAt is the refresh
// token's expiry, used as the session record's expires_at.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenProvider issues and validates HS256 access and refresh tokens. The two
// token kinds are signed with independent secrets and TTLs, so neither can be
// presented in place of the other.
type TokenProvider struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenProvider returns a TokenProvider with the given secrets and TTLs.
// accessSecret and refreshSecret must be distinct; config enforces this.
func NewTokenProvider(accessSecret, refreshSecret []byte, issuer string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL returns the configured refresh token lifetime.
func (p *TokenProvider) RefreshTTL() time.Duration { return p.refreshTTL }

// IssuePair issues a fresh access/refresh pair for the given user. Each token
// carries subject id, email, role, and its own jti.
func (p *TokenProvider) IssuePair(userID, email, role string) (TokenPair, error) {
	now := time.Now().UTC()
	accessExp := now.Add(p.accessTTL)
	refreshExp := now.Add(p.refreshTTL)

	access, err := p.sign(userID, email, role, now, accessExp, p.accessSecret)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := p.sign(userID, email, role, now, refreshExp, p.refreshSecret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (p *TokenProvider) sign(userID, email, role string, now, expiresAt time.Time, secret []byte) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
		Role:  role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccess parses and validates an access token (signature, exp, iss).
// Returns the claims or ErrInvalidToken.
func (p *TokenProvider) ValidateAccess(tokenString string) (*Claims, error) {
	return p.validate(tokenString, p.accessSecret)
}

// ValidateRefresh parses and validates a refresh token (signature, exp, iss).
// Returns the claims or ErrInvalidToken.
func (p *TokenProvider) ValidateRefresh(tokenString string) (*Claims, error) {
	return p.validate(tokenString, p.refreshSecret)
}

func (p *TokenProvider) validate(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != p.issuer {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
