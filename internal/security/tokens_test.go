package security

import (
	"errors"
	"testing"
	"time"
)

func newTestProvider() *TokenProvider {
	return NewTokenProvider(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"ticketvault-auth",
		15*time.Minute,
		168*time.Hour,
	)
}

func TestTokenProvider_IssuePair(t *testing.T) {
	p := newTestProvider()
	pair, err := p.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}
	if pair.AccessToken == pair.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Errorf("refresh expiry %v should be after access expiry %v", pair.RefreshExpiresAt, pair.AccessExpiresAt)
	}

	claims, err := p.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@x.com" || claims.Role != "USER" {
		t.Errorf("access claims = %q/%q/%q", claims.Subject, claims.Email, claims.Role)
	}

	rc, err := p.ValidateRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if rc.Subject != "u1" || rc.Email != "a@x.com" || rc.Role != "USER" {
		t.Errorf("refresh claims = %q/%q/%q", rc.Subject, rc.Email, rc.Role)
	}
}

func TestTokenProvider_IssuancesAreUnique(t *testing.T) {
	p := newTestProvider()
	pair1, err := p.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	pair2, err := p.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair1.RefreshToken == pair2.RefreshToken {
		t.Error("two issuances produced identical refresh tokens")
	}
	if pair1.AccessToken == pair2.AccessToken {
		t.Error("two issuances produced identical access tokens")
	}
}

func TestTokenProvider_SecretsAreIndependent(t *testing.T) {
	p := newTestProvider()
	pair, err := p.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := p.ValidateRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token validated as refresh: err = %v", err)
	}
	if _, err := p.ValidateAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token validated as access: err = %v", err)
	}
}

func TestTokenProvider_ValidateMalformed(t *testing.T) {
	p := newTestProvider()
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := p.ValidateRefresh(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateRefresh(%q): want ErrInvalidToken, got %v", tok, err)
		}
		if _, err := p.ValidateAccess(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ValidateAccess(%q): want ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestTokenProvider_ValidateExpired(t *testing.T) {
	p := NewTokenProvider(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"ticketvault-auth",
		-time.Minute,
		-time.Minute,
	)
	pair, err := p.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := p.ValidateRefresh(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired refresh token: want ErrInvalidToken, got %v", err)
	}
	if _, err := p.ValidateAccess(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired access token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_RejectsForeignIssuer(t *testing.T) {
	p := newTestProvider()
	other := NewTokenProvider(
		[]byte("test-access-secret-0123456789abcdef"),
		[]byte("test-refresh-secret-0123456789abcdef"),
		"someone-else",
		15*time.Minute,
		168*time.Hour,
	)
	pair, err := other.IssuePair("u1", "a@x.com", "USER")
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := p.ValidateRefresh(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign issuer: want ErrInvalidToken, got %v", err)
	}
}
