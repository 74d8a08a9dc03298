package service

import (
	"context"
	"errors"
	"testing"
)

func TestAuthenticate_ValidToken(t *testing.T) {
	e := newTestEnv(t)
	p := e.register(t, "a@x.com")
	res := e.login(t, "a@x.com")

	principal, err := e.svc.Authenticate(context.Background(), res.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if principal.UserID != p.ID || principal.Email != "a@x.com" || principal.Role != "USER" {
		t.Errorf("principal = %+v", principal)
	}
}

func TestAuthenticate_Rejections(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@x.com")
	res := e.login(t, "a@x.com")

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		// A refresh token is signed with the other secret and must never
		// pass as an access token.
		{"refresh token", res.RefreshToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.svc.Authenticate(context.Background(), tc.token); !errors.Is(err, ErrInvalidAccessToken) {
				t.Errorf("want ErrInvalidAccessToken, got %v", err)
			}
		})
	}
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	e := newTestEnv(t)
	p := e.register(t, "a@x.com")
	res := e.login(t, "a@x.com")

	e.users.mu.Lock()
	delete(e.users.byID, p.ID)
	delete(e.users.byEmail, "a@x.com")
	e.users.mu.Unlock()

	if _, err := e.svc.Authenticate(context.Background(), res.AccessToken); !errors.Is(err, ErrInvalidAccessToken) {
		t.Errorf("deleted user: want ErrInvalidAccessToken, got %v", err)
	}
}

func TestAuthenticate_DeactivatedUser(t *testing.T) {
	e := newTestEnv(t)
	p := e.register(t, "a@x.com")
	res := e.login(t, "a@x.com")

	_ = e.users.SetActive(context.Background(), p.ID, false)
	if _, err := e.svc.Authenticate(context.Background(), res.AccessToken); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("deactivated user: want ErrAccountDisabled, got %v", err)
	}

	// Deactivation followed by revoke-all must cut off both token kinds.
	if _, err := e.svc.RevokeAllSessions(context.Background(), p.ID); err != nil {
		t.Fatalf("RevokeAllSessions: %v", err)
	}
	if _, err := e.svc.Refresh(context.Background(), res.RefreshToken, "", ""); err == nil {
		t.Error("refresh should fail after deactivation and revoke-all")
	}
}
