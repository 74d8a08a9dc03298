package domain

import "testing"

func TestUser_Validate(t *testing.T) {
	u := &User{Email: "a@x.com", PasswordHash: "hash"}
	if err := u.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if u.Role != RoleUser {
		t.Errorf("empty role should default to %q, got %q", RoleUser, u.Role)
	}

	if err := (&User{PasswordHash: "hash"}).Validate(); err == nil {
		t.Error("missing email should fail")
	}
	if err := (&User{Email: "a@x.com"}).Validate(); err == nil {
		t.Error("missing password hash should fail")
	}
}

func TestUser_Profile(t *testing.T) {
	u := &User{ID: "id-1", Email: "a@x.com", Name: "A", PasswordHash: "secret-hash"}
	p := u.Profile()
	if p.ID != "id-1" || p.Email != "a@x.com" || p.Name != "A" {
		t.Errorf("profile = %+v", p)
	}
}
