package domain

import "time"

// AuditLog is one recorded auth event. Entries are append-only; nothing in
// the subsystem updates or deletes them.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the auth service.
const (
	ActionRegister     = "register"
	ActionLogin        = "login"
	ActionLoginFailure = "login_failure"
	ActionRefresh      = "refresh"
	ActionReuseDetect  = "refresh_reuse_detected"
	ActionLogout       = "logout"
	ActionRevokeAll    = "revoke_all_sessions"
)
