package audit

import (
	"context"
	"errors"
	"testing"

	"ticketvault/backend/internal/audit/domain"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(ctx context.Context) string { return "192.168.1.1" })

	logger.LogEvent(context.Background(), "user-1", "login", "session", "meta")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "user-1" || entry.Action != "login" || entry.Resource != "session" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.Metadata != "meta" {
		t.Errorf("metadata = %q", entry.Metadata)
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	logger.LogEvent(context.Background(), "user-1", "login", "session", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
	}
}

func TestLogger_LogEvent_SurvivesCancelledContext(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	logger.LogEvent(ctx, "user-1", "refresh", "session", "")

	if len(repo.entries) != 1 {
		t.Fatalf("cancelled caller context must not drop the write, got %d entries", len(repo.entries))
	}
}

func TestLogger_LogEvent_RepositoryError(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	logger := NewLogger(repo, nil)

	// Best-effort: must not panic or surface the error.
	logger.LogEvent(context.Background(), "user-1", "login", "session", "")
}

func TestLogger_LogEvent_NilRepo(t *testing.T) {
	logger := NewLogger(nil, nil)
	logger.LogEvent(context.Background(), "user-1", "login", "session", "")

	if entries, err := logger.History(context.Background(), "user-1", 10, 0); err != nil || entries != nil {
		t.Errorf("History with nil repo: got %v, %v", entries, err)
	}
}
