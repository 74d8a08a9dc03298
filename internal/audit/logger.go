package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"ticketvault/backend/internal/audit/domain"
	auditrepo "ticketvault/backend/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context (e.g. gRPC
// metadata or peer).
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and never affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP
// extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor
// for the client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor) *Logger {
	return &Logger{repo: repo, ipExtractor: ipExtractor}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not
// returned. The write uses a detached context so a cancelled request cannot
// drop the trail for an operation that already completed.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := l.repo.Create(writeCtx, entry); err != nil {
		log.Printf("audit: failed to create audit log: %v", err)
	}
}

// History returns the user's audit trail, newest first. Unlike LogEvent this
// is a plain read and surfaces repository errors.
func (l *Logger) History(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	if l == nil || l.repo == nil {
		return nil, nil
	}
	return l.repo.ListByUser(ctx, userID, limit, offset)
}
