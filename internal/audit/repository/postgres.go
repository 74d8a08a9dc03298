package repository

import (
	"context"
	"database/sql"

	"ticketvault/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create appends one audit log entry. UserID may be empty, e.g. for a failed
// login against an unknown email; it is stored as NULL.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	userID := sql.NullString{String: a.UserID, Valid: a.UserID != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_id, action, resource, ip, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, userID, a.Action, a.Resource, a.IP, a.Metadata, a.CreatedAt,
	)
	return err
}

// ListByUser returns audit entries for the user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, action, resource, ip, metadata, created_at
		 FROM audit_logs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var a domain.AuditLog
		var userID sql.NullString
		if err := rows.Scan(&a.ID, &userID, &a.Action, &a.Resource, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = userID.String
		out = append(out, &a)
	}
	return out, rows.Err()
}
