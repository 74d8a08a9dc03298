package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"ticketvault/backend/internal/session/domain"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const sessionColumns = `id, user_id, token_hash, expires_at, created_at, revoked_at, replaced_by_token_id, device_info, ip_address`

// Create persists the session. The session must have ID and TokenHash set.
// Returns ErrDuplicateTokenHash on a token_hash uniqueness violation.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO refresh_sessions (id, user_id, token_hash, expires_at, created_at, revoked_at, replaced_by_token_id, device_info, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.UserID, s.TokenHash, s.ExpiresAt, s.CreatedAt,
		timeToNullTime(s.RevokedAt), nullString(s.ReplacedByTokenID), nullString(s.DeviceInfo), nullString(s.IPAddress),
	)
	if isUniqueViolation(err) {
		return ErrDuplicateTokenHash
	}
	return err
}

// GetValidByTokenHash returns the session for the digest if it is not revoked
// and not expired, or nil. The predicate runs inside the query so the read
// and the validity check cannot be split by a concurrent revoke.
func (r *PostgresRepository) GetValidByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions
		 WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`,
		tokenHash)
	s, err := scanSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// RevokeByTokenHash revokes the still-valid session matching the digest,
// optionally linking the replacement session. Affecting zero rows is not an
// error, so logout stays idempotent.
func (r *PostgresRepository) RevokeByTokenHash(ctx context.Context, tokenHash, replacedByTokenID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions
		 SET revoked_at = $2, replaced_by_token_id = COALESCE($3, replaced_by_token_id)
		 WHERE token_hash = $1 AND revoked_at IS NULL`,
		tokenHash, time.Now().UTC(), nullString(replacedByTokenID),
	)
	return err
}

// RevokeAllByUser revokes every valid session for the user and returns the
// number of rows updated.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2
		 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Rotate performs the single-use exchange in one transaction:
//
//  1. conditionally revoke the presented session (still valid only) and read
//     back its id — zero rows means a concurrent rotation already consumed
//     the token and the caller must treat the presentation as reuse;
//  2. insert the replacement session;
//  3. back-link replaced_by_token_id on the presented session.
//
// A token_hash uniqueness violation on the insert is also reported as a lost
// race: the constraint is the backstop if two rotations slip past step 1.
func (r *PostgresRepository) Rotate(ctx context.Context, presentedHash string, next *domain.Session) (*domain.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var oldID string
	err = tx.QueryRowContext(ctx,
		`UPDATE refresh_sessions SET revoked_at = $2
		 WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()
		 RETURNING id`,
		presentedHash, time.Now().UTC(),
	).Scan(&oldID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_sessions (id, user_id, token_hash, expires_at, created_at, device_info, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		next.ID, next.UserID, next.TokenHash, next.ExpiresAt, next.CreatedAt,
		nullString(next.DeviceInfo), nullString(next.IPAddress),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE refresh_sessions SET replaced_by_token_id = $2 WHERE id = $1`,
		oldID, next.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return next, nil
}

// ListByUser returns all sessions for the user, newest first, including
// revoked and expired ones (the audit chain).
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM refresh_sessions
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSession(scan func(dest ...any) error) (*domain.Session, error) {
	var s domain.Session
	var revokedAt sql.NullTime
	var replacedBy, deviceInfo, ipAddress sql.NullString
	if err := scan(&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &revokedAt, &replacedBy, &deviceInfo, &ipAddress); err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	s.ReplacedByTokenID = replacedBy.String
	s.DeviceInfo = deviceInfo.String
	s.IPAddress = ipAddress.String
	return &s, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
