package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/belij2111/blogger-auth-service/internal/auth/domain"
)

type SessionRepository struct {
	db DB
}

func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Upsert keeps at most one row per (user_id, device_fingerprint). A repeat
// login from a known device retains the stored device_id and only rewrites
// the volatile columns; the surviving device_id is returned either way.
func (r *SessionRepository) Upsert(ctx context.Context, s *domain.DeviceSession) (string, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO device_sessions (device_id, user_id, device_fingerprint,
			ip_address, device_name, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, device_fingerprint)
		DO UPDATE SET
			ip_address = EXCLUDED.ip_address,
			device_name = EXCLUDED.device_name,
			issued_at = EXCLUDED.issued_at,
			expires_at = EXCLUDED.expires_at
		RETURNING device_id
	`, s.DeviceID, s.UserID, s.Fingerprint, s.IP, s.DeviceName, s.IssuedAt, s.ExpiresAt)

	var deviceID string
	if err := row.Scan(&deviceID); err != nil {
		return "", fmt.Errorf("failed to upsert device session: %w", err)
	}

	return deviceID, nil
}

// Rotate is the anti-replay gate: the UPDATE matches on the stored issued_at,
// so of two concurrent refreshes carrying the same token exactly one touches
// the row and the loser sees zero rows affected.
func (r *SessionRepository) Rotate(ctx context.Context, userID, deviceID string, oldIssuedAt, newIssuedAt, newExpiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE device_sessions
		SET issued_at = $4, expires_at = $5
		WHERE user_id = $1 AND device_id = $2 AND issued_at = $3
	`, userID, deviceID, oldIssuedAt, newIssuedAt, newExpiresAt)
	if err != nil {
		return false, fmt.Errorf("failed to rotate device session: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepository) DeleteMatching(ctx context.Context, userID, deviceID string, issuedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM device_sessions
		WHERE user_id = $1 AND device_id = $2 AND issued_at = $3
	`, userID, deviceID, issuedAt)
	if err != nil {
		return false, fmt.Errorf("failed to delete device session: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *SessionRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.DeviceSession, error) {
	row := r.db.QueryRow(ctx, `
		SELECT device_id, user_id, device_fingerprint, ip_address, device_name, issued_at, expires_at
		FROM device_sessions
		WHERE device_id = $1
		LIMIT 1;
	`, deviceID)

	var s domain.DeviceSession
	err := row.Scan(&s.DeviceID, &s.UserID, &s.Fingerprint, &s.IP, &s.DeviceName, &s.IssuedAt, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get device session: %w", err)
	}

	return &s, nil
}

func (r *SessionRepository) ListByUserID(ctx context.Context, userID string) ([]domain.DeviceSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT device_id, user_id, device_fingerprint, ip_address, device_name, issued_at, expires_at
		FROM device_sessions
		WHERE user_id = $1
		ORDER BY issued_at DESC;
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.DeviceSession
	for rows.Next() {
		var s domain.DeviceSession
		if err := rows.Scan(&s.DeviceID, &s.UserID, &s.Fingerprint, &s.IP, &s.DeviceName, &s.IssuedAt, &s.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan device session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

func (r *SessionRepository) DeleteByDeviceID(ctx context.Context, deviceID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM device_sessions WHERE device_id = $1`, deviceID)
	return err
}

func (r *SessionRepository) DeleteOthersByUserID(ctx context.Context, userID, keepDeviceID string) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM device_sessions
		WHERE user_id = $1 AND device_id <> $2
	`, userID, keepDeviceID)

	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM device_sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	return tag.RowsAffected(), nil
}
