package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/belij2111/blogger-auth-service/internal/auth/domain"
)

// DB is the slice of pgxpool.Pool the repositories use. pgxmock satisfies it
// too, which keeps the tests off a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, login, email, password_hash, is_confirmed,
		confirmation_code, confirmation_code_expiry,
		recovery_code, recovery_code_expiry, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE login = $1`, login)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE login = $1 OR email = $1`, loginOrEmail)
}

func (r *UserRepository) GetByConfirmationCode(ctx context.Context, code string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE confirmation_code = $1`, code)
}

func (r *UserRepository) GetByRecoveryCode(ctx context.Context, code string) (*domain.User, error) {
	return r.getOne(ctx, `WHERE recovery_code = $1`, code)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users %s LIMIT 1;`, userColumns, where)
	row := r.db.QueryRow(ctx, query, arg)

	var user domain.User
	err := row.Scan(&user.ID, &user.Login, &user.Email, &user.PasswordHash, &user.IsConfirmed,
		&user.ConfirmationCode, &user.ConfirmationCodeExpiry,
		&user.RecoveryCode, &user.RecoveryCodeExpiry, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, login, email, password_hash, is_confirmed,
			confirmation_code, confirmation_code_expiry, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Login, user.Email, user.PasswordHash, user.IsConfirmed,
		user.ConfirmationCode, user.ConfirmationCodeExpiry, user.CreatedAt, user.UpdatedAt)

	return err
}

// MarkConfirmed flips the account to confirmed and burns the code in the
// same statement, so a replayed code can never find the row again.
func (r *UserRepository) MarkConfirmed(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_confirmed = TRUE,
			confirmation_code = NULL,
			confirmation_code_expiry = NULL,
			updated_at = now()
		WHERE id = $1
	`, userID)

	return err
}

func (r *UserRepository) SetConfirmationCode(ctx context.Context, userID string, code string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET confirmation_code = $2,
			confirmation_code_expiry = $3,
			updated_at = now()
		WHERE id = $1
	`, userID, code, expiry)

	return err
}

func (r *UserRepository) SetRecoveryCode(ctx context.Context, userID string, code string, expiry time.Time) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET recovery_code = $2,
			recovery_code_expiry = $3,
			updated_at = now()
		WHERE id = $1
	`, userID, code, expiry)

	return err
}

// UpdatePassword stores the new hash and clears the recovery code: it is
// single-use.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET password_hash = $2,
			recovery_code = NULL,
			recovery_code_expiry = NULL,
			updated_at = now()
		WHERE id = $1
	`, userID, passwordHash)

	return err
}

// Delete removes the user and cascades their device sessions.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM device_sessions WHERE user_id = $1`, userID); err != nil {
		return err
	}

	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)

	return err
}
