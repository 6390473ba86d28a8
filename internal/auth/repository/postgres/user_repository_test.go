package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belij2111/blogger-auth-service/internal/auth/domain"
	repo "github.com/belij2111/blogger-auth-service/internal/auth/repository/postgres"
)

var userColumns = []string{
	"id", "login", "email", "password_hash", "is_confirmed",
	"confirmation_code", "confirmation_code_expiry",
	"recovery_code", "recovery_code_expiry", "created_at", "updated_at",
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).
		AddRow(u.ID, u.Login, u.Email, u.PasswordHash, u.IsConfirmed,
			u.ConfirmationCode, u.ConfirmationCodeExpiry,
			u.RecoveryCode, u.RecoveryCodeExpiry, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_GetByLoginOrEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	expected := &domain.User{
		ID:           "user-123",
		Login:        "User_1",
		Email:        "user_1@gmail.com",
		PasswordHash: "hash",
		IsConfirmed:  true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, login").
			WithArgs("User_1").
			WillReturnRows(userRow(expected))

		user, err := r.GetByLoginOrEmail(ctx, "User_1")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, expected.ID, user.ID)
		assert.Equal(t, expected.Email, user.Email)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, login").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByLoginOrEmail(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, login").
			WithArgs("User_1").
			WillReturnError(fmt.Errorf("db error"))

		_, err := r.GetByLoginOrEmail(ctx, "User_1")
		assert.Error(t, err)
	})
}

func TestUserRepository_GetByConfirmationCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	code := "code-123"
	expiry := time.Now().Add(time.Hour)
	expected := &domain.User{
		ID:                     "user-123",
		Login:                  "User_1",
		Email:                  "user_1@gmail.com",
		PasswordHash:           "hash",
		ConfirmationCode:       &code,
		ConfirmationCodeExpiry: &expiry,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, login").
			WithArgs(code).
			WillReturnRows(userRow(expected))

		user, err := r.GetByConfirmationCode(ctx, code)
		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotNil(t, user.ConfirmationCode)
		assert.Equal(t, code, *user.ConfirmationCode)
	})

	t.Run("unknown code", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, login").
			WithArgs("unknown").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByConfirmationCode(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	ctx := context.Background()

	code := "code-123"
	expiry := time.Now().Add(time.Hour)
	user := &domain.User{
		ID:                     "user-123",
		Login:                  "User_1",
		Email:                  "user_1@gmail.com",
		PasswordHash:           "hash",
		IsConfirmed:            false,
		ConfirmationCode:       &code,
		ConfirmationCodeExpiry: &expiry,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Login, user.Email, user.PasswordHash, user.IsConfirmed,
				user.ConfirmationCode, user.ConfirmationCodeExpiry, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, r.Create(ctx, user))
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, user.Login, user.Email, user.PasswordHash, user.IsConfirmed,
				user.ConfirmationCode, user.ConfirmationCodeExpiry, user.CreatedAt, user.UpdatedAt).
			WillReturnError(fmt.Errorf("duplicate key"))

		assert.Error(t, r.Create(ctx, user))
	})
}

func TestUserRepository_MarkConfirmed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.MarkConfirmed(context.Background(), "user-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetConfirmationCode(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)
	expiry := time.Now().Add(time.Hour)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123", "new-code", expiry).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.SetConfirmationCode(context.Background(), "user-123", "new-code", expiry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-123", "new-hash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, r.UpdatePassword(context.Background(), "user-123", "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repo.NewUserRepository(mock)

	// Sessions go first, then the user row.
	mock.ExpectExec("DELETE FROM device_sessions").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-123").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, r.Delete(context.Background(), "user-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
