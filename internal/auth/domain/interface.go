package domain

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/belij2111/blogger-auth-service/internal/auth/domain UserRepository,SessionRepository

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByLogin(ctx context.Context, login string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	GetByConfirmationCode(ctx context.Context, code string) (*User, error)
	GetByRecoveryCode(ctx context.Context, code string) (*User, error)
	Create(ctx context.Context, user *User) error
	MarkConfirmed(ctx context.Context, userID string) error
	SetConfirmationCode(ctx context.Context, userID string, code string, expiry time.Time) error
	SetRecoveryCode(ctx context.Context, userID string, code string, expiry time.Time) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, userID string) error
}

type SessionRepository interface {
	// Upsert inserts a session or, when a row for (userID, fingerprint)
	// already exists, refreshes its timestamps in place. The device ID of
	// the surviving row is returned so the refresh token can be bound to it.
	Upsert(ctx context.Context, s *DeviceSession) (deviceID string, err error)

	// Rotate advances the session's validity window only if the stored
	// issued_at still equals oldIssuedAt. Returns false when no row matched,
	// which means the presented refresh token was already rotated away.
	Rotate(ctx context.Context, userID, deviceID string, oldIssuedAt, newIssuedAt, newExpiresAt time.Time) (bool, error)

	// DeleteMatching removes the session only if issued_at equals issuedAt,
	// under the same staleness rule as Rotate.
	DeleteMatching(ctx context.Context, userID, deviceID string, issuedAt time.Time) (bool, error)

	GetByDeviceID(ctx context.Context, deviceID string) (*DeviceSession, error)
	ListByUserID(ctx context.Context, userID string) ([]DeviceSession, error)
	DeleteByDeviceID(ctx context.Context, deviceID string) error
	DeleteOthersByUserID(ctx context.Context, userID, keepDeviceID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
