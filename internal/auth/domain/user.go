package domain

import "time"

type User struct {
	ID                     string
	Login                  string
	Email                  string
	PasswordHash           string
	IsConfirmed            bool
	ConfirmationCode       *string
	ConfirmationCodeExpiry *time.Time
	RecoveryCode           *string
	RecoveryCodeExpiry     *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DeviceSession is the single live session for one (user, device) pair.
// IssuedAt mirrors the iat claim of the refresh token that currently owns
// the session and acts as its version: a refresh token whose iat no longer
// matches has been rotated away and is dead.
type DeviceSession struct {
	DeviceID    string
	UserID      string
	Fingerprint string
	IP          string
	DeviceName  string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}
