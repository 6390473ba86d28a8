package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/belij2111/blogger-auth-service/internal/auth/domain"
	"github.com/belij2111/blogger-auth-service/internal/auth/dto"
	apperrors "github.com/belij2111/blogger-auth-service/internal/errors"
	"github.com/belij2111/blogger-auth-service/pkg/logger"
)

// SessionService owns the device-session lifecycle: it issues token pairs on
// login, rotates them on refresh and tears sessions down on logout, expiry
// or explicit device termination.
type SessionService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   TokenGenerator
	now      func() time.Time
}

func NewSessionService(users domain.UserRepository, sessions domain.SessionRepository, tokens TokenGenerator) *SessionService {
	return &SessionService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (s *SessionService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenPair, error) {
	if verr := dto.Validate(input); verr != nil {
		return nil, verr
	}

	user, err := s.users.GetByLoginOrEmail(ctx, input.LoginOrEmail)
	if err != nil {
		return nil, err
	}

	// Unknown user, unconfirmed account and wrong password all collapse into
	// the same sentinel so the response leaks nothing.
	if user == nil || !user.IsConfirmed ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Unix-second precision: the session row and the refresh token iat must
	// compare equal on rotation.
	issuedAt := s.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(s.tokens.GetRefreshTokenExpiry())

	session := &domain.DeviceSession{
		DeviceID:    uuid.NewString(),
		UserID:      user.ID,
		Fingerprint: input.Fingerprint,
		IP:          input.IPAddress,
		DeviceName:  input.UserAgent,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}

	// A repeat login from a known device keeps its original device ID and
	// only moves the validity window.
	deviceID, err := s.sessions.Upsert(ctx, session)
	if err != nil {
		return nil, err
	}

	return s.issuePair(user.ID, deviceID, issuedAt)
}

func (s *SessionService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.TokenPair, error) {
	claims, err := s.verifyRefresh(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	oldIssuedAt := claims.IssuedAt.Time.Truncate(time.Second)
	newIssuedAt := s.now().Truncate(time.Second)
	if !newIssuedAt.After(oldIssuedAt) {
		// Same-second rotation must still change the version, otherwise the
		// old token would keep matching the row.
		newIssuedAt = oldIssuedAt.Add(time.Second)
	}
	newExpiresAt := newIssuedAt.Add(s.tokens.GetRefreshTokenExpiry())

	rotated, err := s.sessions.Rotate(ctx, claims.UserID, claims.DeviceID, oldIssuedAt, newIssuedAt, newExpiresAt)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// The stored issued_at moved on: this token was already spent, either
		// by an earlier rotation or by a concurrent refresh that won the race.
		return nil, apperrors.ErrInvalidRefreshToken
	}

	return s.issuePair(claims.UserID, claims.DeviceID, newIssuedAt)
}

func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.verifyRefresh(refreshToken)
	if err != nil {
		return err
	}

	deleted, err := s.sessions.DeleteMatching(ctx, claims.UserID, claims.DeviceID, claims.IssuedAt.Time.Truncate(time.Second))
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.ErrInvalidRefreshToken
	}

	return nil
}

// ValidateRefresh checks the token signature and that the triple it carries
// still names the live session. Device-management endpoints authenticate
// with this instead of the access token.
func (s *SessionService) ValidateRefresh(ctx context.Context, refreshToken string) (*RefreshClaims, error) {
	claims, err := s.verifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByDeviceID(ctx, claims.DeviceID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserID != claims.UserID ||
		!session.IssuedAt.Truncate(time.Second).Equal(claims.IssuedAt.Time.Truncate(time.Second)) {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	return claims, nil
}

func (s *SessionService) ListDevices(ctx context.Context, userID string) ([]dto.DeviceSessionOutput, error) {
	sessions, err := s.sessions.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DeviceSessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, dto.DeviceSessionOutput{
			DeviceID:       session.DeviceID,
			IP:             session.IP,
			Title:          session.DeviceName,
			LastActiveDate: session.IssuedAt,
		})
	}

	return out, nil
}

func (s *SessionService) TerminateDevice(ctx context.Context, userID, deviceID string) error {
	session, err := s.sessions.GetByDeviceID(ctx, deviceID)
	if err != nil {
		return err
	}
	if session == nil {
		return apperrors.ErrSessionNotFound
	}
	if session.UserID != userID {
		return apperrors.ErrForbidden
	}

	return s.sessions.DeleteByDeviceID(ctx, deviceID)
}

// TerminateOtherDevices logs the user out everywhere except the device that
// made the call.
func (s *SessionService) TerminateOtherDevices(ctx context.Context, userID, currentDeviceID string) error {
	return s.sessions.DeleteOthersByUserID(ctx, userID, currentDeviceID)
}

func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

// StartExpirySweep evicts expired sessions on a fixed interval until ctx is
// cancelled. Racing an in-flight refresh is harmless: rotation already moved
// expires_at forward, so the sweep's delete simply matches nothing.
func (s *SessionService) StartExpirySweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := s.SweepExpired(ctx)
				if err != nil {
					logger.Get().Warn("session sweep failed", zap.Error(err))
					continue
				}
				if deleted > 0 {
					logger.Get().Info("swept expired sessions", zap.Int64("deleted", deleted))
				}
			}
		}
	}()
}

func (s *SessionService) issuePair(userID, deviceID string, issuedAt time.Time) (*dto.TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.tokens.GenerateRefreshToken(userID, deviceID, issuedAt)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *SessionService) verifyRefresh(refreshToken string) (*RefreshClaims, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	if claims.IssuedAt == nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	return claims, nil
}
