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
	"github.com/belij2111/blogger-auth-service/internal/notifier"
	"github.com/belij2111/blogger-auth-service/pkg/logger"
)

type UserService struct {
	repo            domain.UserRepository
	notifier        notifier.Notifier
	confirmationTTL time.Duration
	recoveryTTL     time.Duration
	now             func() time.Time
	// spawn runs side-effect work off the request path.
	spawn func(func())
}

func NewUserService(repo domain.UserRepository, n notifier.Notifier, confirmationTTLMin, recoveryTTLMin int) *UserService {
	return &UserService{
		repo:            repo,
		notifier:        n,
		confirmationTTL: time.Duration(confirmationTTLMin) * time.Minute,
		recoveryTTL:     time.Duration(recoveryTTLMin) * time.Minute,
		now:             time.Now,
		spawn:           func(f func()) { go f() },
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) error {
	if verr := dto.Validate(input); verr != nil {
		return verr
	}

	if existing, err := s.repo.GetByLogin(ctx, input.Login); err != nil {
		return err
	} else if existing != nil {
		return apperrors.NewValidationError("login", "login already exists")
	}

	if existing, err := s.repo.GetByEmail(ctx, input.Email); err != nil {
		return err
	} else if existing != nil {
		return apperrors.NewValidationError("email", "email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := s.now()
	code := uuid.NewString()
	codeExpiry := now.Add(s.confirmationTTL)

	user := &domain.User{
		ID:                     uuid.NewString(),
		Login:                  input.Login,
		Email:                  input.Email,
		PasswordHash:           string(hashedPassword),
		IsConfirmed:            false,
		ConfirmationCode:       &code,
		ConfirmationCodeExpiry: &codeExpiry,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.sendAsync(user.Email, code, s.notifier.SendConfirmationEmail)

	return nil
}

func (s *UserService) ConfirmRegistration(ctx context.Context, input dto.ConfirmationInput) error {
	if verr := dto.Validate(input); verr != nil {
		return verr
	}

	user, err := s.repo.GetByConfirmationCode(ctx, input.Code)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrCodeInvalid
	}
	if user.IsConfirmed {
		return apperrors.ErrAlreadyConfirmed
	}
	if user.ConfirmationCodeExpiry == nil || s.now().After(*user.ConfirmationCodeExpiry) {
		// An expired code is indistinguishable from an unknown one.
		return apperrors.ErrCodeInvalid
	}

	return s.repo.MarkConfirmed(ctx, user.ID)
}

func (s *UserService) ResendConfirmation(ctx context.Context, input dto.EmailResendingInput) error {
	if verr := dto.Validate(input); verr != nil {
		return verr
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewValidationError("email", "user with this email does not exist")
	}
	if user.IsConfirmed {
		return apperrors.NewValidationError("email", "email is already confirmed")
	}

	// A new code invalidates whatever code was issued before.
	code := uuid.NewString()
	if err := s.repo.SetConfirmationCode(ctx, user.ID, code, s.now().Add(s.confirmationTTL)); err != nil {
		return err
	}

	s.sendAsync(user.Email, code, s.notifier.SendConfirmationEmail)

	return nil
}

// PasswordRecovery never reports whether the email is registered. The
// response is success-shaped either way; a code is stored and mailed only
// when the user actually exists.
func (s *UserService) PasswordRecovery(ctx context.Context, input dto.PasswordRecoveryInput) error {
	if verr := dto.Validate(input); verr != nil {
		return verr
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	code := uuid.NewString()
	if err := s.repo.SetRecoveryCode(ctx, user.ID, code, s.now().Add(s.recoveryTTL)); err != nil {
		return err
	}

	s.sendAsync(user.Email, code, s.notifier.SendRecoveryEmail)

	return nil
}

func (s *UserService) ConfirmNewPassword(ctx context.Context, input dto.NewPasswordInput) error {
	if verr := dto.Validate(input); verr != nil {
		return verr
	}

	user, err := s.repo.GetByRecoveryCode(ctx, input.RecoveryCode)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrCodeInvalid
	}
	if user.RecoveryCodeExpiry == nil || s.now().After(*user.RecoveryCodeExpiry) {
		return apperrors.ErrCodeInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, user.ID, string(hashedPassword))
}

func (s *UserService) Me(ctx context.Context, userID string) (*dto.MeOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	return &dto.MeOutput{
		UserID: user.ID,
		Login:  user.Login,
		Email:  user.Email,
	}, nil
}

// Delete removes the user together with all of their device sessions.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.ErrUserNotFound
	}

	return s.repo.Delete(ctx, userID)
}

// sendAsync hands the email off to the notifier without tying its fate to
// the calling flow. Delivery failures are logged and dropped.
func (s *UserService) sendAsync(email, code string, send func(context.Context, string, string) error) {
	s.spawn(func() {
		if err := send(context.Background(), email, code); err != nil {
			logger.Get().Warn("failed to send email",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	})
}
