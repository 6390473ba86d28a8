package notifier

//go:generate mockgen -destination=../mocks/mock_notifier.go -package=mocks github.com/belij2111/blogger-auth-service/internal/notifier Notifier

import "context"

// Notifier delivers one-time codes to users. Callers treat delivery as
// fire-and-forget: a failed send is logged and never fails the flow that
// produced the code.
type Notifier interface {
	SendConfirmationEmail(ctx context.Context, email, code string) error
	SendRecoveryEmail(ctx context.Context, email, code string) error
}
