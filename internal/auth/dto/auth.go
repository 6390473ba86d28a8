package dto

type RegisterInput struct {
	Login    string `json:"login" validate:"required,min=3,max=10,login_chars"`
	Password string `json:"password" validate:"required,min=6,max=20"`
	Email    string `json:"email" validate:"required,email"`
}

type ConfirmationInput struct {
	Code string `json:"code" validate:"required"`
}

type EmailResendingInput struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordRecoveryInput struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordInput struct {
	NewPassword  string `json:"newPassword" validate:"required,min=6,max=20"`
	RecoveryCode string `json:"recoveryCode" validate:"required"`
}

type LoginInput struct {
	LoginOrEmail string `json:"loginOrEmail" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Fingerprint  string `json:"-"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}

type RefreshInput struct {
	RefreshToken string `json:"-"`
	IPAddress    string `json:"-"`
	UserAgent    string `json:"-"`
}
