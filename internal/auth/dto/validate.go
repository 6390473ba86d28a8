package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/belij2111/blogger-auth-service/internal/errors"
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("login_chars", func(fl validator.FieldLevel) bool {
		return loginPattern.MatchString(fl.Field().String())
	})
	return v
}()

// Validate runs the struct tags against the input and converts validator
// failures into the field-tagged error list the API returns on 400.
func Validate(input any) *apperrors.ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("", err.Error())
	}

	out := &apperrors.ValidationError{}
	for _, fe := range verrs {
		out.Add(jsonFieldName(fe.Field()), messageFor(fe))
	}
	return out
}

func jsonFieldName(structField string) string {
	if structField == "" {
		return structField
	}
	return strings.ToLower(structField[:1]) + structField[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "too short, minimum length is " + fe.Param()
	case "max":
		return "too long, maximum length is " + fe.Param()
	case "login_chars":
		return "only letters, digits, underscore and hyphen are allowed"
	default:
		return "invalid value"
	}
}
