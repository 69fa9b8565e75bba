// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"regexp"

	domainerrors "github.com/crucial-sub/sub-board/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// loginIDPattern restricts login IDs to URL-safe characters.
var loginIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type echoValidator struct {
	validate *validator.Validate
}

// New builds the request validator used by every handler.
func New() *echoValidator {
	validate := validator.New()

	// "login_id" backs the loginId fields on register and login requests.
	_ = validate.RegisterValidation("login_id", func(fl validator.FieldLevel) bool {
		return loginIDPattern.MatchString(fl.Field().String())
	})

	return &echoValidator{validate: validate}
}

// Validate checks struct tags and maps failures to the shared validation error.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
