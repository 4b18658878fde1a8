// Package validator wraps go-playground/validator with the platform's
// request DTOs and business rules.
package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors is the error type returned for invalid requests.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator validates request DTOs.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the platform's custom rules registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterValidation("future_time", validateFutureTime)

	return &Validator{validate: validate}
}

// Validate runs struct-tag validation and returns ValidationErrors on
// failure.
func (v *Validator) Validate(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if ok := asValidationErrors(err, &invalid); !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(invalid))
	for _, fe := range invalid {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*target = ve
	}
	return ok
}

func validateFutureTime(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must have at least %s items or characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must have at most %s items or characters", fe.Field(), fe.Param())
	case "future_time":
		return fmt.Sprintf("%s must be in the future", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed validation rule %s", fe.Field(), fe.Tag())
	}
}
