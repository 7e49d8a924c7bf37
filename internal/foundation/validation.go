package foundation

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/testbin/internal/foundation/errors"
)

// Validator represents a validation function.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("field '%s': %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errors ...FieldError) ValidationResult {
	return ValidationResult{
		Valid:  false,
		Errors: errors,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(field, code, message string) FieldError {
	return FieldError{
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// Combine merges multiple validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}

	var allErrors []FieldError
	allErrors = append(allErrors, vr.Errors...)
	allErrors = append(allErrors, other.Errors...)

	return Invalid(allErrors...)
}

// Messages returns one line per field error.
func (vr ValidationResult) Messages() []string {
	messages := make([]string, 0, len(vr.Errors))
	for _, err := range vr.Errors {
		messages = append(messages, err.Error())
	}
	return messages
}

// ToError converts a validation result to an error if invalid.
func (vr ValidationResult) ToError() error {
	if vr.Valid {
		return nil
	}

	return errors.ValidationError(strings.Join(vr.Messages(), "; ")).Build()
}

// ValidatorChain allows chaining multiple validators.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()

	for _, validator := range vc.validators {
		result = result.Combine(validator(value))
	}

	return result
}

// StringNotEmpty rejects empty or whitespace-only strings.
func StringNotEmpty(field string) Validator[string] {
	return func(value string) ValidationResult {
		if strings.TrimSpace(value) == "" {
			return Invalid(NewValidationError(field, "required", "must not be empty"))
		}
		return Valid()
	}
}

// StringMatches rejects non-empty strings that do not match pattern.
// Emptiness is left to StringNotEmpty so each failure is reported once.
func StringMatches(field string, pattern *regexp.Regexp, hint string) Validator[string] {
	return func(value string) ValidationResult {
		if value == "" || pattern.MatchString(value) {
			return Valid()
		}
		return Invalid(FieldError{
			Field:   field,
			Code:    "pattern",
			Message: fmt.Sprintf("%q %s", value, hint),
			Value:   value,
		})
	}
}

// Each applies validator to every element, reporting failures with the element index.
func Each[T any](field string, validator Validator[T]) Validator[[]T] {
	return func(values []T) ValidationResult {
		result := Valid()
		for i, v := range values {
			r := validator(v)
			for j := range r.Errors {
				r.Errors[j].Field = fmt.Sprintf("%s[%d]", field, i)
			}
			result = result.Combine(r)
		}
		return result
	}
}

// Conflict reports a mutually exclusive pair of settings when both are set.
func Conflict(field, other string, both bool) ValidationResult {
	if !both {
		return Valid()
	}
	return Invalid(NewValidationError(field, "conflict", fmt.Sprintf("cannot be combined with %s", other)))
}
