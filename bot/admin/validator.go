package admin

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a recoverable input problem. The operator sees
// "Wrong input: <Message>" and stays on the same step.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(message string) *ValidationError {
	return &ValidationError{Message: message}
}

type Validator interface {
	Validate(input string) error
}

type ValidatorFunc func(input string) error

func (f ValidatorFunc) Validate(input string) error {
	return f(input)
}

// RunValidators stops at the first failing validator.
func RunValidators(validators []Validator, input string) error {
	for _, v := range validators {
		if err := v.Validate(input); err != nil {
			return err
		}
	}
	return nil
}

func Integer() Validator {
	return ValidatorFunc(func(input string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(input)); err != nil {
			return Invalid("is not the integer: " + input + ". Please, enter number.")
		}
		return nil
	})
}

func NotBlank() Validator {
	return ValidatorFunc(func(input string) error {
		if strings.TrimSpace(input) == "" {
			return Invalid("value must not be empty")
		}
		return nil
	})
}

func Email() Validator {
	return ValidatorFunc(func(input string) error {
		if err := validate.Var(strings.TrimSpace(input), "required,email"); err != nil {
			return Invalid(input + " is not a valid e-mail address")
		}
		return nil
	})
}

// OneOf accepts any of values ignoring letter case.
func OneOf(values ...string) Validator {
	return ValidatorFunc(func(input string) error {
		in := strings.TrimSpace(input)
		for _, v := range values {
			if strings.EqualFold(in, v) {
				return nil
			}
		}
		return Invalid(input + " is not one of " + strings.Join(values, ", "))
	})
}
