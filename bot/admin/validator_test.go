package admin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerValidator(t *testing.T) {
	v := Integer()

	assert.NoError(t, v.Validate("42"))
	assert.NoError(t, v.Validate(" -7 "))

	err := v.Validate("abc")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "abc")
	assert.Contains(t, verr.Message, "Please, enter number.")

	// the same input always gives the same answer
	assert.Equal(t, err.Error(), v.Validate("abc").Error())
}

func TestRunValidatorsShortCircuits(t *testing.T) {
	calls := 0
	counting := ValidatorFunc(func(string) error {
		calls++
		return nil
	})

	err := RunValidators([]Validator{NotBlank(), counting}, "  ")
	require.Error(t, err)
	assert.Equal(t, 0, calls)

	require.NoError(t, RunValidators([]Validator{NotBlank(), counting}, "x"))
	assert.Equal(t, 1, calls)
}

func TestEmailAndOneOf(t *testing.T) {
	assert.NoError(t, Email().Validate("student@prog.academy"))
	assert.Error(t, Email().Validate("student.prog.academy"))

	roles := OneOf("ADMIN", "TEACHER")
	assert.NoError(t, roles.Validate("teacher"))

	var verr *ValidationError
	assert.True(t, errors.As(roles.Validate("guest"), &verr))
}
