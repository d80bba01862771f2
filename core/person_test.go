package core_test

import (
	"errors"
	"testing"

	"github.com/prior-it/crud/core"
	"github.com/stretchr/testify/assert"
)

func TestGender(t *testing.T) {
	t.Run("ok: genders are case-insensitive", func(t *testing.T) {
		for value, expected := range map[string]core.Gender{
			"Male":   core.GenderMale,
			"female": core.GenderFemale,
			"OTHER":  core.GenderOther,
		} {
			gender, err := core.ParseGender(value)
			assert.Nil(t, err)
			assert.Equal(t, expected, gender)
		}
	})

	t.Run("err: unknown gender", func(t *testing.T) {
		_, err := core.ParseGender("Robot")
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestValidationError(t *testing.T) {
	err := error(&core.ValidationError{Fields: []core.FieldError{
		{Field: "Name", Rule: "required", Message: "Name can't be blank"},
		{Field: "Email", Rule: "email", Message: "Email should be a valid email"},
	}})

	assert.ErrorIs(t, err, core.ErrInvalidArgument, "Validation errors are invalid arguments")
	assert.Contains(t, err.Error(), "Name can't be blank")
	assert.Contains(t, err.Error(), "Email should be a valid email")

	var validationErr *core.ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.True(t, validationErr.Has("Email"))
	assert.False(t, validationErr.Has("Gender"))
}

func TestParseIDs(t *testing.T) {
	id, err := core.ParsePersonID("8082ED0C-396D-4162-AD1D-29A13F929824")
	assert.Nil(t, err)
	assert.Equal(t, "8082ed0c-396d-4162-ad1d-29a13f929824", id.String())

	_, err = core.ParseCountryID("egypt")
	assert.NotNil(t, err)
}
