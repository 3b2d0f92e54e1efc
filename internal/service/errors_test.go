package service

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_Nil(t *testing.T) {
	assert.NoError(t, Validation(nil))
}

func TestValidation_Fields(t *testing.T) {
	err := Validation(validation.Errors{
		"title": errors.New("cannot be blank"),
		"page":  nil,
	})
	require.ErrorIs(t, err, ErrValidation)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, map[string]string{"title": "cannot be blank"}, se.Fields)
	assert.Equal(t, "Invalid request", se.Error())
}

func TestValidation_PlainError(t *testing.T) {
	err := Validation(errors.New("must provide at least one field"))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "must provide at least one field", err.Error())
}

func TestKinds(t *testing.T) {
	assert.ErrorIs(t, Unauthenticated("Please authenticate"), ErrUnauthenticated)
	assert.ErrorIs(t, Conflict("Email already taken"), ErrConflict)
	assert.ErrorIs(t, NotFound("Task not found"), ErrNotFound)
	assert.NotErrorIs(t, NotFound("Task not found"), ErrConflict)
}
