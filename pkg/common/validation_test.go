package common

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	errs := FieldErrors{}
	assert.NoError(t, errs.Err())

	assert.False(t, errs.Required("name", "  ", "Name is required"))
	assert.True(t, errs.Required("city", "Nashik", "City is required"))
	errs["age"] = "Too young"

	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "invalid form: age: Too young; name: Name is required", err.Error())

	var fields FieldErrors
	require.True(t, errors.As(errors.Wrap(err, "save"), &fields))
	assert.Len(t, fields, 2)
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("ravi@example.com"))
	assert.True(t, IsEmail(" ravi@example.com "))
	assert.False(t, IsEmail("ravi@"))
	assert.False(t, IsEmail(""))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("98765 43210", 10))
	assert.True(t, IsDigits("422001", 6))
	assert.False(t, IsDigits("42200", 6))
	assert.False(t, IsDigits("+9876543210", 10))
	assert.False(t, IsDigits("98765-4321", 10))
	assert.False(t, IsDigits("42200a", 6))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Marathi", "Hindi"}, SplitList(" Marathi, ,Hindi ,"))
	assert.Nil(t, SplitList(""))
}
