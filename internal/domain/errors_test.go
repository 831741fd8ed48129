package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("delete", cause)

	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsStoreError(err))
	assert.Equal(t, "store delete: disk full", err.Error())
	assert.Nil(t, NewStoreError("delete", nil))
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "name: required", NewValidationError("name", "required").Error())
	assert.Equal(t, "bad", NewValidationError("", "bad").Error())
}

func TestParentRef(t *testing.T) {
	assert.Nil(t, ParentRef(0))
	assert.Nil(t, ParentRef(-3))
	if p := ParentRef(7); assert.NotNil(t, p) {
		assert.Equal(t, int64(7), *p)
	}
}
