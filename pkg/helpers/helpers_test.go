package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleConfig struct {
	Name string `json:"name" validate:"required"`
	Port int    `json:"port" validate:"required,gt=0"`
}

func TestCheckPasses(t *testing.T) {
	err := Check(&sampleConfig{Name: "x", Port: 8080})
	require.NoError(t, err)
}

func TestCheckFailsWithFieldDetail(t *testing.T) {
	err := Check(&sampleConfig{Port: 0})
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "validation_error", e.Title)
}

func TestNewErrorFromErrorNilIsNil(t *testing.T) {
	assert.Nil(t, NewErrorFromError(nil))
}

func TestNewErrorFromErrorPassesThroughError(t *testing.T) {
	original := NewError("already_ours")
	assert.Same(t, original, NewErrorFromError(original))
}
