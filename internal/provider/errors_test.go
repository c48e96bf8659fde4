package provider

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnsupportedChain(t *testing.T) {
	err := NewUnsupportedChain("0x38")
	assert.True(t, IsUnsupportedChain(err))
	assert.False(t, IsRejected(err))
	assert.Contains(t, err.Error(), "4902")
}

func TestIsRejected(t *testing.T) {
	err := NewRejected("transaction")
	assert.True(t, IsRejected(err))
	assert.False(t, IsUnsupportedChain(err))
	assert.Contains(t, err.Error(), "4001")
}

func TestTaggedErrorSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("switch failed: %w", NewUnsupportedChain("0x38"))
	assert.True(t, IsUnsupportedChain(wrapped))
}

func TestPlainErrorIsNeither(t *testing.T) {
	assert.False(t, IsUnsupportedChain(assert.AnError))
	assert.False(t, IsRejected(assert.AnError))
}
