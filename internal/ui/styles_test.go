package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0xf39F…2266", TruncateAddr("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"))
}

func TestTruncateAddrShort(t *testing.T) {
	assert.Equal(t, "0xabc", TruncateAddr("0xabc"))
	assert.Equal(t, "", TruncateAddr(""))
}
