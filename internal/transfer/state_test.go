package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "state(42)", State(42).String())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to State
		ok       bool
	}{
		{Disconnected, Connecting, true},
		{Connecting, Connected, true},
		{Connecting, Disconnected, true},
		{Connected, Submitting, true},
		{Connected, Disconnected, true},
		{Submitting, Connected, true},
		{Submitting, Disconnected, true},

		{Disconnected, Connected, false},
		{Disconnected, Submitting, false},
		{Disconnected, Disconnected, false},
		{Connecting, Submitting, false},
		{Connected, Connecting, false},
		{Submitting, Connecting, false},
		{Submitting, Submitting, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, c.from.CanTransition(c.to), "%s → %s", c.from, c.to)
	}
}
