package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Select
// ---------------------------------------------------------------------------

func TestSelectEmpty(t *testing.T) {
	p := NewPicker(AlgorithmFailover)
	_, err := p.Select(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

func TestSelectSingleURLSkipsCheck(t *testing.T) {
	// One URL means no choice to make; the picker must not probe it.
	p := NewPicker(AlgorithmFailover)
	url, err := p.Select(context.Background(), []string{"http://127.0.0.1:1/unreachable"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1/unreachable", url)
}

// ---------------------------------------------------------------------------
// Pick: fastest
// ---------------------------------------------------------------------------

func TestPickFastestPrefersLowLatency(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	ep, err := p.Pick([]Endpoint{
		{URL: "slow", Latency: 800 * time.Millisecond, BlockNumber: 100, Healthy: true, Checked: true},
		{URL: "fast", Latency: 50 * time.Millisecond, BlockNumber: 100, Healthy: true, Checked: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "fast", ep.URL)
}

func TestPickFastestDiscardsStale(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	ep, err := p.Pick([]Endpoint{
		// Fast but 10 blocks behind.
		{URL: "stale", Latency: 10 * time.Millisecond, BlockNumber: 90, Healthy: true, Checked: true},
		{URL: "current", Latency: 200 * time.Millisecond, BlockNumber: 100, Healthy: true, Checked: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "current", ep.URL)
}

func TestPickFastestSkipsUnhealthy(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	ep, err := p.Pick([]Endpoint{
		{URL: "down", Healthy: false, Checked: true},
		{URL: "up", Latency: 100 * time.Millisecond, BlockNumber: 100, Healthy: true, Checked: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "up", ep.URL)
}

func TestPickFastestAllDown(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	_, err := p.Pick([]Endpoint{
		{URL: "a", Healthy: false, Checked: true},
		{URL: "b", Healthy: false, Checked: true},
	})
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}

func TestPickFastestUncheckedAreCandidates(t *testing.T) {
	p := NewPicker(AlgorithmFastest)
	ep, err := p.Pick([]Endpoint{{URL: "unknown"}})
	require.NoError(t, err)
	assert.Equal(t, "unknown", ep.URL)
}

// ---------------------------------------------------------------------------
// Pick: failover
// ---------------------------------------------------------------------------

func TestPickFailoverOrder(t *testing.T) {
	p := NewPicker(AlgorithmFailover)
	ep, err := p.Pick([]Endpoint{
		{URL: "primary", Healthy: true, Checked: true},
		{URL: "secondary", Healthy: true, Checked: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "primary", ep.URL)
}

func TestPickFailoverSkipsDownPrimary(t *testing.T) {
	p := NewPicker(AlgorithmFailover)
	ep, err := p.Pick([]Endpoint{
		{URL: "primary", Healthy: false, Checked: true},
		{URL: "secondary", Healthy: true, Checked: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "secondary", ep.URL)
}

func TestPickFailoverEmpty(t *testing.T) {
	p := NewPicker(AlgorithmFailover)
	_, err := p.Pick(nil)
	assert.ErrorIs(t, err, ErrNoHealthyRPC)
}
