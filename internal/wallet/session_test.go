package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempSession redirects the session file into a temp dir for the test.
func useTempSession(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	orig := sessionPath
	sessionPath = func() string { return path }
	t.Cleanup(func() { sessionPath = orig })
}

func TestSessionRoundTrip(t *testing.T) {
	useTempSession(t)

	require.NoError(t, SaveSession(&Session{Wallet: "hot", Address: "0xabc", ChainID: 56}))

	s := LoadSession()
	require.NotNil(t, s)
	assert.Equal(t, "hot", s.Wallet)
	assert.Equal(t, "0xabc", s.Address)
	assert.Equal(t, int64(56), s.ChainID)
	assert.NotEmpty(t, s.ConnectedAt)
	assert.True(t, SessionActive())
}

func TestLoadSessionMissing(t *testing.T) {
	useTempSession(t)
	assert.Nil(t, LoadSession())
	assert.False(t, SessionActive())
}

func TestClearSession(t *testing.T) {
	useTempSession(t)

	require.NoError(t, SaveSession(&Session{Wallet: "hot", Address: "0xabc", ChainID: 56}))
	require.NoError(t, ClearSession())
	assert.Nil(t, LoadSession())

	// Clearing twice is fine.
	assert.NoError(t, ClearSession())
}

func TestUpdateSessionChain(t *testing.T) {
	useTempSession(t)

	require.NoError(t, SaveSession(&Session{Wallet: "hot", Address: "0xabc", ChainID: 1}))
	UpdateSessionChain(56)

	s := LoadSession()
	require.NotNil(t, s)
	assert.Equal(t, int64(56), s.ChainID)
}

func TestUpdateSessionChainDisconnected(t *testing.T) {
	useTempSession(t)
	UpdateSessionChain(56) // no session; must not create one
	assert.Nil(t, LoadSession())
}

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("hot", "deadbeef")
	require.NoError(t, err)

	v, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", v)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}
