package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Session records which wallet is currently connected and on which chain.
// It is the persisted half of the connection state: `bsend connect` writes
// it, `bsend disconnect` removes it, and every other command reads it to
// find the active account.
type Session struct {
	Wallet      string `json:"wallet"`
	Address     string `json:"address"`
	ChainID     int64  `json:"chain_id"`
	ConnectedAt string `json:"connected_at"`
}

// sessionFilePath returns the per-user session cache file.
// Uses the OS cache directory with 0600 permissions so only the current
// user can read it.
//
//	macOS:   ~/Library/Caches/bsend/session.json
//	Linux:   ~/.cache/bsend/session.json
//	Windows: %LocalAppData%\bsend\session.json
func sessionFilePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "bsend", "session.json")
}

// sessionPath is swappable in tests.
var sessionPath = sessionFilePath

// SaveSession writes the session file with restrictive permissions.
func SaveSession(s *Session) error {
	if s.ConnectedAt == "" {
		s.ConnectedAt = time.Now().UTC().Format(time.RFC3339)
	}
	path := sessionPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	// Best-effort: restrict permissions after write. Enforced on Unix,
	// a harmless no-op on Windows.
	_ = os.Chmod(path, 0o600)
	return nil
}

// LoadSession reads the current session, or returns nil when disconnected.
func LoadSession() *Session {
	data, err := os.ReadFile(sessionPath())
	if err != nil {
		return nil
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if s.Wallet == "" {
		return nil
	}
	return &s
}

// UpdateSessionChain rewrites the stored chain id after a successful switch.
// No-op when disconnected.
func UpdateSessionChain(chainID int64) {
	s := LoadSession()
	if s == nil {
		return
	}
	s.ChainID = chainID
	_ = SaveSession(s) // best-effort; errors are silently ignored
}

// ClearSession disconnects by deleting the session file.
func ClearSession() error {
	err := os.Remove(sessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// SessionActive reports whether a wallet is currently connected.
func SessionActive() bool {
	return LoadSession() != nil
}
