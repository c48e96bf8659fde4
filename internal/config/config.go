// Package config persists tool settings as JSON files under ~/.bsend.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/token"
)

const (
	defaultChainID = chain.BSCChainID

	// DefaultProjectID identifies this client to the wallet-connector
	// service. Overridable via BSEND_PROJECT_ID.
	DefaultProjectID = "9f21d0c1a7e84c48b33e0ae4780ce010"
)

const (
	configFile  = "config.json"
	walletsFile = "wallets.json"
	chainsFile  = "chains.json"
)

// Env variable names. A .env file in the working directory is honored too.
const (
	EnvConfigDir = "BSEND_CONFIG_DIR"
	EnvProjectID = "BSEND_PROJECT_ID"
)

// Config holds the persisted settings.
type Config struct {
	DefaultWallet string `json:"default_wallet,omitempty"`
	ChainID       int64  `json:"chain_id"`
	TokenAddress  string `json:"token_address"`
	ProjectID     string `json:"project_id"`

	configDir string
}

// Load reads config from dir (or creates defaults). dir defaults to ~/.bsend,
// overridable with BSEND_CONFIG_DIR (also read from a local .env file).
func Load(dir string) (*Config, error) {
	// Best-effort .env overlay; absence is not an error.
	_ = godotenv.Load()

	if dir == "" {
		dir = os.Getenv(EnvConfigDir)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".bsend")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir
	if cfg.ChainID == 0 {
		cfg.ChainID = defaultChainID
	}
	if cfg.TokenAddress == "" {
		cfg.TokenAddress = token.USDTAddress
	}

	return applyEnv(cfg), nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the wallet store file path.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LoadChains reads runtime-registered chain descriptors from chains.json.
func (c *Config) LoadChains() ([]chain.Descriptor, error) {
	data, err := os.ReadFile(filepath.Join(c.configDir, chainsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []chain.Descriptor
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveChains writes runtime-registered chain descriptors to chains.json.
func (c *Config) SaveChains(chains []chain.Descriptor) error {
	data, err := json.MarshalIndent(chains, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, chainsFile), data, 0o600)
}

// Registry builds the chain registry: builtins plus persisted custom chains.
func (c *Config) Registry() (*chain.Registry, error) {
	reg := chain.NewRegistry()
	custom, err := c.LoadChains()
	if err != nil {
		return nil, fmt.Errorf("loading custom chains: %w", err)
	}
	for _, d := range custom {
		if err := reg.Register(d); err != nil && err != chain.ErrChainExists {
			return nil, fmt.Errorf("registering chain %d: %w", d.ChainID, err)
		}
	}
	return reg, nil
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		ChainID:      defaultChainID,
		TokenAddress: token.USDTAddress,
		ProjectID:    DefaultProjectID,
		configDir:    dir,
	}
}

func applyEnv(cfg *Config) *Config {
	if pid := os.Getenv(EnvProjectID); pid != "" {
		cfg.ProjectID = pid
	}
	return cfg
}
