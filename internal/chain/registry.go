package chain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Errors.
var (
	ErrChainNotFound = errors.New("chain not found")
	ErrChainExists   = errors.New("chain already registered")
)

// BSCChainID is the chain this tool enforces before any balance read or
// transfer (BNB Smart Chain mainnet).
const BSCChainID int64 = 56

// NativeCurrency describes a chain's native asset.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// Descriptor holds all metadata needed to register a chain with a wallet,
// mirroring the wallet_addEthereumChain parameter shape (EIP-3085).
type Descriptor struct {
	ChainID        int64          `json:"chain_id"`
	Name           string         `json:"name"`
	NativeCurrency NativeCurrency `json:"native_currency"`
	RPCURLs        []string       `json:"rpc_urls"`
	ExplorerURL    string         `json:"explorer_url"`
}

// ChainIDHex returns the chain ID in the 0x-prefixed hex form wallets expect,
// e.g. 56 → "0x38".
func (d *Descriptor) ChainIDHex() string {
	return "0x" + strconv.FormatInt(d.ChainID, 16)
}

// Validate checks the descriptor is complete enough to register.
func (d *Descriptor) Validate() error {
	if d.ChainID <= 0 {
		return fmt.Errorf("invalid chain id %d", d.ChainID)
	}
	if d.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	if len(d.RPCURLs) == 0 {
		return fmt.Errorf("at least one RPC URL is required")
	}
	if d.NativeCurrency.Decimals <= 0 {
		return fmt.Errorf("native currency decimals must be positive")
	}
	return nil
}

// AddChainParams is the JSON payload of a wallet_addEthereumChain request.
type AddChainParams struct {
	ChainID           string         `json:"chainId"` // hex, e.g. "0x38"
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

// AddChainParams converts the descriptor into the wallet request payload.
func (d *Descriptor) AddChainParams() AddChainParams {
	p := AddChainParams{
		ChainID:        d.ChainIDHex(),
		ChainName:      d.Name,
		NativeCurrency: d.NativeCurrency,
		RPCURLs:        d.RPCURLs,
	}
	if d.ExplorerURL != "" {
		p.BlockExplorerURLs = []string{d.ExplorerURL}
	}
	return p
}

// DescriptorFromParams converts a wallet_addEthereumChain payload back into
// a registry descriptor.
func DescriptorFromParams(p AddChainParams) (*Descriptor, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(p.ChainID, "0x"), 16, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chainId %q: %w", p.ChainID, err)
	}
	d := &Descriptor{
		ChainID:        id,
		Name:           p.ChainName,
		NativeCurrency: p.NativeCurrency,
		RPCURLs:        p.RPCURLs,
	}
	if len(p.BlockExplorerURLs) > 0 {
		d.ExplorerURL = p.BlockExplorerURLs[0]
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Registry holds known chain descriptors, builtin plus runtime-registered.
type Registry struct {
	mu     sync.RWMutex
	chains []Descriptor
	byID   map[int64]*Descriptor
}

// NewRegistry creates a registry pre-loaded with the builtin chains.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[int64]*Descriptor)}
	for _, d := range builtinChains() {
		r.chains = append(r.chains, d)
	}
	r.reindex()
	return r
}

// All returns every registered chain.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, len(r.chains))
	copy(out, r.chains)
	return out
}

// ByID finds a chain by its numeric chain ID.
func (r *Registry) ByID(id int64) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byID[id]
	if !ok {
		return nil, ErrChainNotFound
	}
	return d, nil
}

// Register adds a new chain descriptor. Registering an already-known chain
// ID returns ErrChainExists.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[d.ChainID]; ok {
		return ErrChainExists
	}
	r.chains = append(r.chains, d)
	r.reindex()
	return nil
}

// reindex rebuilds byID. Callers must hold mu.
func (r *Registry) reindex() {
	r.byID = make(map[int64]*Descriptor, len(r.chains))
	for i := range r.chains {
		r.byID[r.chains[i].ChainID] = &r.chains[i]
	}
}

// --- chain data ---

func builtinChains() []Descriptor {
	return []Descriptor{
		// The enforced target chain. The descriptor doubles as the fixed
		// payload of the wallet_addEthereumChain registration request.
		{
			ChainID: 56, Name: "BNB Smart Chain",
			NativeCurrency: NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
			RPCURLs:        []string{"https://bsc-dataseed.binance.org", "https://bsc-rpc.publicnode.com"},
			ExplorerURL:    "https://bscscan.com",
		},
		{
			ChainID: 97, Name: "BSC Testnet",
			NativeCurrency: NativeCurrency{Name: "BNB", Symbol: "tBNB", Decimals: 18},
			RPCURLs:        []string{"https://data-seed-prebsc-1-s1.binance.org:8545"},
			ExplorerURL:    "https://testnet.bscscan.com",
		},
		{
			ChainID: 1, Name: "Ethereum",
			NativeCurrency: NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
			RPCURLs:        []string{"https://eth.llamarpc.com", "https://ethereum-rpc.publicnode.com"},
			ExplorerURL:    "https://etherscan.io",
		},
		{
			ChainID: 137, Name: "Polygon",
			NativeCurrency: NativeCurrency{Name: "MATIC", Symbol: "MATIC", Decimals: 18},
			RPCURLs:        []string{"https://polygon-bor-rpc.publicnode.com"},
			ExplorerURL:    "https://polygonscan.com",
		},
	}
}
