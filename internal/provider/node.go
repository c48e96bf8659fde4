package provider

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/rpc"
	"github.com/mohammade909/bsend/internal/wallet"
)

const fallbackGasLimit = 100000

// NodeProvider implements Provider against a JSON-RPC node, signing locally
// with a keystore-backed wallet. It plays the role a browser's injected
// wallet plays for a web page: it owns the session, answers wallet_* requests
// and signs outbound transactions.
type NodeProvider struct {
	registry *chain.Registry
	signer   *wallet.Signer
	picker   *rpc.Picker

	mu      sync.Mutex
	client  *chain.EVMClient
	state   State
	chainID int64 // target chain for Connect
}

// NewNodeProvider creates a disconnected provider. chainID selects the chain
// Connect will attach to; the chain must be present in the registry or
// registered later via wallet_addEthereumChain.
func NewNodeProvider(reg *chain.Registry, signer *wallet.Signer, chainID int64) *NodeProvider {
	return &NodeProvider{
		registry: reg,
		signer:   signer,
		picker:   rpc.NewPicker(rpc.AlgorithmFailover),
		chainID:  chainID,
	}
}

// Connect establishes the session: resolves the target chain, picks a healthy
// RPC endpoint and verifies the node really serves that chain.
func (p *NodeProvider) Connect(ctx context.Context) error {
	p.mu.Lock()
	if p.state.Connected || p.state.Connecting {
		p.mu.Unlock()
		return fmt.Errorf("already connected")
	}
	if p.signer == nil {
		p.mu.Unlock()
		return fmt.Errorf("no signing wallet available")
	}
	p.state.Connecting = true
	p.mu.Unlock()

	client, err := p.dial(ctx, p.chainID)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Connecting = false
	if err != nil {
		return err
	}

	p.client = client
	p.state.Connected = true
	p.state.Account = p.signer.Address()
	p.state.ChainID = p.chainID
	return nil
}

// Disconnect tears down the session.
func (p *NodeProvider) Disconnect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = nil
	p.state = State{}
	return nil
}

// State returns the current session snapshot.
func (p *NodeProvider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Chain returns the descriptor of the currently attached chain, or nil when
// disconnected.
func (p *NodeProvider) Chain() *chain.Descriptor {
	st := p.State()
	if !st.Connected {
		return nil
	}
	d, err := p.registry.ByID(st.ChainID)
	if err != nil {
		return nil
	}
	return d
}

// Request handles wallet_* methods locally and passes everything else
// through to the node.
func (p *NodeProvider) Request(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	switch method {
	case "wallet_switchEthereumChain":
		return nil, p.switchChain(ctx, params)
	case "wallet_addEthereumChain":
		return nil, p.addChain(ctx, params)
	default:
		client, err := p.activeClient()
		if err != nil {
			return nil, err
		}
		return client.Raw(ctx, method, params...)
	}
}

// NativeBalance reads the native-coin balance of account in wei.
func (p *NodeProvider) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	client, err := p.activeClient()
	if err != nil {
		return nil, err
	}
	return client.GetBalance(ctx, account)
}

// Call performs a read-only contract call.
func (p *NodeProvider) Call(ctx context.Context, to, calldata string) (string, error) {
	client, err := p.activeClient()
	if err != nil {
		return "", err
	}
	return client.CallContract(ctx, to, calldata)
}

// SendTransaction builds, signs and broadcasts a dynamic-fee transaction.
func (p *NodeProvider) SendTransaction(ctx context.Context, to string, calldata []byte, value *big.Int) (string, error) {
	client, err := p.activeClient()
	if err != nil {
		return "", err
	}
	st := p.State()

	data := ""
	if len(calldata) > 0 {
		data = "0x" + hex.EncodeToString(calldata)
	}

	gas, err := client.EstimateGas(ctx, st.Account, to, data, value)
	if err != nil {
		gas = fallbackGasLimit
	}

	gasPrice, err := client.GasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("getting gas price: %w", err)
	}

	nonce, err := client.GetNonce(ctx, st.Account)
	if err != nil {
		return "", fmt.Errorf("getting nonce: %w", err)
	}

	if value == nil {
		value = big.NewInt(0)
	}
	toAddr := common.HexToAddress(to)
	chainID := big.NewInt(st.ChainID)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasPrice,
		GasFeeCap: new(big.Int).Mul(gasPrice, big.NewInt(2)),
		Gas:       gas,
		To:        &toAddr,
		Value:     value,
		Data:      calldata,
	})

	raw, err := p.signer.SignTx(tx, chainID)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}

	hash, err := client.SendRawTransaction(ctx, "0x"+hex.EncodeToString(raw))
	if err != nil {
		return "", fmt.Errorf("broadcasting transaction: %w", err)
	}
	return hash, nil
}

// WaitMined blocks until the transaction has one confirmation.
func (p *NodeProvider) WaitMined(ctx context.Context, hash string) error {
	client, err := p.activeClient()
	if err != nil {
		return err
	}
	_, err = client.WaitForReceipt(ctx, hash)
	return err
}

// --- wallet_* handling ---

// switchChain re-points the session at another registered chain. An unknown
// chain id yields the tagged UnsupportedChain error so callers can fall back
// to wallet_addEthereumChain.
func (p *NodeProvider) switchChain(ctx context.Context, params []interface{}) error {
	var sw SwitchChainParams
	if err := decodeParam(params, &sw); err != nil {
		return fmt.Errorf("wallet_switchEthereumChain: %w", err)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(sw.ChainID, "0x"), 16, 64)
	if err != nil {
		return fmt.Errorf("wallet_switchEthereumChain: invalid chainId %q: %w", sw.ChainID, err)
	}

	d, lookupErr := p.registry.ByID(id)
	if lookupErr != nil {
		return NewUnsupportedChain(sw.ChainID)
	}
	return p.attach(ctx, d)
}

// addChain registers a new chain descriptor and immediately switches to it,
// matching the wallet behavior the EIP-3085 flow relies on.
func (p *NodeProvider) addChain(ctx context.Context, params []interface{}) error {
	var ac chain.AddChainParams
	if err := decodeParam(params, &ac); err != nil {
		return fmt.Errorf("wallet_addEthereumChain: %w", err)
	}

	d, err := chain.DescriptorFromParams(ac)
	if err != nil {
		return fmt.Errorf("wallet_addEthereumChain: %w", err)
	}

	if err := p.registry.Register(*d); err != nil && err != chain.ErrChainExists {
		return fmt.Errorf("wallet_addEthereumChain: %w", err)
	}
	return p.attach(ctx, d)
}

// attach connects the active session to the given chain.
func (p *NodeProvider) attach(ctx context.Context, d *chain.Descriptor) error {
	if !p.State().Connected {
		return fmt.Errorf("not connected")
	}
	client, err := p.dial(ctx, d.ChainID)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.client = client
	p.state.ChainID = d.ChainID
	p.chainID = d.ChainID
	p.mu.Unlock()
	return nil
}

// dial resolves a chain, picks an RPC endpoint and verifies the node's chain
// id matches the descriptor.
func (p *NodeProvider) dial(ctx context.Context, chainID int64) (*chain.EVMClient, error) {
	d, err := p.registry.ByID(chainID)
	if err != nil {
		return nil, fmt.Errorf("chain %d: %w", chainID, err)
	}

	url, err := p.picker.Select(ctx, d.RPCURLs)
	if err != nil {
		return nil, fmt.Errorf("selecting RPC for %s: %w", d.Name, err)
	}

	client := chain.NewEVMClient(url)
	got, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", url, err)
	}
	if got != d.ChainID {
		return nil, fmt.Errorf("RPC %s serves chain %d, want %d", url, got, d.ChainID)
	}
	return client, nil
}

func (p *NodeProvider) activeClient() (*chain.EVMClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.Connected || p.client == nil {
		return nil, fmt.Errorf("not connected")
	}
	return p.client, nil
}

// decodeParam extracts the first request parameter into dst, accepting both
// typed structs and generic maps (the shapes a JSON transport produces).
func decodeParam(params []interface{}, dst interface{}) error {
	if len(params) == 0 {
		return fmt.Errorf("missing parameter")
	}
	raw, err := json.Marshal(params[0])
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}
