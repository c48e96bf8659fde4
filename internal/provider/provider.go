// Package provider models the wallet session as an injected dependency:
// an interface with connect/disconnect/request operations that the transfer
// flow talks to, substitutable with a fake in tests. NodeProvider is the
// production implementation, backed by a local keystore signer and a
// JSON-RPC node.
package provider

import (
	"context"
	"math/big"
)

// State is a snapshot of the session. The provider owns and mutates it; the
// rest of the program only observes.
type State struct {
	Connected  bool
	Connecting bool
	Account    string
	ChainID    int64
}

// Provider is the request channel through which chain operations are issued
// to the wallet. It must support at least wallet_switchEthereumChain and
// wallet_addEthereumChain via Request.
type Provider interface {
	// Connect establishes a session. On failure the state stays disconnected.
	Connect(ctx context.Context) error
	// Disconnect tears the session down.
	Disconnect() error
	// State returns the current session snapshot.
	State() State

	// Request issues a JSON-RPC-style wallet request.
	Request(ctx context.Context, method string, params ...interface{}) (interface{}, error)

	// NativeBalance reads the native-coin balance of account in wei.
	NativeBalance(ctx context.Context, account string) (*big.Int, error)
	// Call performs a read-only contract call and returns the raw hex result.
	Call(ctx context.Context, to, calldata string) (string, error)
	// SendTransaction signs and broadcasts a transaction through the
	// session's signer, returning the transaction hash.
	SendTransaction(ctx context.Context, to string, calldata []byte, value *big.Int) (string, error)
	// WaitMined blocks until the transaction has one confirmation. A
	// reverted transaction is an error.
	WaitMined(ctx context.Context, hash string) error
}

// SwitchChainParams is the payload of a wallet_switchEthereumChain request.
type SwitchChainParams struct {
	ChainID string `json:"chainId"` // hex, e.g. "0x38"
}
