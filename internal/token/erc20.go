package token

import (
	"context"
	"fmt"
	"math/big"

	"github.com/mohammade909/bsend/internal/provider"
)

// USDTAddress is the transferred stablecoin: USDT on BNB Smart Chain.
const USDTAddress = "0x55d398326f99059fF775485246999027B3197955"

// erc20ABI is the slice of the ERC-20 interface this tool uses.
//
// Function selectors:
//
//	balanceOf(address)  → 0x70a08231
//	decimals()          → 0x313ce567
//	transfer(a,u256)    → 0xa9059cbb
var erc20ABI = []ABIEntry{
	{
		Name: "balanceOf", Type: "function",
		Inputs:          []ABIParam{{Name: "account", Type: "address"}},
		Outputs:         []ABIParam{{Name: "", Type: "uint256"}},
		StateMutability: "view",
	},
	{
		Name: "decimals", Type: "function",
		Inputs: nil, Outputs: []ABIParam{{Name: "", Type: "uint8"}},
		StateMutability: "view",
	},
	{
		Name: "transfer", Type: "function",
		Inputs:          []ABIParam{{Name: "to", Type: "address"}, {Name: "value", Type: "uint256"}},
		Outputs:         []ABIParam{{Name: "", Type: "bool"}},
		StateMutability: "nonpayable",
	},
}

// Binding is an ERC-20 token bound to one contract address, reading and
// writing through the wallet provider.
type Binding struct {
	provider provider.Provider
	address  string
}

// NewBinding binds the token contract at address to the given provider.
func NewBinding(p provider.Provider, address string) *Binding {
	return &Binding{provider: p, address: address}
}

// Address returns the bound contract address.
func (b *Binding) Address() string { return b.address }

// BalanceOf reads the raw token balance of account.
func (b *Binding) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	calldata, err := encodeCall(findFunction("balanceOf"), []string{account})
	if err != nil {
		return nil, err
	}
	result, err := b.provider.Call(ctx, b.address, calldata)
	if err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	return decodeUint(result)
}

// Decimals reads the token's on-chain decimals value.
func (b *Binding) Decimals(ctx context.Context) (int, error) {
	calldata, err := encodeCall(findFunction("decimals"), nil)
	if err != nil {
		return 0, err
	}
	result, err := b.provider.Call(ctx, b.address, calldata)
	if err != nil {
		return 0, fmt.Errorf("decimals: %w", err)
	}
	n, err := decodeUint(result)
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// Transfer submits transfer(to, value) through the session's signer and
// returns the transaction hash. value is in the token's smallest unit.
func (b *Binding) Transfer(ctx context.Context, to string, value *big.Int) (string, error) {
	calldata, err := encodeCall(findFunction("transfer"), []string{to, value.String()})
	if err != nil {
		return "", err
	}
	data, err := calldataBytes(calldata)
	if err != nil {
		return "", err
	}
	return b.provider.SendTransaction(ctx, b.address, data, nil)
}

func findFunction(name string) ABIEntry {
	for _, e := range erc20ABI {
		if e.Name == name {
			return e
		}
	}
	// The ABI is fixed at compile time; a miss is a programming error.
	panic(fmt.Sprintf("token: unknown ABI function %q", name))
}
