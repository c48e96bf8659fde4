// Package token binds the fixed stablecoin contract: the three-entry ERC-20
// interface (balanceOf, decimals, transfer) the transfer flow depends on,
// with hand-rolled ABI encoding for the simple types involved.
package token

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ABIEntry describes one function of a contract interface.
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// Selector computes the 4-byte function selector, 0x-prefixed.
func (e ABIEntry) Selector() string {
	sig := e.Name + "("
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	sig += strings.Join(types, ",") + ")"

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

// encodeCall builds calldata: 4-byte selector + encoded args.
func encodeCall(fn ABIEntry, args []string) (string, error) {
	var encoded strings.Builder
	encoded.WriteString(fn.Selector())

	for i, param := range fn.Inputs {
		var argStr string
		if i < len(args) {
			argStr = args[i]
		}
		enc, err := encodeParam(param.Type, argStr)
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// encodeParam encodes a single ABI parameter value as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	val = strings.TrimPrefix(val, "0x")

	switch {
	case typ == "address":
		return fmt.Sprintf("%064s", strings.ToLower(val)), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		n := new(big.Int)
		if _, ok := n.SetString(val, 0); !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		if n.Sign() < 0 {
			return "", fmt.Errorf("negative value: %s", val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil

	default:
		return "", fmt.Errorf("unsupported parameter type %q", typ)
	}
}

// decodeUint decodes a single 32-byte word result as an unsigned integer.
func decodeUint(hexData string) (*big.Int, error) {
	data := strings.TrimPrefix(hexData, "0x")
	if data == "" {
		return nil, fmt.Errorf("empty result")
	}
	n, ok := new(big.Int).SetString(data, 16)
	if !ok {
		return nil, fmt.Errorf("could not parse result: %s", hexData)
	}
	return n, nil
}

// calldataBytes converts a 0x hex calldata string to bytes.
func calldataBytes(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
