package provider

import (
	"errors"
	"fmt"
)

// Wallet error codes (EIP-1193 / EIP-3085).
const (
	CodeUserRejected     = 4001
	CodeUnsupportedChain = 4902
)

// RPCError is a tagged wallet/provider failure. Callers branch on the code
// through IsRejected / IsUnsupportedChain instead of sniffing numeric codes
// at the call site.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// NewUnsupportedChain returns the error a wallet raises when asked to switch
// to a chain it has no registration for.
func NewUnsupportedChain(chainIDHex string) *RPCError {
	return &RPCError{
		Code:    CodeUnsupportedChain,
		Message: fmt.Sprintf("unrecognized chain ID %s", chainIDHex),
	}
}

// NewRejected returns the error for a user-declined request.
func NewRejected(what string) *RPCError {
	return &RPCError{
		Code:    CodeUserRejected,
		Message: fmt.Sprintf("user rejected %s", what),
	}
}

// IsUnsupportedChain reports whether err carries the unregistered-chain code.
func IsUnsupportedChain(err error) bool {
	var re *RPCError
	return errors.As(err, &re) && re.Code == CodeUnsupportedChain
}

// IsRejected reports whether err carries the user-rejection code.
func IsRejected(err error) bool {
	var re *RPCError
	return errors.As(err, &re) && re.Code == CodeUserRejected
}
