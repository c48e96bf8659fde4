package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Display precision. The native balance card shows four decimal places, the
// token card two, regardless of the asset's on-chain precision.
const (
	nativeDisplayDecimals = 4
	tokenDisplayDecimals  = 2
)

var wei1 = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatNative converts a wei amount to a display string with four decimal
// places, e.g. 1e18 wei → "1.0000".
func FormatNative(wei *big.Int) string {
	f := new(big.Float).SetInt(wei)
	f.Quo(f, new(big.Float).SetInt(wei1))
	return f.Text('f', nativeDisplayDecimals)
}

// FormatToken converts a raw token amount to a display string with two
// decimal places, scaled by the token's on-chain decimals value,
// e.g. 1e6 raw at decimals=6 → "1.00".
func FormatToken(raw *big.Int, decimals int) string {
	if decimals <= 0 {
		return raw.String()
	}
	div := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	f := new(big.Float).SetInt(raw)
	f.Quo(f, new(big.Float).SetInt(div))
	return f.Text('f', tokenDisplayDecimals)
}

// ToBaseUnits converts a human-entered decimal amount into the asset's
// smallest unit. The conversion is exact: fractional digits beyond decimals
// are rejected rather than silently truncated.
func ToBaseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(amount, "-") {
		return nil, fmt.Errorf("negative amount: %s", amount)
	}

	intPart := amount
	fracPart := ""
	if idx := strings.Index(amount, "."); idx >= 0 {
		intPart = amount[:idx]
		fracPart = amount[idx+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		return nil, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	// Right-pad the fraction to the full precision.
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	n, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return n, nil
}
