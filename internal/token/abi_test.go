package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// selectors
// ---------------------------------------------------------------------------

func TestERC20Selectors(t *testing.T) {
	assert.Equal(t, "0x70a08231", findFunction("balanceOf").Selector())
	assert.Equal(t, "0x313ce567", findFunction("decimals").Selector())
	assert.Equal(t, "0xa9059cbb", findFunction("transfer").Selector())
}

func TestFindFunctionUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { findFunction("approve") })
}

func TestReadWriteClassification(t *testing.T) {
	assert.True(t, findFunction("balanceOf").IsReadFunction())
	assert.True(t, findFunction("decimals").IsReadFunction())
	assert.True(t, findFunction("transfer").IsWriteFunction())
	assert.False(t, findFunction("transfer").IsReadFunction())
}

// ---------------------------------------------------------------------------
// encoding
// ---------------------------------------------------------------------------

func TestEncodeParamAddress(t *testing.T) {
	enc, err := encodeParam("address", "0x55d398326f99059fF775485246999027B3197955")
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000000000055d398326f99059ff775485246999027b3197955", enc)
	assert.Len(t, enc, 64)
}

func TestEncodeParamUint(t *testing.T) {
	enc, err := encodeParam("uint256", "1000000")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 59)+"f4240", enc)
}

func TestEncodeParamNegative(t *testing.T) {
	_, err := encodeParam("uint256", "-1")
	assert.Error(t, err)
}

func TestEncodeParamBadInteger(t *testing.T) {
	_, err := encodeParam("uint256", "not-a-number")
	assert.Error(t, err)
}

func TestEncodeParamBool(t *testing.T) {
	enc, err := encodeParam("bool", "true")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 63)+"1", enc)

	enc, err = encodeParam("bool", "false")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 64), enc)
}

func TestEncodeParamUnsupportedType(t *testing.T) {
	_, err := encodeParam("bytes32", "deadbeef")
	assert.Error(t, err)
}

func TestEncodeCallBalanceOf(t *testing.T) {
	calldata, err := encodeCall(findFunction("balanceOf"),
		[]string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"})
	require.NoError(t, err)
	assert.Equal(t,
		"0x70a08231000000000000000000000000f39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		calldata)
}

func TestEncodeCallTransfer(t *testing.T) {
	calldata, err := encodeCall(findFunction("transfer"),
		[]string{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", "1000000"})
	require.NoError(t, err)
	// selector + two 32-byte words
	assert.Len(t, calldata, 2+8+64+64)
	assert.True(t, strings.HasPrefix(calldata, "0xa9059cbb"))
}

// ---------------------------------------------------------------------------
// decoding
// ---------------------------------------------------------------------------

func TestDecodeUint(t *testing.T) {
	n, err := decodeUint("0x0000000000000000000000000000000000000000000000000000000000000012")
	require.NoError(t, err)
	assert.Equal(t, int64(18), n.Int64())
}

func TestDecodeUintEmpty(t *testing.T) {
	_, err := decodeUint("0x")
	assert.Error(t, err)
}

func TestDecodeUintGarbage(t *testing.T) {
	_, err := decodeUint("0xzz")
	assert.Error(t, err)
}

func TestCalldataBytes(t *testing.T) {
	b, err := calldataBytes("0xa9059cbb")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, b)
}
