package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

func TestRegistryBuiltinBSC(t *testing.T) {
	reg := NewRegistry()
	d, err := reg.ByID(BSCChainID)
	require.NoError(t, err)

	assert.Equal(t, "BNB Smart Chain", d.Name)
	assert.Equal(t, "BNB", d.NativeCurrency.Symbol)
	assert.Equal(t, 18, d.NativeCurrency.Decimals)
	assert.Equal(t, "0x38", d.ChainIDHex())
	assert.NotEmpty(t, d.RPCURLs)
	assert.Equal(t, "https://bscscan.com", d.ExplorerURL)
}

func TestRegistryUnknownChain(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ByID(999999)
	assert.ErrorIs(t, err, ErrChainNotFound)
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry()
	d := Descriptor{
		ChainID: 42161, Name: "Arbitrum One",
		NativeCurrency: NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{"https://arb1.arbitrum.io/rpc"},
	}
	require.NoError(t, reg.Register(d))

	got, err := reg.ByID(42161)
	require.NoError(t, err)
	assert.Equal(t, "Arbitrum One", got.Name)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	d := Descriptor{
		ChainID: BSCChainID, Name: "Imposter",
		NativeCurrency: NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
		RPCURLs:        []string{"https://example.invalid"},
	}
	assert.ErrorIs(t, reg.Register(d), ErrChainExists)
}

func TestRegistryRegisterInvalid(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register(Descriptor{ChainID: 0, Name: "nope"}))
}

// ---------------------------------------------------------------------------
// Descriptor
// ---------------------------------------------------------------------------

func TestChainIDHex(t *testing.T) {
	d := Descriptor{ChainID: 1}
	assert.Equal(t, "0x1", d.ChainIDHex())

	d.ChainID = 56
	assert.Equal(t, "0x38", d.ChainIDHex())
}

func TestDescriptorValidate(t *testing.T) {
	valid := Descriptor{
		ChainID: 10, Name: "Optimism",
		NativeCurrency: NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{"https://mainnet.optimism.io"},
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.RPCURLs = nil
	assert.Error(t, missing.Validate())

	noName := valid
	noName.Name = ""
	assert.Error(t, noName.Validate())
}

// ---------------------------------------------------------------------------
// AddChainParams round trip
// ---------------------------------------------------------------------------

func TestAddChainParamsFromDescriptor(t *testing.T) {
	reg := NewRegistry()
	d, err := reg.ByID(BSCChainID)
	require.NoError(t, err)

	p := d.AddChainParams()
	assert.Equal(t, "0x38", p.ChainID)
	assert.Equal(t, "BNB Smart Chain", p.ChainName)
	assert.Equal(t, d.NativeCurrency, p.NativeCurrency)
	assert.Equal(t, d.RPCURLs, p.RPCURLs)
	assert.Equal(t, []string{"https://bscscan.com"}, p.BlockExplorerURLs)
}

func TestDescriptorFromParams(t *testing.T) {
	p := AddChainParams{
		ChainID:           "0x38",
		ChainName:         "BNB Smart Chain",
		NativeCurrency:    NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
		RPCURLs:           []string{"https://bsc-dataseed.binance.org"},
		BlockExplorerURLs: []string{"https://bscscan.com"},
	}
	d, err := DescriptorFromParams(p)
	require.NoError(t, err)

	assert.Equal(t, int64(56), d.ChainID)
	assert.Equal(t, "https://bscscan.com", d.ExplorerURL)
}

func TestDescriptorFromParamsBadHex(t *testing.T) {
	_, err := DescriptorFromParams(AddChainParams{ChainID: "0xzz"})
	assert.Error(t, err)
}
