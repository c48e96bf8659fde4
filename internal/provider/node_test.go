package provider

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/wallet"
)

// Hardhat's well-known test account #0. Never fund it.
const (
	testPrivKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// nodeMock serves fixed JSON-RPC results per method.
func nodeMock(t *testing.T, responses map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if result, ok := responses[req.Method]; ok {
			resp["result"] = result
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	}))
}

func testSigner(t *testing.T) *wallet.Signer {
	t.Helper()
	mgr := wallet.NewManager()
	require.NoError(t, mgr.AddWithKey("hot", testPrivKey))
	w, err := mgr.Get("hot")
	require.NoError(t, err)
	return wallet.NewSigner(w, mgr.Keystore())
}

// testRegistry builds a registry with one local chain pointed at url.
func testRegistry(t *testing.T, id int64, url string) *chain.Registry {
	t.Helper()
	reg := chain.NewRegistry()
	require.NoError(t, reg.Register(chain.Descriptor{
		ChainID: id, Name: "Local",
		NativeCurrency: chain.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{url},
	}))
	return reg
}

// ---------------------------------------------------------------------------
// Connect
// ---------------------------------------------------------------------------

func TestConnect(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69", // 31337
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	st := p.State()
	assert.True(t, st.Connected)
	assert.False(t, st.Connecting)
	assert.Equal(t, testAddress, st.Account)
	assert.Equal(t, int64(31337), st.ChainID)
}

func TestConnectTwice(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))
	assert.Error(t, p.Connect(context.Background()))
}

func TestConnectChainIDMismatch(t *testing.T) {
	// Node claims mainnet while the descriptor says 31337.
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x1",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	err := p.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serves chain")
	assert.False(t, p.State().Connected)
}

func TestConnectWithoutSigner(t *testing.T) {
	p := NewNodeProvider(chain.NewRegistry(), nil, 56)
	assert.Error(t, p.Connect(context.Background()))
}

func TestDisconnect(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))
	require.NoError(t, p.Disconnect())

	st := p.State()
	assert.False(t, st.Connected)
	assert.Empty(t, st.Account)

	_, err := p.NativeBalance(context.Background(), testAddress)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// wallet_switchEthereumChain / wallet_addEthereumChain
// ---------------------------------------------------------------------------

func TestSwitchUnknownChainIsTagged(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	_, err := p.Request(context.Background(), "wallet_switchEthereumChain",
		SwitchChainParams{ChainID: "0xdeadbe"})
	require.Error(t, err)
	assert.True(t, IsUnsupportedChain(err))
}

func TestSwitchBadHex(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	_, err := p.Request(context.Background(), "wallet_switchEthereumChain",
		SwitchChainParams{ChainID: "0xzz"})
	require.Error(t, err)
	assert.False(t, IsUnsupportedChain(err))
}

func TestAddChainRegistersAndSwitches(t *testing.T) {
	first := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer first.Close()
	second := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x539", // 1337
		"eth_blockNumber": "0x10",
	})
	defer second.Close()

	reg := testRegistry(t, 31337, first.URL)
	p := NewNodeProvider(reg, testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	_, err := p.Request(context.Background(), "wallet_addEthereumChain", chain.AddChainParams{
		ChainID:        "0x539",
		ChainName:      "Other Local",
		NativeCurrency: chain.NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{second.URL},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1337), p.State().ChainID)
	d, err := reg.ByID(1337)
	require.NoError(t, err)
	assert.Equal(t, "Other Local", d.Name)

	// Switching back now works: the new chain is registered.
	_, err = p.Request(context.Background(), "wallet_switchEthereumChain",
		SwitchChainParams{ChainID: "0x7a69"})
	require.NoError(t, err)
	assert.Equal(t, int64(31337), p.State().ChainID)
}

func TestSwitchWhileDisconnected(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	_, err := p.Request(context.Background(), "wallet_switchEthereumChain",
		SwitchChainParams{ChainID: "0x7a69"})
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// reads and sends
// ---------------------------------------------------------------------------

func TestNativeBalance(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
		"eth_getBalance":  "0xde0b6b3a7640000",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	wei, err := p.NativeBalance(context.Background(), testAddress)
	require.NoError(t, err)
	one := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	assert.Equal(t, one, wei)
}

func TestSendTransaction(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":             "0x7a69",
		"eth_blockNumber":         "0x10",
		"eth_estimateGas":         "0xc350",
		"eth_gasPrice":            "0x3b9aca00",
		"eth_getTransactionCount": "0x0",
		"eth_sendRawTransaction":  "0xsubmitted",
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))

	hash, err := p.SendTransaction(context.Background(),
		"0x55d398326f99059fF775485246999027B3197955",
		[]byte{0xa9, 0x05, 0x9c, 0xbb}, nil)
	require.NoError(t, err)
	assert.Equal(t, "0xsubmitted", hash)
}

func TestWaitMined(t *testing.T) {
	srv := nodeMock(t, map[string]interface{}{
		"eth_chainId":     "0x7a69",
		"eth_blockNumber": "0x10",
		"eth_getTransactionReceipt": map[string]interface{}{
			"status":      "0x1",
			"blockNumber": "0x11",
		},
	})
	defer srv.Close()

	p := NewNodeProvider(testRegistry(t, 31337, srv.URL), testSigner(t), 31337)
	require.NoError(t, p.Connect(context.Background()))
	assert.NoError(t, p.WaitMined(context.Background(), "0xhash"))
}
