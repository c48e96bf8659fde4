package cmd

import (
	"fmt"

	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/provider"
	"github.com/mohammade909/bsend/internal/token"
	"github.com/mohammade909/bsend/internal/transfer"
	"github.com/mohammade909/bsend/internal/wallet"
)

// walletManager opens the persisted wallet store with the OS keystore.
func walletManager() *wallet.Manager {
	return wallet.NewManager(
		wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath())),
		wallet.WithKeystore(wallet.DefaultKeystore()),
	)
}

// resolveWallet picks the wallet to use: the explicit name, the connected
// session's wallet, or the configured/default one.
func resolveWallet(mgr *wallet.Manager, name string) (*wallet.Wallet, error) {
	if name == "" {
		if s := wallet.LoadSession(); s != nil {
			name = s.Wallet
		}
	}
	if name == "" {
		name = cfg.DefaultWallet
	}
	if name == "" {
		if w := mgr.Default(); w != nil {
			return w, nil
		}
		return nil, fmt.Errorf("no wallet configured — add one with `bsend wallet add`")
	}
	w, err := mgr.Get(name)
	if err != nil {
		return nil, fmt.Errorf("wallet %q: %w", name, err)
	}
	return w, nil
}

// newService wires the full stack for a wallet: registry (builtin + custom
// chains), node provider, token binding and the transfer service.
func newService(walletName string) (*transfer.Service, *provider.NodeProvider, *chain.Descriptor, error) {
	mgr := walletManager()
	w, err := resolveWallet(mgr, walletName)
	if err != nil {
		return nil, nil, nil, err
	}
	if w.Type != wallet.TypeSigning {
		return nil, nil, nil, fmt.Errorf("wallet %q is watch-only — add it with --key to sign transfers", w.Name)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, nil, err
	}
	target, err := reg.ByID(cfg.ChainID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("target chain %d: %w", cfg.ChainID, err)
	}

	signer := wallet.NewSigner(w, mgr.Keystore())
	prov := provider.NewNodeProvider(reg, signer, cfg.ChainID)
	binding := token.NewBinding(prov, cfg.TokenAddress)
	svc := transfer.NewService(prov, binding, target)
	return svc, prov, target, nil
}

// requireSession errors unless `bsend connect` has been run.
func requireSession() (*wallet.Session, error) {
	s := wallet.LoadSession()
	if s == nil {
		return nil, fmt.Errorf("not connected — run `bsend connect` first")
	}
	return s, nil
}
