package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/ui"
	"github.com/mohammade909/bsend/internal/wallet"
)

var connectWallet string

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a wallet and attach to BNB Smart Chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, prov, target, err := newService(connectWallet)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Connecting wallet...")
		spin.Start()
		err = svc.Connect(context.Background())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("connect: %s", svc.Err())
		}

		st := prov.State()
		session := &wallet.Session{
			Wallet:  connectedWalletName(connectWallet),
			Address: st.Account,
			ChainID: st.ChainID,
		}
		if err := wallet.SaveSession(session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}

		bal := svc.Balances()
		fmt.Println(ui.Success("Connected to " + target.Name))
		fmt.Println(ui.Addr("Account: " + st.Account))
		fmt.Printf("%s %s  ·  %s USDT\n", ui.Val(bal.Native), target.NativeCurrency.Symbol, ui.Val(bal.Token))
		return nil
	},
}

// connectedWalletName resolves the name recorded in the session file.
func connectedWalletName(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cfg.DefaultWallet != "" {
		return cfg.DefaultWallet
	}
	if w := walletManager().Default(); w != nil {
		return w.Name
	}
	return explicit
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the current wallet session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wallet.SessionActive() {
			fmt.Println(ui.Meta("No active session."))
			return nil
		}
		if err := wallet.ClearSession(); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		fmt.Println(ui.Success("Disconnected."))
		return nil
	},
}

func init() {
	connectCmd.Flags().StringVar(&connectWallet, "wallet", "", "wallet name (default: config)")
}
