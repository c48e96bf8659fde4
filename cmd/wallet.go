package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/ui"
	"github.com/mohammade909/bsend/internal/wallet"
)

var (
	walletAddKey  string
	walletAddAddr string
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallets",
}

var walletAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a wallet (signing with --key, watch-only with --address)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		mgr := walletManager()

		switch {
		case walletAddKey != "":
			if err := mgr.AddWithKey(name, walletAddKey); err != nil {
				return err
			}
			w, _ := mgr.Get(name)
			fmt.Println(ui.Success("Added signing wallet " + name))
			fmt.Println(ui.Addr(w.Address))
		case walletAddAddr != "":
			err := mgr.Add(name, &wallet.Wallet{
				Name:    name,
				Address: walletAddAddr,
				Type:    wallet.TypeWatchOnly,
			})
			if err != nil {
				return err
			}
			fmt.Println(ui.Success("Added watch-only wallet " + name))
		default:
			return fmt.Errorf("either --key or --address is required")
		}
		return nil
	},
}

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List wallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallets := walletManager().List()
		if len(wallets) == 0 {
			fmt.Println(ui.Meta("No wallets. Add one with `bsend wallet add`."))
			return nil
		}
		for _, w := range wallets {
			marker := "  "
			if w.IsDefault {
				marker = ui.Success("* ")
			}
			fmt.Printf("%s%-12s %s %s\n", marker, w.Name, ui.Addr(ui.TruncateAddr(w.Address)), ui.Meta(w.Type))
		}
		return nil
	},
}

var walletRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a wallet and its stored key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := walletManager().Remove(args[0]); err != nil {
			return err
		}
		fmt.Println(ui.Success("Removed wallet " + args[0]))
		return nil
	},
}

var walletDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := walletManager().SetDefault(args[0]); err != nil {
			return err
		}
		cfg.DefaultWallet = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success("Default wallet: " + args[0]))
		return nil
	},
}

func init() {
	walletAddCmd.Flags().StringVar(&walletAddKey, "key", "", "hex private key (stored in the OS keychain)")
	walletAddCmd.Flags().StringVar(&walletAddAddr, "address", "", "address for a watch-only wallet")
	walletCmd.AddCommand(walletAddCmd, walletListCmd, walletRemoveCmd, walletDefaultCmd)
}
