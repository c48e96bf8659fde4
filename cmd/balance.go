package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/ui"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show BNB and USDT balances for the connected wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}

		svc, _, target, err := newService(session.Wallet)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Fetching balances...")
		spin.Start()
		err = svc.Connect(context.Background())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("%s", svc.Err())
		}

		bal := svc.Balances()
		fmt.Println(ui.Addr(session.Address))
		fmt.Printf("  %s  %s\n", ui.Val(bal.Native), target.NativeCurrency.Symbol)
		fmt.Printf("  %s  USDT\n", ui.Val(bal.Token))
		return nil
	},
}
