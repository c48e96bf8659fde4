package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/ui"
)

var (
	sendTo     string
	sendAmount string
	sendYes    bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send USDT to an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendTo == "" {
			return fmt.Errorf("--to is required")
		}
		if sendAmount == "" {
			return fmt.Errorf("--amount is required")
		}

		session, err := requireSession()
		if err != nil {
			return err
		}

		svc, _, target, err := newService(session.Wallet)
		if err != nil {
			return err
		}

		spin := ui.NewSpinner("Connecting...")
		spin.Start()
		err = svc.Connect(context.Background())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("%s", svc.Err())
		}

		bal := svc.Balances()
		fmt.Println(ui.Addr("From:   " + session.Address))
		fmt.Println(ui.Addr("To:     " + sendTo))
		fmt.Printf("Amount: %s USDT  (balance: %s)\n", ui.Val(sendAmount), bal.Token)
		fmt.Println(ui.Meta("Network: " + target.Name))

		if !sendYes && !ui.Confirm("Send this transfer?") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		svc.SetRecipient(sendTo)
		svc.SetAmount(sendAmount)

		spin = ui.NewSpinner("Submitting transfer...")
		spin.Start()
		err = svc.SubmitTransfer(context.Background())
		spin.Stop()
		if err != nil {
			return fmt.Errorf("%s", svc.Err())
		}

		hash := svc.LastTxHash()
		fmt.Println(ui.Success("Transfer confirmed!"))
		fmt.Println(ui.Addr("Hash: " + hash))
		if target.ExplorerURL != "" {
			fmt.Println(ui.Meta(target.ExplorerURL + "/tx/" + hash))
		}
		newBal := svc.Balances()
		fmt.Printf("New balance: %s USDT\n", ui.Val(newBal.Token))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "recipient address (required)")
	sendCmd.Flags().StringVar(&sendAmount, "amount", "", "USDT amount to send (required)")
	sendCmd.Flags().BoolVarP(&sendYes, "yes", "y", false, "skip the confirmation prompt")
}
