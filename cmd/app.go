package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/ui"
)

var appWallet string

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Interactive transfer form",
	Long: `Opens the single-page transfer view: wallet connection status, BNB and
USDT balance cards, recipient/amount inputs and a send control. The wallet
connects automatically on launch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, target, err := newService(appWallet)
		if err != nil {
			return err
		}
		return ui.RunTransferView(svc, target.NativeCurrency.Symbol, "USDT")
	},
}

func init() {
	appCmd.Flags().StringVar(&appWallet, "wallet", "", "wallet name (default: config)")
}
