package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/config"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/mohammade909/bsend/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir string
	cfg    *config.Config
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "bsend",
	Short: "BNB Smart Chain wallet & USDT transfer tool",
	Long: `bsend — connect a wallet, check BNB and USDT balances, and send
USDT on BNB Smart Chain from your terminal.

The flow mirrors a wallet dApp: connect a wallet, enforce the BNB Smart
Chain network (registering it when unknown), read balances, transfer.
Run ` + "`bsend app`" + ` for the interactive form, or use the one-shot
commands (connect, balance, send).`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: ~/.bsend)")

	rootCmd.AddCommand(
		connectCmd,
		disconnectCmd,
		balanceCmd,
		sendCmd,
		appCmd,
		walletCmd,
		networkCmd,
	)
}
