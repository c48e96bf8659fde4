package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mohammade909/bsend/internal/chain"
	"github.com/mohammade909/bsend/internal/rpc"
	"github.com/mohammade909/bsend/internal/ui"
	"github.com/mohammade909/bsend/internal/wallet"
)

var (
	netAddID       int64
	netAddName     string
	netAddSymbol   string
	netAddRPCs     []string
	netAddExplorer string
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Inspect and manage chains",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		active := int64(0)
		if s := wallet.LoadSession(); s != nil {
			active = s.ChainID
		}
		for _, d := range reg.All() {
			marker := "  "
			if d.ChainID == active {
				marker = ui.Success("* ")
			}
			fmt.Printf("%s%-18s %-8d %s\n", marker, d.Name, d.ChainID, ui.Meta(d.NativeCurrency.Symbol))
		}
		return nil
	},
}

var networkStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Health-check the target chain's RPC endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := cfg.Registry()
		if err != nil {
			return err
		}
		d, err := reg.ByID(cfg.ChainID)
		if err != nil {
			return err
		}

		fmt.Println(ui.StyleTitle.Render(d.Name))
		endpoints := rpc.CheckAll(context.Background(), d.RPCURLs)
		for _, ep := range endpoints {
			status := ui.Err("down")
			if ep.Healthy {
				status = ui.Success(fmt.Sprintf("%dms · block %d", ep.Latency.Milliseconds(), ep.BlockNumber))
			}
			fmt.Printf("  %-50s %s\n", ep.URL, status)
		}
		return nil
	},
}

var networkAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a custom chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := chain.Descriptor{
			ChainID: netAddID,
			Name:    netAddName,
			NativeCurrency: chain.NativeCurrency{
				Name:     netAddSymbol,
				Symbol:   netAddSymbol,
				Decimals: 18,
			},
			RPCURLs:     netAddRPCs,
			ExplorerURL: netAddExplorer,
		}
		if err := d.Validate(); err != nil {
			return err
		}

		custom, err := cfg.LoadChains()
		if err != nil {
			return err
		}
		for _, existing := range custom {
			if existing.ChainID == d.ChainID {
				return chain.ErrChainExists
			}
		}
		custom = append(custom, d)
		if err := cfg.SaveChains(custom); err != nil {
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("Registered %s (chain id %d, %s)", d.Name, d.ChainID, d.ChainIDHex())))
		fmt.Println(ui.Meta("RPCs: " + strings.Join(d.RPCURLs, ", ")))
		return nil
	},
}

func init() {
	networkAddCmd.Flags().Int64Var(&netAddID, "chain-id", 0, "numeric chain id (required)")
	networkAddCmd.Flags().StringVar(&netAddName, "name", "", "display name (required)")
	networkAddCmd.Flags().StringVar(&netAddSymbol, "symbol", "ETH", "native currency symbol")
	networkAddCmd.Flags().StringSliceVar(&netAddRPCs, "rpc", nil, "RPC URL (repeatable, required)")
	networkAddCmd.Flags().StringVar(&netAddExplorer, "explorer", "", "block explorer URL")
	networkCmd.AddCommand(networkListCmd, networkStatusCmd, networkAddCmd)
}
