package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sol "solforge/solana"
	"solforge/worker"
)

// Cap on simultaneous RPC calls during fan-outs; a localnet validator on
// the same machine runs out of connections well before the CLI does.
const rpcFanOutLimit = 16

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show SOL balances of the configured wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := cmd.Context()

		type result struct {
			balance uint64
			err     error
		}
		results := worker.Fanout(len(cfg.Wallets), rpcFanOutLimit, func(i int) result {
			balance, err := client.GetBalance(ctx, cfg.Wallets[i].PublicKey())
			return result{balance: balance, err: err}
		})

		for i, kp := range cfg.Wallets {
			if results[i].err != nil {
				fmt.Printf("%d. %s: error: %v\n", i, kp.PublicKey(), results[i].err)
				continue
			}
			fmt.Printf("%d. %s: %v\n", i, kp.PublicKey(), sol.LamportsToSol(results[i].balance))
		}
		return nil
	},
}
