package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	sol "solforge/solana"
	"solforge/worker"
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Run the configured transfer cases against the localnet",
}

var transferSolsCmd = &cobra.Command{
	Use:   "sols",
	Short: "Run the configured SOL transfer cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Wallets) == 0 {
			return nil
		}
		client := newClient(cfg)

		pool := worker.New(0)
		for i, tc := range cfg.Transfers.Sols {
			if err := tc.Validate(len(cfg.Wallets)); err != nil {
				fmt.Fprintf(os.Stderr, "%d. %v\n", i, err)
				continue
			}

			lamports := sol.SolToLamports(tc.Amount)
			amount := sol.LamportsToSol(lamports)
			from := cfg.Wallets[tc.From]
			to := cfg.Wallets[tc.To]

			i := i
			pool.Push(func(ctx context.Context) {
				fromPk, toPk := from.PublicKey(), to.PublicKey()
				fail := func(err error) {
					fmt.Fprintf(os.Stderr, "%d. transfer %v SOL %s -> %s error: %v\n", i, amount, fromPk, toPk, err)
				}

				balance, err := client.GetBalance(ctx, fromPk)
				if err != nil {
					fail(err)
					return
				}
				if lamports > balance {
					fmt.Fprintf(os.Stderr, "%d. transfer %s -> %s error: insufficient balance %v < %v\n",
						i, fromPk, toPk, sol.LamportsToSol(balance), amount)
				}

				sig, err := client.TransferSOL(ctx, from.PrivateKey, toPk, lamports, "Test transfer")
				if err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. transferred %.2f from %s to %s\n    tx: %s\n", i, amount, fromPk, toPk, sig)

				started := time.Now()
				if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. tx: %s confirmed in %s\n", i, sig, time.Since(started))

				started = time.Now()
				if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusFinalized); err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. tx: %s finalized in %s\n", i, sig, time.Since(started))
			})
		}
		pool.Run(cmd.Context())
		return nil
	},
}

var transferTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Run the configured token transfer cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Wallets) == 0 {
			return nil
		}
		client := newClient(cfg)
		tok := newToken(cfg, client)

		pool := worker.New(0)
		for i, tc := range cfg.Transfers.Tokens {
			if err := tc.Validate(len(cfg.Wallets)); err != nil {
				fmt.Fprintf(os.Stderr, "%d. %v\n", i, err)
				continue
			}

			subunits := sol.CoinsToSubunits(tc.Amount)
			amount := sol.SubunitsToCoins(subunits)
			from := cfg.Wallets[tc.From]
			to := cfg.Wallets[tc.To]

			i := i
			pool.Push(func(ctx context.Context) {
				fromPk, toPk := from.PublicKey(), to.PublicKey()
				fail := func(err error) {
					fmt.Fprintf(os.Stderr, "%d. transfer %v tokens %s -> %s error: %v\n", i, amount, fromPk, toPk, err)
				}

				fmt.Printf("%d. transferring %.2f from %s to %s...\n", i, amount, fromPk, toPk)
				sig, err := tok.Transfer(ctx, from.PrivateKey, toPk, subunits)
				if err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. transferred %.2f from %s to %s\n    tx: %s\n", i, amount, fromPk, toPk, sig)

				started := time.Now()
				if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. tx: %s confirmed in %s\n", i, sig, time.Since(started))

				started = time.Now()
				if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusFinalized); err != nil {
					fail(err)
					return
				}
				fmt.Printf("%d. tx: %s finalized in %s\n", i, sig, time.Since(started))
			})
		}
		pool.Run(cmd.Context())
		return nil
	},
}

func init() {
	transferCmd.AddCommand(transferSolsCmd)
	transferCmd.AddCommand(transferTokensCmd)
}
