package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	sol "solforge/solana"
	"solforge/worker"
)

var airdropConfirm bool

var airdropCmd = &cobra.Command{
	Use:   "airdrop <sols>",
	Short: "Airdrop SOL to every configured wallet and the token owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sols, err := strconv.ParseFloat(args[0], 64)
		if err != nil || sols <= 0 {
			return fmt.Errorf("invalid SOL amount %q", args[0])
		}
		lamports := sol.SolToLamports(sols)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		ctx := cmd.Context()

		type target struct {
			prefix string
			pubkey solana.PublicKey
		}
		targets := make([]target, 0, len(cfg.Wallets)+1)
		for i, kp := range cfg.Wallets {
			targets = append(targets, target{prefix: fmt.Sprintf("%d. ", i), pubkey: kp.PublicKey()})
		}
		targets = append(targets, target{prefix: "token:owner. ", pubkey: cfg.Token.Owner.PublicKey()})

		type result struct {
			sig solana.Signature
			err error
		}
		results := worker.Fanout(len(targets), rpcFanOutLimit, func(i int) result {
			sig, err := client.RequestAirdrop(ctx, targets[i].pubkey, lamports)
			return result{sig: sig, err: err}
		})

		if !airdropConfirm {
			for i, tgt := range targets {
				if results[i].err != nil {
					fmt.Printf("%s%s: error: %v\n", tgt.prefix, tgt.pubkey, results[i].err)
					continue
				}
				fmt.Printf("%s%s: tx id = %s\n", tgt.prefix, tgt.pubkey, results[i].sig)
			}
			return nil
		}

		fmt.Fprintln(os.Stderr, "Waiting for confirmation of all transactions...")
		waitErrs := worker.Fanout(len(targets), rpcFanOutLimit, func(i int) error {
			if results[i].err != nil {
				return results[i].err
			}
			return client.WaitForSignature(ctx, results[i].sig, rpc.ConfirmationStatusFinalized)
		})

		for i, tgt := range targets {
			switch {
			case results[i].err != nil:
				fmt.Printf("%s%s: error: %v\n", tgt.prefix, tgt.pubkey, results[i].err)
			case waitErrs[i] != nil:
				fmt.Printf("%s%s: tx id = %s: error: %v\n", tgt.prefix, tgt.pubkey, results[i].sig, waitErrs[i])
			default:
				fmt.Printf("%s%s: tx id = %s - OK\n", tgt.prefix, tgt.pubkey, results[i].sig)
			}
		}
		return nil
	},
}

func init() {
	airdropCmd.Flags().BoolVar(&airdropConfirm, "confirm", false, "wait until every airdrop is finalized")
}
