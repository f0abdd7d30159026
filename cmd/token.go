package cmd

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	sol "solforge/solana"
	"solforge/worker"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the SPL token",
}

var tokenDeployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Create and initialize the token mint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		tok := newToken(cfg, client)
		ctx := cmd.Context()

		fmt.Println(promptStyle.Render(fmt.Sprintf("Deploying mint %s...", tok.Mint())))
		sig, err := tok.Deploy(ctx, cfg.Token.Mint.PrivateKey)
		if err != nil {
			return fmt.Errorf("deploy failed: %w", err)
		}
		if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
			return err
		}

		fmt.Println(infoStyle.Render(fmt.Sprintf("Mint deployed: %s", tok.Mint())))
		fmt.Printf("   Transaction Signature: %s\n", sig)
		return nil
	},
}

var tokenMintCmd = &cobra.Command{
	Use:   "mint <holder> <amount>",
	Short: "Mint tokens to a holder's associated token account",
	Long: `Mints tokens to the holder. The holder's associated token account is
created on the fly when it does not exist yet.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		holder, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return fmt.Errorf("invalid holder address %q: %w", args[0], err)
		}
		amount, err := strconv.ParseFloat(args[1], 64)
		if err != nil || amount <= 0 {
			return fmt.Errorf("invalid token amount %q", args[1])
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		tok := newToken(cfg, client)
		ctx := cmd.Context()

		subunits := sol.CoinsToSubunits(amount)
		sig, err := tok.MintTo(ctx, holder, subunits)
		if err != nil {
			return fmt.Errorf("mint failed: %w", err)
		}
		if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
			return err
		}

		fmt.Println(infoStyle.Render(fmt.Sprintf("Minted %v tokens to %s", sol.SubunitsToCoins(subunits), holder)))
		fmt.Printf("   Transaction Signature: %s\n", sig)
		return nil
	},
}

var tokenBalancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "Show token balances of the configured wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		tok := newToken(cfg, client)
		ctx := cmd.Context()

		type result struct {
			balance uint64
			err     error
		}
		results := worker.Fanout(len(cfg.Wallets), rpcFanOutLimit, func(i int) result {
			balance, err := tok.BalanceOf(ctx, cfg.Wallets[i].PublicKey())
			return result{balance: balance, err: err}
		})

		for i, kp := range cfg.Wallets {
			if results[i].err != nil {
				fmt.Printf("%d. %s: error: %v\n", i, kp.PublicKey(), results[i].err)
				continue
			}
			fmt.Printf("%d. %s: %v\n", i, kp.PublicKey(), sol.SubunitsToCoins(results[i].balance))
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenDeployCmd)
	tokenCmd.AddCommand(tokenMintCmd)
	tokenCmd.AddCommand(tokenBalancesCmd)
}
