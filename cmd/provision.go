package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	sol "solforge/solana"
	"solforge/storage"
	"solforge/worker"
)

var (
	provisionSols   float64
	provisionAmount float64
	provisionYes    bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Bootstrap the localnet end to end",
	Long: `Provision runs the full bootstrap against a fresh localnet: it airdrops
SOL to the token owner and every configured wallet, deploys the token mint
if it does not exist yet, and mints a fixed token amount to each wallet.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(cfg)
		tok := newToken(cfg, client)
		ctx := cmd.Context()

		if !provisionYes {
			confirm := false
			prompt := &survey.Confirm{
				Message: fmt.Sprintf("Airdrop %v SOL to %d accounts, deploy mint %s, and mint %v tokens to each of %d wallets. Continue?",
					provisionSols, len(cfg.Wallets)+1, tok.Mint(), provisionAmount, len(cfg.Wallets)),
				Default: false,
			}
			if err := survey.AskOne(prompt, &confirm); err != nil {
				return err
			}
			if !confirm {
				fmt.Println(promptStyle.Render("Provisioning cancelled."))
				return nil
			}
		}

		// Persist the keypairs first so the solana and spl-token CLIs
		// can act on the provisioned accounts later.
		workdir, err := storage.Open(cfg.Workdir)
		if err != nil {
			return err
		}
		if _, err := workdir.SaveOwner(cfg.Token.Owner.PrivateKey); err != nil {
			return err
		}
		if _, err := workdir.SaveMint(cfg.Token.Mint.PrivateKey); err != nil {
			return err
		}
		if _, err := workdir.SaveWallets(privateKeys(cfg.Wallets)); err != nil {
			return err
		}
		fmt.Println(promptStyle.Render(fmt.Sprintf("Keypairs saved to %s", workdir.Path())))

		// Phase 1: fund the owner and every wallet. Individual faucet
		// failures are reported but don't stop the run.
		fmt.Println(titleStyle.Render("Funding accounts..."))
		lamports := sol.SolToLamports(provisionSols)
		accounts := make([]solana.PublicKey, 0, len(cfg.Wallets)+1)
		accounts = append(accounts, cfg.Token.Owner.PublicKey())
		for _, kp := range cfg.Wallets {
			accounts = append(accounts, kp.PublicKey())
		}

		fundErrs := worker.Fanout(len(accounts), rpcFanOutLimit, func(i int) error {
			sig, err := client.RequestAirdrop(ctx, accounts[i], lamports)
			if err != nil {
				return err
			}
			return client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusFinalized)
		})
		for i, pk := range accounts {
			if fundErrs[i] != nil {
				fmt.Fprintf(os.Stderr, "%s: airdrop error: %v\n", pk, fundErrs[i])
				continue
			}
			fmt.Printf("%s: funded with %v SOL\n", pk, sol.LamportsToSol(lamports))
		}

		// Phase 2: deploy the mint unless it's already on chain.
		exists, err := tok.Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			fmt.Println(promptStyle.Render(fmt.Sprintf("Mint already deployed: %s", tok.Mint())))
		} else {
			fmt.Println(titleStyle.Render("Deploying token mint..."))
			sig, err := tok.Deploy(ctx, cfg.Token.Mint.PrivateKey)
			if err != nil {
				return fmt.Errorf("deploy failed: %w", err)
			}
			if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
				return err
			}
			fmt.Println(infoStyle.Render(fmt.Sprintf("Mint deployed: %s", tok.Mint())))
		}

		// Phase 3: distribute tokens. The first failure aborts the run.
		fmt.Println(titleStyle.Render("Minting tokens to wallets..."))
		subunits := sol.CoinsToSubunits(provisionAmount)
		for i, kp := range cfg.Wallets {
			holder := kp.PublicKey()
			sig, err := tok.MintTo(ctx, holder, subunits)
			if err != nil {
				return fmt.Errorf("mint to wallet %d (%s) failed: %w", i, holder, err)
			}
			if err := client.WaitForSignature(ctx, sig, rpc.ConfirmationStatusConfirmed); err != nil {
				return fmt.Errorf("mint to wallet %d (%s) failed: %w", i, holder, err)
			}
			fmt.Printf("%d. %s: minted %v tokens\n", i, holder, sol.SubunitsToCoins(subunits))
		}

		fmt.Println(infoStyle.Render("Localnet provisioned."))
		return nil
	},
}

func init() {
	provisionCmd.Flags().Float64Var(&provisionSols, "sols", 10, "SOL to airdrop to each account")
	provisionCmd.Flags().Float64Var(&provisionAmount, "amount", 1000, "tokens to mint to each wallet")
	provisionCmd.Flags().BoolVarP(&provisionYes, "yes", "y", false, "skip the confirmation prompt")
}
