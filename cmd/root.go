package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"solforge/config"
	sol "solforge/solana"
)

// Env var naming the config file when --config is not given.
const configFileEnv = "SOLFORGE_CONFIG"

const defaultConfigFile = "solforge.yaml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "solforge",
	Short: "Solforge provisions a local Solana test validator with funded wallets and an SPL token.",
	Long: `Solforge is a command-line companion for a dockerized Solana test
validator. It generates wallets, funds them through the faucet, deploys an
SPL token mint, distributes tokens, and runs batched transfer checks, so
the localnet is ready before an application talks to it.`,
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewFigure("SOLFORGE", "larry3d", true)
		fmt.Println(titleStyle.Render(banner.String()))
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		fmt.Sprintf("config file (default %s, or $%s)", defaultConfigFile, configFileEnv))

	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(balancesCmd)
	rootCmd.AddCommand(airdropCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the config path (flag, then env, then default) and
// parses it. A .env file in the working directory is honored first.
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, using config file and defaults only.")
	}

	path := cfgFile
	if path == "" {
		path = os.Getenv(configFileEnv)
	}
	if path == "" {
		path = defaultConfigFile
	}

	return config.Load(path)
}

func newClient(cfg *config.Config) *sol.Client {
	return sol.NewClient(cfg.RPC.URI)
}

func newToken(cfg *config.Config, client *sol.Client) *sol.Token {
	return sol.NewToken(client, cfg.Token.Mint.PublicKey(), cfg.Token.Owner.PrivateKey)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(warningStyle.Render(err.Error()))
		os.Exit(1)
	}
}
