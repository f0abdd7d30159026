package cmd

import (
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"solforge/config"
	"solforge/storage"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage wallet keypairs",
}

var walletGenerateOut string

var walletGenerateCmd = &cobra.Command{
	Use:   "generate <count>",
	Short: "Generate fresh keypairs",
	Long: `Generates keypairs and prints them base58 encoded as a YAML list,
ready to paste into the config. With --out, each keypair is additionally
saved as a solana-cli compatible JSON file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := strconv.Atoi(args[0])
		if err != nil || count <= 0 {
			return fmt.Errorf("invalid keypair count %q", args[0])
		}

		wallets := config.Generate(count)

		if walletGenerateOut == "" {
			for _, kp := range wallets {
				fmt.Printf("- %s\n", kp.PrivateKey.String())
			}
			return nil
		}

		paths, err := storage.SaveWalletsTo(walletGenerateOut, privateKeys(wallets))
		if err != nil {
			return err
		}
		for i, kp := range wallets {
			fmt.Printf("- keypair: %s\n  saved_to: %s\n", kp.PrivateKey.String(), paths[i])
		}
		return nil
	},
}

var (
	walletListPubkey  bool
	walletListKeypair bool
)

var walletListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured wallets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		for _, kp := range cfg.Wallets {
			switch {
			case walletListPubkey == walletListKeypair:
				fmt.Printf("%s | %s\n", kp.PublicKey(), kp.PrivateKey.String())
			case walletListPubkey:
				fmt.Println(kp.PublicKey())
			default:
				fmt.Println(kp.PrivateKey.String())
			}
		}
		return nil
	},
}

var walletSaveCmd = &cobra.Command{
	Use:   "save <dir>",
	Short: "Save the configured wallets as solana-cli compatible JSON files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		paths, err := storage.SaveWalletsTo(args[0], privateKeys(cfg.Wallets))
		if err != nil {
			return err
		}
		for i, kp := range cfg.Wallets {
			fmt.Printf("- keypair: %s\n  saved_to: %s\n", kp.PrivateKey.String(), paths[i])
		}
		return nil
	},
}

var walletReadCmd = &cobra.Command{
	Use:   "read <path>",
	Short: "Read a keypair JSON file and print it base58 encoded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kp, err := storage.LoadKeypair(args[0])
		if err != nil {
			return err
		}
		fmt.Println(kp.String())
		return nil
	},
}

func privateKeys(wallets []config.Keypair) []solana.PrivateKey {
	kps := make([]solana.PrivateKey, len(wallets))
	for i, kp := range wallets {
		kps[i] = kp.PrivateKey
	}
	return kps
}

func init() {
	walletGenerateCmd.Flags().StringVar(&walletGenerateOut, "out", "", "existing directory to save the keypairs in")
	walletListCmd.Flags().BoolVar(&walletListPubkey, "pubkey", false, "show public keys (account addresses)")
	walletListCmd.Flags().BoolVar(&walletListKeypair, "keypair", false, "show keypairs")

	walletCmd.AddCommand(walletGenerateCmd)
	walletCmd.AddCommand(walletListCmd)
	walletCmd.AddCommand(walletSaveCmd)
	walletCmd.AddCommand(walletReadCmd)
}
