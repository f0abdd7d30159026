package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

// Config mirrors the YAML file that drives the CLI. Keypairs are stored
// base58 encoded, the same representation `wallet read` prints.
type Config struct {
	RPC       RPCConfig       `yaml:"rpc"`
	Workdir   string          `yaml:"workdir,omitempty"`
	Token     TokenConfig     `yaml:"token"`
	Wallets   []Keypair       `yaml:"wallets"`
	Transfers TransfersConfig `yaml:"transfers,omitempty"`
}

// RPCConfig points at the validator's JSON-RPC endpoint.
type RPCConfig struct {
	URI string `yaml:"uri"`
}

// TokenConfig holds the mint authority and the mint keypair itself.
// The mint keypair is only needed to sign the deploy transaction; after
// that only its public key matters.
type TokenConfig struct {
	Owner Keypair `yaml:"owner"`
	Mint  Keypair `yaml:"mint"`
}

// TransfersConfig lists the transfer cases executed by `transfer sols`
// and `transfer tokens`.
type TransfersConfig struct {
	Sols   []TransferCase `yaml:"sols,omitempty"`
	Tokens []TransferCase `yaml:"tokens,omitempty"`
}

// TransferCase describes one transfer between two configured wallets,
// addressed by their index in the wallets list.
type TransferCase struct {
	From   int     `yaml:"from"`
	To     int     `yaml:"to"`
	Amount float64 `yaml:"amount"`
}

// Validate checks that both wallet indices are in range and the amount is
// not negative. Negative amounts must never reach the float-to-uint64
// conversions downstream.
func (tc TransferCase) Validate(walletCount int) error {
	if tc.From < 0 || tc.From >= walletCount {
		return fmt.Errorf("invalid sender wallet index %d", tc.From)
	}
	if tc.To < 0 || tc.To >= walletCount {
		return fmt.Errorf("invalid receiver wallet index %d", tc.To)
	}
	if tc.Amount < 0 {
		return fmt.Errorf("invalid transfer amount %v", tc.Amount)
	}
	return nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.RPC.URI == "" {
		return nil, fmt.Errorf("config %s: rpc.uri is not set", path)
	}
	if cfg.Workdir == "" {
		cfg.Workdir = "workdir"
	}

	return &cfg, nil
}

// Generate creates count fresh keypairs.
func Generate(count int) []Keypair {
	kps := make([]Keypair, count)
	for i := range kps {
		kps[i] = Keypair{PrivateKey: solana.NewWallet().PrivateKey}
	}
	return kps
}

// Keypair wraps a private key with base58 YAML (un)marshalling.
type Keypair struct {
	solana.PrivateKey
}

func (k Keypair) MarshalYAML() (interface{}, error) {
	return k.PrivateKey.String(), nil
}

func (k *Keypair) UnmarshalYAML(value *yaml.Node) error {
	var encoded string
	if err := value.Decode(&encoded); err != nil {
		return err
	}

	pk, err := solana.PrivateKeyFromBase58(encoded)
	if err != nil {
		return fmt.Errorf("can't parse base58 encoded keypair: %w", err)
	}
	if len(pk) != solana.PrivateKeyLength {
		return fmt.Errorf("invalid keypair length: expected %d bytes, got %d", solana.PrivateKeyLength, len(pk))
	}

	k.PrivateKey = pk
	return nil
}
