package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadConfig(t *testing.T) {
	wallets := Generate(3)
	owner := Generate(1)[0]
	mint := Generate(1)[0]

	cfg := Config{
		RPC:     RPCConfig{URI: "http://127.0.0.1:8899"},
		Token:   TokenConfig{Owner: owner, Mint: mint},
		Wallets: wallets,
		Transfers: TransfersConfig{
			Sols:   []TransferCase{{From: 0, To: 1, Amount: 0.5}},
			Tokens: []TransferCase{{From: 1, To: 2, Amount: 10}},
		},
	}

	data, err := yaml.Marshal(&cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "solforge.yaml")
	require.NoError(t, os.WriteFile(path, data, 0600))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8899", loaded.RPC.URI)
	assert.Equal(t, "workdir", loaded.Workdir, "workdir should default when unset")
	assert.Equal(t, owner.PublicKey(), loaded.Token.Owner.PublicKey())
	assert.Equal(t, mint.PublicKey(), loaded.Token.Mint.PublicKey())
	require.Len(t, loaded.Wallets, 3)
	for i := range wallets {
		assert.Equal(t, []byte(wallets[i].PrivateKey), []byte(loaded.Wallets[i].PrivateKey))
	}
	require.Len(t, loaded.Transfers.Sols, 1)
	assert.Equal(t, TransferCase{From: 0, To: 1, Amount: 0.5}, loaded.Transfers.Sols[0])
	require.Len(t, loaded.Transfers.Tokens, 1)
	assert.Equal(t, TransferCase{From: 1, To: 2, Amount: 10}, loaded.Transfers.Tokens[0])
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRequiresRPCURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wallets: []\n"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc.uri")
}

func TestKeypairYAMLRoundTrip(t *testing.T) {
	original := Generate(1)[0]

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	var decoded Keypair
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, []byte(original.PrivateKey), []byte(decoded.PrivateKey))
	assert.Equal(t, original.PublicKey(), decoded.PublicKey())
}

func TestKeypairRejectsInvalidEncoding(t *testing.T) {
	var kp Keypair
	err := yaml.Unmarshal([]byte(`"this is not base58 0OIl"`), &kp)
	assert.Error(t, err)
}

func TestKeypairRejectsWrongLength(t *testing.T) {
	full := Generate(1)[0]
	truncated := solana.PrivateKey(full.PrivateKey[:32]).String()

	var kp Keypair
	err := yaml.Unmarshal([]byte(`"`+truncated+`"`), &kp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

func TestGenerate(t *testing.T) {
	wallets := Generate(5)
	require.Len(t, wallets, 5)

	seen := make(map[string]bool)
	for _, kp := range wallets {
		assert.Len(t, []byte(kp.PrivateKey), solana.PrivateKeyLength)
		assert.False(t, seen[kp.PublicKey().String()], "generated keypairs should be distinct")
		seen[kp.PublicKey().String()] = true
	}
}

func TestTransferCaseValidate(t *testing.T) {
	assert.NoError(t, TransferCase{From: 0, To: 2, Amount: 1}.Validate(3))
	assert.Error(t, TransferCase{From: 3, To: 0, Amount: 1}.Validate(3))
	assert.Error(t, TransferCase{From: 0, To: 3, Amount: 1}.Validate(3))
	assert.Error(t, TransferCase{From: -1, To: 0, Amount: 1}.Validate(3))

	// A negative amount would wrap around in the uint64 conversions.
	err := TransferCase{From: 0, To: 1, Amount: -0.5}.Validate(3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}
