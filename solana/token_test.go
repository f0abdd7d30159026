package solana

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinsSubunitsConversion(t *testing.T) {
	assert.Equal(t, uint64(1_500_000), CoinsToSubunits(1.5))
	assert.Equal(t, uint64(1_000_000_000), CoinsToSubunits(1000))
	assert.Equal(t, uint64(0), CoinsToSubunits(0))

	assert.Equal(t, 2.5, SubunitsToCoins(2_500_000))
	assert.Equal(t, 0.000001, SubunitsToCoins(1))

	// Conversion floors fractional subunits.
	assert.Equal(t, uint64(2_250_000), CoinsToSubunits(SubunitsToCoins(2_250_000)))
}

func TestATADerivationIsDeterministic(t *testing.T) {
	client := NewClient("http://127.0.0.1:8899")
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PrivateKey
	tok := NewToken(client, mint, owner)

	holder := solana.NewWallet().PublicKey()
	otherHolder := solana.NewWallet().PublicKey()

	first, err := tok.ATA(holder)
	require.NoError(t, err)
	second, err := tok.ATA(holder)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same holder should always derive the same account")

	other, err := tok.ATA(otherHolder)
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "different holders should derive different accounts")

	expected, _, err := solana.FindAssociatedTokenAddress(holder, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, first)
}

func TestDeployRejectsMismatchedMintKeypair(t *testing.T) {
	client := NewClient("http://127.0.0.1:8899")
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PrivateKey
	tok := NewToken(client, mint, owner)

	_, err := tok.Deploy(context.Background(), solana.NewWallet().PrivateKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}
