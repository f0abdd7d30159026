package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadKeypair(t *testing.T) {
	kp := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "id.json")

	require.NoError(t, SaveKeypair(path, kp))

	loaded, err := LoadKeypair(path)
	require.NoError(t, err)
	assert.Equal(t, []byte(kp), []byte(loaded))
}

func TestSaveKeypairWritesSolanaCLIFormat(t *testing.T) {
	kp := solana.NewWallet().PrivateKey
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, SaveKeypair(path, kp))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// The file must be a plain JSON array of byte values, not base64.
	var raw []int
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, solana.PrivateKeyLength)
	for i, b := range raw {
		assert.Equal(t, int(kp[i]), b)
	}
}

func TestSaveKeypairRejectsWrongLength(t *testing.T) {
	short := solana.PrivateKey(solana.NewWallet().PrivateKey[:32])
	err := SaveKeypair(filepath.Join(t.TempDir(), "id.json"), short)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length")
}

func TestLoadKeypairRejectsWrongLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2,3]"), 0600))

	_, err := LoadKeypair(path)
	assert.Error(t, err)
}

func TestWorkdirLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "workdir")
	wd, err := Open(root)
	require.NoError(t, err)

	ownerPath, err := wd.SaveOwner(solana.NewWallet().PrivateKey)
	require.NoError(t, err)
	mintPath, err := wd.SaveMint(solana.NewWallet().PrivateKey)
	require.NoError(t, err)

	wallets := []solana.PrivateKey{
		solana.NewWallet().PrivateKey,
		solana.NewWallet().PrivateKey,
		solana.NewWallet().PrivateKey,
	}
	walletPaths, err := wd.SaveWallets(wallets)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, OwnerFileName), ownerPath)
	assert.Equal(t, filepath.Join(root, MintFileName), mintPath)
	require.Len(t, walletPaths, 3)
	assert.Equal(t, filepath.Join(root, WalletsDirName, "id000000.json"), walletPaths[0])
	assert.Equal(t, filepath.Join(root, WalletsDirName, "id000002.json"), walletPaths[2])

	for i, path := range walletPaths {
		loaded, err := LoadKeypair(path)
		require.NoError(t, err)
		assert.Equal(t, []byte(wallets[i]), []byte(loaded))
	}
}

func TestSaveWalletsToRequiresExistingDir(t *testing.T) {
	kps := []solana.PrivateKey{solana.NewWallet().PrivateKey}

	_, err := SaveWalletsTo(filepath.Join(t.TempDir(), "missing"), kps)
	assert.Error(t, err)

	// A regular file is not a valid target either.
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))
	_, err = SaveWalletsTo(file, kps)
	assert.Error(t, err)
}
