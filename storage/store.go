// Package storage manages keypair files on disk. Files use the
// solana-cli JSON format (an array of 64 byte values), so everything
// written here can be fed straight to the solana and spl-token CLIs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
)

const (
	OwnerFileName  = "owner.json"
	MintFileName   = "mint.json"
	WalletsDirName = "wallets"
)

// Workdir is the on-disk home for the provisioning keypairs:
//
//	<workdir>/owner.json
//	<workdir>/mint.json
//	<workdir>/wallets/id000000.json ...
type Workdir struct {
	path string
}

// Open creates the workdir if needed and returns a handle to it.
func Open(path string) (*Workdir, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("could not create workdir %s: %w", path, err)
	}
	return &Workdir{path: path}, nil
}

func (w *Workdir) Path() string {
	return w.path
}

// SaveOwner writes the owner keypair, returning the file path.
func (w *Workdir) SaveOwner(kp solana.PrivateKey) (string, error) {
	path := filepath.Join(w.path, OwnerFileName)
	return path, SaveKeypair(path, kp)
}

// SaveMint writes the mint keypair, returning the file path.
func (w *Workdir) SaveMint(kp solana.PrivateKey) (string, error) {
	path := filepath.Join(w.path, MintFileName)
	return path, SaveKeypair(path, kp)
}

// SaveWallets writes the wallet keypairs under wallets/, returning the
// file paths in input order.
func (w *Workdir) SaveWallets(kps []solana.PrivateKey) ([]string, error) {
	dir := filepath.Join(w.path, WalletsDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("could not create wallets dir %s: %w", dir, err)
	}
	return SaveWalletsTo(dir, kps)
}

// SaveWalletsTo writes keypairs into an existing directory as
// id000000.json, id000001.json, and so on.
func SaveWalletsTo(dir string, kps []solana.PrivateKey) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet save dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid wallet save dir %s: not a directory", dir)
	}

	paths := make([]string, 0, len(kps))
	for i, kp := range kps {
		path := filepath.Join(dir, fmt.Sprintf("id%06d.json", i))
		if err := SaveKeypair(path, kp); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// SaveKeypair writes one keypair as a solana-cli compatible JSON file.
func SaveKeypair(path string, kp solana.PrivateKey) error {
	if len(kp) != solana.PrivateKeyLength {
		return fmt.Errorf("invalid keypair length: expected %d, got %d", solana.PrivateKeyLength, len(kp))
	}

	// json.Marshal encodes []byte as base64, so spell the bytes out.
	raw := make([]int, len(kp))
	for i, b := range kp {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("could not marshal keypair: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("could not write keypair file %s: %w", path, err)
	}
	return nil
}

// LoadKeypair reads a solana-cli compatible keypair JSON file.
func LoadKeypair(path string) (solana.PrivateKey, error) {
	kp, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read keypair file %s: %w", path, err)
	}
	if len(kp) != solana.PrivateKeyLength {
		return nil, fmt.Errorf("invalid keypair file %s: expected %d bytes, got %d", path, solana.PrivateKeyLength, len(kp))
	}
	return kp, nil
}
