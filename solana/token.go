package solana

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"

	"solforge/solana/ata"
)

// Decimals is fixed for the provisioned token.
const Decimals = 6

// Size of an SPL token mint account.
const mintAccountSize = 82

// ErrInsufficientBalance is returned when a token transfer exceeds the
// source account's balance.
var ErrInsufficientBalance = errors.New("insufficient token balance")

// Token drives one SPL mint on behalf of its owner (the mint authority).
type Token struct {
	client *Client
	mint   solana.PublicKey
	owner  solana.PrivateKey
}

func NewToken(client *Client, mint solana.PublicKey, owner solana.PrivateKey) *Token {
	return &Token{
		client: client,
		mint:   mint,
		owner:  owner,
	}
}

// Mint returns the mint address.
func (t *Token) Mint() solana.PublicKey {
	return t.mint
}

// CoinsToSubunits converts a whole-token amount to base units, flooring.
func CoinsToSubunits(amount float64) uint64 {
	return uint64(math.Floor(amount * math.Pow10(Decimals)))
}

// SubunitsToCoins converts base units to a whole-token amount.
func SubunitsToCoins(subunits uint64) float64 {
	return float64(subunits) / math.Pow10(Decimals)
}

// Deploy creates the mint account and initializes the mint with the owner
// as both mint and freeze authority. The mint keypair must match the
// configured mint address.
func (t *Token) Deploy(ctx context.Context, mintKeypair solana.PrivateKey) (solana.Signature, error) {
	if !mintKeypair.PublicKey().Equals(t.mint) {
		return solana.Signature{}, fmt.Errorf("mint keypair %s does not match configured mint %s", mintKeypair.PublicKey(), t.mint)
	}

	rent, err := t.client.rpc.GetMinimumBalanceForRentExemption(ctx, mintAccountSize, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get rent exemption: %w", err)
	}

	ownerPk := t.owner.PublicKey()
	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(
			rent,
			mintAccountSize,
			solana.TokenProgramID,
			ownerPk,
			t.mint,
		).Build(),
		token.NewInitializeMintInstruction(
			Decimals,
			ownerPk,
			ownerPk,
			t.mint,
			solana.SysVarRentPubkey,
		).Build(),
	}

	return t.client.SendInstructions(ctx, instructions, ownerPk, t.owner, mintKeypair)
}

// Exists reports whether the mint account is present on chain.
func (t *Token) Exists(ctx context.Context) (bool, error) {
	_, err := t.client.rpc.GetAccountInfoWithOpts(ctx, t.mint, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get mint account: %w", err)
	}
	return true, nil
}

// MintTo creates the holder's associated token account if missing and mints
// subunits to it, in a single transaction signed by the owner.
func (t *Token) MintTo(ctx context.Context, holder solana.PublicKey, subunits uint64) (solana.Signature, error) {
	holderATA, err := t.ATA(holder)
	if err != nil {
		return solana.Signature{}, err
	}

	ownerPk := t.owner.PublicKey()
	instructions := []solana.Instruction{
		ata.NewCreateIdempotentInstruction(ownerPk, holder, t.mint).Build(),
		token.NewMintToInstruction(
			subunits,
			t.mint,
			holderATA,
			ownerPk,
			nil,
		).Build(),
	}

	return t.client.SendInstructions(ctx, instructions, ownerPk, t.owner)
}

// Transfer moves subunits between the sender's and receiver's associated
// token accounts, creating the receiver's account if missing. The sender
// pays fees and any rent for the new account.
func (t *Token) Transfer(ctx context.Context, sender solana.PrivateKey, receiver solana.PublicKey, subunits uint64) (solana.Signature, error) {
	senderPk := sender.PublicKey()
	source, err := t.ATA(senderPk)
	if err != nil {
		return solana.Signature{}, err
	}
	destination, err := t.ATA(receiver)
	if err != nil {
		return solana.Signature{}, err
	}

	balance, err := t.tokenAccountBalance(ctx, source)
	if err != nil {
		return solana.Signature{}, err
	}
	if balance < subunits {
		return solana.Signature{}, fmt.Errorf("%w: %v < %v", ErrInsufficientBalance, SubunitsToCoins(balance), SubunitsToCoins(subunits))
	}

	instructions := []solana.Instruction{
		ata.NewCreateIdempotentInstruction(senderPk, receiver, t.mint).Build(),
		token.NewTransferCheckedInstruction(
			subunits,
			Decimals,
			source,
			t.mint,
			destination,
			senderPk,
			nil,
		).Build(),
	}

	return t.client.SendInstructions(ctx, instructions, senderPk, sender)
}

// BalanceOf returns the holder's associated token account balance in base
// units. A missing account reads as zero.
func (t *Token) BalanceOf(ctx context.Context, holder solana.PublicKey) (uint64, error) {
	account, err := t.ATA(holder)
	if err != nil {
		return 0, err
	}

	balance, err := t.tokenAccountBalance(ctx, account)
	if err != nil {
		if isAccountNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

// ATA derives the holder's associated token account for this mint.
func (t *Token) ATA(holder solana.PublicKey) (solana.PublicKey, error) {
	account, _, err := solana.FindAssociatedTokenAddress(holder, t.mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to find associated token address: %w", err)
	}
	return account, nil
}

func (t *Token) tokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	balance, err := t.client.rpc.GetTokenAccountBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get token account balance for %s: %w", account, err)
	}
	if balance.Value == nil {
		return 0, nil
	}

	subunits, err := strconv.ParseUint(balance.Value.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected token balance %q for %s: %w", balance.Value.Amount, account, err)
	}
	return subunits, nil
}

func isAccountNotFound(err error) bool {
	if errors.Is(err, rpc.ErrNotFound) {
		return true
	}
	// The RPC node reports missing token accounts with this message.
	return strings.Contains(err.Error(), "could not find account")
}
