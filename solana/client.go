package solana

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// MemoProgramID is the SPL memo program.
var MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

const (
	signaturePollInterval = 500 * time.Millisecond

	// Per getSignatureStatuses call; a hung RPC node must not stall the
	// polling loop.
	signaturePollTimeout = 5 * time.Second

	// Upper bound on one confirmation wait, applied even when the caller's
	// context carries no deadline.
	signatureWaitTimeout = 90 * time.Second

	// Consecutive RPC failures after which the wait gives up.
	signaturePollMaxErrors = 8
)

// Client wraps the validator's JSON-RPC surface with the handful of
// operations the CLI needs.
type Client struct {
	rpc         *rpc.Client
	blockhashes *BlockhashCache

	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewClient creates a client for the given RPC endpoint.
func NewClient(endpoint string) *Client {
	return &Client{
		rpc:          rpc.New(endpoint),
		blockhashes:  NewBlockhashCache(20 * time.Second),
		pollInterval: signaturePollInterval,
		waitTimeout:  signatureWaitTimeout,
	}
}

// RPC exposes the underlying RPC client.
func (c *Client) RPC() *rpc.Client {
	return c.rpc
}

// GetBalance retrieves the SOL balance for a given public key.
func (c *Client) GetBalance(ctx context.Context, publicKey solana.PublicKey) (uint64, error) {
	balance, err := c.rpc.GetBalance(ctx, publicKey, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Value, nil
}

// RequestAirdrop asks the faucet to fund the given account.
func (c *Client) RequestAirdrop(ctx context.Context, publicKey solana.PublicKey, lamports uint64) (solana.Signature, error) {
	sig, err := c.rpc.RequestAirdrop(ctx, publicKey, lamports, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to request airdrop: %w", err)
	}
	return sig, nil
}

// TransferSOL sends lamports from sender to recipient, optionally tagging
// the transaction with a memo.
func (c *Client) TransferSOL(ctx context.Context, sender solana.PrivateKey, recipient solana.PublicKey, lamports uint64, memo string) (solana.Signature, error) {
	instructions := []solana.Instruction{
		system.NewTransferInstruction(
			lamports,
			sender.PublicKey(),
			recipient,
		).Build(),
	}
	if memo != "" {
		instructions = append(instructions, NewMemoInstruction(memo, sender.PublicKey()))
	}

	return c.SendInstructions(ctx, instructions, sender.PublicKey(), sender)
}

// SendInstructions assembles, signs and submits a transaction.
func (c *Client) SendInstructions(ctx context.Context, instructions []solana.Instruction, payer solana.PublicKey, signers ...solana.PrivateKey) (solana.Signature, error) {
	blockhash, err := c.blockhashes.Get(ctx, c.rpc)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			for i := range signers {
				if signers[i].PublicKey().Equals(key) {
					return &signers[i]
				}
			}
			return nil
		},
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return sig, nil
}

// WaitForSignature polls the cluster until the signature reaches the wanted
// commitment level. The wait is bounded: every poll runs under its own
// timeout, repeated RPC failures give up, and the whole wait stops after
// waitTimeout even when ctx carries no deadline. A transaction that landed
// with an error is reported as such.
func (c *Client) WaitForSignature(ctx context.Context, sig solana.Signature, want rpc.ConfirmationStatusType) error {
	ctx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var rpcErrs int
	for {
		status, err := c.signatureStatus(ctx, sig)
		switch {
		case err != nil:
			rpcErrs++
			if rpcErrs >= signaturePollMaxErrors {
				return fmt.Errorf("waiting for %s: %w", sig, err)
			}
		case status != nil:
			rpcErrs = 0
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if confirmationReached(status.ConfirmationStatus, want) {
				return nil
			}
		default:
			// Signature not seen by the cluster yet.
			rpcErrs = 0
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) signatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	ctx, cancel := context.WithTimeout(ctx, signaturePollTimeout)
	defer cancel()

	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

var confirmationRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 1,
	rpc.ConfirmationStatusConfirmed: 2,
	rpc.ConfirmationStatusFinalized: 3,
}

func confirmationReached(got, want rpc.ConfirmationStatusType) bool {
	return confirmationRank[got] >= confirmationRank[want]
}

// NewMemoInstruction builds an SPL memo instruction signed by signer.
func NewMemoInstruction(memo string, signer solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		MemoProgramID,
		solana.AccountMetaSlice{solana.Meta(signer).SIGNER()},
		[]byte(memo),
	)
}

// LamportsToSol converts lamports to whole SOL.
func LamportsToSol(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// SolToLamports converts SOL to lamports, flooring fractional lamports.
func SolToLamports(sol float64) uint64 {
	return uint64(sol * float64(solana.LAMPORTS_PER_SOL))
}
