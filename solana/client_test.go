package solana

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolLamportsConversion(t *testing.T) {
	assert.Equal(t, uint64(1_500_000_000), SolToLamports(1.5))
	assert.Equal(t, uint64(0), SolToLamports(0))
	assert.Equal(t, 2.0, LamportsToSol(2_000_000_000))
	assert.Equal(t, 0.000000001, LamportsToSol(1))

	// Fractional lamports are floored, never rounded up.
	assert.Equal(t, uint64(1), SolToLamports(0.0000000019))
}

func TestNewMemoInstruction(t *testing.T) {
	signer := solana.NewWallet().PublicKey()
	inst := NewMemoInstruction("Test transfer", signer)

	assert.Equal(t, MemoProgramID, inst.ProgramID())

	data, err := inst.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte("Test transfer"), data)

	accounts := inst.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, signer, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.False(t, accounts[0].IsWritable)
}

// rpcStub serves the same JSON-RPC response body for every request and
// counts how many requests it saw.
func rpcStub(t *testing.T, status int, body string) (*Client, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	client.pollInterval = 5 * time.Millisecond
	client.waitTimeout = 250 * time.Millisecond
	return client, &calls
}

func TestWaitForSignatureIsBoundedWhenNeverConfirmed(t *testing.T) {
	client, calls := rpcStub(t, http.StatusOK,
		`{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[null]}}`)

	started := time.Now()
	err := client.WaitForSignature(context.Background(), solana.Signature{}, rpc.ConfirmationStatusFinalized)

	require.Error(t, err, "a signature the cluster never confirms must not wait forever")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Greater(t, calls.Load(), int64(1), "the loop should keep polling until the bound")
}

func TestWaitForSignatureGivesUpOnRPCErrors(t *testing.T) {
	client, calls := rpcStub(t, http.StatusInternalServerError, `boom`)

	err := client.WaitForSignature(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)

	require.Error(t, err)
	assert.NotErrorIs(t, err, context.DeadlineExceeded, "repeated RPC failures should surface before the deadline")
	assert.GreaterOrEqual(t, calls.Load(), int64(signaturePollMaxErrors))
}

func TestWaitForSignatureReturnsOnConfirmation(t *testing.T) {
	client, _ := rpcStub(t, http.StatusOK,
		`{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[{"slot":1,"confirmations":null,"err":null,"confirmationStatus":"finalized"}]}}`)

	err := client.WaitForSignature(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)
	assert.NoError(t, err)
}

func TestWaitForSignatureReportsTransactionError(t *testing.T) {
	client, _ := rpcStub(t, http.StatusOK,
		`{"jsonrpc":"2.0","id":1,"result":{"context":{"slot":1},"value":[{"slot":1,"confirmations":null,"err":{"InstructionError":[0,"Custom"]},"confirmationStatus":"finalized"}]}}`)

	err := client.WaitForSignature(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestConfirmationReached(t *testing.T) {
	assert.True(t, confirmationReached(rpc.ConfirmationStatusFinalized, rpc.ConfirmationStatusConfirmed))
	assert.True(t, confirmationReached(rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusConfirmed))
	assert.False(t, confirmationReached(rpc.ConfirmationStatusProcessed, rpc.ConfirmationStatusConfirmed))
	assert.False(t, confirmationReached("", rpc.ConfirmationStatusProcessed))
}
