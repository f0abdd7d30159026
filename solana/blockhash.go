package solana

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// BlockhashCache caches the latest blockhash for a short TTL so batched
// transactions don't hammer the RPC node with getLatestBlockhash calls.
type BlockhashCache struct {
	mu        sync.Mutex
	blockhash solana.Hash
	expiry    time.Time
	ttl       time.Duration
}

func NewBlockhashCache(ttl time.Duration) *BlockhashCache {
	return &BlockhashCache{ttl: ttl}
}

// Get returns the cached blockhash, refreshing it when expired.
func (c *BlockhashCache) Get(ctx context.Context, node *rpc.Client) (solana.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.expiry) {
		return c.blockhash, nil
	}

	block, err := node.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, err
	}

	c.blockhash = block.Value.Blockhash
	c.expiry = time.Now().Add(c.ttl)

	return c.blockhash, nil
}
