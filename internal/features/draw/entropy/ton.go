package entropy

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xssnick/tonutils-go/liteclient"
	"github.com/xssnick/tonutils-go/ton"
)

// TonFetcher sources external entropy from the TON masterchain: the root hash
// of the latest sealed block is public, continuously produced, and outside the
// operator's control.
type TonFetcher struct {
	api ton.APIClientWrapped
}

// NewTonFetcher connects a lite-client pool using the global network config at
// configURL (e.g. https://ton.org/global-config.json).
func NewTonFetcher(ctx context.Context, configURL string) (*TonFetcher, error) {
	pool := liteclient.NewConnectionPool()
	if err := pool.AddConnectionsFromConfigUrl(ctx, configURL); err != nil {
		return nil, fmt.Errorf("failed to connect lite client: %w", err)
	}
	api := ton.NewAPIClient(pool).WithRetry()
	return &TonFetcher{api: api}, nil
}

// Fetch returns the latest masterchain block identity as "<seqno>:<roothash>".
// Including the seqno lets an auditor locate the exact block in any explorer.
func (f *TonFetcher) Fetch(ctx context.Context) (string, error) {
	block, err := f.api.GetMasterchainInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch masterchain info: %w", err)
	}
	return fmt.Sprintf("%d:%s", block.SeqNo, hex.EncodeToString(block.RootHash)), nil
}
