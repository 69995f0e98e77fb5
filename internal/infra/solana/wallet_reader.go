package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"

	assetdom "narratives-nft/internal/domain/asset"
)

// OnchainWalletReader implements asset.OwnedMintsReader:
//
//	ListOwnedTokenMints(ctx, walletAddress) ([]string, error)
type OnchainWalletReader struct {
	Client RPCClient
}

var _ assetdom.OwnedMintsReader = (*OnchainWalletReader)(nil)

// NewOnchainWalletReader creates a reader backed by the raw JSON-RPC client for endpoint.
func NewOnchainWalletReader(endpoint string) *OnchainWalletReader {
	return &OnchainWalletReader{
		Client: NewJSONRPCClient(endpoint),
	}
}

// ListOwnedTokenMints fetches token accounts by owner and returns a deduplicated
// list of mint addresses, in RPC order.
//
// Zero-balance token accounts (Amount == "0") are skipped so that a transferred-out
// NFT does not show up.
func (r *OnchainWalletReader) ListOwnedTokenMints(ctx context.Context, walletAddress string) ([]string, error) {
	if r == nil || r.Client == nil {
		return nil, fmt.Errorf("solana wallet reader: client not configured")
	}
	addr := strings.TrimSpace(walletAddress)
	if !assetdom.IsValidAddress(addr) {
		return nil, fmt.Errorf("solana wallet reader: %w: %q", assetdom.ErrInvalidAddress, walletAddress)
	}

	accounts, err := r.Client.TokenAccountsByOwner(ctx, addr, common.TokenProgramID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(accounts))
	out := make([]string, 0, len(accounts))

	for _, a := range accounts {
		if a.Mint == "" || a.Amount == "0" {
			continue
		}
		if _, ok := seen[a.Mint]; ok {
			continue
		}
		seen[a.Mint] = struct{}{}
		out = append(out, a.Mint)
	}

	return out, nil
}
