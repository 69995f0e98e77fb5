// internal/infra/solana/cluster.go
package solana

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/blocto/solana-go-sdk/rpc"
)

const (
	ClusterDevnet      = "devnet"
	ClusterTestnet     = "testnet"
	ClusterMainnetBeta = "mainnet-beta"
	ClusterLocalnet    = "localnet"
)

const explorerBaseURL = "https://explorer.solana.com"

// ClusterURL はクラスタ名から公開 RPC endpoint を返します（clusterApiUrl 相当）。
func ClusterURL(cluster string) (string, error) {
	switch normalizeCluster(cluster) {
	case ClusterDevnet:
		return rpc.DevnetRPCEndpoint, nil
	case ClusterTestnet:
		return rpc.TestnetRPCEndpoint, nil
	case ClusterMainnetBeta:
		return rpc.MainnetRPCEndpoint, nil
	case ClusterLocalnet:
		return rpc.LocalnetRPCEndpoint, nil
	default:
		return "", fmt.Errorf("unknown cluster %q (want devnet / testnet / mainnet-beta / localnet)", cluster)
	}
}

// ExplorerLink は Solana Explorer の URL を組み立てます。
// kind: "address" / "tx"（"transaction" も可）/ "block"
func ExplorerLink(kind, id, cluster string) string {
	path := "address"
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "tx", "transaction":
		path = "tx"
	case "block":
		path = "block"
	}

	u := fmt.Sprintf("%s/%s/%s", explorerBaseURL, path, url.PathEscape(strings.TrimSpace(id)))

	switch c := normalizeCluster(cluster); c {
	case ClusterMainnetBeta:
		return u
	case ClusterLocalnet:
		return u + "?cluster=custom&customUrl=" + url.QueryEscape(rpc.LocalnetRPCEndpoint)
	default:
		return u + "?cluster=" + url.QueryEscape(c)
	}
}

func normalizeCluster(cluster string) string {
	c := strings.ToLower(strings.TrimSpace(cluster))
	switch c {
	case "", "dev":
		return ClusterDevnet
	case "mainnet", "main":
		return ClusterMainnetBeta
	case "localhost", "local":
		return ClusterLocalnet
	}
	return c
}
