// internal/infra/solana/gateway.go
package solana

import (
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
)

const (
	// 署名ステータスのポーリング: k 回目の失敗後 k × 300ms 待つ（最大 20 回）
	defaultConfirmAttempts = 20
	defaultConfirmBase     = 300 * time.Millisecond
)

// Gateway は 1 つの wallet（= identity / fee payer）とクラスタに束縛されたクライアントです。
type Gateway struct {
	chain   Chain
	wallet  types.Account
	cluster string
	log     *zap.Logger

	confirmAttempts int
	confirmBase     time.Duration

	decode decoders
}

var _ assetdom.ChainGateway = (*Gateway)(nil)

// NewGateway は wallet を identity として使う Gateway を返します。
func NewGateway(chain Chain, wallet types.Account, cluster string, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		chain:           chain,
		wallet:          wallet,
		cluster:         normalizeCluster(cluster),
		log:             log.Named("solana"),
		confirmAttempts: defaultConfirmAttempts,
		confirmBase:     defaultConfirmBase,
		decode:          sdkDecoders(),
	}
}

// WithConfirmPolicy は署名確認ポーリングの回数と基準待機時間を差し替えます。
func (g *Gateway) WithConfirmPolicy(attempts int, base time.Duration) *Gateway {
	g.confirmAttempts = attempts
	g.confirmBase = base
	return g
}

func (g *Gateway) Identity() string {
	return g.wallet.PublicKey.ToBase58()
}

func (g *Gateway) Cluster() string {
	return g.cluster
}

func (g *Gateway) ExplorerLink(kind, id string) string {
	return ExplorerLink(kind, id, g.cluster)
}
