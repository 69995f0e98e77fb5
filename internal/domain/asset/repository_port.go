// internal/domain/asset/repository_port.go
package asset

import "context"

// ChainGateway は wallet に紐づいたチェーン操作の入口です。
// infra/solana.Gateway が実装します。
type ChainGateway interface {
	// Identity は wallet の公開鍵（base58）
	Identity() string
	// Cluster は接続先クラスタ名（devnet など）
	Cluster() string

	AirdropIfRequired(ctx context.Context, amount, minBalance uint64) (uint64, error)
	CreateNFT(ctx context.Context, in CreateInput) (CreateResult, error)
	VerifyCollection(ctx context.Context, nftMint, collectionMint string) (string, error)
	FetchDigitalAsset(ctx context.Context, mint string) (DigitalAsset, error)

	ExplorerLink(kind, id string) string
}

// MetadataUploader は metadata.json をアップロードして URI を返します。
type MetadataUploader interface {
	UploadMetadata(ctx context.Context, data []byte) (string, error)
}

// LedgerRepository は成功した操作の記録先です。
type LedgerRepository interface {
	Save(ctx context.Context, r MintRecord) (MintRecord, error)
}

// OwnedMintsReader は wallet が保有する token の mint 一覧を返します。
type OwnedMintsReader interface {
	ListOwnedTokenMints(ctx context.Context, walletAddress string) ([]string, error)
}
