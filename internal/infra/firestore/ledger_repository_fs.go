// internal/infra/firestore/ledger_repository_fs.go
package firestoreinfra

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	assetdom "narratives-nft/internal/domain/asset"
)

const ledgerCollection = "nft_mints"

// LedgerRepositoryFS implements asset.LedgerRepository using Firestore.
type LedgerRepositoryFS struct {
	Client *firestore.Client
}

var _ assetdom.LedgerRepository = (*LedgerRepositoryFS)(nil)

func NewLedgerRepositoryFS(client *firestore.Client) *LedgerRepositoryFS {
	return &LedgerRepositoryFS{Client: client}
}

func (r *LedgerRepositoryFS) Save(ctx context.Context, rec assetdom.MintRecord) (assetdom.MintRecord, error) {
	if r.Client == nil {
		return assetdom.MintRecord{}, errors.New("firestore client is nil")
	}

	col := r.Client.Collection(ledgerCollection)

	// ID が空なら自動採番
	var docRef *firestore.DocumentRef
	if rec.ID == "" {
		docRef = col.NewDoc()
		rec.ID = docRef.ID
	} else {
		docRef = col.Doc(rec.ID)
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := rec.Validate(); err != nil {
		return assetdom.MintRecord{}, err
	}

	if _, err := docRef.Set(ctx, recordToDoc(rec)); err != nil {
		return assetdom.MintRecord{}, err
	}
	return rec, nil
}

// recordToDoc はドメインのフィールドを落とさないように明示的にマッピングします。
func recordToDoc(rec assetdom.MintRecord) map[string]interface{} {
	data := map[string]interface{}{
		"kind":        string(rec.Kind),
		"mint":        rec.Mint,
		"signature":   rec.Signature,
		"cluster":     rec.Cluster,
		"explorerUrl": rec.ExplorerURL,
		"createdAt":   rec.CreatedAt.UTC(),
	}
	// collection（任意）
	if rec.Collection != "" {
		data["collection"] = rec.Collection
	}
	return data
}
