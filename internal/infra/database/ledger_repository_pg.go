// internal/infra/database/ledger_repository_pg.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	assetdom "narratives-nft/internal/domain/asset"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const createLedgerTable = `
CREATE TABLE IF NOT EXISTS nft_mints (
  id           TEXT PRIMARY KEY,
  kind         TEXT NOT NULL,
  mint         TEXT NOT NULL,
  collection   TEXT,
  signature    TEXT NOT NULL,
  cluster      TEXT NOT NULL,
  explorer_url TEXT NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL
)`

const insertLedgerRecord = `
INSERT INTO nft_mints (
  id,
  kind,
  mint,
  collection,
  signature,
  cluster,
  explorer_url,
  created_at
) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`

// LedgerRepositoryPG implements asset.LedgerRepository on the nft_mints table.
type LedgerRepositoryPG struct {
	DB execer

	newID func() string
	now   func() time.Time
}

var _ assetdom.LedgerRepository = (*LedgerRepositoryPG)(nil)

func NewLedgerRepositoryPG(db *sql.DB) *LedgerRepositoryPG {
	return &LedgerRepositoryPG{
		DB:    db,
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// EnsureSchema creates nft_mints when missing.
func (r *LedgerRepositoryPG) EnsureSchema(ctx context.Context) error {
	if r.DB == nil {
		return errors.New("LedgerRepositoryPG: nil db")
	}
	_, err := r.DB.ExecContext(ctx, createLedgerTable)
	return err
}

func (r *LedgerRepositoryPG) Save(ctx context.Context, rec assetdom.MintRecord) (assetdom.MintRecord, error) {
	if r.DB == nil {
		return assetdom.MintRecord{}, errors.New("LedgerRepositoryPG: nil db")
	}
	if rec.ID == "" {
		rec.ID = r.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	if err := rec.Validate(); err != nil {
		return assetdom.MintRecord{}, err
	}

	if _, err := r.DB.ExecContext(ctx, insertLedgerRecord,
		rec.ID,
		string(rec.Kind),
		rec.Mint,
		rec.Collection,
		rec.Signature,
		rec.Cluster,
		rec.ExplorerURL,
		rec.CreatedAt.UTC(),
	); err != nil {
		return assetdom.MintRecord{}, err
	}
	return rec, nil
}
