package database

import (
	"context"

	assetdom "narratives-nft/internal/domain/asset"
)

// NopLedger is used when LEDGER_BACKEND is empty. Save only validates.
type NopLedger struct{}

var _ assetdom.LedgerRepository = NopLedger{}

func (NopLedger) Save(_ context.Context, rec assetdom.MintRecord) (assetdom.MintRecord, error) {
	if err := rec.Validate(); err != nil {
		return assetdom.MintRecord{}, err
	}
	return rec, nil
}
