// internal/domain/asset/record.go
package asset

import (
	"errors"
	"strings"
	"time"
)

// RecordKind は ledger に残す操作の種類です。
type RecordKind string

const (
	KindCollection RecordKind = "collection"
	KindNFT        RecordKind = "nft"
	KindVerify     RecordKind = "verify"
)

// MintRecord は nft_mints（Firestore コレクション / PG テーブル）1 レコードです。
//
// 想定構造:
//
// - id          : string (uuid)
// - kind        : collection | nft | verify
// - mint        : string  // 対象 NFT の mint
// - collection  : string  // 参照 / 検証したコレクション mint（なければ空）
// - signature   : string  // tx シグネチャ
// - cluster     : string  // devnet など
// - explorerUrl : string
// - createdAt   : time.Time
type MintRecord struct {
	ID          string     `json:"id"`
	Kind        RecordKind `json:"kind"`
	Mint        string     `json:"mint"`
	Collection  string     `json:"collection,omitempty"`
	Signature   string     `json:"signature"`
	Cluster     string     `json:"cluster"`
	ExplorerURL string     `json:"explorerUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
}

var (
	ErrInvalidRecordKind = errors.New("asset: invalid record kind")
	ErrInvalidSignature  = errors.New("asset: invalid signature")
)

func (r MintRecord) Validate() error {
	switch r.Kind {
	case KindCollection, KindNFT, KindVerify:
	default:
		return ErrInvalidRecordKind
	}
	if !IsValidAddress(r.Mint) {
		return ErrInvalidAddress
	}
	if r.Collection != "" && !IsValidAddress(r.Collection) {
		return ErrInvalidAddress
	}
	if strings.TrimSpace(r.Signature) == "" {
		return ErrInvalidSignature
	}
	return nil
}
