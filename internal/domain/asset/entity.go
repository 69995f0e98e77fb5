// internal/domain/asset/entity.go
package asset

import (
	"errors"
	"strings"
)

// ------------------------------------------------------
// DigitalAsset: mint + metadata (+ edition) のオンチェーン読み取りモデル
// ------------------------------------------------------

// Mint は SPL Token の mint アカウントの内容です。
type Mint struct {
	Address         string `json:"address"`
	Supply          uint64 `json:"supply"`
	Decimals        uint8  `json:"decimals"`
	MintAuthority   string `json:"mintAuthority,omitempty"`
	FreezeAuthority string `json:"freezeAuthority,omitempty"`
}

// CollectionRef は metadata が参照するコレクションです。
// Verified=false の間はコレクション側の署名がまだ付いていません。
type CollectionRef struct {
	Key      string `json:"key"`
	Verified bool   `json:"verified"`
}

// Metadata は Metaplex Token Metadata アカウント（PDA）の内容です。
type Metadata struct {
	Address              string         `json:"address"`
	UpdateAuthority      string         `json:"updateAuthority"`
	Name                 string         `json:"name"`
	Symbol               string         `json:"symbol"`
	URI                  string         `json:"uri"`
	SellerFeeBasisPoints uint16         `json:"sellerFeeBasisPoints"`
	PrimarySaleHappened  bool           `json:"primarySaleHappened"`
	IsMutable            bool           `json:"isMutable"`
	Collection           *CollectionRef `json:"collection,omitempty"`
}

// Edition は master edition / print edition の PDA です。
type Edition struct {
	Address    string `json:"address"`
	IsOriginal bool   `json:"isOriginal"`
}

type DigitalAsset struct {
	Mint     Mint     `json:"mint"`
	Metadata Metadata `json:"metadata"`
	Edition  *Edition `json:"edition,omitempty"`
}

// IsVerifiedMemberOf は collectionMint の検証済みメンバーかどうかを返します。
func (a DigitalAsset) IsVerifiedMemberOf(collectionMint string) bool {
	c := a.Metadata.Collection
	if c == nil {
		return false
	}
	return c.Verified && c.Key == strings.TrimSpace(collectionMint)
}

// ------------------------------------------------------
// CreateInput: NFT 作成パラメータ
// ------------------------------------------------------

type CreateInput struct {
	Name                 string
	Symbol               string
	URI                  string // metadata.json の URL
	SellerFeeBasisPoints uint16 // 例: 500 = 5%

	// IsCollection=true ならコレクション NFT として作成する
	IsCollection bool
	// CollectionMint が空でなければ verified=false でコレクションを参照する
	CollectionMint string
	// Owner が空なら wallet 自身に 1 枚ミントする
	Owner string
}

type CreateResult struct {
	Mint      string
	Signature string
}

// Metaplex 側の上限
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
	MaxFeeBps    = 10000
)

var (
	ErrNotFound           = errors.New("asset: not found")
	ErrInvalidAddress     = errors.New("asset: invalid address")
	ErrInvalidName        = errors.New("asset: invalid name")
	ErrInvalidSymbol      = errors.New("asset: invalid symbol")
	ErrInvalidURI         = errors.New("asset: invalid uri")
	ErrInvalidSellerFee   = errors.New("asset: invalid sellerFeeBasisPoints")
	ErrCollectionConflict = errors.New("asset: collection nft cannot reference another collection")
	ErrNotVerified        = errors.New("asset: collection membership not verified")
)

// Normalize は前後の空白を落として検証済みの CreateInput を返します。
func (in CreateInput) Normalize() (CreateInput, error) {
	out := in
	out.Name = strings.TrimSpace(in.Name)
	out.Symbol = strings.TrimSpace(in.Symbol)
	out.URI = strings.TrimSpace(in.URI)
	out.CollectionMint = strings.TrimSpace(in.CollectionMint)
	out.Owner = strings.TrimSpace(in.Owner)

	if out.Name == "" || len(out.Name) > MaxNameLen {
		return CreateInput{}, ErrInvalidName
	}
	if len(out.Symbol) > MaxSymbolLen {
		return CreateInput{}, ErrInvalidSymbol
	}
	if out.URI == "" || len(out.URI) > MaxURILen {
		return CreateInput{}, ErrInvalidURI
	}
	if out.SellerFeeBasisPoints > MaxFeeBps {
		return CreateInput{}, ErrInvalidSellerFee
	}
	if out.IsCollection && out.CollectionMint != "" {
		return CreateInput{}, ErrCollectionConflict
	}
	if out.CollectionMint != "" && !IsValidAddress(out.CollectionMint) {
		return CreateInput{}, ErrInvalidAddress
	}
	if out.Owner != "" && !IsValidAddress(out.Owner) {
		return CreateInput{}, ErrInvalidAddress
	}
	return out, nil
}

// ------------------------------------------------------
// Address validation
// ------------------------------------------------------

// Solana pubkey は 32 bytes の base58 表現。長さは概ね 32..44。
const (
	base58MinLen   = 32
	base58MaxLen   = 44
	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
)

// IsValidAddress は base58 の文字種と長さだけを確認します（デコードはしない）。
func IsValidAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < base58MinLen || len(s) > base58MaxLen {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}
