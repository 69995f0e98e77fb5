// internal/infra/solana/digital_asset.go
package solana

import (
	"context"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/token"

	assetdom "narratives-nft/internal/domain/asset"
)

// Metaplex の Key enum のうち master edition を表す値
const (
	keyMasterEditionV1 byte = 2
	keyMasterEditionV2 byte = 6
)

// decoders はアカウントデータのデコード処理です（テストで差し替え可能）。
type decoders struct {
	mint     func(data []byte) (token.MintAccount, error)
	metadata func(data []byte) (token_metadata.Metadata, error)
}

func sdkDecoders() decoders {
	return decoders{
		mint:     token.MintAccountFromData,
		metadata: token_metadata.MetadataDeserialize,
	}
}

// FetchDigitalAsset は mint / metadata / edition の 3 アカウントを読み取ります。
// mint か metadata がまだ見えない場合は asset.ErrNotFound を返します（ミント直後はリトライ前提）。
func (g *Gateway) FetchDigitalAsset(ctx context.Context, mint string) (assetdom.DigitalAsset, error) {
	mint = strings.TrimSpace(mint)
	if !assetdom.IsValidAddress(mint) {
		return assetdom.DigitalAsset{}, assetdom.ErrInvalidAddress
	}
	mintPK := common.PublicKeyFromString(mint)

	// 1) mint
	mintInfo, err := g.chain.AccountInfo(ctx, mint)
	if err != nil {
		return assetdom.DigitalAsset{}, err
	}
	if !mintInfo.Exists() {
		return assetdom.DigitalAsset{}, fmt.Errorf("%w: mint account %s", assetdom.ErrNotFound, mint)
	}
	if mintInfo.Owner != common.TokenProgramID {
		return assetdom.DigitalAsset{}, fmt.Errorf("%w: %s is not owned by the token program (owner=%s)",
			assetdom.ErrNotFound, mint, mintInfo.Owner.ToBase58())
	}
	mintAcc, err := g.decode.mint(mintInfo.Data)
	if err != nil {
		return assetdom.DigitalAsset{}, wrapChain("MintAccountFromData", err)
	}

	// 2) metadata PDA
	metadataPK, err := token_metadata.GetTokenMetaPubkey(mintPK)
	if err != nil {
		return assetdom.DigitalAsset{}, wrapChain("GetTokenMetaPubkey", err)
	}
	metaInfo, err := g.chain.AccountInfo(ctx, metadataPK.ToBase58())
	if err != nil {
		return assetdom.DigitalAsset{}, err
	}
	if !metaInfo.Exists() {
		return assetdom.DigitalAsset{}, fmt.Errorf("%w: metadata account %s", assetdom.ErrNotFound, metadataPK.ToBase58())
	}
	md, err := g.decode.metadata(metaInfo.Data)
	if err != nil {
		return assetdom.DigitalAsset{}, wrapChain("MetadataDeserialize", err)
	}

	out := assetdom.DigitalAsset{
		Mint:     toMint(mint, mintAcc),
		Metadata: toMetadata(metadataPK.ToBase58(), md),
	}

	// 3) edition PDA（任意）
	editionPK, err := token_metadata.GetMasterEdition(mintPK)
	if err != nil {
		return assetdom.DigitalAsset{}, wrapChain("GetMasterEdition", err)
	}
	edInfo, err := g.chain.AccountInfo(ctx, editionPK.ToBase58())
	if err != nil {
		return assetdom.DigitalAsset{}, err
	}
	if edInfo.Exists() && len(edInfo.Data) > 0 {
		key := edInfo.Data[0]
		out.Edition = &assetdom.Edition{
			Address:    editionPK.ToBase58(),
			IsOriginal: key == keyMasterEditionV1 || key == keyMasterEditionV2,
		}
	}

	return out, nil
}

func toMint(addr string, m token.MintAccount) assetdom.Mint {
	out := assetdom.Mint{
		Address:  addr,
		Supply:   m.Supply,
		Decimals: m.Decimals,
	}
	if m.MintAuthority != nil {
		out.MintAuthority = m.MintAuthority.ToBase58()
	}
	if m.FreezeAuthority != nil {
		out.FreezeAuthority = m.FreezeAuthority.ToBase58()
	}
	return out
}

// toMetadata は固定長パディング（\x00）を落として domain の Metadata に変換します。
func toMetadata(addr string, md token_metadata.Metadata) assetdom.Metadata {
	out := assetdom.Metadata{
		Address:              addr,
		UpdateAuthority:      md.UpdateAuthority.ToBase58(),
		Name:                 trimPadding(md.Data.Name),
		Symbol:               trimPadding(md.Data.Symbol),
		URI:                  trimPadding(md.Data.Uri),
		SellerFeeBasisPoints: md.Data.SellerFeeBasisPoints,
		PrimarySaleHappened:  md.PrimarySaleHappened,
		IsMutable:            md.IsMutable,
	}
	if md.Collection != nil {
		out.Collection = &assetdom.CollectionRef{
			Key:      md.Collection.Key.ToBase58(),
			Verified: md.Collection.Verified,
		}
	}
	return out
}

func trimPadding(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
