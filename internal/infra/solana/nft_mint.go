// internal/infra/solana/nft_mint.go
package solana

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
)

// createNFTParams は CreateNFT の命令列を組み立てるための入力です。
type createNFTParams struct {
	Payer    common.PublicKey // fee payer / mint authority / update authority
	Owner    common.PublicKey // 1 枚目を受け取るウォレット
	Mint     common.PublicKey
	MintRent uint64
	Input    assetdom.CreateInput
}

// CreateNFT は新しい mint を作り、Metaplex metadata と master edition を付けて 1 枚ミントします。
// IsCollection=true ならコレクション NFT、CollectionMint があれば未検証のメンバーとして作成します。
func (g *Gateway) CreateNFT(ctx context.Context, in assetdom.CreateInput) (assetdom.CreateResult, error) {
	in, err := in.Normalize()
	if err != nil {
		return assetdom.CreateResult{}, err
	}

	feePayer := g.wallet
	owner := feePayer.PublicKey
	if in.Owner != "" {
		owner = common.PublicKeyFromString(in.Owner)
	}
	mint := types.NewAccount() // NFT 用 Mint アカウント新規作成

	mintRent, err := g.chain.MinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return assetdom.CreateResult{}, err
	}

	ixs, err := buildCreateNFTInstructions(createNFTParams{
		Payer:    feePayer.PublicKey,
		Owner:    owner,
		Mint:     mint.PublicKey,
		MintRent: mintRent,
		Input:    in,
	})
	if err != nil {
		return assetdom.CreateResult{}, err
	}

	g.log.Info("creating "+describeCreate(in),
		zap.String("mint", mint.PublicKey.ToBase58()),
		zap.String("owner", owner.ToBase58()),
	)

	sig, err := g.sendAndConfirm(ctx, ixs, []types.Account{feePayer, mint})
	if err != nil {
		return assetdom.CreateResult{Mint: mint.PublicKey.ToBase58(), Signature: sig}, err
	}

	return assetdom.CreateResult{
		Mint:      mint.PublicKey.ToBase58(),
		Signature: sig,
	}, nil
}

func buildCreateNFTInstructions(p createNFTParams) ([]types.Instruction, error) {
	// Associated Token Account
	ata, _, err := common.FindAssociatedTokenAddress(p.Owner, p.Mint)
	if err != nil {
		return nil, wrapChain("FindAssociatedTokenAddress", err)
	}

	// Metadata / MasterEdition PDA
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(p.Mint)
	if err != nil {
		return nil, wrapChain("GetTokenMetaPubkey", err)
	}
	masterEditionPubkey, err := token_metadata.GetMasterEdition(p.Mint)
	if err != nil {
		return nil, wrapChain("GetMasterEdition", err)
	}

	// MaxSupply = 0: print edition は発行不可
	maxSupply := uint64(0)

	return []types.Instruction{
		// 1) Mint アカウント作成
		system.CreateAccount(system.CreateAccountParam{
			From:     p.Payer,
			New:      p.Mint,
			Owner:    common.TokenProgramID,
			Lamports: p.MintRent,
			Space:    token.MintAccountSize,
		}),
		// 2) Mint 初期化 (decimals = 0)
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   0,
			Mint:       p.Mint,
			MintAuth:   p.Payer,
			FreezeAuth: &p.Payer,
		}),
		// 3) Metaplex Metadata アカウント作成
		token_metadata.CreateMetadataAccountV3(token_metadata.CreateMetadataAccountV3Param{
			Metadata:                metadataPubkey,
			Mint:                    p.Mint,
			MintAuthority:           p.Payer,
			UpdateAuthority:         p.Payer,
			Payer:                   p.Payer,
			UpdateAuthorityIsSigner: true,
			IsMutable:               true,
			Data:                    metadataDataV2(p.Input, p.Payer),
			CollectionDetails:       collectionDetails(p.Input),
		}),
		// 4) Owner の ATA 作成
		associated_token_account.CreateAssociatedTokenAccount(associated_token_account.CreateAssociatedTokenAccountParam{
			Funder:                 p.Payer,
			Owner:                  p.Owner,
			Mint:                   p.Mint,
			AssociatedTokenAccount: ata,
		}),
		// 5) NFT を 1 枚ミント
		token.MintTo(token.MintToParam{
			Mint:   p.Mint,
			To:     ata,
			Auth:   p.Payer,
			Amount: 1,
		}),
		// 6) MasterEdition v3 作成
		token_metadata.CreateMasterEditionV3(token_metadata.CreateMasterEditionParam{
			Edition:         masterEditionPubkey,
			Mint:            p.Mint,
			UpdateAuthority: p.Payer,
			MintAuthority:   p.Payer,
			Metadata:        metadataPubkey,
			Payer:           p.Payer,
			MaxSupply:       &maxSupply,
		}),
	}, nil
}

// metadataDataV2 は creator = wallet（verified, share 100）で DataV2 を作ります。
// CollectionMint があれば verified=false で参照を付けます（検証は verify-nft で行う）。
func metadataDataV2(in assetdom.CreateInput, creator common.PublicKey) token_metadata.DataV2 {
	data := token_metadata.DataV2{
		Name:                 in.Name,
		Symbol:               in.Symbol,
		Uri:                  in.URI,
		SellerFeeBasisPoints: in.SellerFeeBasisPoints,
		Creators: &[]token_metadata.Creator{
			{
				Address:  creator,
				Verified: true,
				Share:    100,
			},
		},
	}
	if in.CollectionMint != "" {
		data.Collection = &token_metadata.Collection{
			Verified: false,
			Key:      common.PublicKeyFromString(in.CollectionMint),
		}
	}
	return data
}

// collectionDetails: コレクション NFT は sized (V1, size 0) で作る。
// メンバーの verify ごとに size がカウントされる。
func collectionDetails(in assetdom.CreateInput) *token_metadata.CollectionDetails {
	if !in.IsCollection {
		return nil
	}
	return &token_metadata.CollectionDetails{
		V1: token_metadata.CollectionDetailsV1{Size: 0},
	}
}

// describeCreate はログ用の短い説明です。
func describeCreate(in assetdom.CreateInput) string {
	switch {
	case in.IsCollection:
		return fmt.Sprintf("collection %q", in.Name)
	case in.CollectionMint != "":
		return fmt.Sprintf("nft %q in collection %s", in.Name, in.CollectionMint)
	default:
		return fmt.Sprintf("nft %q", in.Name)
	}
}
