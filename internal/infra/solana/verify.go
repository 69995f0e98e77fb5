// internal/infra/solana/verify.go
package solana

import (
	"context"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
)

// Token Metadata の Verify 命令（discriminator 52）と VerificationArgs::CollectionV1
const (
	instructionVerify        uint8 = 52
	verificationCollectionV1 uint8 = 1
)

var sysvarInstructionsPubkey = common.PublicKeyFromString("Sysvar1nstructions1111111111111111111111111")

type verifyInstructionData struct {
	Instruction      uint8
	VerificationArgs uint8
}

// VerifyCollection は wallet をコレクション authority として nftMint を collectionMint の
// 検証済みメンバーにします。tx が confirmed になるまで待ってシグネチャを返します。
func (g *Gateway) VerifyCollection(ctx context.Context, nftMint, collectionMint string) (string, error) {
	nftMint = strings.TrimSpace(nftMint)
	collectionMint = strings.TrimSpace(collectionMint)
	if !assetdom.IsValidAddress(nftMint) || !assetdom.IsValidAddress(collectionMint) {
		return "", assetdom.ErrInvalidAddress
	}

	ix, err := buildVerifyCollectionV1Instruction(
		g.wallet.PublicKey,
		common.PublicKeyFromString(nftMint),
		common.PublicKeyFromString(collectionMint),
	)
	if err != nil {
		return "", err
	}

	g.log.Info("verifying collection membership",
		zap.String("nft", nftMint),
		zap.String("collection", collectionMint),
	)
	return g.sendAndConfirm(ctx, []types.Instruction{ix}, []types.Account{g.wallet})
}

// buildVerifyCollectionV1Instruction は verifyCollectionV1 と同じアカウント並びを作ります。
// 省略可能なアカウント（delegate record）は program ID で埋めます。
func buildVerifyCollectionV1Instruction(authority, nftMint, collectionMint common.PublicKey) (types.Instruction, error) {
	metadata, err := token_metadata.GetTokenMetaPubkey(nftMint)
	if err != nil {
		return types.Instruction{}, wrapChain("GetTokenMetaPubkey", err)
	}
	collectionMetadata, err := token_metadata.GetTokenMetaPubkey(collectionMint)
	if err != nil {
		return types.Instruction{}, wrapChain("GetTokenMetaPubkey", err)
	}
	collectionEdition, err := token_metadata.GetMasterEdition(collectionMint)
	if err != nil {
		return types.Instruction{}, wrapChain("GetMasterEdition", err)
	}

	data, err := borsh.Serialize(verifyInstructionData{
		Instruction:      instructionVerify,
		VerificationArgs: verificationCollectionV1,
	})
	if err != nil {
		return types.Instruction{}, wrapChain("borsh.Serialize", err)
	}

	return types.Instruction{
		ProgramID: common.MetaplexTokenMetaProgramID,
		Accounts: []types.AccountMeta{
			{PubKey: authority, IsSigner: true, IsWritable: false},
			{PubKey: common.MetaplexTokenMetaProgramID, IsSigner: false, IsWritable: false}, // delegate record (none)
			{PubKey: metadata, IsSigner: false, IsWritable: true},
			{PubKey: collectionMint, IsSigner: false, IsWritable: false},
			{PubKey: collectionMetadata, IsSigner: false, IsWritable: true},
			{PubKey: collectionEdition, IsSigner: false, IsWritable: false},
			{PubKey: common.SystemProgramID, IsSigner: false, IsWritable: false},
			{PubKey: sysvarInstructionsPubkey, IsSigner: false, IsWritable: false},
		},
		Data: data,
	}, nil
}
