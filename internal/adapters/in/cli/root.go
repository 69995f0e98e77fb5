// internal/adapters/in/cli/root.go
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mintapp "narratives-nft/internal/application/mint"
	solanainfra "narratives-nft/internal/infra/solana"
	"narratives-nft/internal/platform/di"
)

// 既定値（フラグで上書き可能）
const (
	DefaultName   = "Yochi"
	DefaultSymbol = "YCH"
	DefaultURI    = "https://coral-hollow-tahr-556.mypinata.cloud/ipfs/bafkreigfbtk4ai7tur2evedh6h4gifqexe7qkv622ulref76vtsqng74om"

	DefaultCollectionMint = "4WNs33R39LknmsPMUFQXyQcVNDvRXNpwhzvGZPJE8U7h"
	DefaultNFTMint        = "4zd9esYcgAzAh49Gt836U3Bfak8pbAbLAuLAhKrMErtw"
)

// mintService は mint.Usecase のうちコマンドが使うメソッドです。
type mintService interface {
	CreateCollection(ctx context.Context, req mintapp.CreateRequest) (mintapp.Result, error)
	CreateNFT(ctx context.Context, req mintapp.CreateRequest) (mintapp.Result, error)
	VerifyNFT(ctx context.Context, nftMint, collectionMint string) (mintapp.Result, error)
	ListNFTs(ctx context.Context, owner string) ([]string, error)
}

type session struct {
	svc   mintService
	log   *zap.Logger
	close func() error
}

// openSession はテストで差し替えます。
var openSession = func(ctx context.Context, ov di.Overrides) (*session, error) {
	c, err := di.NewContainer(ctx, ov)
	if err != nil {
		return nil, err
	}
	c.Log.Info("Set up client for wallet",
		zap.String("wallet", c.Gateway.Identity()),
		zap.String("cluster", c.Gateway.Cluster()),
	)
	return &session{svc: c.Usecase, log: c.Log, close: c.Close}, nil
}

// commonFlags はすべてのチェーン系コマンドが持つフラグです。
type commonFlags struct {
	di.Overrides
}

func (f *commonFlags) bind(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.Network, "network", "", "cluster: devnet / testnet / mainnet-beta / localnet (env SOLANA_NETWORK, default devnet)")
	pf.StringVar(&f.RPCURL, "rpc-url", "", "RPC endpoint; overrides --network (env SOLANA_RPC_URL)")
	pf.StringVar(&f.KeypairPath, "keypair", "", "wallet keypair file (env SOLANA_KEYPAIR_PATH, default ~/.config/solana/id.json)")
	pf.StringVar(&f.WalletSecret, "wallet-secret", "", "Secret Manager secret holding the wallet keypair (env SOLANA_WALLET_SECRET)")
	pf.StringVar(&f.LogLevel, "log-level", "", "debug / info / warn / error (env LOG_LEVEL)")
}

func newCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// withSession は session を開いて fn を実行し、失敗時は詳細をログに残します。
func withSession(cmd *cobra.Command, flags *commonFlags, what string, fn func(ctx context.Context, s *session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, flags.Overrides)
	if err != nil {
		return err
	}
	defer func() { _ = s.close() }()

	if err := fn(ctx, s); err != nil {
		logFailure(s.log, what, err)
		return err
	}
	return nil
}

// logFailure は SDK / RPC 由来のエラーとそれ以外を分けて記録します。
func logFailure(log *zap.Logger, what string, err error) {
	log.Error("Error "+what, zap.Error(err))
	if solanainfra.IsChainError(err) {
		log.Error("chain error details", zap.String("message", err.Error()))
		return
	}
	log.Error("error details", zap.String("message", err.Error()))
}

func printJSON(w io.Writer, label string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s %s\n", label, b)
	return err
}
