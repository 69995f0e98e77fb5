// internal/platform/di/container.go
package di

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	mintapp "narratives-nft/internal/application/mint"
	assetdom "narratives-nft/internal/domain/asset"
	arweaveinfra "narratives-nft/internal/infra/arweave"
	appcfg "narratives-nft/internal/infra/config"
	"narratives-nft/internal/infra/database"
	firestoreinfra "narratives-nft/internal/infra/firestore"
	gcsinfra "narratives-nft/internal/infra/gcs"
	"narratives-nft/internal/infra/logger"
	solanainfra "narratives-nft/internal/infra/solana"
)

const (
	LedgerNone      = ""
	LedgerFirestore = "firestore"
	LedgerPostgres  = "postgres"
)

// Overrides はコマンドラインフラグで上書きする設定です（空なら環境変数のまま）。
type Overrides struct {
	Network      string
	RPCURL       string
	KeypairPath  string
	WalletSecret string
	LogLevel     string
}

// Container は 1 コマンド実行分の依存関係を保持します。
// Close で外部クライアントをまとめて閉じます。
type Container struct {
	Config *appcfg.Config
	Log    *zap.Logger

	Wallet  types.Account
	RPCURL  string
	Gateway *solanainfra.Gateway
	Usecase *mintapp.Usecase

	closers []func() error
}

// NewContainer は設定を読み、wallet / RPC / ledger / uploader を組み立てます。
// ledger と uploader は設定されていなければ使いません。
func NewContainer(ctx context.Context, ov Overrides) (*Container, error) {
	cfg := appcfg.Load()
	applyOverrides(cfg, ov)

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, Log: log}
	c.closers = append(c.closers, func() error {
		_ = log.Sync()
		return nil
	})

	ok := false
	defer func() {
		if !ok {
			_ = c.Close()
		}
	}()

	// 1) RPC endpoint
	c.RPCURL, err = resolveRPCURL(cfg)
	if err != nil {
		return nil, err
	}

	// 2) wallet
	c.Wallet, err = c.loadWallet(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("wallet loaded",
		zap.String("wallet", c.Wallet.PublicKey.ToBase58()),
		zap.String("rpc", c.RPCURL),
	)

	// 3) gateway
	c.Gateway = solanainfra.NewGateway(solanainfra.NewRPCChain(c.RPCURL), c.Wallet, cfg.Network, log)

	// 4) ledger
	ledger, err := c.newLedger(ctx)
	if err != nil {
		return nil, err
	}

	c.Usecase = mintapp.NewUsecase(c.Gateway, ledger, mintapp.DefaultPolicy(), log)
	c.Usecase.SetReader(solanainfra.NewOnchainWalletReader(c.RPCURL))

	// 5) metadata uploader（任意）
	up, err := c.newUploader(ctx)
	if err != nil {
		return nil, err
	}
	if up != nil {
		c.Usecase.SetUploader(up)
	}

	ok = true
	return c, nil
}

// Close は逆順にクライアントを閉じます。
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func applyOverrides(cfg *appcfg.Config, ov Overrides) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&cfg.Network, ov.Network)
	set(&cfg.RPCURL, ov.RPCURL)
	set(&cfg.KeypairPath, ov.KeypairPath)
	set(&cfg.WalletSecret, ov.WalletSecret)
	set(&cfg.LogLevel, ov.LogLevel)
}

func resolveRPCURL(cfg *appcfg.Config) (string, error) {
	if u := strings.TrimSpace(cfg.RPCURL); u != "" {
		return u, nil
	}
	return solanainfra.ClusterURL(cfg.Network)
}

func clientOptions(cfg *appcfg.Config) []option.ClientOption {
	if f := cfg.CredentialsFile(); f != "" {
		return []option.ClientOption{option.WithCredentialsFile(f)}
	}
	return nil
}

// loadWallet: SOLANA_WALLET_SECRET があれば Secret Manager、なければローカルの keypair ファイル
func (c *Container) loadWallet(ctx context.Context) (types.Account, error) {
	cfg := c.Config
	if secret := strings.TrimSpace(cfg.WalletSecret); secret != "" {
		sm, err := solanainfra.NewWalletSecretProviderSM(ctx, clientOptions(cfg)...)
		if err != nil {
			return types.Account{}, err
		}
		defer sm.Close()

		c.Log.Debug("loading wallet from secret manager", zap.String("secret", secret))
		return sm.LoadWallet(ctx, secret)
	}

	path := strings.TrimSpace(cfg.KeypairPath)
	if path == "" {
		path = solanainfra.DefaultKeypairPath()
	}
	c.Log.Debug("loading wallet from file", zap.String("path", path))
	return solanainfra.LoadKeypairFile(path)
}

func (c *Container) newLedger(ctx context.Context) (assetdom.LedgerRepository, error) {
	cfg := c.Config
	switch cfg.LedgerBackend {
	case LedgerNone:
		c.Log.Debug("ledger disabled (LEDGER_BACKEND empty)")
		return database.NopLedger{}, nil

	case LedgerFirestore:
		fs, err := firestoreinfra.NewClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile(), c.Log)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, fs.Close)
		return firestoreinfra.NewLedgerRepositoryFS(fs.Client), nil

	case LedgerPostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		repo := database.NewLedgerRepositoryPG(db.Client)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure nft_mints schema: %w", err)
		}
		c.Log.Info("postgres ledger ready")
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown LEDGER_BACKEND %q (want firestore / postgres / empty)", cfg.LedgerBackend)
	}
}

// newUploader: ARWEAVE_BASE_URL → METADATA_BUCKET の順で選び、どちらもなければ nil
func (c *Container) newUploader(ctx context.Context) (assetdom.MetadataUploader, error) {
	cfg := c.Config
	if strings.TrimSpace(cfg.ArweaveBaseURL) != "" {
		c.Log.Debug("arweave uploader initialized", zap.String("baseURL", cfg.ArweaveBaseURL))
		return arweaveinfra.NewHTTPUploader(cfg.ArweaveBaseURL, cfg.ArweaveAPIKey, c.Log), nil
	}
	if strings.TrimSpace(cfg.MetadataBucket) != "" {
		client, err := storage.NewClient(ctx, clientOptions(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("storage.NewClient failed: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		c.Log.Debug("gcs uploader initialized", zap.String("bucket", cfg.MetadataBucket))
		return gcsinfra.NewMetadataUploader(client, cfg.MetadataBucket, c.Log), nil
	}
	return nil, nil
}
