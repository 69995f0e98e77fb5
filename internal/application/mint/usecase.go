// internal/application/mint/usecase.go
package mint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
	"narratives-nft/internal/infra/retry"
)

const lamportsPerSOL uint64 = 1_000_000_000

var (
	ErrUploaderNotConfigured = errors.New("mint: metadata uploader not configured")
	ErrReaderNotConfigured   = errors.New("mint: wallet reader not configured")
)

// Policy はミント前後の待機・リトライ設定です。
type Policy struct {
	// 残高が MinBalance 未満なら AirdropAmount を要求する
	AirdropAmount uint64
	MinBalance    uint64

	// tx 確定後、最初の fetch までの待機
	SettleDelay time.Duration

	// fetch のリトライ: k 回目の失敗後 k × FetchBase 待つ
	FetchAttempts int
	FetchBase     time.Duration

	// VerifyNFT 後に collection.verified を読み直すか
	VerifyReadBack bool
}

func DefaultPolicy() Policy {
	return Policy{
		AirdropAmount:  1 * lamportsPerSOL,
		MinBalance:     lamportsPerSOL / 2,
		SettleDelay:    2 * time.Second,
		FetchAttempts:  5,
		FetchBase:      1 * time.Second,
		VerifyReadBack: true,
	}
}

// CreateRequest は CreateCollection / CreateNFT の入力です。
// MetadataJSON があれば uploader に置いてから、その URI で作成します。
type CreateRequest struct {
	Input        assetdom.CreateInput
	MetadataJSON []byte
}

// Result はコマンドが表示する内容です。
type Result struct {
	Asset       *assetdom.DigitalAsset
	Signature   string
	ExplorerURL string // address
	TxURL       string
	Record      assetdom.MintRecord
}

// Usecase は create-collection / create-nft / verify-nft / list-nfts の流れを持ちます。
type Usecase struct {
	chain    assetdom.ChainGateway
	uploader assetdom.MetadataUploader
	ledger   assetdom.LedgerRepository
	reader   assetdom.OwnedMintsReader

	policy Policy
	log    *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time
}

func NewUsecase(
	chain assetdom.ChainGateway,
	ledger assetdom.LedgerRepository,
	policy Policy,
	log *zap.Logger,
) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{
		chain:  chain,
		ledger: ledger,
		policy: policy,
		log:    log.Named("mint"),
		sleep:  sleepCtx,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetUploader は metadata uploader を後から差し込みます（任意依存）。
func (u *Usecase) SetUploader(up assetdom.MetadataUploader) {
	if u == nil {
		return
	}
	u.uploader = up
}

// SetReader は wallet reader を後から差し込みます（list-nfts 用）。
func (u *Usecase) SetReader(r assetdom.OwnedMintsReader) {
	if u == nil {
		return
	}
	u.reader = r
}

// ============================================================
// Create
// ============================================================

func (u *Usecase) CreateCollection(ctx context.Context, req CreateRequest) (Result, error) {
	req.Input.IsCollection = true
	return u.create(ctx, req, assetdom.KindCollection)
}

func (u *Usecase) CreateNFT(ctx context.Context, req CreateRequest) (Result, error) {
	req.Input.IsCollection = false
	return u.create(ctx, req, assetdom.KindNFT)
}

func (u *Usecase) create(ctx context.Context, req CreateRequest, kind assetdom.RecordKind) (Result, error) {
	if err := u.ensureFunds(ctx); err != nil {
		return Result{}, err
	}

	in := req.Input
	if len(req.MetadataJSON) > 0 {
		uri, err := u.uploadMetadata(ctx, req.MetadataJSON)
		if err != nil {
			return Result{}, err
		}
		in.URI = uri
	}

	u.log.Info("creating asset", zap.String("kind", string(kind)), zap.String("name", strings.TrimSpace(in.Name)))

	created, err := u.chain.CreateNFT(ctx, in)
	if err != nil {
		if created.Signature != "" {
			// 送信済みなので、確定待ちの失敗でも mint はチェーン上に残っている可能性がある
			u.log.Warn("create transaction sent but not confirmed",
				zap.String("mint", created.Mint),
				zap.String("signature", created.Signature),
				zap.String("explorer", u.chain.ExplorerLink("tx", created.Signature)),
			)
			return Result{}, fmt.Errorf("mint %s signature %s: %w", created.Mint, created.Signature, err)
		}
		return Result{}, err
	}
	u.log.Info("transaction confirmed", zap.String("signature", created.Signature))

	asset, err := u.fetchAfterWrite(ctx, created.Mint, true, nil)
	if err != nil {
		return Result{}, err
	}

	rec := u.record(ctx, assetdom.MintRecord{
		Kind:       kind,
		Mint:       created.Mint,
		Collection: strings.TrimSpace(in.CollectionMint),
		Signature:  created.Signature,
	})

	return Result{
		Asset:       &asset,
		Signature:   created.Signature,
		ExplorerURL: u.chain.ExplorerLink("address", created.Mint),
		TxURL:       u.chain.ExplorerLink("tx", created.Signature),
		Record:      rec,
	}, nil
}

// ============================================================
// Verify
// ============================================================

// VerifyNFT は nftMint を collectionMint の検証済みメンバーにします。
// Policy.VerifyReadBack なら collection.verified を読み直して確かめます。
func (u *Usecase) VerifyNFT(ctx context.Context, nftMint, collectionMint string) (Result, error) {
	nftMint = strings.TrimSpace(nftMint)
	collectionMint = strings.TrimSpace(collectionMint)
	if !assetdom.IsValidAddress(nftMint) || !assetdom.IsValidAddress(collectionMint) {
		return Result{}, assetdom.ErrInvalidAddress
	}

	if err := u.ensureFunds(ctx); err != nil {
		return Result{}, err
	}

	sig, err := u.chain.VerifyCollection(ctx, nftMint, collectionMint)
	if err != nil {
		return Result{}, err
	}
	u.log.Info("transaction confirmed", zap.String("signature", sig))

	out := Result{
		Signature:   sig,
		ExplorerURL: u.chain.ExplorerLink("address", nftMint),
		TxURL:       u.chain.ExplorerLink("tx", sig),
	}

	if u.policy.VerifyReadBack {
		// RPC ノードが verified=true を返すまで fetch と同じリトライで待つ
		asset, err := u.fetchAfterWrite(ctx, nftMint, false, func(a assetdom.DigitalAsset) error {
			if !a.IsVerifiedMemberOf(collectionMint) {
				return fmt.Errorf("%w: nft %s collection %s", assetdom.ErrNotVerified, nftMint, collectionMint)
			}
			return nil
		})
		if err != nil {
			return Result{}, err
		}
		out.Asset = &asset
	}

	out.Record = u.record(ctx, assetdom.MintRecord{
		Kind:       assetdom.KindVerify,
		Mint:       nftMint,
		Collection: collectionMint,
		Signature:  sig,
	})
	return out, nil
}

// ============================================================
// List
// ============================================================

// ListNFTs は owner（空なら wallet 自身）が保有する mint 一覧を返します。
func (u *Usecase) ListNFTs(ctx context.Context, owner string) ([]string, error) {
	if u.reader == nil {
		return nil, ErrReaderNotConfigured
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = u.chain.Identity()
	}
	return u.reader.ListOwnedTokenMints(ctx, owner)
}

// ============================================================
// helpers
// ============================================================

func (u *Usecase) ensureFunds(ctx context.Context) error {
	if u.policy.AirdropAmount == 0 {
		return nil
	}
	balance, err := u.chain.AirdropIfRequired(ctx, u.policy.AirdropAmount, u.policy.MinBalance)
	if err != nil {
		return err
	}
	u.log.Info("wallet ready",
		zap.String("wallet", u.chain.Identity()),
		zap.String("cluster", u.chain.Cluster()),
		zap.Uint64("lamports", balance),
	)
	return nil
}

func (u *Usecase) uploadMetadata(ctx context.Context, data []byte) (string, error) {
	if u.uploader == nil {
		return "", ErrUploaderNotConfigured
	}
	uri, err := u.uploader.UploadMetadata(ctx, data)
	if err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}
	return uri, nil
}

// fetchAfterWrite は書き込み直後の asset をリトライ付きで読みます。
// settle=true なら最初の fetch の前に SettleDelay 待ちます。
// accept がエラーを返した場合もその試行は失敗扱いになり、リトライされます。
func (u *Usecase) fetchAfterWrite(
	ctx context.Context,
	mint string,
	settle bool,
	accept func(assetdom.DigitalAsset) error,
) (assetdom.DigitalAsset, error) {
	if settle && u.policy.SettleDelay > 0 {
		if err := u.sleep(ctx, u.policy.SettleDelay); err != nil {
			return assetdom.DigitalAsset{}, err
		}
	}

	asset, err := retry.Do(ctx, u.policy.FetchAttempts, u.policy.FetchBase,
		func(ctx context.Context) (assetdom.DigitalAsset, error) {
			a, err := u.chain.FetchDigitalAsset(ctx, mint)
			if errors.Is(err, assetdom.ErrInvalidAddress) {
				return a, retry.Permanent(err)
			}
			if err == nil && accept != nil {
				err = accept(a)
			}
			return a, err
		},
		retry.WithNotify(func(attempt int, err error, wait time.Duration) {
			u.log.Warn(fmt.Sprintf("Attempt %d to fetch digital asset failed", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		u.log.Error("Failed to fetch digital asset after all retries", zap.String("mint", mint), zap.Error(err))
		return assetdom.DigitalAsset{}, err
	}
	return asset, nil
}

// record は ledger に 1 件残します。
func (u *Usecase) record(ctx context.Context, rec assetdom.MintRecord) assetdom.MintRecord {
	rec.Cluster = u.chain.Cluster()
	if rec.Kind == assetdom.KindVerify {
		rec.ExplorerURL = u.chain.ExplorerLink("tx", rec.Signature)
	} else {
		rec.ExplorerURL = u.chain.ExplorerLink("address", rec.Mint)
	}
	rec.CreatedAt = u.now()

	if u.ledger == nil {
		return rec
	}
	saved, err := u.ledger.Save(ctx, rec)
	if err != nil {
		// チェーン側は確定済みなので、記録失敗ではコマンドを失敗させない
		u.log.Warn("save ledger record failed",
			zap.String("kind", string(rec.Kind)),
			zap.String("mint", rec.Mint),
			zap.String("signature", rec.Signature),
			zap.Error(err),
		)
		return rec
	}
	return saved
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
