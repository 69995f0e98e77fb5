// internal/infra/solana/chain.go
package solana

import (
	"context"
	"errors"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
)

// readCommitment は残高・アカウントの読み取りに使う commitment です。
// confirm が待つ水準と揃えないと、書き込み直後の読み取りが古い状態を返します。
const readCommitment = rpc.CommitmentConfirmed

// ChainError は SDK / RPC 呼び出しが返したエラーを包みます。
// 呼び出し側は errors.As で「ライブラリ由来のエラー」かどうかを判別できます。
type ChainError struct {
	Op  string
	Err error
}

func (e *ChainError) Error() string {
	if e == nil || e.Err == nil {
		return "solana: <nil>"
	}
	return "solana " + e.Op + ": " + e.Err.Error()
}

func (e *ChainError) Unwrap() error { return e.Err }

// IsChainError は err の連鎖に *ChainError が含まれるかを返します。
func IsChainError(err error) bool {
	var ce *ChainError
	return errors.As(err, &ce)
}

func wrapChain(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ChainError{Op: op, Err: err}
}

// AccountInfo は getAccountInfo の結果です。Owner がゼロ値ならアカウントは存在しません。
type AccountInfo struct {
	Owner    common.PublicKey
	Lamports uint64
	Data     []byte
}

func (a AccountInfo) Exists() bool {
	return a.Owner != (common.PublicKey{})
}

// SignatureStatus は getSignatureStatuses の 1 件分です。
type SignatureStatus struct {
	Found              bool
	ConfirmationStatus string // processed / confirmed / finalized
	Failed             bool
	FailureDetail      string
}

// Chain は Gateway が必要とする RPC 呼び出しの最小集合です。
// 本番では blocto の client.Client を包んだ rpcChain、テストでは fake を使います。
type Chain interface {
	GetBalance(ctx context.Context, base58Addr string) (uint64, error)
	RequestAirdrop(ctx context.Context, base58Addr string, lamports uint64) (string, error)
	LatestBlockhash(ctx context.Context) (string, error)
	MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)
	SignatureStatus(ctx context.Context, signature string) (SignatureStatus, error)
	AccountInfo(ctx context.Context, base58Addr string) (AccountInfo, error)
}

type rpcChain struct {
	c *client.Client
}

// NewRPCChain は endpoint に接続する Chain を返します。
func NewRPCChain(endpoint string) Chain {
	return &rpcChain{c: client.NewClient(strings.TrimSpace(endpoint))}
}

func (r *rpcChain) GetBalance(ctx context.Context, base58Addr string) (uint64, error) {
	v, err := r.c.GetBalanceWithConfig(ctx, base58Addr, client.GetBalanceConfig{
		Commitment: readCommitment,
	})
	return v, wrapChain("GetBalance", err)
}

func (r *rpcChain) RequestAirdrop(ctx context.Context, base58Addr string, lamports uint64) (string, error) {
	sig, err := r.c.RequestAirdrop(ctx, base58Addr, lamports)
	return sig, wrapChain("RequestAirdrop", err)
}

func (r *rpcChain) LatestBlockhash(ctx context.Context) (string, error) {
	recent, err := r.c.GetLatestBlockhash(ctx)
	if err != nil {
		return "", wrapChain("GetLatestBlockhash", err)
	}
	return recent.Blockhash, nil
}

func (r *rpcChain) MinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	v, err := r.c.GetMinimumBalanceForRentExemption(ctx, dataLen)
	return v, wrapChain("GetMinimumBalanceForRentExemption", err)
}

func (r *rpcChain) SendTransaction(ctx context.Context, tx types.Transaction) (string, error) {
	sig, err := r.c.SendTransaction(ctx, tx)
	return sig, wrapChain("SendTransaction", err)
}

func (r *rpcChain) SignatureStatus(ctx context.Context, signature string) (SignatureStatus, error) {
	st, err := r.c.GetSignatureStatus(ctx, signature)
	if err != nil {
		return SignatureStatus{}, wrapChain("GetSignatureStatus", err)
	}
	if st == nil {
		return SignatureStatus{}, nil
	}

	out := SignatureStatus{Found: true}
	if st.ConfirmationStatus != nil {
		out.ConfirmationStatus = string(*st.ConfirmationStatus)
	}
	if st.Err != nil {
		out.Failed = true
		out.FailureDetail = toDetail(st.Err)
	}
	return out, nil
}

func (r *rpcChain) AccountInfo(ctx context.Context, base58Addr string) (AccountInfo, error) {
	info, err := r.c.GetAccountInfoWithConfig(ctx, base58Addr, client.GetAccountInfoConfig{
		Commitment: readCommitment,
	})
	if err != nil {
		return AccountInfo{}, wrapChain("GetAccountInfo", err)
	}
	return AccountInfo{
		Owner:    info.Owner,
		Lamports: info.Lamports,
		Data:     info.Data,
	}, nil
}
