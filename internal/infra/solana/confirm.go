// internal/infra/solana/confirm.go
package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/types"
	"go.uber.org/zap"

	"narratives-nft/internal/infra/retry"
)

var ErrTransactionNotConfirmed = errors.New("transaction not confirmed")

// commitment の強さ（processed < confirmed < finalized）
var commitmentRank = map[string]int{
	"processed": 1,
	"confirmed": 2,
	"finalized": 3,
}

func commitmentReached(got, want string) bool {
	return commitmentRank[got] > 0 && commitmentRank[got] >= commitmentRank[want]
}

// sendAndConfirm は最新 blockhash で tx を組み立てて送信し、confirmed になるまで待ちます。
// signers には fee payer（= wallet）を必ず含めてください。
func (g *Gateway) sendAndConfirm(ctx context.Context, ixs []types.Instruction, signers []types.Account) (string, error) {
	blockhash, err := g.chain.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Signers: signers,
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        g.wallet.PublicKey,
			RecentBlockhash: blockhash,
			Instructions:    ixs,
		}),
	})
	if err != nil {
		return "", wrapChain("NewTransaction", err)
	}

	sig, err := g.chain.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}
	g.log.Debug("transaction sent", zap.String("signature", sig))

	if err := g.confirm(ctx, sig); err != nil {
		return sig, err
	}
	g.log.Info("transaction confirmed", zap.String("signature", sig))
	return sig, nil
}

// confirm は signature が confirmed 以上になるまでポーリングします。
// チェーン上で失敗した tx はリトライしません。
func (g *Gateway) confirm(ctx context.Context, sig string) error {
	_, err := retry.Do(ctx, g.confirmAttempts, g.confirmBase,
		func(ctx context.Context) (struct{}, error) {
			st, err := g.chain.SignatureStatus(ctx, sig)
			if err != nil {
				return struct{}{}, err
			}
			if st.Failed {
				return struct{}{}, retry.Permanent(&ChainError{
					Op:  "ConfirmTransaction",
					Err: fmt.Errorf("transaction %s failed: %s", sig, st.FailureDetail),
				})
			}
			if !st.Found || !commitmentReached(st.ConfirmationStatus, "confirmed") {
				return struct{}{}, fmt.Errorf("%w: %s (status=%q)", ErrTransactionNotConfirmed, sig, st.ConfirmationStatus)
			}
			return struct{}{}, nil
		},
		retry.WithNotify(func(attempt int, err error, wait time.Duration) {
			g.log.Debug("waiting for confirmation",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}),
	)
	return err
}

func toDetail(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
