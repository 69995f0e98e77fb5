// internal/infra/solana/airdrop.go
package solana

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// LamportsPerSOL は 1 SOL あたりの lamports です。
const LamportsPerSOL uint64 = 1_000_000_000

// AirdropIfRequired は残高が minBalance 未満のときだけ amount を faucet に要求し、
// 着金（confirmed）を待ってから最新残高を返します。
func (g *Gateway) AirdropIfRequired(ctx context.Context, amount, minBalance uint64) (uint64, error) {
	addr := g.Identity()

	balance, err := g.chain.GetBalance(ctx, addr)
	if err != nil {
		return 0, err
	}
	if balance >= minBalance {
		g.log.Debug("airdrop not required",
			zap.String("wallet", addr),
			zap.String("balance", FormatSOL(balance)),
		)
		return balance, nil
	}

	g.log.Info("requesting airdrop",
		zap.String("wallet", addr),
		zap.String("balance", FormatSOL(balance)),
		zap.String("amount", FormatSOL(amount)),
	)

	sig, err := g.chain.RequestAirdrop(ctx, addr, amount)
	if err != nil {
		return 0, err
	}
	if err := g.confirm(ctx, sig); err != nil {
		return 0, fmt.Errorf("airdrop %s: %w", sig, err)
	}

	return g.chain.GetBalance(ctx, addr)
}

// FormatSOL は lamports を "1.5 SOL" 形式にします。
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	if frac == 0 {
		return fmt.Sprintf("%d SOL", whole)
	}
	s := fmt.Sprintf("%d.%09d", whole, frac)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s + " SOL"
}
