// internal/infra/retry/retry.go
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Notify は失敗した試行ごとに呼ばれます（最終試行の失敗では呼ばれません）。
// attempt は 1 始まり、wait は次の試行までの待機時間です。
type Notify func(attempt int, err error, wait time.Duration)

type options struct {
	notify Notify
	timer  backoff.Timer
}

// Option は Do の挙動を調整します。
type Option func(*options)

// WithNotify は失敗時のフックを設定します（ログ出力用）。
func WithNotify(fn Notify) Option {
	return func(o *options) { o.notify = fn }
}

// withTimer はテスト用に待機タイマーを差し替えます。
func withTimer(t backoff.Timer) Option {
	return func(o *options) { o.timer = t }
}

// Permanent は op がこれ以上リトライすべきでないエラーを返すときに使います。
// Do はラップ前の err をそのまま返します。
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do は op を最大 maxAttempts 回まで実行します。
//
//   - 成功した時点で即座に値を返す
//   - k 回目の失敗後は k × base だけ待ってから次の試行へ
//   - すべて失敗したら最後のエラーを返す
//
// maxAttempts が 1 未満の場合は 1 回だけ実行します。
func Do[T any](
	ctx context.Context,
	maxAttempts int,
	base time.Duration,
	op func(ctx context.Context) (T, error),
	opts ...Option,
) (T, error) {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{base: base}, uint64(maxAttempts-1)),
		ctx,
	)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		return op(ctx)
	}

	var notify backoff.Notify
	if o.notify != nil {
		notify = func(err error, wait time.Duration) {
			o.notify(attempt, err, wait)
		}
	}

	return backoff.RetryNotifyWithTimerAndData(operation, b, notify, o.timer)
}

// linearBackOff は attempt × base を返す backoff.BackOff 実装です。
type linearBackOff struct {
	base    time.Duration
	attempt int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.base
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}
