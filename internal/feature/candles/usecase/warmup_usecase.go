package usecase

import (
	"context"
	"log/slog"

	"stock_dashboard/internal/feature/candles/domain/entity"
	"stock_dashboard/internal/shared/ratelimiter"
)

// warmupPeriods はキャッシュを事前に温める期間のリストです。
var warmupPeriods = []string{WatchlistPeriod, DefaultPeriod}

// CandlesGetter は正規化済みテーブルを取得するインターフェースです。
type CandlesGetter interface {
	GetCandles(ctx context.Context, symbol, period string) (entity.CanonicalTable, error)
}

// WarmupResult は1回のウォームアップの集計です。
type WarmupResult struct {
	Succeeded int
	Failed    int
}

// WarmupUsecase はウォッチリスト銘柄の系列を取得してキャッシュを温めます。
type WarmupUsecase struct {
	candles     CandlesGetter
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewWarmupUsecase は新しい WarmupUsecase を作成します。
func NewWarmupUsecase(candles CandlesGetter, rateLimiter ratelimiter.RateLimiterInterface) *WarmupUsecase {
	return &WarmupUsecase{candles: candles, rateLimiter: rateLimiter}
}

// WarmAll は全銘柄・全期間の系列を順番に取得します。
// APIのレートリミットを考慮して、リクエスト間に待機時間を設けます。
// 1銘柄の失敗は他の銘柄に影響しません。
func (wu *WarmupUsecase) WarmAll(ctx context.Context, symbols []string) (WarmupResult, error) {
	var res WarmupResult
	for _, s := range symbols {
		for _, period := range warmupPeriods {
			if err := wu.rateLimiter.Wait(ctx); err != nil {
				return res, err
			}
			if _, err := wu.candles.GetCandles(ctx, s, period); err != nil {
				// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の処理を続ける
				slog.Error("failed to warm series", "symbol", s, "period", period, "error", err)
				res.Failed++
				continue
			}
			res.Succeeded++
		}
	}
	slog.Info("cache warmup finished", "symbols", len(symbols), "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}
