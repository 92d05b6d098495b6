package handler

import (
	"github.com/dustin/go-humanize"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/dashboard/domain/entity"
)

const (
	priceFormat  = "#,###.##"
	changeFormat = "+#,###.##"
)

// formatPrice renders v with thousands separators and two decimals, e.g. "1,650,000.00".
func formatPrice(v float64) string {
	return humanize.FormatFloat(priceFormat, v)
}

func formatPercent(v float64) string {
	return humanize.FormatFloat(priceFormat, v) + "%"
}

func metricsDisplay(m entity.MetricsRecord) api.MetricsDisplay {
	return api.MetricsDisplay{
		LastClose:      formatPrice(m.LastClose),
		AbsoluteChange: formatPrice(m.AbsoluteChange),
		PercentChange:  formatPercent(m.PercentChange),
		PeriodHigh:     formatPrice(m.PeriodHigh),
		PeriodLow:      formatPrice(m.PeriodLow),
		TotalVolume:    humanize.Comma(m.TotalVolume),
	}
}

func convertedDisplay(c entity.ConvertedMetrics, m entity.MetricsRecord) api.MetricsDisplay {
	return api.MetricsDisplay{
		LastClose:      formatPrice(c.LastClose),
		AbsoluteChange: formatPrice(c.AbsoluteChange),
		PercentChange:  formatPercent(m.PercentChange),
		PeriodHigh:     formatPrice(c.PeriodHigh),
		PeriodLow:      formatPrice(c.PeriodLow),
		TotalVolume:    humanize.Comma(m.TotalVolume),
	}
}

// quoteDisplay is the one-line watchlist summary, e.g. "189.25 (+1.20%)".
func quoteDisplay(q entity.Quote) string {
	return formatPrice(q.Last) + " (" + humanize.FormatFloat(changeFormat, q.PercentChange) + "%)"
}
