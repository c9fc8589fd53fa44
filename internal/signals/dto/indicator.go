package dto

import (
	"math"
	"time"
)

// FundamentalKeys lists the provider fields passed through to the prompt unchanged.
var FundamentalKeys = []string{
	"marketCap", "averageVolume", "beta", "52WeekChange",
	"trailingEps", "forwardEps", "priceToBook", "trailingPE",
	"profitMargins", "grossMargins", "ebitdaMargins", "returnOnEquity",
	"debtToEquity", "revenuePerShare", "earningsGrowth", "revenueGrowth",
	"dividendYield", "earningsQuarterlyGrowth",
}

// IndicatorSet holds the technical indicators computed for a ticker plus the
// passthrough fundamentals. SMA50, SMA200 and RSI are NaN when the history is
// too short; NaN means unavailable and must never be read as zero.
type IndicatorSet struct {
	Ticker             string
	LongName           string
	CurrentPrice       float64
	RSI                float64
	SMA50              float64
	SMA200             float64
	Volatility         float64
	TrendSlope         float64
	PositionIn52WRange float64
	Fundamentals       map[string]float64
	FetchedAt          time.Time
}

// Metrics renders the set as the key/value map embedded in the prompt.
// Unavailable values are rendered as nil so they encode as JSON null.
func (s IndicatorSet) Metrics() map[string]interface{} {
	m := map[string]interface{}{
		"Ticker":                s.Ticker,
		"longName":              s.LongName,
		"currentPrice":          finiteOrNil(s.CurrentPrice),
		"RSI":                   finiteOrNil(s.RSI),
		"sma_50":                finiteOrNil(s.SMA50),
		"sma_200":               finiteOrNil(s.SMA200),
		"volatility":            finiteOrNil(s.Volatility),
		"trend_slope":           finiteOrNil(s.TrendSlope),
		"position_in_52w_range": finiteOrNil(s.PositionIn52WRange),
	}
	if !s.FetchedAt.IsZero() {
		m["fetched_at"] = s.FetchedAt.UTC().Format(time.RFC3339)
	}
	for k, v := range s.Fundamentals {
		m[k] = finiteOrNil(v)
	}
	return m
}

func finiteOrNil(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
