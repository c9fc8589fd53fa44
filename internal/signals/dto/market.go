package dto

import (
	"math"
	"time"
)

// PriceBar is one daily OHLCV observation.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is the ordered daily history of one ticker, oldest first.
type PriceSeries struct {
	Ticker string     `json:"ticker"`
	Bars   []PriceBar `json:"bars"`
}

// Closes returns the closing prices of the series.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Metadata is a flattened snapshot of the provider's company and fundamentals
// fields. Keys may be missing; use the typed lookups to get defaults.
type Metadata map[string]interface{}

// Float returns the numeric value stored at key, or def when it is absent or not numeric.
func (m Metadata) Float(key string, def float64) float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

// String returns the non-empty string stored at key, or def.
func (m Metadata) String(key, def string) string {
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return def
}

// NewsItem is one recent headline. Summary, Publisher and Link are optional.
type NewsItem struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary,omitempty"`
	Publisher   string     `json:"publisher,omitempty"`
	Link        string     `json:"link,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
