package repository

import (
	"math"
	"strings"
	"testing"

	"wealth-signals/internal/signals/dto"

	"github.com/stretchr/testify/assert"
)

func TestBuildSignalPrompt(t *testing.T) {
	indicators := dto.IndicatorSet{
		Ticker:             "INFY",
		LongName:           "Infosys Limited",
		CurrentPrice:       1500.5,
		RSI:                28.4,
		SMA50:              1490,
		SMA200:             math.NaN(),
		PositionIn52WRange: 0.1,
		Fundamentals:       map[string]float64{"trailingPE": 24.1},
	}

	prompt := BuildSignalPrompt("INFY", "NSE", indicators, "- Infosys wins deal: Reuters")

	assert.Contains(t, prompt, "For the stock INFY (NSE)")
	assert.Contains(t, prompt, `"RSI": 28.4`)
	assert.Contains(t, prompt, `"sma_200": null`)
	assert.Contains(t, prompt, `"trailingPE": 24.1`)
	assert.Contains(t, prompt, "- Infosys wins deal: Reuters")
	assert.Contains(t, prompt, `"action": "BUY|SELL|WATCH"`)
	assert.Contains(t, prompt, "lower 10% of 52-week range")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(prompt), "Now provide the JSON only."))
}

func TestBuildStrictSignalPrompt(t *testing.T) {
	strict := BuildStrictSignalPrompt("base prompt")

	assert.True(t, strings.HasPrefix(strict, "base prompt\n\nIMPORTANT: Respond ONLY with a single JSON object"))
	assert.Contains(t, strict, `"confidence": <0-1 float>`)
}
