package service

import (
	"math"

	"wealth-signals/internal/signals/dto"
	"wealth-signals/internal/signals/repository"
)

const (
	tradingDaysPerYear = 252
	rsiPeriod          = 14
	smaShortWindow     = 50
	smaLongWindow      = 200
)

// CalculateIndicators computes the technical indicators of series. Identity and
// fundamentals are left for the caller to fill in.
func CalculateIndicators(series dto.PriceSeries) (dto.IndicatorSet, error) {
	if len(series.Bars) == 0 {
		return dto.IndicatorSet{}, repository.ErrInsufficientData
	}

	closes := series.Closes()
	return dto.IndicatorSet{
		Ticker:             series.Ticker,
		CurrentPrice:       closes[len(closes)-1],
		RSI:                relativeStrengthIndex(closes, rsiPeriod),
		SMA50:              simpleMovingAverage(closes, smaShortWindow),
		SMA200:             simpleMovingAverage(closes, smaLongWindow),
		Volatility:         annualizedVolatility(closes),
		TrendSlope:         normalizedTrendSlope(closes),
		PositionIn52WRange: rangePosition(series.Bars),
	}, nil
}

// dailyReturns returns the simple percent change between consecutive closes.
// A zero previous close yields no return for that day.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}

// annualizedVolatility is the sample standard deviation of daily returns scaled by sqrt(252).
func annualizedVolatility(closes []float64) float64 {
	returns := dailyReturns(closes)
	if len(returns) < 2 {
		return math.NaN()
	}
	mean := average(returns)
	var sumSq float64
	for _, r := range returns {
		sumSq += (r - mean) * (r - mean)
	}
	return math.Sqrt(sumSq/float64(len(returns)-1)) * math.Sqrt(tradingDaysPerYear)
}

// normalizedTrendSlope fits close = a + b*i by least squares over i = 0..n-1
// and returns b divided by the mean close.
func normalizedTrendSlope(closes []float64) float64 {
	n := len(closes)
	if n < 2 {
		return 0
	}
	meanY := average(closes)
	if meanY == 0 {
		return 0
	}
	meanX := float64(n-1) / 2
	var num, den float64
	for i, y := range closes {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return (num / den) / meanY
}

// rangePosition places the latest close within the high/low range of bars.
func rangePosition(bars []dto.PriceBar) float64 {
	high, low := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	if high-low == 0 {
		return 0.5
	}
	return (bars[len(bars)-1].Close - low) / (high - low)
}

// relativeStrengthIndex uses simple rolling means of gains and losses over the
// last period deltas. It is NaN with fewer than period+1 closes and 100 when
// the window has no losses.
func relativeStrengthIndex(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return math.NaN()
	}
	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}

// simpleMovingAverage is the mean of the last window closes, NaN when the history is shorter.
func simpleMovingAverage(closes []float64, window int) float64 {
	if len(closes) < window {
		return math.NaN()
	}
	return average(closes[len(closes)-window:])
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
