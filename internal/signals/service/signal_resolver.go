package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"wealth-signals/internal/entity"
	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/internal/signals/repository"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/trace"

	"go.opentelemetry.io/otel/attribute"
)

const (
	heuristicConfidence = 0.3
	noReasonProvided    = "No concise reason provided."
	rsiOversold         = 30
	rsiOverbought       = 70
)

// ErrExtractionFailed is returned when a model reply carries no usable JSON object.
var ErrExtractionFailed = errors.New("no JSON object in model response")

// SignalResolver turns indicators and news of one ticker into a cached Signal.
type SignalResolver interface {
	Resolve(ctx context.Context, ticker string, indicators dto.IndicatorSet, newsText string) entity.Signal
}

type signalResolver struct {
	cfg   *config.Config
	log   *logger.Logger
	ai    repository.AIRepository
	cache repository.SignalCacheRepository
}

// NewSignalResolver creates a new SignalResolver.
func NewSignalResolver(cfg *config.Config, log *logger.Logger, ai repository.AIRepository, cache repository.SignalCacheRepository) SignalResolver {
	return &signalResolver{
		cfg:   cfg,
		log:   log,
		ai:    ai,
		cache: cache,
	}
}

// Resolve returns the cached signal when fresh. Otherwise it asks the model,
// retries once with the strict schema reminder, and falls back to the RSI
// heuristic. Every computed signal is written to the cache unless ctx is
// already done.
func (r *signalResolver) Resolve(ctx context.Context, ticker string, indicators dto.IndicatorSet, newsText string) entity.Signal {
	if cached, ok := r.cache.Get(ctx, ticker); ok {
		r.log.DebugContext(ctx, "Signal cache hit", logger.StringField("ticker", ticker))
		return cached
	}

	ctx, span := trace.StartSpan(ctx, "signal.resolve", attribute.String("ticker", ticker))
	defer span.End()

	signal := r.resolveWithModel(ctx, ticker, indicators, newsText)
	span.SetAttributes(
		attribute.String("action", string(signal.Action)),
		attribute.String("source", signal.Source),
	)

	if err := ctx.Err(); err != nil {
		// attempts on a cancelled ctx say nothing about the model
		r.log.WarnContext(ctx, "Request cancelled, signal not cached", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return signal
	}
	r.cache.Put(ctx, ticker, signal)
	return signal
}

func (r *signalResolver) resolveWithModel(ctx context.Context, ticker string, indicators dto.IndicatorSet, newsText string) entity.Signal {
	prompt := repository.BuildSignalPrompt(ticker, r.cfg.Signals.Exchange, indicators, newsText)

	parsed, err := r.attempt(ctx, prompt)
	if errors.Is(err, repository.ErrModelUnavailable) {
		r.log.WarnContext(ctx, "Language model unavailable, using heuristic", logger.StringField("ticker", ticker))
		return heuristicSignal(ticker, indicators.RSI)
	}
	if err != nil {
		r.log.WarnContext(ctx, "First model attempt failed, retrying with strict prompt", logger.StringField("ticker", ticker), logger.ErrorField(err))
		parsed, err = r.attempt(ctx, repository.BuildStrictSignalPrompt(prompt))
	}
	if err != nil {
		r.log.WarnContext(ctx, "Model did not produce a usable signal, using heuristic", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return heuristicSignal(ticker, indicators.RSI)
	}

	return normalizeSignal(ticker, parsed)
}

func (r *signalResolver) attempt(ctx context.Context, prompt string) (map[string]interface{}, error) {
	text, err := r.ai.Complete(ctx, dto.CompletionRequest{
		Prompt:      prompt,
		Temperature: r.cfg.AI.Temperature,
		MaxTokens:   r.cfg.AI.MaxTokens,
	})
	if err != nil {
		return nil, err
	}
	parsed := ExtractJSONObject(text)
	if parsed == nil {
		return nil, ErrExtractionFailed
	}
	return parsed, nil
}

// heuristicSignal classifies by RSI alone. An unavailable RSI yields WATCH.
func heuristicSignal(ticker string, rsi float64) entity.Signal {
	signal := entity.Signal{
		Ticker:     ticker,
		Action:     entity.ActionWatch,
		Reason:     "Heuristic fallback: insufficient LLM response.",
		Source:     entity.SourceHeuristic,
		Confidence: heuristicConfidence,
	}
	switch {
	case math.IsNaN(rsi):
	case rsi < rsiOversold:
		signal.Action = entity.ActionBuy
		signal.Reason = "Heuristic: RSI indicates oversold."
	case rsi > rsiOverbought:
		signal.Action = entity.ActionSell
		signal.Reason = "Heuristic: RSI indicates overbought."
	}
	return signal
}

func normalizeSignal(ticker string, parsed map[string]interface{}) entity.Signal {
	reason := strings.TrimSpace(stringValue(parsed["reason"]))
	if reason == "" {
		reason = noReasonProvided
	}
	return entity.Signal{
		Ticker:     ticker,
		Action:     entity.ParseAction(stringValue(parsed["action"])),
		Reason:     reason,
		Source:     entity.ParseSource(stringValue(parsed["source"])),
		Confidence: confidenceValue(parsed["confidence"]),
	}
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// confidenceValue accepts numbers and numeric strings, clamped to [0, 1]. Anything else is 0.
func confidenceValue(v interface{}) float64 {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
