package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/pkg/logger"

	"go.uber.org/zap"
)

// quoteSummaryModules are read in order; the first module carrying a key wins.
var quoteSummaryModules = []string{"price", "summaryDetail", "defaultKeyStatistics", "financialData"}

const yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// yahooStatusError is a non-OK response from Yahoo.
type yahooStatusError struct {
	StatusCode int
	Body       string
}

func (e *yahooStatusError) Error() string {
	return fmt.Sprintf("received non-OK response from Yahoo Finance API: %d - %s", e.StatusCode, e.Body)
}

type yahooFinanceRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client

	mu    sync.Mutex
	crumb string
}

// NewYahooFinanceRepository creates a MarketDataRepository backed by the Yahoo Finance public API.
// The client keeps cookies so the quoteSummary session crumb stays valid.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	jar, _ := cookiejar.New(nil)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.YahooFinance.Timeout,
			Jar:     jar,
		},
	}
}

// GetHistory returns the daily OHLCV history of ticker, oldest bar first.
func (r *yahooFinanceRepository) GetHistory(ctx context.Context, ticker string) (dto.PriceSeries, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", r.cfg.YahooFinance.ChartURL, url.PathEscape(ticker), r.cfg.YahooFinance.HistoryRange)

	body, err := r.sendRequest(ctx, u)
	if err != nil {
		return dto.PriceSeries{}, &DataFetchError{Ticker: ticker, Op: "history", Err: err}
	}

	var chart dto.YahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return dto.PriceSeries{}, &DataFetchError{Ticker: ticker, Op: "history", Err: fmt.Errorf("decode chart: %w", err)}
	}
	if chart.Chart.Error != nil {
		return dto.PriceSeries{}, &DataFetchError{Ticker: ticker, Op: "history", Err: fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return dto.PriceSeries{}, ErrInsufficientData
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]dto.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := valueAt(quote.Close, i)
		if c == nil {
			// holidays and halted sessions come back as null bars
			continue
		}
		bar := dto.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *c,
			Open:  *c,
			High:  *c,
			Low:   *c,
		}
		if v := valueAt(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := valueAt(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := valueAt(quote.Low, i); v != nil {
			bar.Low = *v
		}
		if v := valueAt(quote.Volume, i); v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return dto.PriceSeries{}, ErrInsufficientData
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return dto.PriceSeries{Ticker: ticker, Bars: bars}, nil
}

// GetMetadata returns the company and fundamentals snapshot of ticker, flattened into one map.
func (r *yahooFinanceRepository) GetMetadata(ctx context.Context, ticker string) (dto.Metadata, error) {
	body, err := r.fetchQuoteSummary(ctx, ticker)
	var statusErr *yahooStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
		// the session crumb expired; take a new one and try once more
		r.resetCrumb()
		body, err = r.fetchQuoteSummary(ctx, ticker)
	}
	if err != nil {
		return nil, &DataFetchError{Ticker: ticker, Op: "metadata", Err: err}
	}

	var summary dto.YahooQuoteSummaryResponse
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, &DataFetchError{Ticker: ticker, Op: "metadata", Err: fmt.Errorf("decode quote summary: %w", err)}
	}
	if summary.QuoteSummary.Error != nil {
		return nil, &DataFetchError{Ticker: ticker, Op: "metadata", Err: fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)}
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return dto.Metadata{}, nil
	}

	return flattenQuoteSummary(summary.QuoteSummary.Result[0]), nil
}

func (r *yahooFinanceRepository) fetchQuoteSummary(ctx context.Context, ticker string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?modules=%s", r.cfg.YahooFinance.QuoteSummaryURL, url.PathEscape(ticker), strings.Join(quoteSummaryModules, ","))

	crumb, err := r.getCrumb(ctx)
	if err != nil {
		return nil, err
	}
	if crumb != "" {
		u += "&crumb=" + url.QueryEscape(crumb)
	}
	return r.sendRequest(ctx, u)
}

// getCrumb returns the session crumb, performing the cookie/crumb handshake
// on first use. It returns "" when no crumb URL is configured.
func (r *yahooFinanceRepository) getCrumb(ctx context.Context) (string, error) {
	if r.cfg.YahooFinance.CrumbURL == "" {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.crumb != "" {
		return r.crumb, nil
	}

	if r.cfg.YahooFinance.CookieURL != "" {
		// fc.yahoo.com answers 404 but still sets the session cookie
		if _, err := r.doRequest(ctx, r.cfg.YahooFinance.CookieURL); err != nil {
			return "", fmt.Errorf("fetch yahoo session cookie: %w", err)
		}
	}

	body, err := r.sendRequest(ctx, r.cfg.YahooFinance.CrumbURL)
	if err != nil {
		return "", fmt.Errorf("fetch yahoo crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.ContainsAny(crumb, "<{") {
		return "", fmt.Errorf("fetch yahoo crumb: unexpected body %q", crumb)
	}

	r.log.DebugContext(ctx, "Obtained Yahoo Finance crumb")
	r.crumb = crumb
	return crumb, nil
}

func (r *yahooFinanceRepository) resetCrumb() {
	r.mu.Lock()
	r.crumb = ""
	r.mu.Unlock()
}

// flattenQuoteSummary merges the quoteSummary modules into one map. Yahoo
// encodes numbers as {"raw": 1.2, "fmt": "1.20"}; only raw is kept.
func flattenQuoteSummary(result map[string]json.RawMessage) dto.Metadata {
	meta := dto.Metadata{}
	for _, module := range quoteSummaryModules {
		raw, ok := result[module]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		for key, value := range fields {
			if _, exists := meta[key]; exists {
				continue
			}
			if v, ok := decodeQuoteValue(value); ok {
				meta[key] = v
			}
		}
	}
	return meta
}

func decodeQuoteValue(value json.RawMessage) (interface{}, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return nil, false
	}
	switch value[0] {
	case '{':
		var wrapped struct {
			Raw *float64 `json:"raw"`
		}
		if err := json.Unmarshal(value, &wrapped); err != nil || wrapped.Raw == nil {
			return nil, false
		}
		return *wrapped.Raw, true
	case '"':
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return nil, false
		}
		return s, true
	default:
		var f float64
		if err := json.Unmarshal(value, &f); err != nil {
			return nil, false
		}
		return f, true
	}
}

func valueAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, u string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", u),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
		return nil, &yahooStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// doRequest issues a GET and discards the body whatever the status. It is
// used for endpoints whose only useful output is the cookies they set.
func (r *yahooFinanceRepository) doRequest(ctx context.Context, u string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
