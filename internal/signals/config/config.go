package config

import (
	"time"

	"wealth-signals/pkg/config"
)

// DefaultTickers is the NSE large-cap universe served by /signals, in response order.
var DefaultTickers = []string{
	"ASIANPAINT.NS", "AXISBANK.NS", "BAJFINANCE.NS", "BAJAJFINSV.NS", "BHARTIARTL.NS",
	"HCLTECH.NS", "HDFCBANK.NS", "HINDUNILVR.NS", "ICICIBANK.NS", "INDUSINDBK.NS",
	"INFY.NS", "ITC.NS", "JSWSTEEL.NS", "KOTAKBANK.NS", "LT.NS",
	"M&M.NS", "MARUTI.NS", "NESTLEIND.NS", "NTPC.NS", "POWERGRID.NS",
	"RELIANCE.NS", "SBIN.NS", "SUNPHARMA.NS", "TCS.NS", "TATAMOTORS.NS",
	"TATASTEEL.NS", "TECHM.NS", "TITAN.NS", "ULTRACEMCO.NS", "WIPRO.NS",
}

// Signals holds the signal pipeline configuration. CacheTTL is in seconds.
type Signals struct {
	Tickers      []string `mapstructure:"tickers"`
	TickerSuffix string   `mapstructure:"ticker_suffix"`
	Exchange     string   `mapstructure:"exchange"`
	DefaultLimit int      `mapstructure:"default_limit"`
	CacheTTL     int      `mapstructure:"cache_ttl"`
	NewsMaxItems int      `mapstructure:"news_max_items"`
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (s Signals) CacheTTLDuration() time.Duration {
	return time.Duration(s.CacheTTL) * time.Second
}

// Cache selects the SignalCache backend.
type Cache struct {
	Driver    string `mapstructure:"driver"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider    string  `mapstructure:"provider"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// Groq holds the configuration for the Groq chat completions API.
type Groq struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
// An empty CrumbURL skips the cookie/crumb handshake.
type YahooFinance struct {
	ChartURL        string        `mapstructure:"chart_url"`
	QuoteSummaryURL string        `mapstructure:"quote_summary_url"`
	CookieURL       string        `mapstructure:"cookie_url"`
	CrumbURL        string        `mapstructure:"crumb_url"`
	HistoryRange    string        `mapstructure:"history_range"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// News holds the configuration for the headline RSS feed.
type News struct {
	// FeedURL is a format string receiving the ticker symbol.
	FeedURL string        `mapstructure:"feed_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Warmup holds configuration for the periodic cache warm-up.
type Warmup struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
	Limit   int    `mapstructure:"limit"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Tracing toggles the OpenTelemetry stdout exporter.
type Tracing struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config holds the full configuration for the signal service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	API          config.API    `mapstructure:"api"`
	Redis        config.Redis  `mapstructure:"redis"`
	Signals      Signals       `mapstructure:"signals"`
	Cache        Cache         `mapstructure:"cache"`
	AI           AI            `mapstructure:"ai"`
	Groq         Groq          `mapstructure:"groq"`
	Gemini       Gemini        `mapstructure:"gemini"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	News         News          `mapstructure:"news"`
	Warmup       Warmup        `mapstructure:"warmup"`
	Telegram     Telegram      `mapstructure:"telegram"`
	Tracing      Tracing       `mapstructure:"tracing"`
}

// Defaults returns the default value of every configuration key.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.name":    "wealth-signals",
		"app.env":     "development",
		"app.version": "1.0.0",

		"logger.level":    "info",
		"logger.encoding": "json",

		"api.host": "0.0.0.0",
		"api.port": 8000,

		"redis.host":      "localhost",
		"redis.port":      6379,
		"redis.password":  "",
		"redis.db":        0,
		"redis.pool_size": 10,

		"signals.tickers":        DefaultTickers,
		"signals.ticker_suffix":  ".NS",
		"signals.exchange":       "NSE",
		"signals.default_limit":  8,
		"signals.cache_ttl":      3600,
		"signals.news_max_items": 10,

		"cache.driver":     "memory",
		"cache.key_prefix": "signal:",

		"ai.provider":    "groq",
		"ai.temperature": 0.0,
		"ai.max_tokens":  300,

		"groq.api_key":  "",
		"groq.base_url": "https://api.groq.com/openai/v1",
		"groq.model":    "llama-3.3-70b-versatile",
		"groq.timeout":  "90s",

		"gemini.api_key": "",
		"gemini.model":   "gemini-2.0-flash",

		"yahoo_finance.chart_url":         "https://query1.finance.yahoo.com/v8/finance/chart",
		"yahoo_finance.quote_summary_url": "https://query2.finance.yahoo.com/v10/finance/quoteSummary",
		"yahoo_finance.cookie_url":        "https://fc.yahoo.com",
		"yahoo_finance.crumb_url":         "https://query2.finance.yahoo.com/v1/test/getcrumb",
		"yahoo_finance.history_range":     "1y",
		"yahoo_finance.timeout":           "30s",

		"news.feed_url": "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US",
		"news.timeout":  "30s",

		"warmup.enabled": false,
		"warmup.cron":    "@every 55m",
		"warmup.limit":   8,

		"telegram.bot_token": "",
		"telegram.chat_id":   0,

		"tracing.enabled": false,
	}
}

// envAliases binds the short environment names the service has always accepted.
var envAliases = map[string][]string{
	"api.port":          {"API_PORT", "PORT"},
	"signals.cache_ttl": {"SIGNALS_CACHE_TTL", "SIGNAL_CACHE_TTL"},
}

// Load loads the signal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, Defaults(), envAliases, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
