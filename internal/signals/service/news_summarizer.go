package service

import (
	"context"
	"fmt"
	"strings"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/repository"
	"wealth-signals/pkg/logger"
)

const noRecentNews = "No recent news found."

// NewsSummarizer renders recent headlines of a ticker as prompt text.
type NewsSummarizer interface {
	Summarize(ctx context.Context, ticker string) string
}

type newsSummarizer struct {
	cfg  *config.Config
	log  *logger.Logger
	news repository.NewsRepository
}

// NewNewsSummarizer creates a new NewsSummarizer.
func NewNewsSummarizer(cfg *config.Config, log *logger.Logger, news repository.NewsRepository) NewsSummarizer {
	return &newsSummarizer{
		cfg:  cfg,
		log:  log,
		news: news,
	}
}

// Summarize never fails: a provider error is described in the returned text.
func (s *newsSummarizer) Summarize(ctx context.Context, ticker string) string {
	items, err := s.news.GetNews(ctx, ticker, s.cfg.Signals.NewsMaxItems)
	if err != nil {
		s.log.WarnContext(ctx, "Failed to fetch news", logger.StringField("ticker", ticker), logger.ErrorField(err))
		return fmt.Sprintf("Could not fetch news: %v", err)
	}
	if len(items) == 0 {
		return noRecentNews
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "<headline>"
		}
		details := make([]string, 0, 3)
		for _, d := range []string{item.Summary, item.Publisher, item.Link} {
			if d = strings.TrimSpace(d); d != "" {
				details = append(details, d)
			}
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", title, strings.Join(details, " ")))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
