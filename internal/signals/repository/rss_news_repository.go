package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

type rssNewsRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	parser *gofeed.Parser
}

// NewRSSNewsRepository creates a NewsRepository reading the per-ticker headline RSS feed.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: cfg.News.Timeout}
	fp.UserAgent = "Mozilla/5.0 (compatible; wealth-signals/1.0)"
	return &rssNewsRepository{
		cfg:    cfg,
		log:    log,
		parser: fp,
	}
}

// GetNews returns at most limit headlines for ticker, newest first.
func (r *rssNewsRepository) GetNews(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error) {
	if limit <= 0 {
		return []dto.NewsItem{}, nil
	}
	feedURL := fmt.Sprintf(r.cfg.News.FeedURL, url.QueryEscape(ticker))
	r.log.DebugContext(ctx, "Fetching news feed", logger.StringField("url", feedURL))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, &DataFetchError{Ticker: ticker, Op: "news", Err: err}
	}

	items := feed.Items
	// newest first, undated items last
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedParsed, items[j].PublishedParsed
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})

	news := make([]dto.NewsItem, 0, limit)
	for _, item := range items {
		if len(news) >= limit {
			break
		}
		n := dto.NewsItem{
			Title:       strings.TrimSpace(item.Title),
			Summary:     htmlToText(item.Description),
			Link:        strings.TrimSpace(item.Link),
			PublishedAt: item.PublishedParsed,
		}
		if item.Author != nil {
			n.Publisher = strings.TrimSpace(item.Author.Name)
		}
		news = append(news, n)
	}

	return news, nil
}

// htmlToText strips markup from feed descriptions and collapses whitespace.
func htmlToText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
