package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smart-invest-api/internal/analyzer/config"
	"smart-invest-api/internal/analyzer/dto"
	"smart-invest-api/internal/entity"
	"smart-invest-api/pkg/logger"
	"smart-invest-api/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// NewsRepository collects recent articles about a ticker. Implementations
// deduplicate by exact title (first occurrence wins).
type NewsRepository interface {
	Search(ctx context.Context, ticker, query string, maxArticles int) ([]entity.Article, error)
}

// NewNewsRepository selects the keyed news search when an API key is
// configured and the public feed fallback otherwise.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	if cfg.NewsAPI.APIKey != "" {
		return &newsAPIRepository{
			cfg: cfg,
			log: log,
			httpClient: &http.Client{
				Timeout: 15 * time.Second,
			},
		}
	}
	return &googleNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type newsAPIRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

func (r *newsAPIRepository) Search(ctx context.Context, ticker, query string, maxArticles int) ([]entity.Article, error) {
	reqURL := fmt.Sprintf("%s/v2/everything?q=%s&pageSize=%d&language=en&sortBy=publishedAt&apiKey=%s",
		r.cfg.NewsAPI.BaseURL, url.QueryEscape(query), maxArticles, url.QueryEscape(r.cfg.NewsAPI.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to fetch news from NewsAPI", logger.ErrorField(err), logger.StringField("query", query))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response dto.NewsAPIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal NewsAPI response: %w", err)
	}
	if response.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI returned status %q: %s", response.Status, response.Message)
	}

	articles := make([]entity.Article, 0, len(response.Articles))
	for _, art := range response.Articles {
		article := entity.Article{
			Ticker:      ticker,
			Title:       utils.CleanToValidUTF8(art.Title),
			Description: utils.CleanToValidUTF8(art.Description),
			Source:      art.Source.Name,
		}
		if t, err := time.Parse(time.RFC3339, art.PublishedAt); err == nil {
			article.PublishedAt = &t
		}
		articles = append(articles, article)
	}

	articles = DedupeArticles(articles)
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}
	return articles, nil
}

type googleNewsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
}

func (r *googleNewsRepository) Search(ctx context.Context, ticker, query string, maxArticles int) ([]entity.Article, error) {
	// when:7d keeps the feed to the last week of coverage.
	feedURL := fmt.Sprintf("%s/rss/search?q=%s+when:7d&hl=%s&gl=%s&ceid=%s:en",
		r.cfg.GoogleNews.BaseURL,
		url.QueryEscape(query),
		r.cfg.GoogleNews.Language,
		r.cfg.GoogleNews.Country,
		r.cfg.GoogleNews.Country,
	)

	fp := gofeed.NewParser()
	fp.Client = r.httpClient
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse news feed", logger.ErrorField(err), logger.StringField("url", feedURL))
		return nil, err
	}

	items := feed.Items
	if len(items) > maxArticles {
		items = items[:maxArticles]
	}

	articles := make([]entity.Article, 0, len(items))
	for _, item := range items {
		article := entity.Article{
			Ticker:      ticker,
			Title:       utils.CleanToValidUTF8(item.Title),
			Description: stripHTML(item.Description),
			PublishedAt: item.PublishedParsed,
		}
		if parsed, err := url.Parse(item.Link); err == nil {
			article.Source = parsed.Hostname()
		}
		articles = append(articles, article)
	}

	return DedupeArticles(articles), nil
}

// stripHTML reduces a feed description to its visible text. Google News
// descriptions arrive as anchor-heavy HTML fragments.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return utils.CleanToValidUTF8(strings.TrimSpace(doc.Text()))
}

// DedupeArticles removes articles whose exact title was already seen,
// keeping the first occurrence and preserving order. Running it on its own
// output returns the same sequence.
func DedupeArticles(articles []entity.Article) []entity.Article {
	seen := make(map[string]struct{}, len(articles))
	deduped := make([]entity.Article, 0, len(articles))
	for _, a := range articles {
		if _, ok := seen[a.Title]; ok {
			continue
		}
		seen[a.Title] = struct{}{}
		deduped = append(deduped, a)
	}
	return deduped
}
