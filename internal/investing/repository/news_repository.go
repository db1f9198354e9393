package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"investing-backend/internal/investing/config"
	"investing-backend/internal/investing/dto"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	NewsProviderNewsAPI = "newsapi"
	NewsProviderRSS     = "rss"
)

// ErrNewsProvider is returned when the upstream news provider fails.
var ErrNewsProvider = errors.New("news provider failure")

// NewsRepository fetches articles published on a given day.
type NewsRepository interface {
	GetType() string
	FetchArticles(ctx context.Context, day time.Time, limit int) ([]dto.Article, error)
}

// NewNewsRepository returns the provider selected by cfg.News.Provider.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) (NewsRepository, error) {
	switch cfg.News.Provider {
	case NewsProviderNewsAPI, "":
		return NewNewsAPIRepository(cfg, log), nil
	case NewsProviderRSS:
		return NewRSSNewsRepository(cfg, log), nil
	}
	return nil, fmt.Errorf("unknown news provider %q", cfg.News.Provider)
}

func newRequestLimiter(maxRequestPerMinute int) *rate.Limiter {
	if maxRequestPerMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequestPerMinute)), 1)
}

func requestTimeout(cfg *config.Config) time.Duration {
	if cfg.News.RequestTimeout > 0 {
		return cfg.News.RequestTimeout
	}
	return 10 * time.Second
}

type newsAPIRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewNewsAPIRepository creates a newsapi.org backed repository.
func NewNewsAPIRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsAPIRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     &http.Client{Timeout: requestTimeout(cfg)},
		requestLimiter: newRequestLimiter(cfg.News.MaxRequestPerMinute),
	}
}

func (r *newsAPIRepository) GetType() string {
	return NewsProviderNewsAPI
}

func (r *newsAPIRepository) FetchArticles(ctx context.Context, day time.Time, limit int) ([]dto.Article, error) {
	date := utils.DateString(day)
	params := url.Values{}
	params.Set("q", r.cfg.News.Query)
	params.Set("from", date)
	params.Set("to", date)
	params.Set("sortBy", "popularity")
	params.Set("apiKey", r.cfg.News.APIKey)
	endpoint := r.cfg.News.BaseURL + "/v2/everything?" + params.Encode()

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response dto.NewsAPIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode newsapi response", logger.ErrorField(err))
		return nil, fmt.Errorf("%w: decode response: %v", ErrNewsProvider, err)
	}
	if response.Status != "ok" {
		r.log.ErrorContext(ctx, "newsapi returned an error status",
			logger.StringField("status", response.Status),
			logger.StringField("code", response.Code),
			logger.StringField("message", response.Message))
		return nil, fmt.Errorf("%w: status %s", ErrNewsProvider, response.Code)
	}

	articles := response.Articles
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (r *newsAPIRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("provider", NewsProviderNewsAPI),
		zap.Int("max_request_per_minute", r.cfg.News.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to news provider", fields...)
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from news provider", fields...)
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from news provider", fields...)
		return nil, fmt.Errorf("%w: status code %d", ErrNewsProvider, resp.StatusCode)
	}

	return body, nil
}

type rssNewsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	parser         *gofeed.Parser
	requestLimiter *rate.Limiter
}

// NewRSSNewsRepository creates an RSS feed backed repository.
func NewRSSNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: requestTimeout(cfg)}
	return &rssNewsRepository{
		cfg:            cfg,
		log:            log,
		parser:         parser,
		requestLimiter: newRequestLimiter(cfg.News.MaxRequestPerMinute),
	}
}

func (r *rssNewsRepository) GetType() string {
	return NewsProviderRSS
}

// FetchArticles returns the newest feed items published on day.
func (r *rssNewsRepository) FetchArticles(ctx context.Context, day time.Time, limit int) ([]dto.Article, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}

	feed, err := r.parser.ParseURLWithContext(r.cfg.News.RSSURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse news feed", logger.ErrorField(err), logger.StringField("url", r.cfg.News.RSSURL))
		return nil, fmt.Errorf("%w: %v", ErrNewsProvider, err)
	}

	wantDate := utils.DateString(day)
	items := make([]*gofeed.Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.PublishedParsed == nil {
			continue
		}
		if utils.DateString(item.PublishedParsed.In(day.Location())) != wantDate {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedParsed.After(*items[j].PublishedParsed)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	articles := make([]dto.Article, 0, len(items))
	for _, item := range items {
		article := dto.Article{
			Source:      dto.ArticleSource{Name: feed.Title},
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			PublishedAt: item.PublishedParsed.UTC().Format(time.RFC3339),
			Content:     item.Content,
		}
		if item.Author != nil {
			article.Author = item.Author.Name
		}
		if item.Image != nil {
			article.URLToImage = item.Image.URL
		}
		articles = append(articles, article)
	}

	r.log.DebugContext(ctx, "RSS news fetched", logger.IntField("feed_items", len(feed.Items)), logger.IntField("articles", len(articles)))
	return articles, nil
}
