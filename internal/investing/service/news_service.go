package service

import (
	"context"
	"time"

	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"

	"github.com/patrickmn/go-cache"
)

// NewsService relays today's Indian market headlines.
type NewsService interface {
	TodayIndia(ctx context.Context) ([]dto.Article, error)
}

// NewNewsService creates a new news service.
func NewNewsService(newsRepo repository.NewsRepository, maxArticles int, cacheDuration time.Duration, log *logger.Logger) NewsService {
	if maxArticles <= 0 {
		maxArticles = 10
	}
	if cacheDuration <= 0 {
		cacheDuration = 5 * time.Minute
	}
	return &newsService{
		newsRepo:      newsRepo,
		maxArticles:   maxArticles,
		inmemoryCache: cache.New(cacheDuration, 2*cacheDuration),
		logger:        log,
		now:           utils.TimeNowIST,
	}
}

type newsService struct {
	newsRepo      repository.NewsRepository
	maxArticles   int
	inmemoryCache *cache.Cache
	logger        *logger.Logger
	now           func() time.Time
}

func (s *newsService) TodayIndia(ctx context.Context) ([]dto.Article, error) {
	today := s.now()
	key := s.newsRepo.GetType() + ":" + utils.DateString(today)
	if cached, ok := s.inmemoryCache.Get(key); ok {
		return cached.([]dto.Article), nil
	}

	articles, err := s.newsRepo.FetchArticles(ctx, today, s.maxArticles)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to fetch news", logger.ErrorField(err), logger.StringField("provider", s.newsRepo.GetType()))
		return nil, apperror.Wrap(apperror.KindUpstream, "Failed to fetch Indian stock news", err)
	}
	if len(articles) > s.maxArticles {
		articles = articles[:s.maxArticles]
	}
	if articles == nil {
		articles = []dto.Article{}
	}

	s.inmemoryCache.SetDefault(key, articles)
	return articles, nil
}
