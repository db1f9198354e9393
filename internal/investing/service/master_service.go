package service

import (
	"context"
	"errors"
	"strings"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"
)

// MasterService serves the read-only stock and mutual fund catalog.
type MasterService interface {
	ListStocks(ctx context.Context, page dto.Page) ([]entity.StockMaster, error)
	GetStock(ctx context.Context, symbol string) (*entity.StockMaster, error)
	ListFunds(ctx context.Context, page dto.Page) ([]entity.MutualFundMaster, error)
	GetFund(ctx context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error)
	WarmCache(ctx context.Context) error
}

// NewMasterService creates a new catalog service. Full listings are read
// through cache; paged listings and single lookups always hit the database.
func NewMasterService(masterRepo repository.MasterRepository, cache repository.CatalogCache, log *logger.Logger) MasterService {
	if cache == nil {
		cache = repository.NopCatalogCache{}
	}
	return &masterService{
		masterRepo: masterRepo,
		cache:      cache,
		logger:     log,
	}
}

type masterService struct {
	masterRepo repository.MasterRepository
	cache      repository.CatalogCache
	logger     *logger.Logger
}

func normalizePage(page dto.Page) (dto.Page, error) {
	if page.Limit < 0 || page.Offset < 0 {
		return page, apperror.New(apperror.KindValidation, "limit and offset must not be negative")
	}
	if page.Limit > dto.MaxPageLimit {
		page.Limit = dto.MaxPageLimit
	}
	return page, nil
}

// ListStocks returns the stock catalog.
func (s *masterService) ListStocks(ctx context.Context, page dto.Page) ([]entity.StockMaster, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	if page.IsZero() {
		if stocks, ok, err := s.cache.GetStocks(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to read stock catalog from cache", logger.ErrorField(err))
		} else if ok {
			return stocks, nil
		}
	}

	stocks, err := s.masterRepo.ListStocks(ctx, page)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list stocks", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch stocks", err)
	}

	if page.IsZero() {
		if err := s.cache.SetStocks(ctx, stocks); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache stock catalog", logger.ErrorField(err))
		}
	}
	return stocks, nil
}

// GetStock returns one stock by symbol.
func (s *masterService) GetStock(ctx context.Context, symbol string) (*entity.StockMaster, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperror.New(apperror.KindValidation, "symbol is required")
	}
	stock, err := s.masterRepo.GetStockBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Stock not found")
		}
		s.logger.ErrorContext(ctx, "Failed to get stock", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch stock", err)
	}
	return stock, nil
}

// ListFunds returns the mutual fund catalog.
func (s *masterService) ListFunds(ctx context.Context, page dto.Page) ([]entity.MutualFundMaster, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}

	if page.IsZero() {
		if funds, ok, err := s.cache.GetFunds(ctx); err != nil {
			s.logger.WarnContext(ctx, "Failed to read fund catalog from cache", logger.ErrorField(err))
		} else if ok {
			return funds, nil
		}
	}

	funds, err := s.masterRepo.ListFunds(ctx, page)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list mutual funds", logger.ErrorField(err))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch mutual funds", err)
	}

	if page.IsZero() {
		if err := s.cache.SetFunds(ctx, funds); err != nil {
			s.logger.WarnContext(ctx, "Failed to cache fund catalog", logger.ErrorField(err))
		}
	}
	return funds, nil
}

// GetFund returns one fund by symbol or ISIN.
func (s *masterService) GetFund(ctx context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error) {
	symbolOrISIN = strings.TrimSpace(symbolOrISIN)
	if symbolOrISIN == "" {
		return nil, apperror.New(apperror.KindValidation, "symbol is required")
	}
	fund, err := s.masterRepo.GetFundBySymbol(ctx, symbolOrISIN)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "Mutual fund not found")
		}
		s.logger.ErrorContext(ctx, "Failed to get mutual fund", logger.ErrorField(err), logger.StringField("symbol", symbolOrISIN))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch mutual fund", err)
	}
	return fund, nil
}

// WarmCache reloads both catalog snapshots into the cache.
func (s *masterService) WarmCache(ctx context.Context) error {
	stocks, err := s.masterRepo.ListStocks(ctx, dto.Page{})
	if err != nil {
		return err
	}
	if err := s.cache.SetStocks(ctx, stocks); err != nil {
		return err
	}

	funds, err := s.masterRepo.ListFunds(ctx, dto.Page{})
	if err != nil {
		return err
	}
	if err := s.cache.SetFunds(ctx, funds); err != nil {
		return err
	}

	s.logger.Info("Catalog cache warmed", logger.IntField("stocks", len(stocks)), logger.IntField("funds", len(funds)))
	return nil
}
