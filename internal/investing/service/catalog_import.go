package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"
)

// CatalogImporter loads seed files into the catalog. Existing history samples are never overwritten.
type CatalogImporter interface {
	ImportStocks(ctx context.Context, r io.Reader) (*dto.ImportSummary, error)
	ImportFunds(ctx context.Context, r io.Reader) (*dto.ImportSummary, error)
}

// NewCatalogImporter creates a new catalog importer.
func NewCatalogImporter(masterRepo repository.MasterRepository, cache repository.CatalogCache, log *logger.Logger) CatalogImporter {
	if cache == nil {
		cache = repository.NopCatalogCache{}
	}
	return &catalogImporter{masterRepo: masterRepo, cache: cache, logger: log}
}

type catalogImporter struct {
	masterRepo repository.MasterRepository
	cache      repository.CatalogCache
	logger     *logger.Logger
}

func (i *catalogImporter) ImportStocks(ctx context.Context, r io.Reader) (*dto.ImportSummary, error) {
	var records []dto.StockImport
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode stock seed: %w", err)
	}

	summary := &dto.ImportSummary{}
	for _, rec := range records {
		stock, err := stockFromImport(rec)
		if err != nil {
			summary.Skipped++
			i.logger.Warn("Skipping stock record", logger.ErrorField(err), logger.StringField("symbol", rec.Symbol))
			continue
		}
		appended, err := i.masterRepo.UpsertStock(ctx, stock)
		if err != nil {
			return summary, err
		}
		summary.Records++
		summary.AppendedSamples += appended
	}

	i.invalidate(ctx)
	return summary, nil
}

func (i *catalogImporter) ImportFunds(ctx context.Context, r io.Reader) (*dto.ImportSummary, error) {
	var records []dto.FundImport
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode fund seed: %w", err)
	}

	summary := &dto.ImportSummary{}
	for _, rec := range records {
		fund, err := fundFromImport(rec)
		if err != nil {
			summary.Skipped++
			i.logger.Warn("Skipping fund record", logger.ErrorField(err), logger.StringField("isin", rec.ISIN))
			continue
		}
		appended, err := i.masterRepo.UpsertFund(ctx, fund)
		if err != nil {
			return summary, err
		}
		summary.Records++
		summary.AppendedSamples += appended
	}

	i.invalidate(ctx)
	return summary, nil
}

func (i *catalogImporter) invalidate(ctx context.Context) {
	if err := i.cache.Invalidate(ctx); err != nil {
		i.logger.Warn("Failed to invalidate catalog cache", logger.ErrorField(err))
	}
}

func stockFromImport(rec dto.StockImport) (*entity.StockMaster, error) {
	symbol := strings.ToUpper(strings.TrimSpace(rec.Symbol))
	if symbol == "" || strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("symbol and name are required")
	}

	stock := &entity.StockMaster{
		Symbol:     symbol,
		Name:       strings.TrimSpace(rec.Name),
		Sector:     rec.Sector,
		MarketCap:  rec.MarketCap,
		Style:      rec.Style,
		Risk:       rec.Risk,
		AvgReturn:  rec.AvgReturn,
		Volatility: rec.Volatility,
	}
	seen := make(map[string]struct{}, len(rec.PriceHistory))
	for _, p := range rec.PriceHistory {
		date, err := parseSampleDate(p.Date)
		if err != nil {
			return nil, err
		}
		key := utils.DateString(date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		stock.PriceHistory = append(stock.PriceHistory, entity.StockPrice{Date: date, Price: p.Price})
	}
	return stock, nil
}

func fundFromImport(rec dto.FundImport) (*entity.MutualFundMaster, error) {
	isin := strings.ToUpper(strings.TrimSpace(rec.ISIN))
	if isin == "" || strings.TrimSpace(rec.Name) == "" {
		return nil, fmt.Errorf("isin and name are required")
	}

	fund := &entity.MutualFundMaster{
		Symbol:      strings.TrimSpace(rec.Symbol),
		ISIN:        isin,
		Name:        strings.TrimSpace(rec.Name),
		Type:        rec.Type,
		Risk:        rec.Risk,
		Style:       rec.Style,
		Return1Y:    rec.Return1Y,
		Return3Y:    rec.Return3Y,
		Return5Y:    rec.Return5Y,
		AUMCr:       rec.AUMCr,
		SectorFocus: rec.SectorFocus,
	}
	if fund.Symbol == "" {
		fund.Symbol = isin
	}
	seen := make(map[string]struct{}, len(rec.NAVHistory))
	for _, p := range rec.NAVHistory {
		date, err := parseSampleDate(p.Date)
		if err != nil {
			return nil, err
		}
		key := utils.DateString(date)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fund.NAVHistory = append(fund.NAVHistory, entity.MutualFundNAV{Date: date, NAV: p.NAV})
	}
	return fund, nil
}

func parseSampleDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("history sample without date")
	}
	if date, err := utils.ParseDate(value); err == nil {
		return date, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid history date %q", value)
	}
	return utils.ParseDate(utils.DateString(ts))
}
