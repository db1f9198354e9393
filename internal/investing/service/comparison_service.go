package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// ComparisonService compares two catalog items of the same kind and keeps the result.
type ComparisonService interface {
	List(ctx context.Context, userID uint) ([]entity.Comparison, error)
	Create(ctx context.Context, userID uint, req *dto.CreateComparisonRequest) (*entity.Comparison, error)
	Get(ctx context.Context, userID, id uint) (*entity.Comparison, error)
	Delete(ctx context.Context, userID, id uint) error
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(comparisonRepo repository.ComparisonRepository, masterRepo repository.MasterRepository, log *logger.Logger) ComparisonService {
	return &comparisonService{
		comparisonRepo: comparisonRepo,
		masterRepo:     masterRepo,
		logger:         log,
	}
}

type comparisonService struct {
	comparisonRepo repository.ComparisonRepository
	masterRepo     repository.MasterRepository
	logger         *logger.Logger
}

var errComparisonNotFound = apperror.New(apperror.KindNotFound, "Comparison not found")

// Verdict is the outcome of comparing a against b.
type Verdict struct {
	Better  string
	Summary string
}

func (s *comparisonService) List(ctx context.Context, userID uint) ([]entity.Comparison, error) {
	comparisons, err := s.comparisonRepo.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list comparisons", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch comparisons", err)
	}
	return comparisons, nil
}

func (s *comparisonService) Create(ctx context.Context, userID uint, req *dto.CreateComparisonRequest) (*entity.Comparison, error) {
	kind, err := entity.ParseAssetKind(strings.TrimSpace(req.Kind))
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "kind must be stock or mutual_fund")
	}
	symbolA, symbolB := strings.TrimSpace(req.SymbolA), strings.TrimSpace(req.SymbolB)
	if symbolA == "" || symbolB == "" {
		return nil, apperror.New(apperror.KindValidation, "symbol_a and symbol_b are required")
	}

	comparison := &entity.Comparison{UserID: userID, Kind: kind}

	var (
		a, b    interface{}
		verdict Verdict
	)
	switch kind {
	case entity.AssetKindStock:
		stockA, err := s.stock(ctx, symbolA)
		if err != nil {
			return nil, err
		}
		stockB, err := s.stock(ctx, symbolB)
		if err != nil {
			return nil, err
		}
		a, b = stockA, stockB
		comparison.Symbols = pq.StringArray{stockA.Symbol, stockB.Symbol}
		verdict = CompareStocks(stockA, stockB)
	case entity.AssetKindMutualFund:
		fundA, err := s.fund(ctx, symbolA)
		if err != nil {
			return nil, err
		}
		fundB, err := s.fund(ctx, symbolB)
		if err != nil {
			return nil, err
		}
		a, b = fundA, fundB
		comparison.Symbols = pq.StringArray{fundA.Symbol, fundB.Symbol}
		verdict = CompareFunds(fundA, fundB)
	}

	if comparison.SnapshotA, err = snapshot(a); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create comparison", err)
	}
	if comparison.SnapshotB, err = snapshot(b); err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create comparison", err)
	}
	comparison.Better = verdict.Better
	comparison.Summary = verdict.Summary

	if err := s.comparisonRepo.Create(ctx, comparison); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create comparison", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create comparison", err)
	}
	return comparison, nil
}

func (s *comparisonService) Get(ctx context.Context, userID, id uint) (*entity.Comparison, error) {
	comparison, err := s.comparisonRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errComparisonNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get comparison", logger.ErrorField(err), logger.Field("comparison_id", id))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch comparison", err)
	}
	return comparison, nil
}

func (s *comparisonService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.comparisonRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errComparisonNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to delete comparison", logger.ErrorField(err), logger.Field("comparison_id", id))
		return apperror.Wrap(apperror.KindInternal, "Failed to delete comparison", err)
	}
	return nil
}

func (s *comparisonService) stock(ctx context.Context, symbol string) (*entity.StockMaster, error) {
	stock, err := s.masterRepo.GetStockBySymbol(ctx, strings.ToUpper(symbol))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindValidation, "Unknown stock symbol "+symbol)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch stock", err)
	}
	return stock, nil
}

func (s *comparisonService) fund(ctx context.Context, symbol string) (*entity.MutualFundMaster, error) {
	fund, err := s.masterRepo.GetFundBySymbol(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindValidation, "Unknown mutual fund symbol "+symbol)
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch mutual fund", err)
	}
	return fund, nil
}

func snapshot(v interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// riskAdjusted is avg_return per unit of volatility. Zero volatility falls back to avg_return.
func riskAdjusted(stock *entity.StockMaster) float64 {
	if stock.Volatility == 0 {
		return stock.AvgReturn
	}
	return stock.AvgReturn / stock.Volatility
}

// CompareStocks prefers the higher risk adjusted return.
func CompareStocks(a, b *entity.StockMaster) Verdict {
	ra, rb := riskAdjusted(a), riskAdjusted(b)
	switch {
	case ra > rb:
		return Verdict{Better: a.Symbol, Summary: fmt.Sprintf("%s offers a better risk adjusted return (%.2f vs %.2f)", a.Symbol, ra, rb)}
	case rb > ra:
		return Verdict{Better: b.Symbol, Summary: fmt.Sprintf("%s offers a better risk adjusted return (%.2f vs %.2f)", b.Symbol, rb, ra)}
	}
	return Verdict{Summary: fmt.Sprintf("%s and %s are comparable on risk adjusted return (%.2f)", a.Symbol, b.Symbol, ra)}
}

func riskRank(risk string) int {
	switch strings.ToLower(strings.TrimSpace(risk)) {
	case "low":
		return 0
	case "moderate", "medium":
		return 1
	case "high":
		return 2
	}
	return 3
}

// CompareFunds prefers the higher one year return, then the lower risk.
func CompareFunds(a, b *entity.MutualFundMaster) Verdict {
	switch {
	case a.Return1Y > b.Return1Y:
		return Verdict{Better: a.Symbol, Summary: fmt.Sprintf("%s has the higher 1Y return (%.2f%% vs %.2f%%)", a.Symbol, a.Return1Y, b.Return1Y)}
	case b.Return1Y > a.Return1Y:
		return Verdict{Better: b.Symbol, Summary: fmt.Sprintf("%s has the higher 1Y return (%.2f%% vs %.2f%%)", b.Symbol, b.Return1Y, a.Return1Y)}
	}

	ra, rb := riskRank(a.Risk), riskRank(b.Risk)
	switch {
	case ra < rb:
		return Verdict{Better: a.Symbol, Summary: fmt.Sprintf("%s matches the 1Y return of %s with lower risk", a.Symbol, b.Symbol)}
	case rb < ra:
		return Verdict{Better: b.Symbol, Summary: fmt.Sprintf("%s matches the 1Y return of %s with lower risk", b.Symbol, a.Symbol)}
	}
	return Verdict{Summary: fmt.Sprintf("%s and %s are comparable on 1Y return and risk", a.Symbol, b.Symbol)}
}
