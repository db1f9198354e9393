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
	"investing-backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// PortfolioService manages portfolios and the lifecycle of their holdings.
// Every operation is scoped to the authenticated user.
type PortfolioService interface {
	List(ctx context.Context, userID uint) ([]dto.PortfolioResponse, error)
	Create(ctx context.Context, userID uint, req *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error)
	Get(ctx context.Context, userID, id uint) (*dto.PortfolioResponse, error)
	Rename(ctx context.Context, userID, id uint, req *dto.UpdatePortfolioRequest) (*dto.PortfolioResponse, error)
	Delete(ctx context.Context, userID, id uint) error
	Valuation(ctx context.Context, userID, id uint) (*dto.ValuationResponse, error)

	Buy(ctx context.Context, userID, portfolioID uint, req *dto.BuyHoldingRequest) (*dto.PortfolioResponse, error)
	UpdateHolding(ctx context.Context, userID, portfolioID, holdingID uint, req *dto.UpdateHoldingRequest) (*dto.PortfolioResponse, error)
	Sell(ctx context.Context, userID, portfolioID, holdingID uint, req *dto.SellHoldingRequest) (*dto.PortfolioResponse, error)
	Liquidate(ctx context.Context, userID, portfolioID, holdingID uint) (*dto.PortfolioResponse, error)
}

// NewPortfolioService creates a new portfolio service.
func NewPortfolioService(portfolioRepo repository.PortfolioRepository, masterRepo repository.MasterRepository, valuator *Valuator, log *logger.Logger) PortfolioService {
	return &portfolioService{
		portfolioRepo: portfolioRepo,
		masterRepo:    masterRepo,
		valuator:      valuator,
		logger:        log,
	}
}

type portfolioService struct {
	portfolioRepo repository.PortfolioRepository
	masterRepo    repository.MasterRepository
	valuator      *Valuator
	logger        *logger.Logger
}

var errPortfolioNotFound = apperror.New(apperror.KindNotFound, "Portfolio not found")

func (s *portfolioService) List(ctx context.Context, userID uint) ([]dto.PortfolioResponse, error) {
	portfolios, err := s.portfolioRepo.FindAllByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list portfolios", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to fetch portfolios", err)
	}

	resp := make([]dto.PortfolioResponse, 0, len(portfolios))
	for i := range portfolios {
		view, err := s.view(ctx, &portfolios[i])
		if err != nil {
			return nil, err
		}
		resp = append(resp, *view)
	}
	return resp, nil
}

func (s *portfolioService) Create(ctx context.Context, userID uint, req *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.KindValidation, "Portfolio name is required")
	}

	portfolio := &entity.Portfolio{UserID: userID, Name: name}
	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create portfolio", logger.ErrorField(err), logger.Field("user_id", userID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create portfolio", err)
	}
	return s.view(ctx, portfolio)
}

func (s *portfolioService) Get(ctx context.Context, userID, id uint) (*dto.PortfolioResponse, error) {
	portfolio, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, portfolio)
}

func (s *portfolioService) Rename(ctx context.Context, userID, id uint, req *dto.UpdatePortfolioRequest) (*dto.PortfolioResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.KindValidation, "Portfolio name is required")
	}
	if err := s.portfolioRepo.Rename(ctx, userID, id, name); err != nil {
		return nil, s.storeError(ctx, err, "Failed to rename portfolio", errPortfolioNotFound)
	}
	return s.Get(ctx, userID, id)
}

func (s *portfolioService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.portfolioRepo.Delete(ctx, userID, id); err != nil {
		return s.storeError(ctx, err, "Failed to delete portfolio", errPortfolioNotFound)
	}
	return nil
}

func (s *portfolioService) Valuation(ctx context.Context, userID, id uint) (*dto.ValuationResponse, error) {
	portfolio, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	valuation, err := s.valuator.ComputeTotalValue(ctx, portfolio)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to value portfolio", logger.ErrorField(err), logger.Field("portfolio_id", id))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to value portfolio", err)
	}
	return valuation, nil
}

// Buy adds a holding for the catalog asset named by (asset_type, symbol).
func (s *portfolioService) Buy(ctx context.Context, userID, portfolioID uint, req *dto.BuyHoldingRequest) (*dto.PortfolioResponse, error) {
	kind, err := entity.ParseAssetKind(strings.TrimSpace(req.AssetType))
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "asset_type must be stock or mutual_fund")
	}
	if req.Quantity <= 0 {
		return nil, apperror.New(apperror.KindValidation, "Quantity must be greater than zero")
	}
	if req.PurchasePrice < 0 {
		return nil, apperror.New(apperror.KindValidation, "Purchase price must not be negative")
	}

	purchaseDate := utils.TimeNowIST()
	if req.PurchaseDate != "" {
		purchaseDate, err = utils.ParseDate(req.PurchaseDate)
		if err != nil {
			return nil, apperror.New(apperror.KindValidation, "purchase_date must be YYYY-MM-DD")
		}
	}

	if _, err := s.load(ctx, userID, portfolioID); err != nil {
		return nil, err
	}

	asset, err := s.resolveAsset(ctx, kind, strings.TrimSpace(req.Symbol))
	if err != nil {
		return nil, err
	}

	holding := &entity.Holding{
		PortfolioID:   portfolioID,
		UserID:        userID,
		Asset:         asset,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
		PurchaseDate:  purchaseDate,
	}
	if err := s.portfolioRepo.CreateHolding(ctx, holding); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create holding", logger.ErrorField(err), logger.Field("portfolio_id", portfolioID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to add holding", err)
	}

	s.logger.InfoContext(ctx, "Holding bought",
		logger.Field("portfolio_id", portfolioID),
		logger.Field("holding_id", holding.ID),
		logger.StringField("asset", asset.String()),
	)
	return s.Get(ctx, userID, portfolioID)
}

// UpdateHolding overwrites quantity and/or purchase price. A quantity of zero liquidates.
func (s *portfolioService) UpdateHolding(ctx context.Context, userID, portfolioID, holdingID uint, req *dto.UpdateHoldingRequest) (*dto.PortfolioResponse, error) {
	if req.Quantity == nil && req.PurchasePrice == nil {
		return nil, apperror.New(apperror.KindValidation, "Nothing to update")
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, apperror.New(apperror.KindValidation, "Quantity must not be negative")
	}
	if req.PurchasePrice != nil && *req.PurchasePrice < 0 {
		return nil, apperror.New(apperror.KindValidation, "Purchase price must not be negative")
	}

	holding, err := s.loadHolding(ctx, userID, portfolioID, holdingID)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		holding.Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		holding.PurchasePrice = *req.PurchasePrice
	}

	return s.saveHolding(ctx, holding)
}

// Sell reduces a holding by the given quantity. Selling everything removes the holding.
func (s *portfolioService) Sell(ctx context.Context, userID, portfolioID, holdingID uint, req *dto.SellHoldingRequest) (*dto.PortfolioResponse, error) {
	if req.Quantity <= 0 {
		return nil, apperror.New(apperror.KindValidation, "Quantity must be greater than zero")
	}

	holding, err := s.loadHolding(ctx, userID, portfolioID, holdingID)
	if err != nil {
		return nil, err
	}
	held := decimal.NewFromFloat(holding.Quantity)
	sold := decimal.NewFromFloat(req.Quantity)
	if sold.GreaterThan(held) {
		return nil, apperror.New(apperror.KindValidation, "Cannot sell more than the held quantity")
	}

	remaining := held.Sub(sold)
	if remaining.IsZero() {
		return s.Liquidate(ctx, userID, portfolioID, holdingID)
	}
	holding.Quantity = remaining.InexactFloat64()
	return s.saveHolding(ctx, holding)
}

// Liquidate removes a holding entirely.
func (s *portfolioService) Liquidate(ctx context.Context, userID, portfolioID, holdingID uint) (*dto.PortfolioResponse, error) {
	if err := s.portfolioRepo.DeleteHolding(ctx, userID, portfolioID, holdingID); err != nil {
		return nil, s.storeError(ctx, err, "Failed to remove holding", apperror.New(apperror.KindNotFound, "Holding not found"))
	}
	return s.Get(ctx, userID, portfolioID)
}

func (s *portfolioService) saveHolding(ctx context.Context, holding *entity.Holding) (*dto.PortfolioResponse, error) {
	if holding.Quantity == 0 {
		return s.Liquidate(ctx, holding.UserID, holding.PortfolioID, holding.ID)
	}
	if err := s.portfolioRepo.UpdateHolding(ctx, holding); err != nil {
		return nil, s.storeError(ctx, err, "Failed to update holding", apperror.New(apperror.KindNotFound, "Holding not found"))
	}
	return s.Get(ctx, holding.UserID, holding.PortfolioID)
}

func (s *portfolioService) resolveAsset(ctx context.Context, kind entity.AssetKind, symbol string) (entity.AssetRef, error) {
	if symbol == "" {
		return entity.AssetRef{}, apperror.New(apperror.KindValidation, "symbol is required")
	}

	var (
		ref entity.AssetRef
		err error
	)
	switch kind {
	case entity.AssetKindStock:
		var stock *entity.StockMaster
		stock, err = s.masterRepo.GetStockBySymbol(ctx, strings.ToUpper(symbol))
		if err == nil {
			ref = entity.StockRef(stock.ID)
		}
	case entity.AssetKindMutualFund:
		var fund *entity.MutualFundMaster
		fund, err = s.masterRepo.GetFundBySymbol(ctx, symbol)
		if err == nil {
			ref = entity.MutualFundRef(fund.ID)
		}
	default:
		return entity.AssetRef{}, apperror.New(apperror.KindValidation, "asset_type must be stock or mutual_fund")
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return entity.AssetRef{}, apperror.New(apperror.KindValidation, "Unknown "+string(kind)+" symbol "+symbol)
		}
		s.logger.ErrorContext(ctx, "Failed to resolve asset", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return entity.AssetRef{}, apperror.Wrap(apperror.KindInternal, "Failed to resolve asset", err)
	}
	return ref, nil
}

func (s *portfolioService) load(ctx context.Context, userID, id uint) (*entity.Portfolio, error) {
	portfolio, err := s.portfolioRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to fetch portfolio", errPortfolioNotFound)
	}
	return portfolio, nil
}

func (s *portfolioService) loadHolding(ctx context.Context, userID, portfolioID, holdingID uint) (*entity.Holding, error) {
	holding, err := s.portfolioRepo.FindHolding(ctx, userID, portfolioID, holdingID)
	if err != nil {
		return nil, s.storeError(ctx, err, "Failed to fetch holding", apperror.New(apperror.KindNotFound, "Holding not found"))
	}
	return holding, nil
}

func (s *portfolioService) view(ctx context.Context, portfolio *entity.Portfolio) (*dto.PortfolioResponse, error) {
	valuation, err := s.valuator.ComputeTotalValue(ctx, portfolio)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to value portfolio", logger.ErrorField(err), logger.Field("portfolio_id", portfolio.ID))
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to value portfolio", err)
	}
	return &dto.PortfolioResponse{
		ID:        portfolio.ID,
		Name:      portfolio.Name,
		Valuation: valuation,
		CreatedAt: portfolio.CreatedAt,
		UpdatedAt: portfolio.UpdatedAt,
	}, nil
}

// storeError maps a repository error onto notFound or an internal error.
func (s *portfolioService) storeError(ctx context.Context, err error, msg string, notFound *apperror.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	s.logger.ErrorContext(ctx, msg, logger.ErrorField(err))
	return apperror.Wrap(apperror.KindInternal, msg, err)
}
