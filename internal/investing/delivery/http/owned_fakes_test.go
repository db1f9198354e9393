package http

import (
	"context"
	"strings"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/pkg/apperror"
)

// ownedPortfolio is a portfolio kept by fakePortfolioService with its owner.
type ownedPortfolio struct {
	owner uint
	dto.PortfolioResponse
}

// fakePortfolioService keeps portfolios in memory and hides other users'
// portfolios behind not found, like the real service does.
type fakePortfolioService struct {
	portfolios  map[uint]*ownedPortfolio
	nextID      uint
	nextHolding uint
}

func newFakePortfolioService() *fakePortfolioService {
	return &fakePortfolioService{portfolios: map[uint]*ownedPortfolio{}}
}

func (f *fakePortfolioService) lookup(userID, id uint) (*ownedPortfolio, error) {
	p, ok := f.portfolios[id]
	if !ok || p.owner != userID {
		return nil, apperror.New(apperror.KindNotFound, "Portfolio not found")
	}
	return p, nil
}

func (f *fakePortfolioService) holding(userID, id, holdingID uint) (*ownedPortfolio, int, error) {
	p, err := f.lookup(userID, id)
	if err != nil {
		return nil, 0, err
	}
	for i := range p.Valuation.Holdings {
		if p.Valuation.Holdings[i].ID == holdingID {
			return p, i, nil
		}
	}
	return nil, 0, apperror.New(apperror.KindNotFound, "Holding not found")
}

func snapshot(p *ownedPortfolio) *dto.PortfolioResponse {
	resp := p.PortfolioResponse
	valuation := *p.Valuation
	valuation.Holdings = append([]dto.HoldingResponse{}, p.Valuation.Holdings...)
	resp.Valuation = &valuation
	return &resp
}

func (f *fakePortfolioService) List(_ context.Context, userID uint) ([]dto.PortfolioResponse, error) {
	out := []dto.PortfolioResponse{}
	for id := uint(1); id <= f.nextID; id++ {
		if p, ok := f.portfolios[id]; ok && p.owner == userID {
			out = append(out, *snapshot(p))
		}
	}
	return out, nil
}

func (f *fakePortfolioService) Create(_ context.Context, userID uint, req *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.New(apperror.KindValidation, "Portfolio name is required")
	}
	f.nextID++
	p := &ownedPortfolio{owner: userID, PortfolioResponse: dto.PortfolioResponse{
		ID:        f.nextID,
		Name:      req.Name,
		Valuation: &dto.ValuationResponse{Currency: "INR", Holdings: []dto.HoldingResponse{}, Warnings: []dto.ValuationWarning{}},
	}}
	f.portfolios[p.ID] = p
	return snapshot(p), nil
}

func (f *fakePortfolioService) Get(_ context.Context, userID, id uint) (*dto.PortfolioResponse, error) {
	p, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	return snapshot(p), nil
}

func (f *fakePortfolioService) Rename(_ context.Context, userID, id uint, req *dto.UpdatePortfolioRequest) (*dto.PortfolioResponse, error) {
	p, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	return snapshot(p), nil
}

func (f *fakePortfolioService) Delete(_ context.Context, userID, id uint) error {
	if _, err := f.lookup(userID, id); err != nil {
		return err
	}
	delete(f.portfolios, id)
	return nil
}

func (f *fakePortfolioService) Valuation(_ context.Context, userID, id uint) (*dto.ValuationResponse, error) {
	p, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	return snapshot(p).Valuation, nil
}

func (f *fakePortfolioService) Buy(_ context.Context, userID, portfolioID uint, req *dto.BuyHoldingRequest) (*dto.PortfolioResponse, error) {
	p, err := f.lookup(userID, portfolioID)
	if err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, apperror.New(apperror.KindValidation, "Quantity must be greater than zero")
	}
	f.nextHolding++
	p.Valuation.Holdings = append(p.Valuation.Holdings, dto.HoldingResponse{
		ID:            f.nextHolding,
		AssetType:     req.AssetType,
		Symbol:        req.Symbol,
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	})
	return snapshot(p), nil
}

func (f *fakePortfolioService) UpdateHolding(_ context.Context, userID, portfolioID, holdingID uint, req *dto.UpdateHoldingRequest) (*dto.PortfolioResponse, error) {
	p, i, err := f.holding(userID, portfolioID, holdingID)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil {
		p.Valuation.Holdings[i].Quantity = *req.Quantity
	}
	if req.PurchasePrice != nil {
		p.Valuation.Holdings[i].PurchasePrice = *req.PurchasePrice
	}
	return snapshot(p), nil
}

func (f *fakePortfolioService) Sell(_ context.Context, userID, portfolioID, holdingID uint, req *dto.SellHoldingRequest) (*dto.PortfolioResponse, error) {
	p, i, err := f.holding(userID, portfolioID, holdingID)
	if err != nil {
		return nil, err
	}
	held := p.Valuation.Holdings[i].Quantity
	if req.Quantity <= 0 || req.Quantity > held {
		return nil, apperror.New(apperror.KindValidation, "Cannot sell more than the held quantity")
	}
	if req.Quantity == held {
		p.Valuation.Holdings = append(p.Valuation.Holdings[:i], p.Valuation.Holdings[i+1:]...)
		return snapshot(p), nil
	}
	p.Valuation.Holdings[i].Quantity = held - req.Quantity
	return snapshot(p), nil
}

func (f *fakePortfolioService) Liquidate(_ context.Context, userID, portfolioID, holdingID uint) (*dto.PortfolioResponse, error) {
	p, i, err := f.holding(userID, portfolioID, holdingID)
	if err != nil {
		return nil, err
	}
	p.Valuation.Holdings = append(p.Valuation.Holdings[:i], p.Valuation.Holdings[i+1:]...)
	return snapshot(p), nil
}

type fakeGoalService struct {
	goals  map[uint]*entity.Goal
	nextID uint
}

func newFakeGoalService() *fakeGoalService {
	return &fakeGoalService{goals: map[uint]*entity.Goal{}}
}

func (f *fakeGoalService) lookup(userID, id uint) (*entity.Goal, error) {
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, apperror.New(apperror.KindNotFound, "Goal not found")
	}
	return g, nil
}

func (f *fakeGoalService) List(_ context.Context, userID uint) ([]entity.Goal, error) {
	out := []entity.Goal{}
	for id := uint(1); id <= f.nextID; id++ {
		if g, ok := f.goals[id]; ok && g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGoalService) Create(_ context.Context, userID uint, req *dto.CreateGoalRequest) (*entity.Goal, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperror.New(apperror.KindValidation, "Goal name is required")
	}
	category := entity.GoalCategory(req.Category)
	if category == "" {
		category = entity.GoalCategoryCustom
	}
	f.nextID++
	g := &entity.Goal{
		ID:            f.nextID,
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		Category:      category,
		Achieved:      req.TargetAmount > 0 && req.CurrentAmount >= req.TargetAmount,
	}
	f.goals[g.ID] = g
	cp := *g
	return &cp, nil
}

func (f *fakeGoalService) Get(_ context.Context, userID, id uint) (*entity.Goal, error) {
	g, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGoalService) Update(_ context.Context, userID, id uint, req *dto.UpdateGoalRequest) (*entity.Goal, error) {
	g, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		g.Name = *req.Name
	}
	if req.TargetAmount != nil {
		g.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		g.CurrentAmount = *req.CurrentAmount
	}
	g.Achieved = g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
	cp := *g
	return &cp, nil
}

func (f *fakeGoalService) Delete(_ context.Context, userID, id uint) error {
	if _, err := f.lookup(userID, id); err != nil {
		return err
	}
	delete(f.goals, id)
	return nil
}

type fakeComparisonService struct {
	comparisons map[uint]*entity.Comparison
	nextID      uint
}

func newFakeComparisonService() *fakeComparisonService {
	return &fakeComparisonService{comparisons: map[uint]*entity.Comparison{}}
}

func (f *fakeComparisonService) lookup(userID, id uint) (*entity.Comparison, error) {
	c, ok := f.comparisons[id]
	if !ok || c.UserID != userID {
		return nil, apperror.New(apperror.KindNotFound, "Comparison not found")
	}
	return c, nil
}

func (f *fakeComparisonService) List(_ context.Context, userID uint) ([]entity.Comparison, error) {
	out := []entity.Comparison{}
	for id := uint(1); id <= f.nextID; id++ {
		if c, ok := f.comparisons[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComparisonService) Create(_ context.Context, userID uint, req *dto.CreateComparisonRequest) (*entity.Comparison, error) {
	kind, err := entity.ParseAssetKind(req.Kind)
	if err != nil {
		return nil, apperror.New(apperror.KindValidation, "kind must be stock or mutual_fund")
	}
	f.nextID++
	c := &entity.Comparison{
		ID:      f.nextID,
		UserID:  userID,
		Kind:    kind,
		Symbols: []string{req.SymbolA, req.SymbolB},
		Better:  req.SymbolA,
	}
	f.comparisons[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeComparisonService) Get(_ context.Context, userID, id uint) (*entity.Comparison, error) {
	c, err := f.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComparisonService) Delete(_ context.Context, userID, id uint) error {
	if _, err := f.lookup(userID, id); err != nil {
		return err
	}
	delete(f.comparisons, id)
	return nil
}
