package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[uint]*entity.User
	nextID    uint
	createErr error
	// raceOnCreate makes FindByEmail miss but Create report a duplicate.
	raceOnCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*entity.User{}}
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if r.raceOnCreate {
		return repository.ErrDuplicateKey
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeMasterRepo struct {
	stocks []entity.StockMaster
	funds  []entity.MutualFundMaster
	err    error
	calls  int
}

func (r *fakeMasterRepo) ListStocks(_ context.Context, page dto.Page) ([]entity.StockMaster, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return window(r.stocks, page), nil
}

func (r *fakeMasterRepo) GetStockBySymbol(_ context.Context, symbol string) (*entity.StockMaster, error) {
	for i := range r.stocks {
		if r.stocks[i].Symbol == symbol {
			cp := r.stocks[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMasterRepo) FindStocksByIDs(_ context.Context, ids []uint) ([]entity.StockMaster, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.StockMaster
	for _, s := range r.stocks {
		for _, id := range ids {
			if s.ID == id {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMasterRepo) ListFunds(_ context.Context, page dto.Page) ([]entity.MutualFundMaster, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return window(r.funds, page), nil
}

func (r *fakeMasterRepo) GetFundBySymbol(_ context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error) {
	for i := range r.funds {
		if r.funds[i].ISIN == symbolOrISIN {
			cp := r.funds[i]
			return &cp, nil
		}
	}
	for i := range r.funds {
		if r.funds[i].Symbol == symbolOrISIN {
			cp := r.funds[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeMasterRepo) FindFundsByIDs(_ context.Context, ids []uint) ([]entity.MutualFundMaster, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.MutualFundMaster
	for _, f := range r.funds {
		for _, id := range ids {
			if f.ID == id {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeMasterRepo) UpsertStock(_ context.Context, stock *entity.StockMaster) (int64, error) {
	for i := range r.stocks {
		if r.stocks[i].Symbol == stock.Symbol {
			return appendStockHistory(&r.stocks[i], stock.PriceHistory), nil
		}
	}
	stock.ID = uint(len(r.stocks) + 1)
	history := stock.PriceHistory
	cp := *stock
	cp.PriceHistory = nil
	r.stocks = append(r.stocks, cp)
	return appendStockHistory(&r.stocks[len(r.stocks)-1], history), nil
}

func appendStockHistory(stock *entity.StockMaster, samples []entity.StockPrice) int64 {
	var appended int64
	for _, s := range samples {
		exists := false
		for _, p := range stock.PriceHistory {
			if p.Date.Equal(s.Date) {
				exists = true
				break
			}
		}
		if !exists {
			stock.PriceHistory = append(stock.PriceHistory, s)
			appended++
		}
	}
	sort.Slice(stock.PriceHistory, func(i, j int) bool {
		return stock.PriceHistory[i].Date.Before(stock.PriceHistory[j].Date)
	})
	return appended
}

func (r *fakeMasterRepo) UpsertFund(_ context.Context, fund *entity.MutualFundMaster) (int64, error) {
	for i := range r.funds {
		if r.funds[i].ISIN == fund.ISIN {
			return int64(len(fund.NAVHistory)), nil
		}
	}
	fund.ID = uint(len(r.funds) + 1)
	r.funds = append(r.funds, *fund)
	return int64(len(fund.NAVHistory)), nil
}

func window[T any](items []T, page dto.Page) []T {
	if page.Offset >= len(items) {
		return []T{}
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

type fakeCatalogCache struct {
	stocks      []entity.StockMaster
	funds       []entity.MutualFundMaster
	hasStocks   bool
	hasFunds    bool
	invalidated int
}

func (c *fakeCatalogCache) GetStocks(context.Context) ([]entity.StockMaster, bool, error) {
	return c.stocks, c.hasStocks, nil
}

func (c *fakeCatalogCache) SetStocks(_ context.Context, stocks []entity.StockMaster) error {
	c.stocks, c.hasStocks = stocks, true
	return nil
}

func (c *fakeCatalogCache) GetFunds(context.Context) ([]entity.MutualFundMaster, bool, error) {
	return c.funds, c.hasFunds, nil
}

func (c *fakeCatalogCache) SetFunds(_ context.Context, funds []entity.MutualFundMaster) error {
	c.funds, c.hasFunds = funds, true
	return nil
}

func (c *fakeCatalogCache) Invalidate(context.Context) error {
	c.invalidated++
	c.hasStocks, c.hasFunds = false, false
	return nil
}

type fakePortfolioRepo struct {
	portfolios  map[uint]*entity.Portfolio
	nextID      uint
	nextHolding uint
}

func newFakePortfolioRepo() *fakePortfolioRepo {
	return &fakePortfolioRepo{portfolios: map[uint]*entity.Portfolio{}}
}

func (r *fakePortfolioRepo) Create(_ context.Context, portfolio *entity.Portfolio) error {
	r.nextID++
	portfolio.ID = r.nextID
	cp := *portfolio
	r.portfolios[cp.ID] = &cp
	return nil
}

func (r *fakePortfolioRepo) FindAllByUser(_ context.Context, userID uint) ([]entity.Portfolio, error) {
	var out []entity.Portfolio
	for id := uint(1); id <= r.nextID; id++ {
		if p, ok := r.portfolios[id]; ok && p.UserID == userID {
			out = append(out, clonePortfolio(p))
		}
	}
	return out, nil
}

func (r *fakePortfolioRepo) FindByID(_ context.Context, userID, id uint) (*entity.Portfolio, error) {
	p, ok := r.portfolios[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := clonePortfolio(p)
	return &cp, nil
}

func (r *fakePortfolioRepo) Rename(_ context.Context, userID, id uint, name string) error {
	p, ok := r.portfolios[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	p.Name = name
	return nil
}

func (r *fakePortfolioRepo) Delete(_ context.Context, userID, id uint) error {
	p, ok := r.portfolios[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.portfolios, id)
	return nil
}

func (r *fakePortfolioRepo) CreateHolding(_ context.Context, holding *entity.Holding) error {
	p, ok := r.portfolios[holding.PortfolioID]
	if !ok {
		return repository.ErrNotFound
	}
	r.nextHolding++
	holding.ID = r.nextHolding
	p.Holdings = append(p.Holdings, *holding)
	return nil
}

func (r *fakePortfolioRepo) FindHolding(_ context.Context, userID, portfolioID, holdingID uint) (*entity.Holding, error) {
	p, ok := r.portfolios[portfolioID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, h := range p.Holdings {
		if h.ID == holdingID && h.UserID == userID {
			cp := h
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePortfolioRepo) UpdateHolding(_ context.Context, holding *entity.Holding) error {
	p, ok := r.portfolios[holding.PortfolioID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range p.Holdings {
		if p.Holdings[i].ID == holding.ID && p.Holdings[i].UserID == holding.UserID {
			p.Holdings[i].Quantity = holding.Quantity
			p.Holdings[i].PurchasePrice = holding.PurchasePrice
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakePortfolioRepo) DeleteHolding(_ context.Context, userID, portfolioID, holdingID uint) error {
	p, ok := r.portfolios[portfolioID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range p.Holdings {
		if p.Holdings[i].ID == holdingID && p.Holdings[i].UserID == userID {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func clonePortfolio(p *entity.Portfolio) entity.Portfolio {
	cp := *p
	cp.Holdings = append([]entity.Holding(nil), p.Holdings...)
	return cp
}

type fakeGoalRepo struct {
	goals  map[uint]*entity.Goal
	nextID uint
}

func newFakeGoalRepo() *fakeGoalRepo {
	return &fakeGoalRepo{goals: map[uint]*entity.Goal{}}
}

func (r *fakeGoalRepo) Create(_ context.Context, goal *entity.Goal) error {
	r.nextID++
	goal.ID = r.nextID
	cp := *goal
	r.goals[goal.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) FindAllByUser(_ context.Context, userID uint) ([]entity.Goal, error) {
	var out []entity.Goal
	for id := uint(1); id <= r.nextID; id++ {
		if g, ok := r.goals[id]; ok && g.UserID == userID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGoalRepo) FindByID(_ context.Context, userID, id uint) (*entity.Goal, error) {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGoalRepo) Update(_ context.Context, goal *entity.Goal) error {
	g, ok := r.goals[goal.ID]
	if !ok || g.UserID != goal.UserID {
		return repository.ErrNotFound
	}
	cp := *goal
	r.goals[goal.ID] = &cp
	return nil
}

func (r *fakeGoalRepo) Delete(_ context.Context, userID, id uint) error {
	g, ok := r.goals[id]
	if !ok || g.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

type fakeComparisonRepo struct {
	comparisons map[uint]*entity.Comparison
	nextID      uint
}

func newFakeComparisonRepo() *fakeComparisonRepo {
	return &fakeComparisonRepo{comparisons: map[uint]*entity.Comparison{}}
}

func (r *fakeComparisonRepo) Create(_ context.Context, c *entity.Comparison) error {
	r.nextID++
	c.ID = r.nextID
	cp := *c
	r.comparisons[c.ID] = &cp
	return nil
}

func (r *fakeComparisonRepo) FindAllByUser(_ context.Context, userID uint) ([]entity.Comparison, error) {
	var out []entity.Comparison
	for id := r.nextID; id >= 1; id-- {
		if c, ok := r.comparisons[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeComparisonRepo) FindByID(_ context.Context, userID, id uint) (*entity.Comparison, error) {
	c, ok := r.comparisons[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeComparisonRepo) Delete(_ context.Context, userID, id uint) error {
	c, ok := r.comparisons[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.comparisons, id)
	return nil
}

type fakeRecommendationRepo struct {
	mu      sync.Mutex
	records []entity.Recommendation
	err     error
}

func (r *fakeRecommendationRepo) Create(_ context.Context, rec *entity.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	rec.ID = uint(len(r.records) + 1)
	r.records = append(r.records, *rec)
	return nil
}

func (r *fakeRecommendationRepo) FindAllByUser(_ context.Context, userID uint, limit int) ([]entity.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Recommendation
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].UserID == userID {
			out = append(out, r.records[i])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeNewsRepo struct {
	articles []dto.Article
	err      error
	calls    int
}

func (r *fakeNewsRepo) GetType() string { return "fake" }

func (r *fakeNewsRepo) FetchArticles(_ context.Context, _ time.Time, _ int) ([]dto.Article, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.articles, nil
}
