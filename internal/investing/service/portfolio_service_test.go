package service

import (
	"context"
	"testing"
	"time"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/pkg/apperror"
	"investing-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func testCatalog() *fakeMasterRepo {
	return &fakeMasterRepo{
		stocks: []entity.StockMaster{
			{
				ID: 1, Symbol: "TCS", Name: "Tata Consultancy", AvgReturn: 13.5, Volatility: 13,
				PriceHistory: []entity.StockPrice{
					{Date: day("2025-01-01"), Price: 95},
					{Date: day("2025-01-02"), Price: 100},
				},
			},
			{
				ID: 2, Symbol: "INFY", Name: "Infosys", AvgReturn: 12, Volatility: 15,
				PriceHistory: []entity.StockPrice{{Date: day("2025-01-02"), Price: 1500}},
			},
			{ID: 3, Symbol: "NEWCO", Name: "Unpriced"},
		},
		funds: []entity.MutualFundMaster{
			{
				ID: 1, Symbol: "AXISBLUE", ISIN: "INF846K01DP8", Name: "Axis Bluechip", Risk: "moderate", Return1Y: 14,
				NAVHistory: []entity.MutualFundNAV{{Date: day("2025-01-02"), NAV: 50}},
			},
			{
				ID: 2, Symbol: "SBISMALL", ISIN: "INF200K01T28", Name: "SBI Small Cap", Risk: "high", Return1Y: 14,
				NAVHistory: []entity.MutualFundNAV{{Date: day("2025-01-02"), NAV: 120}},
			},
		},
	}
}

func TestComputeTotalValue(t *testing.T) {
	valuator := NewValuator(testCatalog(), logger.NewNop())

	portfolio := &entity.Portfolio{
		ID: 1, UserID: 1,
		Holdings: []entity.Holding{
			{ID: 1, Asset: entity.StockRef(1), Quantity: 10, PurchasePrice: 90},
		},
	}

	v, err := valuator.ComputeTotalValue(context.Background(), portfolio)
	require.NoError(t, err)
	assert.Equal(t, "INR", v.Currency)
	assert.InDelta(t, 1000, v.TotalValue, 1e-9)
	assert.InDelta(t, 900, v.InvestedValue, 1e-9)
	assert.InDelta(t, 100, v.UnrealizedGain, 1e-9)
	assert.Contains(t, v.TotalValueDisplay, "1,000.00")
	assert.Empty(t, v.Warnings)

	require.Len(t, v.Holdings, 1)
	h := v.Holdings[0]
	assert.Equal(t, "TCS", h.Symbol)
	require.NotNil(t, h.CurrentPrice)
	assert.InDelta(t, 100, *h.CurrentPrice, 1e-9)
	assert.InDelta(t, 100, *h.UnrealizedGain, 1e-9)
}

func TestComputeTotalValueMixesStocksAndFunds(t *testing.T) {
	valuator := NewValuator(testCatalog(), logger.NewNop())

	portfolio := &entity.Portfolio{
		Holdings: []entity.Holding{
			{ID: 1, Asset: entity.StockRef(2), Quantity: 2, PurchasePrice: 1400},
			{ID: 2, Asset: entity.MutualFundRef(1), Quantity: 10.5, PurchasePrice: 40},
		},
	}

	v, err := valuator.ComputeTotalValue(context.Background(), portfolio)
	require.NoError(t, err)
	assert.InDelta(t, 3000+525, v.TotalValue, 1e-9)
	assert.InDelta(t, 2800+420, v.InvestedValue, 1e-9)
}

func TestComputeTotalValueExcludesDanglingHoldings(t *testing.T) {
	valuator := NewValuator(testCatalog(), logger.NewNop())

	portfolio := &entity.Portfolio{
		Holdings: []entity.Holding{
			{ID: 1, Asset: entity.StockRef(1), Quantity: 10, PurchasePrice: 90},
			{ID: 2, Asset: entity.StockRef(99), Quantity: 5, PurchasePrice: 10},
			{ID: 3, Asset: entity.StockRef(3), Quantity: 1, PurchasePrice: 10},
		},
	}

	v, err := valuator.ComputeTotalValue(context.Background(), portfolio)
	require.NoError(t, err)
	assert.InDelta(t, 1000, v.TotalValue, 1e-9)
	assert.InDelta(t, 100, v.UnrealizedGain, 1e-9)

	require.Len(t, v.Warnings, 2)
	assert.Equal(t, uint(2), v.Warnings[0].HoldingID)
	assert.Equal(t, WarningDanglingReference, v.Warnings[0].Code)
	assert.Equal(t, WarningMissingPrice, v.Warnings[1].Code)

	require.Len(t, v.Holdings, 3)
	assert.True(t, v.Holdings[1].Dangling)
	assert.Nil(t, v.Holdings[1].CurrentValue)
}

func TestComputeTotalValueEmptyPortfolio(t *testing.T) {
	valuator := NewValuator(testCatalog(), logger.NewNop())

	v, err := valuator.ComputeTotalValue(context.Background(), &entity.Portfolio{})
	require.NoError(t, err)
	assert.Zero(t, v.TotalValue)
	assert.NotNil(t, v.Holdings)
	assert.NotNil(t, v.Warnings)
}

func newTestPortfolioService() (PortfolioService, *fakePortfolioRepo) {
	catalog := testCatalog()
	repo := newFakePortfolioRepo()
	log := logger.NewNop()
	return NewPortfolioService(repo, catalog, NewValuator(catalog, log), log), repo
}

func TestPortfolioLifecycle(t *testing.T) {
	svc, _ := newTestPortfolioService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, &dto.CreatePortfolioRequest{Name: "Long term"})
	require.NoError(t, err)

	p, err = svc.Buy(ctx, 1, p.ID, &dto.BuyHoldingRequest{AssetType: "stock", Symbol: "tcs", Quantity: 10, PurchasePrice: 90, PurchaseDate: "2025-01-01"})
	require.NoError(t, err)
	require.Len(t, p.Valuation.Holdings, 1)
	holdingID := p.Valuation.Holdings[0].ID
	assert.InDelta(t, 1000, p.Valuation.TotalValue, 1e-9)

	p, err = svc.Buy(ctx, 1, p.ID, &dto.BuyHoldingRequest{AssetType: "mutualFund", Symbol: "INF846K01DP8", Quantity: 2, PurchasePrice: 45})
	require.NoError(t, err)
	require.Len(t, p.Valuation.Holdings, 2)
	assert.Equal(t, "AXISBLUE", p.Valuation.Holdings[1].Symbol)

	p, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 4})
	require.NoError(t, err)
	assert.InDelta(t, 6, p.Valuation.Holdings[0].Quantity, 1e-9)

	_, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 7})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	p, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 6})
	require.NoError(t, err)
	require.Len(t, p.Valuation.Holdings, 1, "selling everything removes the holding")

	fundHolding := p.Valuation.Holdings[0].ID
	qty := 5.0
	p, err = svc.UpdateHolding(ctx, 1, p.ID, fundHolding, &dto.UpdateHoldingRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.InDelta(t, 250, p.Valuation.TotalValue, 1e-9)

	p, err = svc.Liquidate(ctx, 1, p.ID, fundHolding)
	require.NoError(t, err)
	assert.Empty(t, p.Valuation.Holdings)

	p, err = svc.Rename(ctx, 1, p.ID, &dto.UpdatePortfolioRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)

	require.NoError(t, svc.Delete(ctx, 1, p.ID))
	_, err = svc.Get(ctx, 1, p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestSellFractionalUnitsLiquidatesExactly(t *testing.T) {
	svc, _ := newTestPortfolioService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, &dto.CreatePortfolioRequest{Name: "Funds"})
	require.NoError(t, err)
	p, err = svc.Buy(ctx, 1, p.ID, &dto.BuyHoldingRequest{AssetType: "mutualFund", Symbol: "AXISBLUE", Quantity: 0.3, PurchasePrice: 50})
	require.NoError(t, err)
	require.Len(t, p.Valuation.Holdings, 1)
	holdingID := p.Valuation.Holdings[0].ID

	p, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0.2, p.Valuation.Holdings[0].Quantity)

	p, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 0.1, p.Valuation.Holdings[0].Quantity)

	p, err = svc.Sell(ctx, 1, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 0.1})
	require.NoError(t, err)
	assert.Empty(t, p.Valuation.Holdings)
}

func TestBuyValidation(t *testing.T) {
	svc, _ := newTestPortfolioService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, &dto.CreatePortfolioRequest{Name: "P"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.BuyHoldingRequest
	}{
		{"unknown asset type", dto.BuyHoldingRequest{AssetType: "crypto", Symbol: "TCS", Quantity: 1}},
		{"zero quantity", dto.BuyHoldingRequest{AssetType: "stock", Symbol: "TCS", Quantity: 0}},
		{"negative price", dto.BuyHoldingRequest{AssetType: "stock", Symbol: "TCS", Quantity: 1, PurchasePrice: -1}},
		{"unknown symbol", dto.BuyHoldingRequest{AssetType: "stock", Symbol: "NOPE", Quantity: 1}},
		{"fund symbol as stock", dto.BuyHoldingRequest{AssetType: "stock", Symbol: "AXISBLUE", Quantity: 1}},
		{"bad date", dto.BuyHoldingRequest{AssetType: "stock", Symbol: "TCS", Quantity: 1, PurchaseDate: "01/02/2025"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Buy(ctx, 1, p.ID, &tt.req)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		})
	}

	_, err = svc.Create(ctx, 1, &dto.CreatePortfolioRequest{Name: "  "})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestPortfolioIsScopedToOwner(t *testing.T) {
	svc, _ := newTestPortfolioService()
	ctx := context.Background()

	p, err := svc.Create(ctx, 1, &dto.CreatePortfolioRequest{Name: "Mine"})
	require.NoError(t, err)
	p, err = svc.Buy(ctx, 1, p.ID, &dto.BuyHoldingRequest{AssetType: "stock", Symbol: "TCS", Quantity: 1})
	require.NoError(t, err)
	holdingID := p.Valuation.Holdings[0].ID

	_, err = svc.Get(ctx, 2, p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.Buy(ctx, 2, p.ID, &dto.BuyHoldingRequest{AssetType: "stock", Symbol: "TCS", Quantity: 1})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = svc.Sell(ctx, 2, p.ID, holdingID, &dto.SellHoldingRequest{Quantity: 1})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(svc.Delete(ctx, 2, p.ID)))

	list, err := svc.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, list)
}
