package service

import (
	"context"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"
	"investing-backend/internal/investing/repository"
	"investing-backend/pkg/common"
	"investing-backend/pkg/logger"
	"investing-backend/pkg/utils"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	WarningDanglingReference = "DanglingReference"
	WarningMissingPrice      = "MissingPrice"
)

// quote is the catalog data a holding resolves to.
type quote struct {
	symbol string
	name   string
	price  float64
	priced bool
}

// Valuator derives portfolio value from the catalog. Nothing it computes is persisted.
type Valuator struct {
	masterRepo repository.MasterRepository
	logger     *logger.Logger
	currency   string
}

// NewValuator creates a new Valuator.
func NewValuator(masterRepo repository.MasterRepository, log *logger.Logger) *Valuator {
	return &Valuator{
		masterRepo: masterRepo,
		logger:     log,
		currency:   common.DefaultCurrency,
	}
}

// ComputeTotalValue values every holding at its latest catalog price.
// Holdings whose asset no longer resolves are excluded from the totals and reported as warnings.
func (v *Valuator) ComputeTotalValue(ctx context.Context, portfolio *entity.Portfolio) (*dto.ValuationResponse, error) {
	quotes, err := v.resolve(ctx, portfolio.Holdings)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	invested := decimal.Zero
	resp := &dto.ValuationResponse{
		Currency: v.currency,
		Holdings: make([]dto.HoldingResponse, 0, len(portfolio.Holdings)),
		Warnings: []dto.ValuationWarning{},
	}

	for _, h := range portfolio.Holdings {
		item := dto.HoldingResponse{
			ID:            h.ID,
			AssetType:     string(h.Asset.Kind),
			AssetID:       h.Asset.ID,
			Quantity:      h.Quantity,
			PurchasePrice: h.PurchasePrice,
			PurchaseDate:  h.PurchaseDate,
		}

		q, ok := quotes[h.Asset]
		switch {
		case !ok:
			item.Dangling = true
			resp.Warnings = append(resp.Warnings, dto.ValuationWarning{
				HoldingID: h.ID,
				Asset:     h.Asset.String(),
				Code:      WarningDanglingReference,
				Message:   "asset no longer exists in the catalog",
			})
			v.logger.WarnContext(ctx, "Holding references a missing catalog entry",
				logger.Field("portfolio_id", portfolio.ID),
				logger.Field("holding_id", h.ID),
				logger.StringField("asset", h.Asset.String()),
			)
		case !q.priced:
			item.Symbol, item.Name = q.symbol, q.name
			resp.Warnings = append(resp.Warnings, dto.ValuationWarning{
				HoldingID: h.ID,
				Asset:     h.Asset.String(),
				Code:      WarningMissingPrice,
				Message:   "asset has no price history",
			})
		default:
			qty := decimal.NewFromFloat(h.Quantity)
			current := qty.Mul(decimal.NewFromFloat(q.price))
			cost := qty.Mul(decimal.NewFromFloat(h.PurchasePrice))
			total = total.Add(current)
			invested = invested.Add(cost)

			item.Symbol, item.Name = q.symbol, q.name
			item.CurrentPrice = utils.ToPointer(q.price)
			item.CurrentValue = utils.ToPointer(current.InexactFloat64())
			item.UnrealizedGain = utils.ToPointer(current.Sub(cost).InexactFloat64())
		}
		resp.Holdings = append(resp.Holdings, item)
	}

	gain := total.Sub(invested)
	resp.TotalValue = total.InexactFloat64()
	resp.InvestedValue = invested.InexactFloat64()
	resp.UnrealizedGain = gain.InexactFloat64()
	resp.TotalValueDisplay = v.display(total)
	resp.InvestedValueDisplay = v.display(invested)
	resp.UnrealizedGainDisplay = v.display(gain)
	return resp, nil
}

// resolve loads the catalog rows of all holdings with one query per asset kind.
func (v *Valuator) resolve(ctx context.Context, holdings []entity.Holding) (map[entity.AssetRef]quote, error) {
	var stockIDs, fundIDs []uint
	for _, h := range holdings {
		switch h.Asset.Kind {
		case entity.AssetKindStock:
			stockIDs = append(stockIDs, h.Asset.ID)
		case entity.AssetKindMutualFund:
			fundIDs = append(fundIDs, h.Asset.ID)
		}
	}

	quotes := make(map[entity.AssetRef]quote, len(holdings))

	stocks, err := v.masterRepo.FindStocksByIDs(ctx, stockIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range stocks {
		q := quote{symbol: s.Symbol, name: s.Name}
		if latest, ok := s.LatestPrice(); ok {
			q.price, q.priced = latest.Price, true
		}
		quotes[entity.StockRef(s.ID)] = q
	}

	funds, err := v.masterRepo.FindFundsByIDs(ctx, fundIDs)
	if err != nil {
		return nil, err
	}
	for _, f := range funds {
		q := quote{symbol: f.Symbol, name: f.Name}
		if latest, ok := f.LatestNAV(); ok {
			q.price, q.priced = latest.NAV, true
		}
		quotes[entity.MutualFundRef(f.ID)] = q
	}

	return quotes, nil
}

// display formats amount in minor units of the valuation currency.
func (v *Valuator) display(amount decimal.Decimal) string {
	cur := money.GetCurrency(v.currency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), v.currency).Display()
}
