package repository

import (
	"context"
	"fmt"

	"investing-backend/internal/entity"
	"investing-backend/internal/investing/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MasterRepository is the catalog of stocks and mutual funds.
type MasterRepository interface {
	ListStocks(ctx context.Context, page dto.Page) ([]entity.StockMaster, error)
	GetStockBySymbol(ctx context.Context, symbol string) (*entity.StockMaster, error)
	FindStocksByIDs(ctx context.Context, ids []uint) ([]entity.StockMaster, error)
	ListFunds(ctx context.Context, page dto.Page) ([]entity.MutualFundMaster, error)
	GetFundBySymbol(ctx context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error)
	FindFundsByIDs(ctx context.Context, ids []uint) ([]entity.MutualFundMaster, error)

	// UpsertStock and UpsertFund are only used by the catalog import.
	UpsertStock(ctx context.Context, stock *entity.StockMaster) (int64, error)
	UpsertFund(ctx context.Context, fund *entity.MutualFundMaster) (int64, error)
}

// NewMasterRepository creates a new GORM-based catalog repository.
func NewMasterRepository(db *gorm.DB) MasterRepository {
	return &masterRepository{db: db}
}

type masterRepository struct {
	db *gorm.DB
}

func orderByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC")
}

func paginate(db *gorm.DB, page dto.Page) *gorm.DB {
	if page.Limit > 0 {
		db = db.Limit(page.Limit)
	}
	if page.Offset > 0 {
		db = db.Offset(page.Offset)
	}
	return db
}

// ListStocks returns the stock catalog with price history ordered by date.
func (r *masterRepository) ListStocks(ctx context.Context, page dto.Page) ([]entity.StockMaster, error) {
	var stocks []entity.StockMaster
	q := r.db.WithContext(ctx).Preload("PriceHistory", orderByDate).Order("symbol ASC")
	if err := paginate(q, page).Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return stocks, nil
}

// GetStockBySymbol returns one stock.
func (r *masterRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.StockMaster, error) {
	var stock entity.StockMaster
	err := r.db.WithContext(ctx).Preload("PriceHistory", orderByDate).
		Where("symbol = ?", symbol).First(&stock).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

// FindStocksByIDs returns the stocks that exist among ids. Missing ids are silently absent.
func (r *masterRepository) FindStocksByIDs(ctx context.Context, ids []uint) ([]entity.StockMaster, error) {
	var stocks []entity.StockMaster
	if len(ids) == 0 {
		return stocks, nil
	}
	err := r.db.WithContext(ctx).Preload("PriceHistory", orderByDate).
		Where("id IN (?)", ids).Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("find stocks by ids: %w", err)
	}
	return stocks, nil
}

// ListFunds returns the mutual fund catalog with NAV history ordered by date.
func (r *masterRepository) ListFunds(ctx context.Context, page dto.Page) ([]entity.MutualFundMaster, error) {
	var funds []entity.MutualFundMaster
	q := r.db.WithContext(ctx).Preload("NAVHistory", orderByDate).Order("symbol ASC")
	if err := paginate(q, page).Find(&funds).Error; err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	return funds, nil
}

// GetFundBySymbol returns one fund, matched by ISIN first and then by symbol.
func (r *masterRepository) GetFundBySymbol(ctx context.Context, symbolOrISIN string) (*entity.MutualFundMaster, error) {
	var fund entity.MutualFundMaster
	err := r.db.WithContext(ctx).Preload("NAVHistory", orderByDate).
		Where("isin = ? OR symbol = ?", symbolOrISIN, symbolOrISIN).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN isin = ? THEN 0 ELSE 1 END",
			Vars:               []interface{}{symbolOrISIN},
			WithoutParentheses: true,
		}}).
		First(&fund).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &fund, nil
}

// FindFundsByIDs returns the funds that exist among ids.
func (r *masterRepository) FindFundsByIDs(ctx context.Context, ids []uint) ([]entity.MutualFundMaster, error) {
	var funds []entity.MutualFundMaster
	if len(ids) == 0 {
		return funds, nil
	}
	err := r.db.WithContext(ctx).Preload("NAVHistory", orderByDate).
		Where("id IN (?)", ids).Find(&funds).Error
	if err != nil {
		return nil, fmt.Errorf("find funds by ids: %w", err)
	}
	return funds, nil
}

// UpsertStock inserts or updates a stock by symbol and appends price samples.
// Samples whose date already exists are left untouched. It returns the number of new samples.
func (r *masterRepository) UpsertStock(ctx context.Context, stock *entity.StockMaster) (int64, error) {
	var appended int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := stock.PriceHistory
		stock.PriceHistory = nil
		defer func() { stock.PriceHistory = history }()

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "sector", "market_cap", "style", "risk", "avg_return", "volatility", "updated_at"}),
		}).Create(stock).Error
		if err != nil {
			return fmt.Errorf("upsert stock %s: %w", stock.Symbol, err)
		}
		if stock.ID == 0 {
			if err := tx.Model(&entity.StockMaster{}).Select("id").Where("symbol = ?", stock.Symbol).Scan(&stock.ID).Error; err != nil {
				return err
			}
		}
		if len(history) == 0 {
			return nil
		}

		for i := range history {
			history[i].ID = 0
			history[i].StockMasterID = stock.ID
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "stock_master_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&history)
		if res.Error != nil {
			return fmt.Errorf("append price history for %s: %w", stock.Symbol, res.Error)
		}
		appended = res.RowsAffected
		return nil
	})
	return appended, err
}

// UpsertFund inserts or updates a fund by ISIN and appends NAV samples.
func (r *masterRepository) UpsertFund(ctx context.Context, fund *entity.MutualFundMaster) (int64, error) {
	var appended int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		history := fund.NAVHistory
		fund.NAVHistory = nil
		defer func() { fund.NAVHistory = history }()

		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "isin"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"symbol", "name", "type", "risk", "style", "return_1y", "return_3y", "return_5y", "aum_cr", "sector_focus", "updated_at",
			}),
		}).Create(fund).Error
		if err != nil {
			return fmt.Errorf("upsert fund %s: %w", fund.ISIN, err)
		}
		if fund.ID == 0 {
			if err := tx.Model(&entity.MutualFundMaster{}).Select("id").Where("isin = ?", fund.ISIN).Scan(&fund.ID).Error; err != nil {
				return err
			}
		}
		if len(history) == 0 {
			return nil
		}

		for i := range history {
			history[i].ID = 0
			history[i].MutualFundMasterID = fund.ID
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mutual_fund_master_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(&history)
		if res.Error != nil {
			return fmt.Errorf("append nav history for %s: %w", fund.ISIN, res.Error)
		}
		appended = res.RowsAffected
		return nil
	})
	return appended, err
}
