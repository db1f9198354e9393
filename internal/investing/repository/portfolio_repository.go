package repository

import (
	"context"
	"fmt"

	"investing-backend/internal/entity"

	"gorm.io/gorm"
)

// PortfolioRepository stores portfolios and their holdings.
// Every method is scoped by the owning user id.
type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *entity.Portfolio) error
	FindAllByUser(ctx context.Context, userID uint) ([]entity.Portfolio, error)
	FindByID(ctx context.Context, userID, id uint) (*entity.Portfolio, error)
	Rename(ctx context.Context, userID, id uint, name string) error
	Delete(ctx context.Context, userID, id uint) error

	CreateHolding(ctx context.Context, holding *entity.Holding) error
	FindHolding(ctx context.Context, userID, portfolioID, holdingID uint) (*entity.Holding, error)
	UpdateHolding(ctx context.Context, holding *entity.Holding) error
	DeleteHolding(ctx context.Context, userID, portfolioID, holdingID uint) error
}

// NewPortfolioRepository creates a new GORM-based portfolio repository.
func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{db: db}
}

type portfolioRepository struct {
	db *gorm.DB
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// Create creates a new portfolio.
func (r *portfolioRepository) Create(ctx context.Context, portfolio *entity.Portfolio) error {
	return r.db.WithContext(ctx).Omit("Holdings").Create(portfolio).Error
}

// FindAllByUser retrieves every portfolio of a user with its holdings.
func (r *portfolioRepository) FindAllByUser(ctx context.Context, userID uint) ([]entity.Portfolio, error) {
	var portfolios []entity.Portfolio
	err := r.db.WithContext(ctx).Preload("Holdings", orderByID).
		Where("user_id = ?", userID).Order("id ASC").Find(&portfolios).Error
	if err != nil {
		return nil, fmt.Errorf("find portfolios: %w", err)
	}
	return portfolios, nil
}

// FindByID retrieves a portfolio of the user with its holdings.
func (r *portfolioRepository) FindByID(ctx context.Context, userID, id uint) (*entity.Portfolio, error) {
	var portfolio entity.Portfolio
	err := r.db.WithContext(ctx).Preload("Holdings", orderByID).
		Where("id = ? AND user_id = ?", id, userID).First(&portfolio).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &portfolio, nil
}

// Rename changes the name of a portfolio of the user.
func (r *portfolioRepository) Rename(ctx context.Context, userID, id uint, name string) error {
	res := r.db.WithContext(ctx).Model(&entity.Portfolio{}).
		Where("id = ? AND user_id = ?", id, userID).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a portfolio of the user and all of its holdings.
func (r *portfolioRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Portfolio{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("portfolio_id = ? AND user_id = ?", id, userID).Delete(&entity.Holding{}).Error
	})
}

// CreateHolding inserts a holding. The caller has already checked portfolio ownership.
func (r *portfolioRepository) CreateHolding(ctx context.Context, holding *entity.Holding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

// FindHolding retrieves one holding of a portfolio of the user.
func (r *portfolioRepository) FindHolding(ctx context.Context, userID, portfolioID, holdingID uint) (*entity.Holding, error) {
	var holding entity.Holding
	err := r.db.WithContext(ctx).
		Where("id = ? AND portfolio_id = ? AND user_id = ?", holdingID, portfolioID, userID).
		First(&holding).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &holding, nil
}

// UpdateHolding saves quantity and purchase price of a holding.
func (r *portfolioRepository) UpdateHolding(ctx context.Context, holding *entity.Holding) error {
	res := r.db.WithContext(ctx).Model(&entity.Holding{}).
		Where("id = ? AND portfolio_id = ? AND user_id = ?", holding.ID, holding.PortfolioID, holding.UserID).
		Updates(map[string]interface{}{
			"quantity":       holding.Quantity,
			"purchase_price": holding.PurchasePrice,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHolding removes one holding of a portfolio of the user.
func (r *portfolioRepository) DeleteHolding(ctx context.Context, userID, portfolioID, holdingID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND portfolio_id = ? AND user_id = ?", holdingID, portfolioID, userID).
		Delete(&entity.Holding{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
