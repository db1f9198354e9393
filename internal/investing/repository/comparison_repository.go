package repository

import (
	"context"

	"investing-backend/internal/entity"

	"gorm.io/gorm"
)

// ComparisonRepository stores comparison snapshots. There is no update path.
type ComparisonRepository interface {
	Create(ctx context.Context, comparison *entity.Comparison) error
	FindAllByUser(ctx context.Context, userID uint) ([]entity.Comparison, error)
	FindByID(ctx context.Context, userID, id uint) (*entity.Comparison, error)
	Delete(ctx context.Context, userID, id uint) error
}

// NewComparisonRepository creates a new GORM-based comparison repository.
func NewComparisonRepository(db *gorm.DB) ComparisonRepository {
	return &comparisonRepository{db: db}
}

type comparisonRepository struct {
	db *gorm.DB
}

func (r *comparisonRepository) Create(ctx context.Context, comparison *entity.Comparison) error {
	return r.db.WithContext(ctx).Create(comparison).Error
}

func (r *comparisonRepository) FindAllByUser(ctx context.Context, userID uint) ([]entity.Comparison, error) {
	var comparisons []entity.Comparison
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&comparisons).Error
	if err != nil {
		return nil, err
	}
	return comparisons, nil
}

func (r *comparisonRepository) FindByID(ctx context.Context, userID, id uint) (*entity.Comparison, error) {
	var comparison entity.Comparison
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&comparison).Error; err != nil {
		return nil, translateError(err)
	}
	return &comparison, nil
}

func (r *comparisonRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Comparison{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
