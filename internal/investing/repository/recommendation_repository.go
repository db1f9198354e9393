package repository

import (
	"context"

	"investing-backend/internal/entity"

	"gorm.io/gorm"
)

// RecommendationRepository stores the append-only recommendation history.
type RecommendationRepository interface {
	Create(ctx context.Context, recommendation *entity.Recommendation) error
	FindAllByUser(ctx context.Context, userID uint, limit int) ([]entity.Recommendation, error)
}

// NewRecommendationRepository creates a new GORM-based recommendation repository.
func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

type recommendationRepository struct {
	db *gorm.DB
}

func (r *recommendationRepository) Create(ctx context.Context, recommendation *entity.Recommendation) error {
	return r.db.WithContext(ctx).Create(recommendation).Error
}

// FindAllByUser returns the newest entries first. A non-positive limit returns everything.
func (r *recommendationRepository) FindAllByUser(ctx context.Context, userID uint, limit int) ([]entity.Recommendation, error) {
	var recommendations []entity.Recommendation
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recommendations).Error; err != nil {
		return nil, err
	}
	return recommendations, nil
}
