package repository

import (
	"context"

	"investing-backend/internal/entity"

	"gorm.io/gorm"
)

// GoalRepository stores goals scoped by owning user.
type GoalRepository interface {
	Create(ctx context.Context, goal *entity.Goal) error
	FindAllByUser(ctx context.Context, userID uint) ([]entity.Goal, error)
	FindByID(ctx context.Context, userID, id uint) (*entity.Goal, error)
	Update(ctx context.Context, goal *entity.Goal) error
	Delete(ctx context.Context, userID, id uint) error
}

// NewGoalRepository creates a new GORM-based goal repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

type goalRepository struct {
	db *gorm.DB
}

func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepository) FindAllByUser(ctx context.Context, userID uint) ([]entity.Goal, error) {
	var goals []entity.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *goalRepository) FindByID(ctx context.Context, userID, id uint) (*entity.Goal, error) {
	var goal entity.Goal
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&goal).Error; err != nil {
		return nil, translateError(err)
	}
	return &goal, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *entity.Goal) error {
	res := r.db.WithContext(ctx).Model(&entity.Goal{}).
		Where("id = ? AND user_id = ?", goal.ID, goal.UserID).
		Updates(map[string]interface{}{
			"name":           goal.Name,
			"target_amount":  goal.TargetAmount,
			"current_amount": goal.CurrentAmount,
			"target_date":    goal.TargetDate,
			"category":       goal.Category,
			"achieved":       goal.Achieved,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Goal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
