package repository

import (
	"context"
	"fmt"

	"investing-backend/internal/entity"

	"gorm.io/gorm"
)

// UserRepository is the credential store.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
}

// NewUserRepository creates a new GORM-based user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

type userRepository struct {
	db *gorm.DB
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// FindByID retrieves a user by id.
func (r *userRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// Create inserts a user. A taken email surfaces as ErrDuplicateKey from the unique index.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		err = translateError(err)
		if err == ErrDuplicateKey {
			return err
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update saves the profile fields of a user.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).Model(user).Select(
		"name", "mobile", "address", "date_of_birth", "risk_profile", "updated_at",
	).Updates(user).Error
	return translateError(err)
}
