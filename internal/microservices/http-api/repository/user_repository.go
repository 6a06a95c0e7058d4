package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id int64, fn func(*models.User) error) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user. Duplicate username or email comes back as ErrDuplicate.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return create(ctx, r.db, user)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// return nil on miss, never a zero-value user
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id int64, fn func(*models.User) error) (*models.User, error) {
	user, err := mutate(ctx, r.db, id, fn)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes the user; their reviews cascade.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	if err := remove[models.User](ctx, r.db, id, nil); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
