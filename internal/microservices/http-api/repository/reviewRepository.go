package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	GetByItem(ctx context.Context, itemID int64) ([]models.Review, error)
	GetByUser(ctx context.Context, userID int64) ([]models.Review, error)
	// Update locks the review and hands it to fn, which may veto or change it.
	Update(ctx context.Context, id int64, fn func(*models.Review) error) (*models.Review, error)
	// Delete locks the review and deletes it unless check vetoes.
	Delete(ctx context.Context, id int64, check func(*models.Review) error) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create fails with ErrReference when the item (or author) does not exist.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := create(ctx, r.db, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (r *reviewRepository) GetByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id asc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("get reviews by item: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) GetByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("get reviews by user: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, id int64, fn func(*models.Review) error) (*models.Review, error) {
	review, err := mutate(ctx, r.db, id, fn)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64, check func(*models.Review) error) error {
	if err := remove(ctx, r.db, id, check); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
