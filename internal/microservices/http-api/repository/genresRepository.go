package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	FindByName(ctx context.Context, name string) (*models.Genre, error)
	Create(ctx context.Context, g *models.Genre) error
	Update(ctx context.Context, id int64, fn func(*models.Genre) error) (*models.Genre, error)
	Delete(ctx context.Context, id int64) error
}

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) GetAll(ctx context.Context) ([]models.Genre, error) {
	list := []models.Genre{}
	if err := r.db.WithContext(ctx).Order("id asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	return list, nil
}

func (r *GenreRepo) FindByName(ctx context.Context, name string) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *GenreRepo) Create(ctx context.Context, g *models.Genre) error {
	if err := create(ctx, r.db, g); err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *GenreRepo) Update(ctx context.Context, id int64, fn func(*models.Genre) error) (*models.Genre, error) {
	g, err := mutate(ctx, r.db, id, fn)
	if err != nil {
		return nil, fmt.Errorf("update genre: %w", err)
	}
	return g, nil
}

// Delete fails with ErrReference while items still point at the genre.
func (r *GenreRepo) Delete(ctx context.Context, id int64) error {
	if err := remove[models.Genre](ctx, r.db, id, nil); err != nil {
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}
