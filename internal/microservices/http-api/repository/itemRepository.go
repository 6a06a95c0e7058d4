package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"reviewhub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ItemFilter narrows an item listing. Nil fields are not applied.
type ItemFilter struct {
	GenreID     *int64
	ReleaseYear *int
	// Title matches case-insensitively anywhere in the item title.
	Title *string
	// Page is 1-indexed.
	Page int
	Size int
}

type ItemRepository interface {
	List(ctx context.Context, f ItemFilter) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Create(ctx context.Context, m *models.Item) error
	Update(ctx context.Context, id int64, fn func(*models.Item) error) (*models.Item, error)
	Delete(ctx context.Context, id int64) error
	AverageRating(ctx context.Context, itemID int64) (*float64, error)
	AverageRatings(ctx context.Context, itemIDs []int64) (map[int64]float64, error)
}

type ItemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// List returns one page of items ordered by id.
func (r *ItemRepo) List(ctx context.Context, f ItemFilter) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if f.GenreID != nil {
		q = q.Where("genre_id = ?", *f.GenreID)
	}
	if f.ReleaseYear != nil {
		q = q.Where("release_year = ?", *f.ReleaseYear)
	}
	if f.Title != nil && *f.Title != "" {
		q = q.Where("title ILIKE ? ESCAPE '\\'", "%"+escapeLike(*f.Title)+"%")
	}

	offset := (f.Page - 1) * f.Size
	list := []models.Item{}
	if err := q.Order("id asc").Offset(offset).Limit(f.Size).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return list, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	var m models.Item
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Create fails with ErrReference when the genre does not exist.
func (r *ItemRepo) Create(ctx context.Context, m *models.Item) error {
	if err := create(ctx, r.db, m); err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	// GORM populates m.ID and m.CreatedAt
	return nil
}

func (r *ItemRepo) Update(ctx context.Context, id int64, fn func(*models.Item) error) (*models.Item, error) {
	m, err := mutate(ctx, r.db, id, fn)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return m, nil
}

// Delete removes the item together with its reviews.
func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	if err := remove[models.Item](ctx, r.db, id, nil); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// AverageRating returns the mean rating of the item's reviews, or nil when it has none.
func (r *ItemRepo) AverageRating(ctx context.Context, itemID int64) (*float64, error) {
	var avg sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating)::float8").
		Where("item_id = ?", itemID).
		Row().
		Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// AverageRatings returns the mean rating per item for the given ids.
// Items without reviews are absent from the map.
func (r *ItemRepo) AverageRatings(ctx context.Context, itemIDs []int64) (map[int64]float64, error) {
	out := make(map[int64]float64, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		ItemID  int64
		Average float64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("item_id, AVG(rating)::float8 AS average").
		Where("item_id IN ?", itemIDs).
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("average ratings: %w", err)
	}
	for _, row := range rows {
		out[row.ItemID] = row.Average
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
