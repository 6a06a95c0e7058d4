package dto

import (
	"time"

	"reviewhub/internal/microservices/http-api/models"
)

// CreateItemDTO used for POST /items
type CreateItemDTO struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
	// pointer so that year 0 passes "required"
	ReleaseYear *int  `json:"release_year" binding:"required"`
	GenreID     int64 `json:"genre_id" binding:"required,gt=0"`
}

// UpdateItemDTO used for PATCH /items/:item_id. Fields left out of the body stay unchanged.
type UpdateItemDTO struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	ReleaseYear Optional[int]    `json:"release_year"`
	GenreID     Optional[int64]  `json:"genre_id"`
}

// ItemListQuery is bound from GET /items query parameters.
type ItemListQuery struct {
	Genre       *string `form:"genre" binding:"omitempty,min=3"`
	ReleaseYear *int    `form:"release_year"`
	Title       *string `form:"title" binding:"omitempty,max=255"`
	Page        int     `form:"page,default=1"`
	Size        int     `form:"size,default=100"`
}

// ItemResponse is the public item shape. AvgRating is null for items without reviews.
type ItemResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ReleaseYear int       `json:"release_year"`
	GenreID     int64     `json:"genre_id"`
	CreatedAt   time.Time `json:"created_at"`
	AvgRating   *float64  `json:"avg_rating"`
}

func (d CreateItemDTO) ToModel() models.Item {
	m := models.Item{
		Title:       d.Title,
		Description: d.Description,
		GenreID:     d.GenreID,
	}
	if d.ReleaseYear != nil {
		m.ReleaseYear = *d.ReleaseYear
	}
	return m
}

// ApplyTo copies the fields present in the patch onto m.
func (d UpdateItemDTO) ApplyTo(m *models.Item) {
	if d.Title.Set {
		m.Title = d.Title.Value
	}
	if d.Description.Set {
		m.Description = d.Description.Value
	}
	if d.ReleaseYear.Set {
		m.ReleaseYear = d.ReleaseYear.Value
	}
	if d.GenreID.Set {
		m.GenreID = d.GenreID.Value
	}
}

func ItemFromModel(m models.Item, avg *float64) ItemResponse {
	return ItemResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		ReleaseYear: m.ReleaseYear,
		GenreID:     m.GenreID,
		CreatedAt:   m.CreatedAt,
		AvgRating:   avg,
	}
}
