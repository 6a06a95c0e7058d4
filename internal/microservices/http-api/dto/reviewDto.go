package dto

import (
	"time"

	"reviewhub/internal/microservices/http-api/models"
)

// CreateReviewDTO for POST /reviews. The author is always the caller.
type CreateReviewDTO struct {
	ItemID  int64  `json:"item_id" binding:"required,gt=0"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// UpdateReviewDTO for PATCH /reviews/:review_id
type UpdateReviewDTO struct {
	Rating  Optional[int]    `json:"rating"`
	Comment Optional[string] `json:"comment"`
}

type ReviewResponse struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (d UpdateReviewDTO) ApplyTo(r *models.Review) {
	if d.Rating.Set {
		r.Rating = d.Rating.Value
	}
	if d.Comment.Set {
		r.Comment = d.Comment.Value
	}
}

func ReviewFromModel(r models.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ItemID:    r.ItemID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func ReviewsFromModels(list []models.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ReviewFromModel(r))
	}
	return out
}
