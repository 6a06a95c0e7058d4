package dto

import "reviewhub/internal/microservices/http-api/models"

// CreateGenreDTO for POST /genres
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required,max=64"`
}

// UpdateGenreDTO for PATCH /genres/:genre_id
type UpdateGenreDTO struct {
	Name Optional[string] `json:"name"`
}

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		ID:   g.ID,
		Name: g.Name,
	}
}
