package service

import (
	"context"

	"github.com/rs/zerolog"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
)

const (
	detailGenreExists     = "genre already exists"
	detailGenreReferenced = "genre is still referenced by items"
)

type GenreService interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	Create(ctx context.Context, name string) (*models.Genre, error)
	Update(ctx context.Context, id int64, patch dto.UpdateGenreDTO) (*models.Genre, error)
	Delete(ctx context.Context, id int64) error
}

type genreService struct {
	repo repository.GenreRepository
	log  zerolog.Logger
}

func NewGenreService(r repository.GenreRepository, log zerolog.Logger) GenreService {
	return &genreService{repo: r, log: log.With().Str("component", "genres").Logger()}
}

func (s *genreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	return s.repo.GetAll(ctx)
}

func (s *genreService) Create(ctx context.Context, name string) (*models.Genre, error) {
	name, err := normalizeGenreName(name)
	if err != nil {
		return nil, err
	}
	g := &models.Genre{Name: name}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, mapConflict(err, detailGenreExists, detailGenreReferenced)
	}
	s.log.Info().Int64("genre_id", g.ID).Str("name", g.Name).Msg("genre created")
	return g, nil
}

func (s *genreService) Update(ctx context.Context, id int64, patch dto.UpdateGenreDTO) (*models.Genre, error) {
	var name string
	if patch.Name.Set {
		if err := notNull("name", patch.Name.Null); err != nil {
			return nil, err
		}
		n, err := normalizeGenreName(patch.Name.Value)
		if err != nil {
			return nil, err
		}
		name = n
	}

	g, err := s.repo.Update(ctx, id, func(g *models.Genre) error {
		if patch.Name.Set {
			g.Name = name
		}
		return nil
	})
	if err != nil {
		return nil, mapConflict(mapNotFound(err, "genre not found"), detailGenreExists, detailGenreReferenced)
	}
	return g, nil
}

// Delete refuses while any item still belongs to the genre.
func (s *genreService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapConflict(mapNotFound(err, "genre not found"), detailGenreExists, detailGenreReferenced)
	}
	s.log.Info().Int64("genre_id", id).Msg("genre deleted")
	return nil
}
