package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
)

const (
	detailItemGenreMissing = "genre does not exist"
	detailItemConflict     = "item conflicts with an existing record"
)

type ItemService interface {
	List(ctx context.Context, q dto.ItemListQuery) ([]dto.ItemResponse, error)
	// GetByID returns the item with its average rating computed at read time.
	GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error)
	Create(ctx context.Context, in dto.CreateItemDTO) (*dto.ItemResponse, error)
	Update(ctx context.Context, id int64, patch dto.UpdateItemDTO) (*dto.ItemResponse, error)
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	items  repository.ItemRepository
	genres repository.GenreRepository
	now    func() time.Time
	log    zerolog.Logger
}

func NewItemService(items repository.ItemRepository, genres repository.GenreRepository, log zerolog.Logger) ItemService {
	return &itemService{
		items:  items,
		genres: genres,
		now:    time.Now,
		log:    log.With().Str("component", "items").Logger(),
	}
}

func (s *itemService) List(ctx context.Context, q dto.ItemListQuery) ([]dto.ItemResponse, error) {
	if err := validatePage(q.Page, q.Size); err != nil {
		return nil, err
	}
	if q.Title != nil && len([]rune(*q.Title)) > maxTitleLength {
		return nil, apperr.Validationf("title filter must be at most %d characters", maxTitleLength)
	}
	if q.ReleaseYear != nil {
		if err := validateReleaseYear(*q.ReleaseYear, s.now()); err != nil {
			return nil, err
		}
	}

	f := repository.ItemFilter{
		ReleaseYear: q.ReleaseYear,
		Title:       q.Title,
		Page:        q.Page,
		Size:        q.Size,
	}
	if q.Genre != nil {
		if len([]rune(*q.Genre)) < minGenreFilter {
			return nil, apperr.Validationf("genre filter must be at least %d characters", minGenreFilter)
		}
		g, err := s.genres.FindByName(ctx, *q.Genre)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.Conflict("genre not found", err)
			}
			return nil, err
		}
		f.GenreID = &g.ID
	}

	list, err := s.items.List(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	avgs, err := s.items.AverageRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ItemResponse, 0, len(list))
	for _, m := range list {
		var avg *float64
		if v, ok := avgs[m.ID]; ok {
			avg = &v
		}
		out = append(out, dto.ItemFromModel(m, avg))
	}
	return out, nil
}

func (s *itemService) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	m, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "item not found")
	}
	return s.withAverage(ctx, *m)
}

func (s *itemService) Create(ctx context.Context, in dto.CreateItemDTO) (*dto.ItemResponse, error) {
	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if in.ReleaseYear == nil {
		return nil, apperr.Validation("release_year is required")
	}
	if err := validateReleaseYear(*in.ReleaseYear, s.now()); err != nil {
		return nil, err
	}
	if in.GenreID <= 0 {
		return nil, apperr.Validation("genre_id is required")
	}

	m := in.ToModel()
	if err := s.items.Create(ctx, &m); err != nil {
		return nil, mapConflict(err, detailItemConflict, detailItemGenreMissing)
	}
	s.log.Info().Int64("item_id", m.ID).Str("title", m.Title).Msg("item created")

	// a new item has no reviews yet
	resp := dto.ItemFromModel(m, nil)
	return &resp, nil
}

func (s *itemService) Update(ctx context.Context, id int64, patch dto.UpdateItemDTO) (*dto.ItemResponse, error) {
	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}

	m, err := s.items.Update(ctx, id, func(m *models.Item) error {
		patch.ApplyTo(m)
		return nil
	})
	if err != nil {
		return nil, mapConflict(mapNotFound(err, "item not found"), detailItemConflict, detailItemGenreMissing)
	}
	return s.withAverage(ctx, *m)
}

// Delete removes the item and its reviews.
func (s *itemService) Delete(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return mapConflict(mapNotFound(err, "item not found"), detailItemConflict, detailItemGenreMissing)
	}
	s.log.Info().Int64("item_id", id).Msg("item deleted")
	return nil
}

func (s *itemService) validatePatch(patch dto.UpdateItemDTO) error {
	if patch.Title.Set {
		if err := notNull("title", patch.Title.Null); err != nil {
			return err
		}
		if err := validateTitle(patch.Title.Value); err != nil {
			return err
		}
	}
	if patch.Description.Set {
		if err := notNull("description", patch.Description.Null); err != nil {
			return err
		}
	}
	if patch.ReleaseYear.Set {
		if err := notNull("release_year", patch.ReleaseYear.Null); err != nil {
			return err
		}
		if err := validateReleaseYear(patch.ReleaseYear.Value, s.now()); err != nil {
			return err
		}
	}
	if patch.GenreID.Set {
		if err := notNull("genre_id", patch.GenreID.Null); err != nil {
			return err
		}
		if patch.GenreID.Value <= 0 {
			return apperr.Validation("genre_id must be positive")
		}
	}
	return nil
}

func (s *itemService) withAverage(ctx context.Context, m models.Item) (*dto.ItemResponse, error) {
	avg, err := s.items.AverageRating(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	resp := dto.ItemFromModel(m, avg)
	return &resp, nil
}
