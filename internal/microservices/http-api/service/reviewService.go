package service

import (
	"context"

	"github.com/rs/zerolog"

	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
)

const (
	detailReviewItemMissing = "item does not exist"
	detailReviewConflict    = "review conflicts with an existing record"
)

type ReviewService interface {
	// Create stores a review authored by p. The author never comes from the request.
	Create(ctx context.Context, p *authz.Principal, in dto.CreateReviewDTO) (*models.Review, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	ListByItem(ctx context.Context, itemID int64) ([]models.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Review, error)
	// Update and Delete are allowed for the author only.
	Update(ctx context.Context, p *authz.Principal, id int64, patch dto.UpdateReviewDTO) (*models.Review, error)
	Delete(ctx context.Context, p *authz.Principal, id int64) error
}

type reviewService struct {
	repo repository.ReviewRepository
	log  zerolog.Logger
}

func NewReviewService(r repository.ReviewRepository, log zerolog.Logger) ReviewService {
	return &reviewService{repo: r, log: log.With().Str("component", "reviews").Logger()}
}

func (s *reviewService) Create(ctx context.Context, p *authz.Principal, in dto.CreateReviewDTO) (*models.Review, error) {
	if err := authz.Authenticated(p); err != nil {
		return nil, err
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := validateComment(in.Comment); err != nil {
		return nil, err
	}

	review := &models.Review{
		ItemID:  in.ItemID,
		UserID:  p.UserID(),
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, mapConflict(err, detailReviewConflict, detailReviewItemMissing)
	}
	s.log.Info().
		Int64("review_id", review.ID).
		Int64("item_id", review.ItemID).
		Int64("user_id", review.UserID).
		Msg("review created")
	return review, nil
}

func (s *reviewService) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "review not found")
	}
	return r, nil
}

func (s *reviewService) ListByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	return s.repo.GetByItem(ctx, itemID)
}

func (s *reviewService) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	return s.repo.GetByUser(ctx, userID)
}

func (s *reviewService) Update(ctx context.Context, p *authz.Principal, id int64, patch dto.UpdateReviewDTO) (*models.Review, error) {
	if err := authz.Authenticated(p); err != nil {
		return nil, err
	}
	if patch.Rating.Set {
		if err := notNull("rating", patch.Rating.Null); err != nil {
			return nil, err
		}
		if err := validateRating(patch.Rating.Value); err != nil {
			return nil, err
		}
	}
	if patch.Comment.Set {
		if err := notNull("comment", patch.Comment.Null); err != nil {
			return nil, err
		}
		if err := validateComment(patch.Comment.Value); err != nil {
			return nil, err
		}
	}

	// ownership is checked against the locked row
	r, err := s.repo.Update(ctx, id, func(r *models.Review) error {
		if err := authz.Check(p, authz.Owner(r.UserID)); err != nil {
			return err
		}
		patch.ApplyTo(r)
		return nil
	})
	if err != nil {
		return nil, mapConflict(mapNotFound(err, "review not found"), detailReviewConflict, detailReviewItemMissing)
	}
	return r, nil
}

func (s *reviewService) Delete(ctx context.Context, p *authz.Principal, id int64) error {
	if err := authz.Authenticated(p); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, id, func(r *models.Review) error {
		return authz.Check(p, authz.Owner(r.UserID))
	})
	if err != nil {
		return mapNotFound(err, "review not found")
	}
	s.log.Info().Int64("review_id", id).Int64("user_id", p.UserID()).Msg("review deleted")
	return nil
}
