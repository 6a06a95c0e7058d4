package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"reviewhub/internal/microservices/http-api/models"
	"reviewhub/internal/microservices/http-api/repository"
)

// The transactional mocks hand a copy of the configured fixture to the
// service callback and return the callback error, like the real repositories.

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
		user.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, fn func(*models.User) error) (*models.User, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	u := *args.Get(0).(*models.User)
	if err := fn(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleRepository mocks the RoleRepository interface
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id int64) (*models.UserRole, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRole), args.Error(1)
}

type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) GetAll(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindByName(ctx context.Context, name string) (*models.Genre, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, g *models.Genre) error {
	args := m.Called(ctx, g)
	if args.Error(0) == nil {
		g.ID = 1
	}
	return args.Error(0)
}

func (m *MockGenreRepository) Update(ctx context.Context, id int64, fn func(*models.Genre) error) (*models.Genre, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	g := *args.Get(0).(*models.Genre)
	if err := fn(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (m *MockGenreRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) List(ctx context.Context, f repository.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	if args.Error(0) == nil {
		item.ID = 1
	}
	return args.Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, id int64, fn func(*models.Item) error) (*models.Item, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	item := *args.Get(0).(*models.Item)
	if err := fn(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) AverageRating(ctx context.Context, itemID int64) (*float64, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockItemRepository) AverageRatings(ctx context.Context, itemIDs []int64) (map[int64]float64, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]float64), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	if args.Error(0) == nil {
		review.ID = 1
	}
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, id int64, fn func(*models.Review) error) (*models.Review, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	r := *args.Get(0).(*models.Review)
	if err := fn(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete returns the configured error, or the check verdict on the fixture.
func (m *MockReviewRepository) Delete(ctx context.Context, id int64, check func(*models.Review) error) error {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return err
	}
	if check != nil {
		r := *args.Get(0).(*models.Review)
		return check(&r)
	}
	return nil
}
