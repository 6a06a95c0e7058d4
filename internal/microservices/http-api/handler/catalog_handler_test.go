package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
)

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	args := m.Called()
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, name string) (*models.Genre, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Update(ctx context.Context, id int64, patch dto.UpdateGenreDTO) (*models.Genre, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) List(ctx context.Context, q dto.ItemListQuery) ([]dto.ItemResponse, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ItemResponse), args.Error(1)
}

func (m *MockItemService) GetByID(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ItemResponse), args.Error(1)
}

func (m *MockItemService) Create(ctx context.Context, in dto.CreateItemDTO) (*dto.ItemResponse, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ItemResponse), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, id int64, patch dto.UpdateItemDTO) (*dto.ItemResponse, error) {
	args := m.Called(id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ItemResponse), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, id int64) error {
	return m.Called(id).Error(0)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, p *authz.Principal, in dto.CreateReviewDTO) (*models.Review, error) {
	args := m.Called(p, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListByItem(ctx context.Context, itemID int64) ([]models.Review, error) {
	args := m.Called(itemID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) ListByUser(ctx context.Context, userID int64) ([]models.Review, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, p *authz.Principal, id int64, patch dto.UpdateReviewDTO) (*models.Review, error) {
	args := m.Called(p, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, p *authz.Principal, id int64) error {
	return m.Called(p, id).Error(0)
}

func catalogRouter(t *testing.T, genres *MockGenreService, items *MockItemService, reviews *MockReviewService) *gin.Engine {
	r := setupRouter(t)
	authn := withTokens(new(MockAuthService))
	NewGenreHandler(genres).RegisterRoutes(r.Group("/genres"), authn)
	NewItemHandler(items).RegisterRoutes(r.Group("/items"), authn)
	NewReviewHandler(reviews).RegisterRoutes(r.Group("/reviews"), authn)
	return r
}

func TestGenreCreate_AdminGate(t *testing.T) {
	genres := new(MockGenreService)
	r := catalogRouter(t, genres, new(MockItemService), new(MockReviewService))
	genres.On("Create", "Action").Return(&models.Genre{ID: 1, Name: "Action"}, nil).Once()
	genres.On("Create", "Action").Return(nil, apperr.Conflict("genre already exists", nil)).Once()

	w := doJSON(r, http.MethodPost, "/genres", "user-token", `{"name":"Action"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	genres.AssertNotCalled(t, "Create", mock.Anything)

	w = doJSON(r, http.MethodPost, "/genres", "admin-token", `{"name":"Action"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Action"}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/genres", "admin-token", `{"name":"Action"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", errorBody(t, w).Code)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/genres", "", `{"name":"Action"}`).Code)
}

func TestGenreList_Open(t *testing.T) {
	genres := new(MockGenreService)
	r := catalogRouter(t, genres, new(MockItemService), new(MockReviewService))
	genres.On("GetAll").Return([]models.Genre{{ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}}, nil)

	w := doJSON(r, http.MethodGet, "/genres", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Action"},{"id":2,"name":"Drama"}]`, w.Body.String())
}

func TestItemList_QueryBinding(t *testing.T) {
	items := new(MockItemService)
	r := catalogRouter(t, new(MockGenreService), items, new(MockReviewService))
	items.On("List", mock.MatchedBy(func(q dto.ItemListQuery) bool {
		return q.Page == 2 && q.Size == 10 && q.Genre != nil && *q.Genre == "Action" && q.ReleaseYear == nil
	})).Return([]dto.ItemResponse{}, nil)
	items.On("List", mock.MatchedBy(func(q dto.ItemListQuery) bool {
		return q.Page == 1 && q.Size == 100
	})).Return([]dto.ItemResponse{}, nil)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/items?genre=Action&page=2&size=10", "", "").Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/items", "", "").Code, "defaults apply")

	w := doJSON(r, http.MethodGet, "/items?page=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorBody(t, w).Code)

	w = doJSON(r, http.MethodGet, "/items?genre=ab", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemGet(t *testing.T) {
	items := new(MockItemService)
	r := catalogRouter(t, new(MockGenreService), items, new(MockReviewService))
	avg := 8.0
	items.On("GetByID", int64(1)).Return(&dto.ItemResponse{ID: 1, Title: "Dune", AvgRating: &avg}, nil)
	items.On("GetByID", int64(2)).Return(&dto.ItemResponse{ID: 2, Title: "Empty"}, nil)
	items.On("GetByID", int64(3)).Return(nil, apperr.NotFound("item not found"))

	w := doJSON(r, http.MethodGet, "/items/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 8.0, body["avg_rating"])

	w = doJSON(r, http.MethodGet, "/items/2", "", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	v, present := body["avg_rating"]
	assert.True(t, present)
	assert.Nil(t, v)

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/items/3", "", "").Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/items/zero", "", "").Code)
}

func TestItemPatch(t *testing.T) {
	items := new(MockItemService)
	r := catalogRouter(t, new(MockGenreService), items, new(MockReviewService))
	items.On("Update", int64(1), mock.MatchedBy(func(p dto.UpdateItemDTO) bool {
		return p.Title.Set && p.Title.Value == "New" && !p.Description.Set && !p.ReleaseYear.Set && !p.GenreID.Set
	})).Return(&dto.ItemResponse{ID: 1, Title: "New"}, nil)

	w := doJSON(r, http.MethodPatch, "/items/1", "admin-token", `{"title":"New"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/items/1", "admin-token", `{"title":"New","rating":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorBody(t, w).Code)

	w = doJSON(r, http.MethodPatch, "/items/1", "admin-token", `{"release_year":"soon"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodPatch, "/items/1", "user-token", `{"title":"New"}`).Code)
	items.AssertNumberOfCalls(t, "Update", 1)
}

func TestItemCreate_RequiresYear(t *testing.T) {
	items := new(MockItemService)
	r := catalogRouter(t, new(MockGenreService), items, new(MockReviewService))
	items.On("Create", mock.Anything).Return(&dto.ItemResponse{ID: 9, Title: "Zero"}, nil)

	w := doJSON(r, http.MethodPost, "/items", "admin-token", `{"title":"Zero","genre_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// year 0 is a valid year
	w = doJSON(r, http.MethodPost, "/items", "admin-token", `{"title":"Zero","genre_id":1,"release_year":0}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReviewCreate_UsesCaller(t *testing.T) {
	reviews := new(MockReviewService)
	r := catalogRouter(t, new(MockGenreService), new(MockItemService), reviews)
	reviews.On("Create", alice, dto.CreateReviewDTO{ItemID: 3, Rating: 8, Comment: "good"}).
		Return(&models.Review{ID: 1, ItemID: 3, UserID: alice.UserID(), Rating: 8, Comment: "good"}, nil)

	w := doJSON(r, http.MethodPost, "/reviews", "user-token", `{"item_id":3,"rating":8,"comment":"good"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	// the author cannot be supplied by the client
	w = doJSON(r, http.MethodPost, "/reviews", "user-token", `{"item_id":3,"rating":8,"user_id":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusUnauthorized, doJSON(r, http.MethodPost, "/reviews", "", `{"item_id":3,"rating":8}`).Code)
	reviews.AssertNumberOfCalls(t, "Create", 1)
}

func TestReviewUpdate_Forbidden(t *testing.T) {
	reviews := new(MockReviewService)
	r := catalogRouter(t, new(MockGenreService), new(MockItemService), reviews)
	reviews.On("Update", root, int64(4), mock.Anything).Return(nil, apperr.Forbidden("only the author may modify this resource"))
	reviews.On("Delete", root, int64(4)).Return(apperr.Forbidden("only the author may modify this resource"))

	w := doJSON(r, http.MethodPatch, "/reviews/4", "admin-token", `{"rating":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", errorBody(t, w).Code)

	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodDelete, "/reviews/4", "admin-token", "").Code)
}

func TestReviewLists(t *testing.T) {
	reviews := new(MockReviewService)
	r := catalogRouter(t, new(MockGenreService), new(MockItemService), reviews)
	reviews.On("ListByItem", int64(3)).Return([]models.Review{{ID: 1, ItemID: 3, UserID: 1, Rating: 7}}, nil)
	reviews.On("ListByUser", int64(1)).Return([]models.Review{}, nil)
	reviews.On("GetByID", int64(1)).Return(&models.Review{ID: 1, ItemID: 3, UserID: 1, Rating: 7}, nil)

	w := doJSON(r, http.MethodGet, "/reviews/item/3", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rating":7`)

	w = doJSON(r, http.MethodGet, "/reviews/user/1", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/reviews/1", "", "").Code)
}

func TestInternalErrorsAreHidden(t *testing.T) {
	genres := new(MockGenreService)
	r := catalogRouter(t, genres, new(MockItemService), new(MockReviewService))
	genres.On("GetAll").Return([]models.Genre(nil), errors.New("pq: relation genres does not exist"))

	w := doJSON(r, http.MethodGet, "/genres", "", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}
