package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/models"
)

type stubAuthenticator map[string]*authz.Principal

func (s stubAuthenticator) Resolve(_ context.Context, token string) (*authz.Principal, error) {
	if token == "broken-store" {
		return nil, errors.New("db down")
	}
	p, ok := s[token]
	if !ok {
		return nil, apperr.Unauthorized("could not validate credentials")
	}
	return p, nil
}

var testUsers = stubAuthenticator{
	"user-token":  {User: &models.User{ID: 1, Username: "alice"}, RoleName: models.RoleUser},
	"admin-token": {User: &models.User{ID: 2, Username: "root"}, RoleName: models.RoleAdmin},
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", RequireAuth(testUsers), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": PrincipalFrom(c).UserID()})
	})
	r.POST("/admin", RequireAuth(testUsers), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r
}

func do(r http.Handler, method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := setupRouter()

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer user-token", http.StatusOK},
		{"lowercase scheme", "bearer user-token", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token user-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"store failure", "Bearer broken-store", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/me", tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestRequireAuth_HidesInternalErrors(t *testing.T) {
	w := do(setupRouter(), http.MethodGet, "/me", "Bearer broken-store")

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRequireAdmin(t *testing.T) {
	r := setupRouter()

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/admin", "Bearer admin-token").Code)

	w := do(r, http.MethodPost, "/admin", "Bearer user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body.Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/admin", "").Code)
}

func TestRequestID(t *testing.T) {
	r := setupRouter()

	w := do(r, http.MethodGet, "/me", "Bearer user-token")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	req.Header.Set("Authorization", "Bearer user-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(apperr.NotFound("x")))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.Conflict("x", nil)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(apperr.Validation("x")))
	assert.Equal(t, http.StatusUnauthorized, StatusFor(apperr.Unauthorized("x")))
	assert.Equal(t, http.StatusForbidden, StatusFor(apperr.Forbidden("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}
