// Package httpapi assembles the review API: middleware, handlers and routes.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"reviewhub/internal/microservices/http-api/handler"
	"reviewhub/internal/microservices/http-api/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
)

// Services are the dependencies of the router.
type Services struct {
	Auth    service.AuthService
	Genres  service.GenreService
	Items   service.ItemService
	Reviews service.ReviewService
	// DB backs the readiness probe.
	DB handler.Pinger
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(s Services, log zerolog.Logger) (*gin.Engine, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		metrics.Middleware(),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "detail": "route not found"})
	})

	handler.NewHealthHandler(s.DB).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	handler.NewAuthHandler(s.Auth).RegisterRoutes(r.Group("/users"))
	handler.NewGenreHandler(s.Genres).RegisterRoutes(r.Group("/genres"), s.Auth)
	handler.NewItemHandler(s.Items).RegisterRoutes(r.Group("/items"), s.Auth)
	handler.NewReviewHandler(s.Reviews).RegisterRoutes(r.Group("/reviews"), s.Auth)

	return r, nil
}
