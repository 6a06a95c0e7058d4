package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

// RegisterRoutes mounts the genre endpoints. Reads are open, writes need an admin.
func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup, authn middleware.Authenticator) {
	rg.GET("", h.List)

	admin := rg.Group("", middleware.RequireAuth(authn), middleware.RequireAdmin())
	admin.POST("", h.Create)
	admin.PATCH("/:genre_id", h.Update)
	admin.DELETE("/:genre_id", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	resp := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		resp = append(resp, dto.GenreFromModel(g))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.CreateGenreDTO
	if !bindJSON(c, &in) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	g, err := h.svc.Create(ctx, in.Name)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("genre", "create").Inc()
	c.JSON(http.StatusCreated, dto.GenreFromModel(*g))
}

func (h *GenreHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "genre_id")
	if !ok {
		return
	}
	var patch dto.UpdateGenreDTO
	if !bindJSON(c, &patch) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	g, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("genre", "update").Inc()
	c.JSON(http.StatusOK, dto.GenreFromModel(*g))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "genre_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("genre", "delete").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
