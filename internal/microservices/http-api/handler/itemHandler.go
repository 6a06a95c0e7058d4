package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
)

type ItemHandler struct {
	svc service.ItemService
}

func NewItemHandler(svc service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup, authn middleware.Authenticator) {
	rg.GET("", h.List)
	rg.GET("/:item_id", h.Get)

	admin := rg.Group("", middleware.RequireAuth(authn), middleware.RequireAdmin())
	admin.POST("", h.Create)
	admin.PATCH("/:item_id", h.Update)
	admin.DELETE("/:item_id", h.Delete)
}

// List handles GET /items?genre=&release_year=&title=&page=&size=
func (h *ItemHandler) List(c *gin.Context) {
	var q dto.ItemListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		middleware.Abort(c, bindError(err))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.List(ctx, q)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.svc.GetByID(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Create(c *gin.Context) {
	var in dto.CreateItemDTO
	if !bindJSON(c, &in) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.svc.Create(ctx, in)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("item", "create").Inc()
	c.JSON(http.StatusCreated, item)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var patch dto.UpdateItemDTO
	if !bindJSON(c, &patch) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	item, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("item", "update").Inc()
	c.JSON(http.StatusOK, item)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("item", "delete").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
