package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/microservices/http-api/dto"
	"reviewhub/internal/microservices/http-api/metrics"
	"reviewhub/internal/microservices/http-api/middleware"
	"reviewhub/internal/microservices/http-api/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes mounts the review endpoints. Ownership of a review is
// checked by the service against the stored row, not here.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup, authn middleware.Authenticator) {
	rg.GET("/item/:item_id", h.ListByItem)
	rg.GET("/user/:user_id", h.ListByUser)
	rg.GET("/:review_id", h.Get)

	authed := rg.Group("", middleware.RequireAuth(authn))
	authed.POST("", h.Create)
	authed.PATCH("/:review_id", h.Update)
	authed.DELETE("/:review_id", h.Delete)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var in dto.CreateReviewDTO
	if !bindJSON(c, &in) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.svc.Create(ctx, middleware.PrincipalFrom(c), in)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("review", "create").Inc()
	c.JSON(http.StatusCreated, dto.ReviewFromModel(*r))
}

func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.svc.GetByID(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(*r))
}

func (h *ReviewHandler) ListByItem(c *gin.Context) {
	id, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.ListByItem(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewsFromModels(list))
}

func (h *ReviewHandler) ListByUser(c *gin.Context) {
	id, ok := pathID(c, "user_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	list, err := h.svc.ListByUser(ctx, id)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewsFromModels(list))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}
	var patch dto.UpdateReviewDTO
	if !bindJSON(c, &patch) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	r, err := h.svc.Update(ctx, middleware.PrincipalFrom(c), id, patch)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("review", "update").Inc()
	c.JSON(http.StatusOK, dto.ReviewFromModel(*r))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.PrincipalFrom(c), id); err != nil {
		middleware.Abort(c, err)
		return
	}
	metrics.WritesTotal.WithLabelValues("review", "delete").Inc()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
