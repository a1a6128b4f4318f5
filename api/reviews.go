package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/service/review"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service review.ReviewUseCase
}

func NewReviewHandler(service review.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/package/:packageId", h.forPackage)
	router.GET("/my", auth, h.listMine)
	router.GET("", auth, AdminOnly(), h.list)
	router.POST("", auth, h.create)
	router.PUT("/:id", auth, h.update)
	router.DELETE("/:id", auth, h.delete)
}

func (h *ReviewHandler) forPackage(c *gin.Context) {
	summary, err := h.service.PackageSummary(c.Request.Context(), c.Param("packageId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReviewHandler) listMine(c *gin.Context) {
	reviews, err := h.service.ListMine(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) list(c *gin.Context) {
	reviews, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) create(c *gin.Context) {
	var req review.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rv, err := h.service.CreateReview(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rv)
}

func (h *ReviewHandler) update(c *gin.Context) {
	var req review.ReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rv, err := h.service.UpdateReview(c.Request.Context(), principalFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rv)
}

func (h *ReviewHandler) delete(c *gin.Context) {
	if err := h.service.DeleteReview(c.Request.Context(), principalFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}
