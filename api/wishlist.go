package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/service/wishlist"
	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	service wishlist.WishlistUseCase
}

func NewWishlistHandler(service wishlist.WishlistUseCase) *WishlistHandler {
	return &WishlistHandler{service: service}
}

func (h *WishlistHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.Use(auth)
	router.GET("", h.get)
	router.POST("", h.add)
	router.DELETE("/:packageId", h.remove)
}

type wishlistRequest struct {
	PackageID string `json:"packageId"`
}

func (h *WishlistHandler) get(c *gin.Context) {
	w, err := h.service.Get(c.Request.Context(), principalFrom(c).UID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WishlistHandler) add(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	w, err := h.service.Add(c.Request.Context(), principalFrom(c).UID, req.PackageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *WishlistHandler) remove(c *gin.Context) {
	w, err := h.service.Remove(c.Request.Context(), principalFrom(c).UID, c.Param("packageId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}
