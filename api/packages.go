package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	service catalog.CatalogUseCase
}

func NewPackageHandler(service catalog.CatalogUseCase) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.POST("", auth, AdminOnly(), h.create)
	router.PUT("/:id", auth, AdminOnly(), h.update)
	router.DELETE("/:id", auth, AdminOnly(), h.delete)
}

func (h *PackageHandler) list(c *gin.Context) {
	filter := domain.PackageFilter{
		Status:   domain.PackageStatus(c.Query("status")),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	// malformed paging values fall back to the defaults
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	page, err := h.service.ListPackages(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PackageHandler) get(c *gin.Context) {
	pkg, err := h.service.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) create(c *gin.Context) {
	var req catalog.PackageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	pkg, err := h.service.CreatePackage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pkg)
}

func (h *PackageHandler) update(c *gin.Context) {
	var req catalog.PackageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	pkg, err := h.service.UpdatePackage(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pkg)
}

func (h *PackageHandler) delete(c *gin.Context) {
	if err := h.service.DeletePackage(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "package deleted"})
}
