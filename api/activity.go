package api

import (
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/service/activity"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	service activity.ActivityUseCase
}

func NewActivityHandler(service activity.ActivityUseCase) *ActivityHandler {
	return &ActivityHandler{service: service}
}

func (h *ActivityHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("", auth, h.record)
	router.GET("/analytics", auth, AdminOnly(), h.analytics)
}

func (h *ActivityHandler) record(c *gin.Context) {
	var req activity.RecordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	a, err := h.service.Record(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *ActivityHandler) analytics(c *gin.Context) {
	report, err := h.service.Analytics(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
