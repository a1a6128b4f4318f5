package api

import (
	"bytes"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.GET("/my", auth, h.listMine)
	router.GET("/export", auth, AdminOnly(), h.export)
	router.GET("/:id", auth, h.get)
	router.GET("", auth, AdminOnly(), h.list)
	router.POST("", auth, AdminOnly(), h.create)
	router.PUT("/:id/status", auth, AdminOnly(), h.updateStatus)
	router.DELETE("/:id", auth, AdminOnly(), h.delete)
}

func bookingFilter(c *gin.Context) (domain.BookingFilter, bool) {
	filter := domain.BookingFilter{UserID: c.Query("userId")}
	if s := c.Query("status"); s != "" {
		status, ok := domain.ParseBookingStatus(s)
		if !ok {
			badRequest(c, "unknown status "+s)
			return filter, false
		}
		filter.Status = status
	}
	return filter, true
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListMine(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) list(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}
	bookings, err := h.service.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	b, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) delete(c *gin.Context) {
	if err := h.service.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

func (h *BookingHandler) export(c *gin.Context) {
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.service.ExportBookings(c.Request.Context(), &buf, filter); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
