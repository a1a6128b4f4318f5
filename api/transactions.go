package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
)

// Stripe never sends webhook bodies above 64 KiB.
const maxWebhookBody = 65536

type TransactionHandler struct {
	service payment.PaymentUseCase
}

func NewTransactionHandler(service payment.PaymentUseCase) *TransactionHandler {
	return &TransactionHandler{service: service}
}

func (h *TransactionHandler) Register(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/stripe/checkout", auth, h.checkout)
	router.POST("/stripe/webhook", h.webhook)
	router.GET("/my", auth, h.listMine)
	router.GET("/:id", auth, h.get)
	router.GET("", auth, AdminOnly(), h.list)
}

func (h *TransactionHandler) checkout(c *gin.Context) {
	var req payment.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	res, err := h.service.CreateCheckout(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// webhook needs the unparsed body: the signature covers the exact bytes.
func (h *TransactionHandler) webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		badRequest(c, "Webhook Error: "+err.Error())
		return
	}

	err = h.service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, domain.ErrInvalidSignature) {
		badRequest(c, "Webhook Error: "+err.Error())
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *TransactionHandler) list(c *gin.Context) {
	txns, err := h.service.ListTransactions(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) listMine(c *gin.Context) {
	txns, err := h.service.ListMine(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *TransactionHandler) get(c *gin.Context) {
	txn, err := h.service.GetTransaction(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
