package httpapi

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"registration/internal/metrics"
	"registration/internal/queue"
)

// CreatePayment computes the participant's total and creates a provider
// invoice. The payment id and quoted amount are persisted; status stays
// Unpaid until the success callback.
func (h *Handler) CreatePayment(c *gin.Context) {
	var req struct {
		ParticipantID string `json:"participantId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, kindInvalid, err.Error(), nil)
		return
	}

	p, inv, err := h.payments.CreateInvoice(c.Request.Context(), req.ParticipantID)
	if err != nil {
		writeError(c, err)
		return
	}

	metrics.PaymentsCreatedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"participantId": p.ID,
		"pay_url":       inv.PayURL,
		"paymentID":     inv.PaymentID,
		"amount":        inv.Amount,
	})
}

// SuccessPayment is the provider's redirect target. It resolves the payment
// id to a participant, flips status to Paid exactly once and forwards the
// client to the confirmation page.
func (h *Handler) SuccessPayment(c *gin.Context) {
	paymentID := c.Query("paymentID")
	if paymentID == "" {
		fail(c, http.StatusBadRequest, kindInvalid, "paymentID required", nil)
		return
	}

	p, completed, err := h.payments.Complete(c.Request.Context(), paymentID)
	if err != nil {
		writeError(c, err)
		return
	}
	if completed {
		metrics.PaymentsCompletedTotal.Inc()
		h.publish(c, queue.Message{Type: queue.TypePaymentCompleted, Body: []byte(p.ID)})
	}

	sep := "?"
	if strings.Contains(h.successPage, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, h.successPage+sep+"participantId="+url.QueryEscape(p.ID))
}

// GetPayment returns the participant holding a provider payment id.
func (h *Handler) GetPayment(c *gin.Context) {
	p, err := h.participants.GetByPaymentID(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) publish(c *gin.Context, msg queue.Message) {
	if h.queue == nil {
		return
	}
	if err := h.queue.Publish(c.Request.Context(), msg); err != nil {
		log.Printf("queue publish failed: %v", err)
	}
}
