package handlers

import (
	"net/http"

	"kindtrail/internal/middleware"
	"kindtrail/internal/services"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments *services.PaymentService
	priceID  string
}

func NewPaymentHandler(payments *services.PaymentService, priceID string) *PaymentHandler {
	return &PaymentHandler{payments: payments, priceID: priceID}
}

// Subscribe redirects to the hosted checkout page.
func (h *PaymentHandler) Subscribe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	url, err := h.payments.CreateSubscription(c.Request.Context(), user.Username, h.priceID)
	if err != nil {
		checkoutsTotal.WithLabelValues("create", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrorMessage(err)})
		return
	}
	checkoutsTotal.WithLabelValues("create", "ok").Inc()
	c.Redirect(http.StatusSeeOther, url)
}

// Success is the checkout return URL. The subscription flag flips only
// after the provider confirms the session.
func (h *PaymentHandler) Success(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	err := h.payments.CompleteSubscription(c.Request.Context(), user.Username, c.Query("session_id"))
	if err != nil {
		checkoutsTotal.WithLabelValues("complete", "error").Inc()
		Render(c, statusFor(err), "success.html", gin.H{"Error": ErrorMessage(err)})
		return
	}
	checkoutsTotal.WithLabelValues("complete", "ok").Inc()
	Render(c, http.StatusOK, "success.html", gin.H{"Message": subscribedMessage(user.Username)})
}
