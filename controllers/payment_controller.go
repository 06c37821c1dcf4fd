package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// CreatePaymentRequest represents the request body for initiating a payment
type CreatePaymentRequest struct {
	Amount         float64    `json:"amount" binding:"required,gt=0"`
	Currency       string     `json:"currency" binding:"omitempty,len=3"`
	Method         string     `json:"method" binding:"required,oneof=card bank_transfer paypal other"`
	TransactionRef string     `json:"transaction_ref"`
	ProcessingFee  float64    `json:"processing_fee" binding:"omitempty,gte=0"`
	PlatformFee    float64    `json:"platform_fee" binding:"omitempty,gte=0"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// ConfirmPaymentRequest represents the request body for confirming a payment
type ConfirmPaymentRequest struct {
	Notes string `json:"notes"`
}

// RefundPaymentRequest represents the request body for a full or partial refund
type RefundPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Reason string  `json:"reason" binding:"required"`
	Notes  string  `json:"notes"`
}

// findPayment loads a payment by its external PAY- id. On failure it
// writes the error response and returns false.
func findPayment(c *gin.Context, param string) (*models.Payment, bool) {
	paymentID := c.Param(param)
	if paymentID == "" {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", "Payment ID is required"))
		return nil, false
	}

	db := config.GetDB()
	var payment models.Payment
	if err := db.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("PAYMENT_NOT_FOUND", "Payment not found"))
		return nil, false
	}
	return &payment, true
}

// CreatePayment handles POST /api/v1/orders/:id/payments - initiates a
// pending payment against an order (staff only)
func CreatePayment(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	payment := models.Payment{
		OrderID:        order.ID,
		ClientID:       order.ClientID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		ProcessingFee:  req.ProcessingFee,
		PlatformFee:    req.PlatformFee,
		ExpiresAt:      req.ExpiresAt,
	}
	if payment.Currency == "" {
		payment.Currency = order.Currency
	}

	db := config.GetDB()
	if err := services.CreatePayment(db, &payment, user.ID); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    payment,
	})
}

// GetPayment handles GET /api/v1/payments/:paymentId
func GetPayment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	payment, ok := findPayment(c, "paymentId")
	if !ok {
		return
	}

	if !user.IsAdmin() && payment.ClientID != user.ID {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to view this payment"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}

// ConfirmPayment handles POST /api/v1/payments/:paymentId/confirm -
// confirms a pending payment and, when the order was waiting on it,
// advances the order to in_progress (staff only)
func ConfirmPayment(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	payment, ok := findPayment(c, "paymentId")
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := services.ConfirmPaymentWorkflow(db, payment, user.ID, req.Notes); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}

// RefundPayment handles POST /api/v1/payments/:paymentId/refund -
// applies a full or partial refund (staff only)
func RefundPayment(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	payment, ok := findPayment(c, "paymentId")
	if !ok {
		return
	}

	var req RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := services.RefundPayment(db, payment, user.ID, req.Amount, req.Reason, req.Notes); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payment,
	})
}
