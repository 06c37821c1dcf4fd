package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// CreateOrderRequest represents the request body for creating an order.
// The total is never part of the request: it is always derived from the
// components server-side.
type CreateOrderRequest struct {
	ServiceType        string                     `json:"service_type" binding:"required,oneof=resume cover_letter linkedin_profile cv bundle"`
	Urgency            string                     `json:"urgency" binding:"omitempty,oneof=standard urgent express"`
	Priority           int                        `json:"priority" binding:"omitempty,gte=1,lte=5"`
	Requirements       string                     `json:"requirements" binding:"required"`
	BasePrice          float64                    `json:"base_price" binding:"required,gt=0"`
	UrgencyFee         float64                    `json:"urgency_fee" binding:"omitempty,gte=0"`
	AdditionalServices []models.AdditionalService `json:"additional_services"`
	DiscountPercent    float64                    `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
	Currency           string                     `json:"currency" binding:"omitempty,len=3"`
	EstimatedDelivery  *time.Time                 `json:"estimated_delivery"`
}

// UpdateOrderStatusRequest represents the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// AddOrderNoteRequest represents the request body for appending an internal note
type AddOrderNoteRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateOrder handles POST /api/v1/orders - creates a new order (clients only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	// Only clients open engagements; staff work orders, they don't place them
	if user.Role != "client" {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "Only clients can create orders"))
		return
	}

	var req CreateOrderRequest
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

	order := models.Order{
		ClientID:           user.ID,
		ServiceType:        req.ServiceType,
		Urgency:            req.Urgency,
		Priority:           req.Priority,
		Requirements:       req.Requirements,
		BasePrice:          req.BasePrice,
		UrgencyFee:         req.UrgencyFee,
		AdditionalServices: req.AdditionalServices,
		DiscountPercent:    req.DiscountPercent,
		Currency:           req.Currency,
		EstimatedDelivery:  req.EstimatedDelivery,
	}
	if order.Urgency == "" {
		order.Urgency = "standard"
	}
	if order.Priority == 0 {
		order.Priority = 3
	}
	if order.Currency == "" {
		order.Currency = "USD"
	}

	db := config.GetDB()
	if err := services.CreateOrderWorkflow(db, &order, user.ID); err != nil {
		handleWorkflowError(c, err)
		return
	}

	// Load the client relationship to return complete data
	if err := db.Preload("Client").First(&order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to load order details"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - clients see their own orders,
// staff see everything, optionally filtered by status
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Order{}).Preload("Client").Preload("AssignedAdmin")

	if !user.IsAdmin() {
		query = query.Where("client_id = ?", user.ID)
	}

	if statusParam := c.Query("status"); statusParam != "" {
		status, valid := models.ParseOrderStatus(statusParam)
		if !valid {
			c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "Unknown order status: "+statusParam))
			return
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to fetch orders"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canAccessOrder(user, order) {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to view this order"))
		return
	}

	db := config.GetDB()
	if err := db.Preload("Client").Preload("AssignedAdmin").First(order, order.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to load order details"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves an
// order through its lifecycle (staff only)
func UpdateOrderStatus(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
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

	// The enum is a closed set, rejected here before it reaches the engine
	target, valid := models.ParseOrderStatus(req.Status)
	if !valid {
		c.JSON(http.StatusBadRequest, errorBody("VALIDATION_ERROR", "Unknown order status: "+req.Status))
		return
	}

	db := config.GetDB()
	if err := services.TransitionOrder(db, order, target, user.ID, req.Note); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AddOrderNote handles POST /api/v1/orders/:id/notes - appends an
// internal staff note (staff only)
func AddOrderNote(c *gin.Context) {
	user, ok := requireAdmin(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	var req AddOrderNoteRequest
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
	if err := services.AddOrderNote(db, order, user.ID, req.Text); err != nil {
		handleWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
