package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/middleware"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// errorBody builds the standard error envelope
func errorBody(code, message string) gin.H {
	return gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// currentUser resolves the authenticated user from the JWT sub claim.
// On failure it writes the error response and returns false.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, errorBody("UNAUTHORIZED", "Could not extract user information"))
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("USER_NOT_FOUND", "User profile not found. Please create a profile first."))
		return nil, false
	}

	return &user, true
}

// requireAdmin resolves the authenticated user and rejects non-staff.
// On failure it writes the error response and returns false.
func requireAdmin(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsAdmin() {
		c.JSON(http.StatusForbidden, errorBody("FORBIDDEN", "Only staff can perform this action"))
		return nil, false
	}
	return user, true
}

// handleWorkflowError maps typed engine errors to their stable HTTP
// statuses. Anything untyped is a 500 with no internals leaked.
func handleWorkflowError(c *gin.Context, err error) {
	code := services.ErrorCode(err)
	switch code {
	case services.CodeInvalidStatusTransition, services.CodeInvalidState, services.CodeVersionConflict:
		c.JSON(http.StatusConflict, errorBody(code, err.Error()))
	case services.CodeInvalidAmount:
		c.JSON(http.StatusUnprocessableEntity, errorBody(code, err.Error()))
	case services.CodeNotFound:
		c.JSON(http.StatusNotFound, errorBody(code, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorBody("INTERNAL_ERROR", "An unexpected error occurred"))
	}
}

// findOrder loads an order by path parameter. On failure it writes the
// error response and returns false.
func findOrder(c *gin.Context, param string) (*models.Order, bool) {
	orderID := c.Param(param)
	if orderID == "" {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", "Order ID is required"))
		return nil, false
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		c.JSON(http.StatusNotFound, errorBody("ORDER_NOT_FOUND", "Order not found"))
		return nil, false
	}
	return &order, true
}

// canAccessOrder reports whether the user may read this order:
// clients see their own orders, staff see everything
func canAccessOrder(user *models.User, order *models.Order) bool {
	if user.IsAdmin() {
		return true
	}
	return order.ClientID == user.ID
}
