package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/resume-studio/resume-studio-api/services"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// canMessageOnOrder reports whether the user may chat on this order.
// Clients chat on their own orders; staff chat on orders assigned to
// them (or any order when unassigned work is being triaged by an admin).
func canMessageOnOrder(user *models.User, order *models.Order) bool {
	if user.IsAdmin() {
		return true
	}
	return order.ClientID == user.ID
}

// SendMessage handles POST /api/v1/orders/:id/messages - sends a message
// in the order's chat room
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canMessageOnOrder(user, order) {
		c.PureJSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to message on this order"))
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.PureJSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	// The room is normally created at order intake; repair it here if
	// that best-effort creation failed
	db := config.GetDB()
	room, err := services.EnsureChatRoom(db, order.ID)
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to open chat room"))
		return
	}

	message := models.ChatMessage{
		RoomID:   room.ID,
		SenderID: user.ID,
		Text:     req.Text,
	}

	if err := db.Create(&message).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to create message"))
		return
	}

	// Load the sender relationship to return complete data
	if err := db.Preload("Sender").First(&message, message.ID).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to load message details"))
		return
	}

	c.PureJSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    message,
	})
}

// ListMessages handles GET /api/v1/orders/:id/messages - lists the
// order's chat messages in arrival order
func ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	order, ok := findOrder(c, "id")
	if !ok {
		return
	}

	if !canMessageOnOrder(user, order) {
		c.PureJSON(http.StatusForbidden, errorBody("FORBIDDEN", "You do not have permission to view messages on this order"))
		return
	}

	db := config.GetDB()
	room, err := services.EnsureChatRoom(db, order.ID)
	if err != nil {
		c.PureJSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to open chat room"))
		return
	}

	var messages []models.ChatMessage
	if err := db.Where("room_id = ?", room.ID).
		Preload("Sender").
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		c.PureJSON(http.StatusInternalServerError, errorBody("DATABASE_ERROR", "Failed to fetch messages"))
		return
	}

	c.PureJSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}
