package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)
	client, admin := createOrderTestUsers(db)

	otherClient := models.User{
		Auth0ID: "auth0|client456",
		Name:    "Other Client",
		Email:   "other@example.com",
		Role:    "client",
	}
	db.Create(&otherClient)

	order := models.Order{
		OrderNumber: "ORD-CHAT",
		ClientID:    client.ID,
		ServiceType: "resume",
		Status:      models.OrderInProgress,
		BasePrice:   100,
		TotalAmount: 100,
	}
	db.Create(&order)

	send := func(auth0ID, role, text string) *httptest.ResponseRecorder {
		router := setupTestRouter()
		router.POST("/orders/:id/messages",
			mockAuthMiddleware(auth0ID, role),
			SendMessage,
		)

		payload, _ := json.Marshal(map[string]string{"text": text})
		req, _ := http.NewRequest(http.MethodPost, "/orders/1/messages", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Client sends a message in their order's room", func(t *testing.T) {
		w := send(client.Auth0ID, "client", "How is the draft coming along?")
		assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

		var response map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.True(t, response["success"].(bool))

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "How is the draft coming along?", data["text"])
		assert.Equal(t, float64(client.ID), data["sender_id"])

		sender := data["sender"].(map[string]interface{})
		assert.Equal(t, client.Email, sender["email"])

		// The room was created on first message
		var room models.ChatRoom
		require.NoError(t, db.Where("order_id = ?", order.ID).First(&room).Error)
	})

	t.Run("Staff reply lands in the same room", func(t *testing.T) {
		w := send(admin.Auth0ID, "admin", "First draft lands tomorrow.")
		assert.Equal(t, http.StatusCreated, w.Code)

		var count int64
		db.Model(&models.ChatRoom{}).Where("order_id = ?", order.ID).Count(&count)
		assert.Equal(t, int64(1), count, "Replies must not create a second room")
	})

	t.Run("Another client is forbidden", func(t *testing.T) {
		w := send(otherClient.Auth0ID, "client", "Hello?")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Empty text is rejected", func(t *testing.T) {
		w := send(client.Auth0ID, "client", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListMessages(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)
	client, admin := createOrderTestUsers(db)

	order := models.Order{
		OrderNumber: "ORD-CHAT",
		ClientID:    client.ID,
		ServiceType: "resume",
		Status:      models.OrderInProgress,
		BasePrice:   100,
		TotalAmount: 100,
	}
	db.Create(&order)

	sendRouter := setupTestRouter()
	sendRouter.POST("/orders/:id/messages",
		mockAuthMiddleware(client.Auth0ID, "client"),
		SendMessage,
	)
	for _, text := range []string{"First message", "Second message"} {
		payload, _ := json.Marshal(map[string]string{"text": text})
		req, _ := http.NewRequest(http.MethodPost, "/orders/1/messages", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		sendRouter.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Staff read the same conversation
	router := setupTestRouter()
	router.GET("/orders/:id/messages",
		mockAuthMiddleware(admin.Auth0ID, "admin"),
		ListMessages,
	)

	req, _ := http.NewRequest(http.MethodGet, "/orders/1/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response["success"].(bool))

	data := response["data"].([]interface{})
	assert.Equal(t, 2, len(data))

	// Arrival order
	first := data[0].(map[string]interface{})
	assert.Equal(t, "First message", first["text"])
}

func TestListMessages_EmptyRoom(t *testing.T) {
	// Setup
	db := setupOrderTestDB(t)
	config.SetDB(db)
	client, _ := createOrderTestUsers(db)

	order := models.Order{
		OrderNumber: "ORD-QUIET",
		ClientID:    client.ID,
		ServiceType: "resume",
		Status:      models.OrderPending,
		BasePrice:   100,
		TotalAmount: 100,
	}
	db.Create(&order)

	router := setupTestRouter()
	router.GET("/orders/:id/messages",
		mockAuthMiddleware(client.Auth0ID, "client"),
		ListMessages,
	)

	req, _ := http.NewRequest(http.MethodGet, "/orders/1/messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.True(t, response["success"].(bool))
}
