package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/models"
)

// newTestDB opens an in-memory sqlite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Payment{},
		&models.Revision{},
		&models.AuditEntry{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.OrderFile{},
		&models.WorkflowStep{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// seedClient creates a client user for tests
func seedClient(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	user := models.User{
		Auth0ID: "auth0|client-" + suffix,
		Name:    "Test Client",
		Email:   "client-" + suffix + "@example.com",
		Role:    "client",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed client: %v", err)
	}
	return &user
}

// seedOrder creates an order in the given status for tests
func seedOrder(t *testing.T, db *gorm.DB, clientID uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order := models.Order{
		OrderNumber:  "ORD-TEST-" + uuid.NewString()[:8],
		ClientID:     clientID,
		ServiceType:  "resume",
		Urgency:      "standard",
		Status:       status,
		Priority:     3,
		Requirements: "Rewrite for a senior engineering role",
		BasePrice:    150,
		Currency:     "USD",
	}
	RecalculateOrderTotal(&order)
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return &order
}
