package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order lifecycle states
const (
	OrderPending           OrderStatus = "pending"
	OrderInReview          OrderStatus = "in_review"
	OrderPaymentPending    OrderStatus = "payment_pending"
	OrderInProgress        OrderStatus = "in_progress"
	OrderDraftReady        OrderStatus = "draft_ready"
	OrderClientReview      OrderStatus = "client_review"
	OrderRevisionRequested OrderStatus = "revision_requested"
	OrderInRevision        OrderStatus = "in_revision"
	OrderCompleted         OrderStatus = "completed"
	OrderDelivered         OrderStatus = "delivered"
	OrderCancelled         OrderStatus = "cancelled"
	OrderRefunded          OrderStatus = "refunded"
)

// ParseOrderStatus validates a raw status string at the API boundary.
// Engines never see a status that didn't come through here or a constant.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderInReview, OrderPaymentPending, OrderInProgress,
		OrderDraftReady, OrderClientReview, OrderRevisionRequested,
		OrderInRevision, OrderCompleted, OrderDelivered, OrderCancelled,
		OrderRefunded:
		return OrderStatus(s), true
	}
	return "", false
}

// AdditionalService is one priced add-on on an order (e.g. expedited
// review, extra cover letter)
type AdditionalService struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// InternalNote is one append-only staff note on an order
type InternalNote struct {
	AuthorID uint      `json:"author_id"`
	Text     string    `json:"text"`
	AddedAt  time.Time `json:"added_at"`
}

// Order represents a paid resume-writing engagement in the system
type Order struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	OrderNumber     string `gorm:"uniqueIndex;not null" json:"order_number"`
	ClientID        uint   `gorm:"not null;index" json:"client_id"` // foreign key to users table
	Client          User   `gorm:"foreignKey:ClientID" json:"client"`
	AssignedAdminID *uint  `gorm:"index" json:"assigned_admin_id"` // nullable, set when staff picks up the order
	AssignedAdmin   *User  `gorm:"foreignKey:AssignedAdminID" json:"assigned_admin,omitempty"`

	ServiceType  string      `gorm:"not null" json:"service_type"` // resume, cover_letter, linkedin_profile, cv, bundle
	Urgency      string      `gorm:"not null;default:'standard'" json:"urgency"` // standard, urgent, express
	Status       OrderStatus `gorm:"not null;default:'pending'" json:"status"`
	Priority     int         `gorm:"not null;default:3;check:priority >= 1 AND priority <= 5" json:"priority"`
	Requirements string      `gorm:"type:text" json:"requirements"`

	// Pricing block. TotalAmount is always derived from the other
	// components via services.OrderTotal and never accepted as input.
	BasePrice          float64             `gorm:"not null" json:"base_price"`
	UrgencyFee         float64             `gorm:"not null;default:0" json:"urgency_fee"`
	AdditionalServices []AdditionalService `gorm:"serializer:json" json:"additional_services"`
	DiscountPercent    float64             `gorm:"not null;default:0" json:"discount_percent"`
	TotalAmount        float64             `gorm:"not null" json:"total_amount"`
	Currency           string              `gorm:"not null;default:'USD'" json:"currency"`

	// Timeline block
	EstimatedDelivery    *time.Time `json:"estimated_delivery"`
	ActualStartDate      *time.Time `json:"actual_start_date"`      // stamped the first time status becomes in_progress
	ActualCompletionDate *time.Time `json:"actual_completion_date"` // stamped the first time status becomes completed/delivered
	LastActivity         time.Time  `json:"last_activity"`

	InternalNotes []InternalNote `gorm:"serializer:json" json:"internal_notes"`

	// Version is bumped on every status write; stale writers get
	// ErrVersionConflict instead of silently overwriting.
	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order is in a soft-terminal state.
// Orders are never hard-deleted; cancelled and refunded are as far as
// the lifecycle goes.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCancelled || o.Status == OrderRefunded
}
