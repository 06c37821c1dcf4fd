package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

// Payment lifecycle states
const (
	PaymentPending           PaymentStatus = "pending"
	PaymentProcessing        PaymentStatus = "processing"
	PaymentCompleted         PaymentStatus = "completed"
	PaymentFailed            PaymentStatus = "failed"
	PaymentCancelled         PaymentStatus = "cancelled"
	PaymentRefunded          PaymentStatus = "refunded"
	PaymentPartiallyRefunded PaymentStatus = "partially_refunded"
	PaymentDisputed          PaymentStatus = "disputed"
	PaymentExpired           PaymentStatus = "expired"
)

// ParsePaymentStatus validates a raw payment status string
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed,
		PaymentCancelled, PaymentRefunded, PaymentPartiallyRefunded,
		PaymentDisputed, PaymentExpired:
		return PaymentStatus(s), true
	}
	return "", false
}

// Payment represents a monetary transaction tied to an order
type Payment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	PaymentID string `gorm:"uniqueIndex;not null" json:"payment_id"` // external id, PAY-<uuid>
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	Order     Order  `gorm:"foreignKey:OrderID" json:"-"`
	ClientID  uint   `gorm:"not null;index" json:"client_id"`
	Client    User   `gorm:"foreignKey:ClientID" json:"-"`

	Amount         float64       `gorm:"not null" json:"amount"`
	Currency       string        `gorm:"not null;default:'USD'" json:"currency"`
	Method         string        `gorm:"not null" json:"method"` // card, bank_transfer, paypal, other
	Status         PaymentStatus `gorm:"not null;default:'pending'" json:"status"`
	TransactionRef string        `json:"transaction_ref"` // processor-side reference, free text

	// Timeline block
	InitiatedAt *time.Time `json:"initiated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"` // set at most once
	CompletedAt *time.Time `json:"completed_at"` // set at most once
	FailedAt    *time.Time `json:"failed_at"`
	RefundedAt  *time.Time `json:"refunded_at"`
	ExpiresAt   *time.Time `json:"expires_at"` // read-side derivation only, nothing sweeps it

	// Confirmation block
	ConfirmedBy       *uint  `json:"confirmed_by"` // staff user who confirmed
	ConfirmationNotes string `json:"confirmation_notes"`

	// Refund block. RefundAmount is cumulative across partial refunds
	// and can never exceed Amount.
	RefundAmount float64 `gorm:"not null;default:0" json:"refund_amount"`
	RefundReason string  `json:"refund_reason"`

	// Fees. NetAmount = Amount - ProcessingFee - PlatformFee, always derived.
	ProcessingFee float64 `gorm:"not null;default:0" json:"processing_fee"`
	PlatformFee   float64 `gorm:"not null;default:0" json:"platform_fee"`
	NetAmount     float64 `gorm:"not null;default:0" json:"net_amount"`

	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
