package models

import (
	"time"

	"gorm.io/gorm"
)

// RevisionStatus is the lifecycle state of a revision
type RevisionStatus string

// Revision lifecycle states
const (
	RevisionPending      RevisionStatus = "pending"
	RevisionAcknowledged RevisionStatus = "acknowledged"
	RevisionInProgress   RevisionStatus = "in_progress"
	RevisionCompleted    RevisionStatus = "completed"
	RevisionDelivered    RevisionStatus = "delivered"
	RevisionApproved     RevisionStatus = "approved"
	RevisionRejected     RevisionStatus = "rejected"
	RevisionCancelled    RevisionStatus = "cancelled"
	RevisionOnHold       RevisionStatus = "on_hold"
)

// ParseRevisionStatus validates a raw revision status string
func ParseRevisionStatus(s string) (RevisionStatus, bool) {
	switch RevisionStatus(s) {
	case RevisionPending, RevisionAcknowledged, RevisionInProgress,
		RevisionCompleted, RevisionDelivered, RevisionApproved,
		RevisionRejected, RevisionCancelled, RevisionOnHold:
		return RevisionStatus(s), true
	}
	return "", false
}

// Revision represents a bounded request to modify a delivered draft
type Revision struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RevisionID string `gorm:"uniqueIndex;not null" json:"revision_id"` // external id, REV-<uuid>
	OrderID    uint   `gorm:"not null;index" json:"order_id"`
	Order      Order  `gorm:"foreignKey:OrderID" json:"-"`
	ClientID   uint   `gorm:"not null;index" json:"client_id"`
	Client     User   `gorm:"foreignKey:ClientID" json:"-"`

	// AssignedAdminID is a snapshot of the order's assigned staff at
	// request time. It records who the work was routed to and is not
	// re-synced if the order is later reassigned.
	AssignedAdminID *uint `json:"assigned_admin_id"`

	// RevisionNumber is 1 + max(existing revision numbers for the order)
	RevisionNumber int `gorm:"not null" json:"revision_number"`

	Type     string         `gorm:"not null;default:'content'" json:"type"` // content, formatting, design, comprehensive
	Priority string         `gorm:"not null;default:'medium'" json:"priority"` // low, medium, high, urgent
	Urgency  string         `gorm:"not null;default:'standard'" json:"urgency"` // standard, urgent, express
	Status   RevisionStatus `gorm:"not null;default:'pending'" json:"status"`

	RequestDetails  string   `gorm:"type:text;not null" json:"request_details"`
	SpecificChanges []string `gorm:"serializer:json" json:"specific_changes"`

	// Timeline block. Per-state timestamps are set at most once.
	RequestedAt         time.Time  `json:"requested_at"`
	AcknowledgedAt      *time.Time `json:"acknowledged_at"`
	StartedAt           *time.Time `json:"started_at"`
	CompletedAt         *time.Time `json:"completed_at"`
	DeliveredAt         *time.Time `json:"delivered_at"`
	ClientRespondedAt   *time.Time `json:"client_responded_at"`
	Deadline            *time.Time `json:"deadline"` // required for urgent/express, set at creation
	EstimatedCompletion *time.Time `json:"estimated_completion"`

	// Effort block
	EstimatedHours      float64 `gorm:"not null;default:0" json:"estimated_hours"`
	ActualDurationHours float64 `gorm:"not null;default:0" json:"actual_duration_hours"`
	Complexity          string  `gorm:"not null;default:'moderate'" json:"complexity"` // simple, moderate, complex, very_complex

	// Pricing block. FreeRevisionsUsed is a creation-time snapshot of
	// how many revisions already existed on the order; it is billing
	// evidence and never recomputed afterwards.
	IsChargeable       bool    `gorm:"not null;default:false" json:"is_chargeable"`
	RevisionFee        float64 `gorm:"not null;default:0" json:"revision_fee"`
	FreeRevisionsUsed  int     `gorm:"not null;default:0" json:"free_revisions_used"`
	FreeRevisionsLimit int     `gorm:"not null;default:2" json:"free_revisions_limit"`

	CompletionSummary string   `gorm:"type:text" json:"completion_summary"`
	DeliveredFiles    []string `gorm:"serializer:json" json:"delivered_files"`
	ClientFeedback    string   `gorm:"type:text" json:"client_feedback"`

	Version int `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Revision model
func (Revision) TableName() string {
	return "revisions"
}
