package models

import (
	"time"
)

// Audit entity types
const (
	AuditEntityOrder    = "order"
	AuditEntityPayment  = "payment"
	AuditEntityRevision = "revision"
)

// AuditEntry is one record in the append-only per-entity audit trail.
// Entries live in their own table, keyed by (entity_type, entity_id),
// so the trail can be paginated independently of the parent record and
// never bloats it. There is no update or delete path: rows are written
// once and read forever — this table is the system of record for
// reconciliation and disputes.
type AuditEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EntityType string `gorm:"not null;index:idx_audit_entity" json:"entity_type"` // order, payment, revision
	EntityID   uint   `gorm:"not null;index:idx_audit_entity" json:"entity_id"`

	Action        string    `gorm:"not null" json:"action"` // created, confirmed, refunded, status_changed, ...
	PerformedBy   uint      `gorm:"not null" json:"performed_by"`
	Details       string    `gorm:"type:text" json:"details"`
	PreviousState string    `json:"previous_state"`
	NewState      string    `json:"new_state"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for the AuditEntry model
func (AuditEntry) TableName() string {
	return "audit_entries"
}
