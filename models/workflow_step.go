package models

import (
	"time"
)

// Workflow step outcomes
const (
	WorkflowStepApplied = "applied"
	WorkflowStepFailed  = "failed"
)

// WorkflowStep is one entry in the cross-entity orchestration ledger.
// Every coordinator side effect (payment confirm advancing the order,
// revision completion moving it to client review, ...) is recorded
// here under a unique idempotency key before it is considered done.
// Replaying a step with a key that already exists is a no-op, and a
// crash between steps leaves a queryable partial record instead of a
// silently diverged pair of entities.
type WorkflowStep struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	IdempotencyKey string    `gorm:"uniqueIndex;not null" json:"idempotency_key"`
	Name           string    `gorm:"not null" json:"name"` // e.g. payment_confirm.advance_order
	EntityType     string    `gorm:"not null" json:"entity_type"`
	EntityID       uint      `gorm:"not null" json:"entity_id"`
	Status         string    `gorm:"not null" json:"status"` // applied, failed
	Detail         string    `json:"detail"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for the WorkflowStep model
func (WorkflowStep) TableName() string {
	return "workflow_steps"
}
