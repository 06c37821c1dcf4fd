package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/models"
)

// RecordAudit appends one immutable entry to an entity's audit trail.
// Every state-changing operation on orders, payments and revisions goes
// through here; nothing ever edits or removes an entry afterwards.
func RecordAudit(db *gorm.DB, entityType string, entityID uint, action string, performedBy uint, details, previousState, newState string) error {
	entry := models.AuditEntry{
		EntityType:    entityType,
		EntityID:      entityID,
		Action:        action,
		PerformedBy:   performedBy,
		Details:       details,
		PreviousState: previousState,
		NewState:      newState,
	}
	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// ListAudit returns one page of an entity's audit trail in arrival
// order, plus the total entry count. Pages are 1-based.
func ListAudit(db *gorm.DB, entityType string, entityID uint, page, pageSize int) ([]models.AuditEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := db.Model(&models.AuditEntry{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var entries []models.AuditEntry
	if err := query.
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	return entries, total, nil
}

// HasAuditEntries reports whether an entity has any trail at all.
// Used to make creation-entry synthesis idempotent.
func HasAuditEntries(db *gorm.DB, entityType string, entityID uint) (bool, error) {
	var count int64
	if err := db.Model(&models.AuditEntry{}).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check audit trail: %w", err)
	}
	return count > 0, nil
}
