package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
)

// Order statuses from which a client may request a revision
func revisionEligibleOrderStatus(status models.OrderStatus) bool {
	switch status {
	case models.OrderDraftReady, models.OrderClientReview, models.OrderCompleted, models.OrderDelivered:
		return true
	}
	return false
}

// allowedRevisionTargets returns the legal transition targets for a
// revision status. Exhaustive over the enum, no default — same shape as
// allowedOrderTargets.
func allowedRevisionTargets(from models.RevisionStatus) []models.RevisionStatus {
	switch from {
	case models.RevisionPending:
		return []models.RevisionStatus{models.RevisionAcknowledged, models.RevisionCancelled}
	case models.RevisionAcknowledged:
		return []models.RevisionStatus{models.RevisionInProgress, models.RevisionOnHold, models.RevisionCancelled}
	case models.RevisionInProgress:
		return []models.RevisionStatus{models.RevisionCompleted, models.RevisionOnHold, models.RevisionCancelled}
	case models.RevisionCompleted:
		return []models.RevisionStatus{models.RevisionDelivered}
	case models.RevisionDelivered:
		return []models.RevisionStatus{models.RevisionApproved, models.RevisionRejected}
	case models.RevisionApproved:
		return nil
	case models.RevisionRejected:
		// Rejection is re-enterable: the writer picks the work back up
		return []models.RevisionStatus{models.RevisionInProgress}
	case models.RevisionCancelled:
		return nil
	case models.RevisionOnHold:
		return []models.RevisionStatus{models.RevisionInProgress, models.RevisionCancelled}
	}
	return nil
}

// CanTransitionRevision reports whether target is reachable from from
// in one step
func CanTransitionRevision(from, target models.RevisionStatus) bool {
	for _, s := range allowedRevisionTargets(from) {
		if s == target {
			return true
		}
	}
	return false
}

// CreateRevision persists a new revision request against an order.
// It derives everything the request itself cannot supply:
//
//   - RevisionNumber: 1 + max(existing revision numbers for the order)
//   - FreeRevisionsUsed: count of revisions that already exist on the
//     order, snapshotted now as billing evidence
//   - IsChargeable and RevisionFee from the free-revision allowance and
//     the complexity/urgency fee schedule
//   - Deadline: +2 days for urgent, +1 day for express
//   - EstimatedHours via the effort heuristic, unless staff supplied one
//   - AssignedAdminID: snapshot of the order's current assignee
func CreateRevision(db *gorm.DB, order *models.Order, revision *models.Revision, actorID uint) error {
	if !revisionEligibleOrderStatus(order.Status) {
		return NewInvalidState(fmt.Sprintf("order in status %s is not eligible for revisions", order.Status))
	}

	now := time.Now().UTC()

	if revision.RevisionID == "" {
		revision.RevisionID = "REV-" + uuid.NewString()
	}
	revision.OrderID = order.ID
	revision.ClientID = order.ClientID
	revision.AssignedAdminID = order.AssignedAdminID
	revision.Status = models.RevisionPending
	revision.RequestedAt = now

	if revision.FreeRevisionsLimit == 0 {
		revision.FreeRevisionsLimit = 2
		if cfg := config.GetConfig(); cfg != nil && cfg.FreeRevisionsLimit > 0 {
			revision.FreeRevisionsLimit = cfg.FreeRevisionsLimit
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		if err := tx.Model(&models.Revision{}).
			Where("order_id = ?", order.ID).
			Select("COALESCE(MAX(revision_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return fmt.Errorf("failed to compute revision number: %w", err)
		}
		revision.RevisionNumber = maxNumber + 1

		var existing int64
		if err := tx.Model(&models.Revision{}).
			Where("order_id = ?", order.ID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count existing revisions: %w", err)
		}
		revision.FreeRevisionsUsed = int(existing)

		revision.IsChargeable = RevisionChargeable(revision.FreeRevisionsUsed, revision.FreeRevisionsLimit)
		revision.RevisionFee = RevisionFee(revision.IsChargeable, revision.Complexity, revision.Urgency)

		// Urgent and express work always carries a deadline
		switch revision.Urgency {
		case "urgent":
			deadline := now.Add(48 * time.Hour)
			revision.Deadline = &deadline
		case "express":
			deadline := now.Add(24 * time.Hour)
			revision.Deadline = &deadline
		}

		if revision.EstimatedHours == 0 {
			revision.EstimatedHours = EstimateRevisionHours(
				revision.Complexity, revision.Priority, revision.Urgency, len(revision.SpecificChanges))
		}

		if err := tx.Create(revision).Error; err != nil {
			return fmt.Errorf("failed to create revision: %w", err)
		}

		return RecordAudit(tx, models.AuditEntityRevision, revision.ID, "requested", actorID,
			fmt.Sprintf("revision #%d requested (chargeable=%t, fee=%.2f)",
				revision.RevisionNumber, revision.IsChargeable, revision.RevisionFee),
			"", string(revision.Status))
	})
}

// TransitionRevision moves a revision to target, enforcing the
// transition graph. Per-state timestamps are stamped at most once; on
// the first transition into completed the actual duration is derived
// from StartedAt. One audit entry per transition.
func TransitionRevision(db *gorm.DB, revision *models.Revision, target models.RevisionStatus, actorID uint, note string) error {
	if !CanTransitionRevision(revision.Status, target) {
		return NewInvalidTransition("revision", string(revision.Status), string(target))
	}

	previous := revision.Status
	now := time.Now().UTC()
	oldVersion := revision.Version

	revision.Status = target
	revision.Version = oldVersion + 1

	switch target {
	case models.RevisionAcknowledged:
		if revision.AcknowledgedAt == nil {
			revision.AcknowledgedAt = &now
		}
	case models.RevisionInProgress:
		if revision.StartedAt == nil {
			revision.StartedAt = &now
		}
	case models.RevisionCompleted:
		if revision.CompletedAt == nil {
			revision.CompletedAt = &now
			if revision.StartedAt != nil {
				revision.ActualDurationHours = Round1(now.Sub(*revision.StartedAt).Hours())
			}
		}
	case models.RevisionDelivered:
		if revision.DeliveredAt == nil {
			revision.DeliveredAt = &now
		}
	case models.RevisionApproved, models.RevisionRejected:
		if revision.ClientRespondedAt == nil {
			revision.ClientRespondedAt = &now
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Revision{}).
			Where("id = ? AND version = ?", revision.ID, oldVersion).
			Select("status", "acknowledged_at", "started_at", "completed_at", "delivered_at",
				"client_responded_at", "actual_duration_hours", "completion_summary",
				"delivered_files", "client_feedback", "version").
			Updates(revision)
		if res.Error != nil {
			return fmt.Errorf("failed to update revision status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NewVersionConflict("revision")
		}

		return RecordAudit(tx, models.AuditEntityRevision, revision.ID, "status_changed", actorID,
			note, string(previous), string(target))
	})
	if err != nil {
		return err
	}

	config.GetLogger().Info("revision status changed",
		zap.String("revision_id", revision.RevisionID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.Uint("actor_id", actorID))
	return nil
}

// CompleteRevision records the completion summary and delivered files,
// then transitions the revision to completed
func CompleteRevision(db *gorm.DB, revision *models.Revision, actorID uint, summary string, files []string) error {
	revision.CompletionSummary = summary
	revision.DeliveredFiles = files
	return TransitionRevision(db, revision, models.RevisionCompleted, actorID, summary)
}
