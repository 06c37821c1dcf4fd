package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
)

// allowedOrderTargets returns the legal transition targets for an order
// status. The switch is exhaustive over the enum with no default, so a
// new status is a visible hole here rather than a silently empty map
// entry.
func allowedOrderTargets(from models.OrderStatus) []models.OrderStatus {
	switch from {
	case models.OrderPending:
		return []models.OrderStatus{models.OrderInReview, models.OrderCancelled}
	case models.OrderInReview:
		return []models.OrderStatus{models.OrderPaymentPending, models.OrderInProgress, models.OrderCancelled}
	case models.OrderPaymentPending:
		return []models.OrderStatus{models.OrderInProgress, models.OrderCancelled}
	case models.OrderInProgress:
		return []models.OrderStatus{models.OrderDraftReady, models.OrderCancelled}
	case models.OrderDraftReady:
		return []models.OrderStatus{models.OrderClientReview, models.OrderInRevision}
	case models.OrderClientReview:
		return []models.OrderStatus{models.OrderRevisionRequested, models.OrderCompleted}
	case models.OrderRevisionRequested:
		return []models.OrderStatus{models.OrderInRevision}
	case models.OrderInRevision:
		return []models.OrderStatus{models.OrderDraftReady, models.OrderCompleted}
	case models.OrderCompleted:
		return []models.OrderStatus{models.OrderDelivered}
	case models.OrderDelivered:
		return []models.OrderStatus{models.OrderRefunded}
	case models.OrderCancelled:
		return nil
	case models.OrderRefunded:
		return nil
	}
	return nil
}

// CanTransitionOrder reports whether target is reachable from from in
// one step
func CanTransitionOrder(from, target models.OrderStatus) bool {
	for _, s := range allowedOrderTargets(from) {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionOrder moves an order to target, enforcing the transition
// graph. On success it stamps ActualStartDate the first time the order
// goes in_progress and ActualCompletionDate the first time it reaches
// completed or delivered (never overwritten afterwards), appends the
// optional note, refreshes LastActivity, and writes one audit entry.
//
// The write is guarded by the order's version column: if another writer
// got there first the update matches no row and the caller gets
// ErrVersionConflict instead of silently clobbering the other write.
func TransitionOrder(db *gorm.DB, order *models.Order, target models.OrderStatus, actorID uint, note string) error {
	if !CanTransitionOrder(order.Status, target) {
		return NewInvalidTransition("order", string(order.Status), string(target))
	}

	previous := order.Status
	now := time.Now().UTC()
	oldVersion := order.Version

	order.Status = target
	order.LastActivity = now
	order.Version = oldVersion + 1

	// Milestone timestamps are stamped at most once
	if target == models.OrderInProgress && order.ActualStartDate == nil {
		order.ActualStartDate = &now
	}
	if (target == models.OrderCompleted || target == models.OrderDelivered) && order.ActualCompletionDate == nil {
		order.ActualCompletionDate = &now
	}

	if note != "" {
		order.InternalNotes = append(order.InternalNotes, models.InternalNote{
			AuthorID: actorID,
			Text:     note,
			AddedAt:  now,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, oldVersion).
			Select("status", "actual_start_date", "actual_completion_date", "last_activity", "internal_notes", "version").
			Updates(order)
		if res.Error != nil {
			return fmt.Errorf("failed to update order status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NewVersionConflict("order")
		}

		return RecordAudit(tx, models.AuditEntityOrder, order.ID, "status_changed", actorID,
			note, string(previous), string(target))
	})
	if err != nil {
		if ErrorCode(err) == CodeVersionConflict {
			config.GetLogger().Warn("order status write lost version race",
				zap.Uint("order_id", order.ID),
				zap.String("target", string(target)))
		}
		return err
	}

	config.GetLogger().Info("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)),
		zap.Uint("actor_id", actorID))
	return nil
}

// AddOrderNote appends one internal staff note without touching status
func AddOrderNote(db *gorm.DB, order *models.Order, actorID uint, text string) error {
	now := time.Now().UTC()
	oldVersion := order.Version

	order.InternalNotes = append(order.InternalNotes, models.InternalNote{
		AuthorID: actorID,
		Text:     text,
		AddedAt:  now,
	})
	order.LastActivity = now
	order.Version = oldVersion + 1

	res := db.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, oldVersion).
		Select("internal_notes", "last_activity", "version").
		Updates(order)
	if res.Error != nil {
		return fmt.Errorf("failed to append order note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return NewVersionConflict("order")
	}
	return nil
}
