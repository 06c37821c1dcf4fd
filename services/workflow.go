package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/config"
	"github.com/resume-studio/resume-studio-api/models"
)

// The workflow coordinator owns every cross-entity rule: the state
// machines above only say whether a single transition is legal, this
// file decides when one entity's transition drives another's. Each
// cross-entity step runs through the workflow_steps ledger under an
// idempotency key, so a replayed request is a no-op and a crash between
// steps leaves a queryable record instead of silent divergence. Steps
// are not compensated: a failed step is recorded and surfaced, never
// rolled back.

// runStep executes fn once per idempotency key. A key that already
// applied is skipped; a key that previously failed is retried and the
// ledger row updated with the new outcome.
func runStep(db *gorm.DB, key, name, entityType string, entityID uint, fn func() error) error {
	var step models.WorkflowStep
	err := db.Where("idempotency_key = ?", key).First(&step).Error
	if err == nil && step.Status == models.WorkflowStepApplied {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up workflow step: %w", err)
	}

	runErr := fn()

	step.IdempotencyKey = key
	step.Name = name
	step.EntityType = entityType
	step.EntityID = entityID
	if runErr != nil {
		step.Status = models.WorkflowStepFailed
		step.Detail = runErr.Error()
	} else {
		step.Status = models.WorkflowStepApplied
		step.Detail = ""
	}

	if saveErr := db.Save(&step).Error; saveErr != nil {
		config.GetLogger().Error("failed to record workflow step",
			zap.String("step", name),
			zap.String("key", key),
			zap.Error(saveErr))
	}

	return runErr
}

// NewOrderNumber builds a human-readable unique order number
func NewOrderNumber() string {
	short := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), short)
}

// CreateOrderWorkflow persists a new order on intake. The total is
// derived from the pricing components, the order number is assigned,
// the creation is audited, and the order's chat room is created best
// effort: a chat failure is logged and never fails the intake.
func CreateOrderWorkflow(db *gorm.DB, order *models.Order, actorID uint) error {
	if order.OrderNumber == "" {
		order.OrderNumber = NewOrderNumber()
	}
	order.Status = models.OrderPending
	order.LastActivity = time.Now().UTC()
	RecalculateOrderTotal(order)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return RecordAudit(tx, models.AuditEntityOrder, order.ID, "created", actorID,
			fmt.Sprintf("order %s created, total %.2f %s", order.OrderNumber, order.TotalAmount, order.Currency),
			"", string(order.Status))
	})
	if err != nil {
		return err
	}

	if _, chatErr := EnsureChatRoom(db, order.ID); chatErr != nil {
		config.GetLogger().Warn("chat room creation failed for new order",
			zap.Uint("order_id", order.ID),
			zap.Error(chatErr))
	}

	config.GetLogger().Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.TotalAmount))
	return nil
}

// EnsureChatRoom returns the order's chat room, creating it if the
// best-effort creation at intake did not happen
func EnsureChatRoom(db *gorm.DB, orderID uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := db.Where("order_id = ?", orderID).First(&room).Error
	if err == nil {
		return &room, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up chat room: %w", err)
	}

	room = models.ChatRoom{OrderID: orderID}
	if err := db.Create(&room).Error; err != nil {
		return nil, fmt.Errorf("failed to create chat room: %w", err)
	}
	return &room, nil
}

// ConfirmPaymentWorkflow confirms a payment and, when the owning order
// is waiting on payment, advances it to in_progress. The order advance
// is a separate ledgered step: replaying the confirm does not advance
// the order twice, and an advance failure is recorded rather than
// unwinding the confirmed payment.
func ConfirmPaymentWorkflow(db *gorm.DB, payment *models.Payment, actorID uint, notes string) error {
	if err := ConfirmPayment(db, payment, actorID, notes); err != nil {
		return err
	}

	var order models.Order
	if err := db.First(&order, payment.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFound("order")
		}
		return fmt.Errorf("failed to load order for payment: %w", err)
	}

	if order.Status != models.OrderPaymentPending {
		return nil
	}

	key := fmt.Sprintf("%s:advance_order", payment.PaymentID)
	return runStep(db, key, "payment_confirm.advance_order", models.AuditEntityOrder, order.ID, func() error {
		return TransitionOrder(db, &order, models.OrderInProgress, actorID,
			fmt.Sprintf("payment %s confirmed", payment.PaymentID))
	})
}

// CompleteRevisionWorkflow completes a revision and moves its order to
// client_review so the client can respond to the reworked draft. An
// order still sitting in in_revision passes through draft_ready on the
// way, keeping every hop legal under the order graph.
func CompleteRevisionWorkflow(db *gorm.DB, revision *models.Revision, actorID uint, summary string, files []string) error {
	if err := CompleteRevision(db, revision, actorID, summary, files); err != nil {
		return err
	}

	var order models.Order
	if err := db.First(&order, revision.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFound("order")
		}
		return fmt.Errorf("failed to load order for revision: %w", err)
	}

	key := fmt.Sprintf("%s:order_client_review", revision.RevisionID)
	return runStep(db, key, "revision_complete.order_client_review", models.AuditEntityOrder, order.ID, func() error {
		note := fmt.Sprintf("revision #%d completed", revision.RevisionNumber)
		if order.Status == models.OrderInRevision {
			if err := TransitionOrder(db, &order, models.OrderDraftReady, actorID, note); err != nil {
				return err
			}
		}
		if order.Status == models.OrderDraftReady {
			return TransitionOrder(db, &order, models.OrderClientReview, actorID, "")
		}
		if order.Status == models.OrderClientReview {
			return nil
		}
		return NewInvalidState(fmt.Sprintf("order in status %s cannot move to client review", order.Status))
	})
}

// RespondToRevisionWorkflow records the client's verdict on a delivered
// revision. Approval closes the revision and completes the order;
// rejection reopens the loop by moving the order back to
// revision_requested (the revision itself lands on rejected, which is
// re-enterable).
func RespondToRevisionWorkflow(db *gorm.DB, revision *models.Revision, actorID uint, approved bool, feedback string) error {
	revision.ClientFeedback = feedback

	target := models.RevisionRejected
	if approved {
		target = models.RevisionApproved
	}
	if err := TransitionRevision(db, revision, target, actorID, feedback); err != nil {
		return err
	}

	var order models.Order
	if err := db.First(&order, revision.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFound("order")
		}
		return fmt.Errorf("failed to load order for revision: %w", err)
	}

	if approved {
		key := fmt.Sprintf("%s:order_completed", revision.RevisionID)
		return runStep(db, key, "revision_approve.order_completed", models.AuditEntityOrder, order.ID, func() error {
			if order.Status == models.OrderCompleted || order.Status == models.OrderDelivered {
				return nil
			}
			return TransitionOrder(db, &order, models.OrderCompleted, actorID,
				fmt.Sprintf("revision #%d approved by client", revision.RevisionNumber))
		})
	}

	key := fmt.Sprintf("%s:order_revision_requested", revision.RevisionID)
	return runStep(db, key, "revision_reject.order_revision_requested", models.AuditEntityOrder, order.ID, func() error {
		if order.Status == models.OrderRevisionRequested {
			return nil
		}
		return TransitionOrder(db, &order, models.OrderRevisionRequested, actorID,
			fmt.Sprintf("revision #%d rejected by client", revision.RevisionNumber))
	})
}
