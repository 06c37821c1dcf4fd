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

// confirmablePaymentStates lists the states confirm accepts
func confirmablePayment(status models.PaymentStatus) bool {
	return status == models.PaymentPending || status == models.PaymentProcessing
}

// refundablePaymentStates lists the states refund accepts
func refundablePayment(status models.PaymentStatus) bool {
	return status == models.PaymentCompleted ||
		status == models.PaymentRefunded ||
		status == models.PaymentPartiallyRefunded
}

// CreatePayment persists a new pending payment. It assigns the external
// payment id, derives the net amount from the fees, and synthesizes the
// single "created" audit entry when the trail is empty, so every
// payment has a non-empty chronological trail from creation. The
// synthesis is idempotent: re-saving never duplicates the entry.
func CreatePayment(db *gorm.DB, payment *models.Payment, actorID uint) error {
	if payment.PaymentID == "" {
		payment.PaymentID = "PAY-" + uuid.NewString()
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}
	if payment.InitiatedAt == nil {
		now := time.Now().UTC()
		payment.InitiatedAt = &now
	}
	payment.NetAmount = PaymentNetAmount(payment.Amount, payment.ProcessingFee, payment.PlatformFee)

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		hasTrail, err := HasAuditEntries(tx, models.AuditEntityPayment, payment.ID)
		if err != nil {
			return err
		}
		if !hasTrail {
			if err := RecordAudit(tx, models.AuditEntityPayment, payment.ID, "created", actorID,
				fmt.Sprintf("payment %s initiated for %.2f %s", payment.PaymentID, payment.Amount, payment.Currency),
				"", string(payment.Status)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ConfirmPayment marks a payment as completed. Only pending and
// processing payments can be confirmed. ConfirmedAt and CompletedAt
// are stamped once and never overwritten.
func ConfirmPayment(db *gorm.DB, payment *models.Payment, actorID uint, notes string) error {
	if !confirmablePayment(payment.Status) {
		return NewInvalidState(fmt.Sprintf("payment in status %s cannot be confirmed", payment.Status))
	}

	previous := payment.Status
	now := time.Now().UTC()
	oldVersion := payment.Version

	payment.Status = models.PaymentCompleted
	if payment.ConfirmedAt == nil {
		payment.ConfirmedAt = &now
	}
	if payment.CompletedAt == nil {
		payment.CompletedAt = &now
	}
	payment.ConfirmedBy = &actorID
	payment.ConfirmationNotes = notes
	payment.NetAmount = PaymentNetAmount(payment.Amount, payment.ProcessingFee, payment.PlatformFee)
	payment.Version = oldVersion + 1

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND version = ?", payment.ID, oldVersion).
			Select("status", "confirmed_at", "completed_at", "confirmed_by", "confirmation_notes", "net_amount", "version").
			Updates(payment)
		if res.Error != nil {
			return fmt.Errorf("failed to confirm payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NewVersionConflict("payment")
		}

		details := "payment confirmed"
		if notes != "" {
			details = notes
		}
		return RecordAudit(tx, models.AuditEntityPayment, payment.ID, "confirmed", actorID,
			details, string(previous), string(payment.Status))
	})
	if err != nil {
		return err
	}

	config.GetLogger().Info("payment confirmed",
		zap.String("payment_id", payment.PaymentID),
		zap.Float64("amount", payment.Amount),
		zap.Uint("actor_id", actorID))
	return nil
}

// RefundPayment applies a full or partial refund. Only completed (or
// already partially refunded) payments can be refunded, and the
// cumulative refunded amount can never exceed the amount paid. The
// payment lands on refunded exactly when the cumulative refund equals
// the amount, otherwise partially_refunded.
func RefundPayment(db *gorm.DB, payment *models.Payment, actorID uint, amount float64, reason, notes string) error {
	if !refundablePayment(payment.Status) {
		return NewInvalidState(fmt.Sprintf("payment in status %s cannot be refunded", payment.Status))
	}
	if amount <= 0 {
		return NewInvalidAmount("refund amount must be positive")
	}

	totalRefunded := Round2(payment.RefundAmount + amount)
	if totalRefunded > payment.Amount {
		return NewInvalidAmount(fmt.Sprintf(
			"refund of %.2f would bring total refunded to %.2f, exceeding amount paid %.2f",
			amount, totalRefunded, payment.Amount))
	}

	previous := payment.Status
	now := time.Now().UTC()
	oldVersion := payment.Version

	payment.RefundAmount = totalRefunded
	payment.RefundReason = reason
	payment.RefundedAt = &now
	if totalRefunded == payment.Amount {
		payment.Status = models.PaymentRefunded
	} else {
		payment.Status = models.PaymentPartiallyRefunded
	}
	payment.Version = oldVersion + 1

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND version = ?", payment.ID, oldVersion).
			Select("status", "refund_amount", "refund_reason", "refunded_at", "version").
			Updates(payment)
		if res.Error != nil {
			return fmt.Errorf("failed to refund payment: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return NewVersionConflict("payment")
		}

		details := fmt.Sprintf("refunded %.2f (%s), total refunded %.2f", amount, reason, totalRefunded)
		if notes != "" {
			details += ": " + notes
		}
		return RecordAudit(tx, models.AuditEntityPayment, payment.ID, "refunded", actorID,
			details, string(previous), string(payment.Status))
	})
	if err != nil {
		return err
	}

	config.GetLogger().Info("payment refunded",
		zap.String("payment_id", payment.PaymentID),
		zap.Float64("refund_amount", amount),
		zap.Float64("total_refunded", totalRefunded),
		zap.String("status", string(payment.Status)),
		zap.Uint("actor_id", actorID))
	return nil
}
