package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/resume-studio/resume-studio-api/models"
)

func newTestRevision(urgency, complexity string) *models.Revision {
	return &models.Revision{
		RequestDetails: "Tighten the summary section",
		Type:           "content",
		Priority:       "medium",
		Urgency:        urgency,
		Complexity:     complexity,
	}
}

func requestRevision(t *testing.T, db *gorm.DB, order *models.Order, urgency, complexity string) *models.Revision {
	t.Helper()
	revision := newTestRevision(urgency, complexity)
	require.NoError(t, CreateRevision(db, order, revision, order.ClientID))
	return revision
}

func TestCanTransitionRevision(t *testing.T) {
	tests := []struct {
		name    string
		from    models.RevisionStatus
		to      models.RevisionStatus
		allowed bool
	}{
		{"pending to acknowledged", models.RevisionPending, models.RevisionAcknowledged, true},
		{"pending straight to in_progress", models.RevisionPending, models.RevisionInProgress, false},
		{"acknowledged to in_progress", models.RevisionAcknowledged, models.RevisionInProgress, true},
		{"acknowledged to on_hold", models.RevisionAcknowledged, models.RevisionOnHold, true},
		{"in_progress to completed", models.RevisionInProgress, models.RevisionCompleted, true},
		{"completed to delivered", models.RevisionCompleted, models.RevisionDelivered, true},
		{"delivered to approved", models.RevisionDelivered, models.RevisionApproved, true},
		{"delivered to rejected", models.RevisionDelivered, models.RevisionRejected, true},
		{"rejected reopens to in_progress", models.RevisionRejected, models.RevisionInProgress, true},
		{"approved is terminal", models.RevisionApproved, models.RevisionInProgress, false},
		{"cancelled is terminal", models.RevisionCancelled, models.RevisionInProgress, false},
		{"on_hold resumes", models.RevisionOnHold, models.RevisionInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionRevision(tt.from, tt.to))
		})
	}
}

func TestCreateRevision_NumberingAndFreeAllowance(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)

	first := requestRevision(t, db, order, "standard", "moderate")
	assert.Equal(t, 1, first.RevisionNumber)
	assert.Equal(t, 0, first.FreeRevisionsUsed)
	assert.False(t, first.IsChargeable)
	assert.Zero(t, first.RevisionFee)

	second := requestRevision(t, db, order, "standard", "moderate")
	assert.Equal(t, 2, second.RevisionNumber)
	assert.Equal(t, 1, second.FreeRevisionsUsed)
	assert.False(t, second.IsChargeable)

	// Third revision exhausts the default allowance of 2
	third := requestRevision(t, db, order, "urgent", "complex")
	assert.Equal(t, 3, third.RevisionNumber)
	assert.Equal(t, 2, third.FreeRevisionsUsed)
	assert.True(t, third.IsChargeable)
	assert.InDelta(t, 150, third.RevisionFee, 0.001) // 100 * 1.5
}

func TestCreateRevision_DeadlineByUrgency(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)

	standard := requestRevision(t, db, order, "standard", "simple")
	assert.Nil(t, standard.Deadline)

	urgent := requestRevision(t, db, order, "urgent", "simple")
	require.NotNil(t, urgent.Deadline)
	assert.InDelta(t, 48*time.Hour, time.Until(*urgent.Deadline), float64(time.Minute))

	express := requestRevision(t, db, order, "express", "simple")
	require.NotNil(t, express.Deadline)
	assert.InDelta(t, 24*time.Hour, time.Until(*express.Deadline), float64(time.Minute))
}

func TestCreateRevision_EstimatedHours(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)

	revision := newTestRevision("standard", "moderate")
	revision.SpecificChanges = []string{"fix dates", "reorder sections"}
	require.NoError(t, CreateRevision(db, order, revision, client.ID))
	assert.InDelta(t, 4.0, revision.EstimatedHours, 0.001) // 3*1.0*1.0 + 0.5*2

	// An explicit staff estimate is never overwritten
	explicit := newTestRevision("standard", "very_complex")
	explicit.EstimatedHours = 8
	require.NoError(t, CreateRevision(db, order, explicit, client.ID))
	assert.InDelta(t, 8, explicit.EstimatedHours, 0.001)
}

func TestCreateRevision_IneligibleOrderStatus(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderInProgress)

	err := CreateRevision(db, order, newTestRevision("standard", "simple"), client.ID)
	require.Error(t, err)
	assert.Equal(t, CodeInvalidState, ErrorCode(err))
}

func TestTransitionRevision_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)
	revision := requestRevision(t, db, order, "standard", "moderate")

	require.NoError(t, TransitionRevision(db, revision, models.RevisionAcknowledged, 5, ""))
	require.NotNil(t, revision.AcknowledgedAt)

	require.NoError(t, TransitionRevision(db, revision, models.RevisionInProgress, 5, ""))
	require.NotNil(t, revision.StartedAt)
	started := *revision.StartedAt

	require.NoError(t, TransitionRevision(db, revision, models.RevisionCompleted, 5, ""))
	require.NotNil(t, revision.CompletedAt)
	assert.GreaterOrEqual(t, revision.ActualDurationHours, 0.0)

	require.NoError(t, TransitionRevision(db, revision, models.RevisionDelivered, 5, ""))
	require.NoError(t, TransitionRevision(db, revision, models.RevisionRejected, client.ID, "dates still wrong"))
	require.NotNil(t, revision.ClientRespondedAt)

	// Rejection reopens the work; StartedAt survives from the first pass
	require.NoError(t, TransitionRevision(db, revision, models.RevisionInProgress, 5, ""))
	assert.Equal(t, started, *revision.StartedAt)

	// Version bumped once per transition
	assert.Equal(t, 6, revision.Version)
}

func TestTransitionRevision_RejectsIllegalTarget(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)
	revision := requestRevision(t, db, order, "standard", "moderate")

	err := TransitionRevision(db, revision, models.RevisionDelivered, 5, "")
	require.Error(t, err)
	assert.Equal(t, CodeInvalidStatusTransition, ErrorCode(err))
	assert.Equal(t, models.RevisionPending, revision.Status)
}

func TestCompleteRevision(t *testing.T) {
	db := newTestDB(t)
	client := seedClient(t, db)
	order := seedOrder(t, db, client.ID, models.OrderDelivered)
	revision := requestRevision(t, db, order, "standard", "moderate")

	require.NoError(t, TransitionRevision(db, revision, models.RevisionAcknowledged, 5, ""))
	require.NoError(t, TransitionRevision(db, revision, models.RevisionInProgress, 5, ""))

	files := []string{"documents/123_resume_v2.pdf"}
	require.NoError(t, CompleteRevision(db, revision, 5, "Reworked summary and dates", files))
	assert.Equal(t, models.RevisionCompleted, revision.Status)

	var stored models.Revision
	require.NoError(t, db.First(&stored, revision.ID).Error)
	assert.Equal(t, "Reworked summary and dates", stored.CompletionSummary)
	assert.Equal(t, files, stored.DeliveredFiles)
}
