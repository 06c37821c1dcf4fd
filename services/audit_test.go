package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resume-studio/resume-studio-api/models"
)

func TestListAudit_ArrivalOrderAndScoping(t *testing.T) {
	db := newTestDB(t)

	for i := 1; i <= 3; i++ {
		require.NoError(t, RecordAudit(db, models.AuditEntityOrder, 1, fmt.Sprintf("action_%d", i), 1, "", "", ""))
	}
	// Entries for other entities must not leak into the trail
	require.NoError(t, RecordAudit(db, models.AuditEntityPayment, 1, "created", 1, "", "", ""))
	require.NoError(t, RecordAudit(db, models.AuditEntityOrder, 2, "created", 1, "", "", ""))

	entries, total, err := ListAudit(db, models.AuditEntityOrder, 1, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 3)
	assert.Equal(t, "action_1", entries[0].Action)
	assert.Equal(t, "action_2", entries[1].Action)
	assert.Equal(t, "action_3", entries[2].Action)
}

func TestListAudit_Pagination(t *testing.T) {
	db := newTestDB(t)

	for i := 1; i <= 5; i++ {
		require.NoError(t, RecordAudit(db, models.AuditEntityRevision, 7, fmt.Sprintf("action_%d", i), 1, "", "", ""))
	}

	first, total, err := ListAudit(db, models.AuditEntityRevision, 7, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, first, 2)
	assert.Equal(t, "action_1", first[0].Action)

	last, total, err := ListAudit(db, models.AuditEntityRevision, 7, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, last, 1)
	assert.Equal(t, "action_5", last[0].Action)
}

func TestListAudit_ClampsPageArguments(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, RecordAudit(db, models.AuditEntityOrder, 9, "created", 1, "", "", ""))

	entries, total, err := ListAudit(db, models.AuditEntityOrder, 9, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, entries, 1)

	// Oversized page size falls back to the default
	entries, _, err = ListAudit(db, models.AuditEntityOrder, 9, 1, 10000)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHasAuditEntries(t *testing.T) {
	db := newTestDB(t)

	has, err := HasAuditEntries(db, models.AuditEntityOrder, 3)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, RecordAudit(db, models.AuditEntityOrder, 3, "created", 1, "", "", ""))
	has, err = HasAuditEntries(db, models.AuditEntityOrder, 3)
	require.NoError(t, err)
	assert.True(t, has)
}
