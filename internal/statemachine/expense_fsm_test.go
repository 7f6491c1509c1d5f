package statemachine

import (
	"context"
	"testing"

	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpenseFSM_Approve(t *testing.T) {
	expense := &models.Expense{ID: "x1"}
	f := NewExpenseFSM(expense)

	assert.Equal(t, models.ApprovalPending, f.Current())
	assert.True(t, f.Can("approve"))

	require.NoError(t, f.Approve(context.Background(), "Alice"))
	require.NotNil(t, expense.Approved)
	assert.True(t, *expense.Approved)
	assert.Equal(t, "Alice", expense.ApprovedBy)
	assert.Equal(t, models.ApprovalApproved, f.Current())
}

func TestExpenseFSM_Reject(t *testing.T) {
	expense := &models.Expense{ID: "x1"}

	require.NoError(t, NewExpenseFSM(expense).Reject(context.Background(), "Alice"))
	require.NotNil(t, expense.Approved)
	assert.False(t, *expense.Approved)
	assert.Equal(t, models.ApprovalRejected, expense.ApprovalState())
}

func TestExpenseFSM_OnlyFromPending(t *testing.T) {
	approved := true
	expense := &models.Expense{ID: "x1", Approved: &approved, ApprovedBy: "Alice"}
	f := NewExpenseFSM(expense)

	assert.False(t, f.Can("approve"))
	assert.Error(t, f.Approve(context.Background(), "Bob"))
	assert.Error(t, f.Reject(context.Background(), "Bob"))

	assert.True(t, *expense.Approved)
	assert.Equal(t, "Alice", expense.ApprovedBy)
}
