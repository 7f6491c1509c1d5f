package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/sjperalta/sitetrack-api/internal/models"
)

// ExpenseFSM wraps an expense with its approval state machine
type ExpenseFSM struct {
	expense *models.Expense
	fsm     *fsm.FSM
}

// NewExpenseFSM creates a new expense approval state machine
func NewExpenseFSM(expense *models.Expense) *ExpenseFSM {
	efsm := &ExpenseFSM{
		expense: expense,
	}

	efsm.fsm = fsm.NewFSM(
		expense.ApprovalState(),
		fsm.Events{
			// pending → approved
			{Name: "approve", Src: []string{models.ApprovalPending}, Dst: models.ApprovalApproved},

			// pending → rejected
			{Name: "reject", Src: []string{models.ApprovalPending}, Dst: models.ApprovalRejected},
		},
		fsm.Callbacks{},
	)

	return efsm
}

// Approve marks the expense approved by actor
func (e *ExpenseFSM) Approve(ctx context.Context, actor string) error {
	if !e.expense.IsPending() {
		return fmt.Errorf("expense cannot be approved in current state: %s", e.expense.ApprovalState())
	}

	if err := e.fsm.Event(ctx, "approve"); err != nil {
		return fmt.Errorf("failed to approve expense: %w", err)
	}

	e.apply(actor)
	return nil
}

// Reject marks the expense as reviewed and not approved by actor
func (e *ExpenseFSM) Reject(ctx context.Context, actor string) error {
	if !e.expense.IsPending() {
		return fmt.Errorf("expense cannot be rejected in current state: %s", e.expense.ApprovalState())
	}

	if err := e.fsm.Event(ctx, "reject"); err != nil {
		return fmt.Errorf("failed to reject expense: %w", err)
	}

	e.apply(actor)
	return nil
}

func (e *ExpenseFSM) apply(actor string) {
	approved := e.fsm.Current() == models.ApprovalApproved
	e.expense.Approved = &approved
	e.expense.ApprovedBy = actor
}

// Current returns the current state
func (e *ExpenseFSM) Current() string {
	return e.fsm.Current()
}

// Can checks if a transition is possible
func (e *ExpenseFSM) Can(event string) bool {
	return e.fsm.Can(event)
}
