package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense type constants
const (
	ExpenseTypeMaterial  = "Material"
	ExpenseTypeLabour    = "Labour"
	ExpenseTypeTransport = "Transport"
	ExpenseTypeMisc      = "Misc"
)

// Payment mode constants
const (
	PaymentModeCash    = "Cash"
	PaymentModeAdvance = "Advance"
	PaymentModeCard    = "Card"
)

// Approval states as exposed by the approval state machine
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Expense is money spent on a site. Approved is nil while pending.
type Expense struct {
	ID          string          `json:"expense_id"`
	SiteID      string          `json:"site_id"`
	EngineerID  string          `json:"engineer_id"`
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	PaymentMode string          `json:"payment_mode"`
	ReceiptPath string          `json:"receipt_path"`
	ApprovedBy  string          `json:"approved_by"`
	Approved    *bool           `json:"approved"`
	Notes       string          `json:"notes"`
}

// ValidExpenseType reports whether t is a known expense type
func ValidExpenseType(t string) bool {
	switch t {
	case ExpenseTypeMaterial, ExpenseTypeLabour, ExpenseTypeTransport, ExpenseTypeMisc:
		return true
	}
	return false
}

// ValidPaymentMode reports whether m is a known payment mode
func ValidPaymentMode(m string) bool {
	switch m {
	case PaymentModeCash, PaymentModeAdvance, PaymentModeCard:
		return true
	}
	return false
}

// ApprovalState maps the tri-state Approved column to a state name
func (e Expense) ApprovalState() string {
	switch {
	case e.Approved == nil:
		return ApprovalPending
	case *e.Approved:
		return ApprovalApproved
	default:
		return ApprovalRejected
	}
}

// IsPending returns true until an approver has decided
func (e Expense) IsPending() bool {
	return e.Approved == nil
}

// ToRow flattens the expense in expenses column order
func (e Expense) ToRow() []string {
	return []string{
		e.ID,
		e.SiteID,
		e.EngineerID,
		e.ExpenseType,
		FormatAmount(e.Amount),
		FormatDate(e.Date),
		e.PaymentMode,
		e.ReceiptPath,
		e.ApprovedBy,
		formatTriState(e.Approved),
		e.Notes,
	}
}

// ExpenseFromRow decodes an expenses row
func ExpenseFromRow(cells []string) (Expense, error) {
	r := newRowReader(cells, 11)
	return Expense{
		ID:          r.str(0),
		SiteID:      r.str(1),
		EngineerID:  r.str(2),
		ExpenseType: r.str(3),
		Amount:      r.decimal(4, "amount"),
		Date:        r.date(5, "date"),
		PaymentMode: r.str(6),
		ReceiptPath: r.str(7),
		ApprovedBy:  r.str(8),
		Approved:    r.triState(9, "approved"),
		Notes:       r.str(10),
	}, r.err
}
