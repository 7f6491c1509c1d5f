package models

import "time"

// Audit actions recorded by the services
const (
	ActionLogin          = "login"
	ActionCreateCompany  = "create_company"
	ActionCreateEngineer = "create_engineer"
	ActionCreateSite     = "create_site"
	ActionAssignEngineer = "assign_engineer"
	ActionAllocateFunds  = "allocate_funds"
	ActionCreateExpense  = "create_expense"
	ActionApproveExpense = "approve_expense"
	ActionRejectExpense  = "reject_expense"
)

// AuditEntry is an append-only record of one mutating action
type AuditEntry struct {
	ID         string    `json:"log_id"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	User       string    `json:"user"`
	Timestamp  time.Time `json:"timestamp"`
	Details    string    `json:"details"`
}

// ToRow flattens the entry in audit_log column order
func (a AuditEntry) ToRow() []string {
	return []string{a.ID, a.Action, a.ObjectType, a.ObjectID, a.User, a.Timestamp.UTC().Format(time.RFC3339Nano), a.Details}
}

// AuditEntryFromRow decodes an audit_log row
func AuditEntryFromRow(cells []string) (AuditEntry, error) {
	r := newRowReader(cells, 7)
	return AuditEntry{
		ID:         r.str(0),
		Action:     r.str(1),
		ObjectType: r.str(2),
		ObjectID:   r.str(3),
		User:       r.str(4),
		Timestamp:  r.timestamp(5, "timestamp"),
		Details:    r.str(6),
	}, r.err
}
