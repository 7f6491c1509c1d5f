package repository

import (
	"context"

	"github.com/sjperalta/sitetrack-api/internal/models"
)

// AllocationRepository defines the interface for fund allocation data access
type AllocationRepository interface {
	List(ctx context.Context) ([]models.FundAllocation, error)
	Create(ctx context.Context, allocation *models.FundAllocation) error
	// Modify walks allocations in sheet order under the workbook lock
	Modify(ctx context.Context, fn ModifyFunc[models.FundAllocation]) (int, error)
}

type allocationRepository struct {
	t *table[models.FundAllocation]
}

// NewAllocationRepository creates a new fund allocation repository
func NewAllocationRepository(store Store) AllocationRepository {
	return &allocationRepository{t: &table[models.FundAllocation]{store: store, name: models.TableFundAllocations, decode: models.FundAllocationFromRow}}
}

func (r *allocationRepository) List(ctx context.Context) ([]models.FundAllocation, error) {
	return r.t.list(ctx)
}

func (r *allocationRepository) Create(ctx context.Context, allocation *models.FundAllocation) error {
	return r.t.create(ctx, *allocation)
}

func (r *allocationRepository) Modify(ctx context.Context, fn ModifyFunc[models.FundAllocation]) (int, error) {
	return r.t.modify(ctx, fn)
}

// ExpenseRepository defines the interface for expense data access
type ExpenseRepository interface {
	List(ctx context.Context) ([]models.Expense, error)
	FindByID(ctx context.Context, id string) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	// Modify walks expenses in sheet order under the workbook lock
	Modify(ctx context.Context, fn ModifyFunc[models.Expense]) (int, error)
}

type expenseRepository struct {
	t *table[models.Expense]
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(store Store) ExpenseRepository {
	return &expenseRepository{t: &table[models.Expense]{store: store, name: models.TableExpenses, decode: models.ExpenseFromRow}}
}

func (r *expenseRepository) List(ctx context.Context) ([]models.Expense, error) {
	return r.t.list(ctx)
}

func (r *expenseRepository) FindByID(ctx context.Context, id string) (*models.Expense, error) {
	return r.t.find(ctx, func(e models.Expense) bool { return e.ID == id })
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return r.t.create(ctx, *expense)
}

func (r *expenseRepository) Modify(ctx context.Context, fn ModifyFunc[models.Expense]) (int, error) {
	return r.t.modify(ctx, fn)
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context) ([]models.AuditEntry, error)
}

type auditRepository struct {
	t *table[models.AuditEntry]
}

// NewAuditRepository creates a new audit log repository
func NewAuditRepository(store Store) AuditRepository {
	return &auditRepository{t: &table[models.AuditEntry]{store: store, name: models.TableAuditLog, decode: models.AuditEntryFromRow}}
}

func (r *auditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	return r.t.create(ctx, *entry)
}

func (r *auditRepository) List(ctx context.Context) ([]models.AuditEntry, error) {
	return r.t.list(ctx)
}
