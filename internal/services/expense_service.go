package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/internal/statemachine"
	"github.com/sjperalta/sitetrack-api/internal/storage"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// ExpenseInput carries the fields of a new expense
type ExpenseInput struct {
	SiteID      string          `json:"site_id"`
	EngineerID  string          `json:"engineer_id"`
	ExpenseType string          `json:"expense_type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	PaymentMode string          `json:"payment_mode"`
	Notes       string          `json:"notes"`
}

// Receipt is an optional uploaded file attached to an expense
type Receipt struct {
	Filename string
	Body     io.Reader
}

// ReceiptStore persists receipt blobs
type ReceiptStore interface {
	SaveReceipt(expenseID, filename string, r io.Reader) (string, error)
	Open(path string) (*os.File, error)
	Exists(path string) bool
	Delete(path string) error
}

type ExpenseService struct {
	repo        repository.ExpenseRepository
	allocations *AllocationService
	audit       *AuditService
	receipts    ReceiptStore
}

func NewExpenseService(repo repository.ExpenseRepository, allocations *AllocationService, audit *AuditService, receipts ReceiptStore) *ExpenseService {
	return &ExpenseService{repo: repo, allocations: allocations, audit: audit, receipts: receipts}
}

func (s *ExpenseService) List(ctx context.Context) ([]models.Expense, error) {
	return s.repo.List(ctx)
}

func (s *ExpenseService) FindByID(ctx context.Context, id string) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return expense, err
}

// Record stores the receipt, appends the expense as pending, debits a
// matching allocation and audits the creation. The debit happens now, not on
// approval.
func (s *ExpenseService) Record(ctx context.Context, actor string, input ExpenseInput, receipt *Receipt) (*models.Expense, error) {
	if err := validateExpense(input); err != nil {
		return nil, err
	}
	date := input.Date
	if date.IsZero() {
		date = models.Today()
	}

	expense := &models.Expense{
		ID:          uuid.NewString(),
		SiteID:      input.SiteID,
		EngineerID:  input.EngineerID,
		ExpenseType: input.ExpenseType,
		Amount:      input.Amount,
		Date:        date,
		PaymentMode: input.PaymentMode,
		Notes:       input.Notes,
	}

	if err := checkFits(actor, expense); err != nil {
		return nil, err
	}

	if receipt != nil && receipt.Filename != "" {
		if s.receipts == nil {
			return nil, fmt.Errorf("%w: receipts are not accepted", ErrValidation)
		}
		path, err := s.receipts.SaveReceipt(expense.ID, receipt.Filename, receipt.Body)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidReceipt) {
				return nil, fmt.Errorf("%w: %v", ErrValidation, err)
			}
			return nil, fmt.Errorf("failed to save receipt: %w", err)
		}
		expense.ReceiptPath = path
	}

	if err := s.repo.Create(ctx, expense); err != nil {
		if expense.ReceiptPath != "" {
			if derr := s.receipts.Delete(expense.ReceiptPath); derr != nil {
				logger.Warn("Failed to remove orphaned receipt", "path", expense.ReceiptPath, "error", derr)
			}
		}
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	debited, err := s.allocations.Reconcile(ctx, expense.EngineerID, expense.SiteID, expense.Amount)
	if err != nil {
		return nil, err
	}

	details := describe(expense)
	if debited != "" {
		details = fmt.Sprintf("%s debited_allocation=%s", details, debited)
	}
	if _, err := s.audit.Log(ctx, models.ActionCreateExpense, "expense", expense.ID, actor, details); err != nil {
		return nil, err
	}

	logger.Info("Expense recorded", "expense_id", expense.ID, "amount", models.FormatAmount(expense.Amount),
		"allocation_id", debited)
	return expense, nil
}

// Approve moves a pending expense to approved
func (s *ExpenseService) Approve(ctx context.Context, actor, expenseID string) (*models.Expense, error) {
	return s.transition(ctx, actor, expenseID, models.ActionApproveExpense, func(f *statemachine.ExpenseFSM) error {
		return f.Approve(ctx, actor)
	})
}

// Reject moves a pending expense to rejected
func (s *ExpenseService) Reject(ctx context.Context, actor, expenseID string) (*models.Expense, error) {
	return s.transition(ctx, actor, expenseID, models.ActionRejectExpense, func(f *statemachine.ExpenseFSM) error {
		return f.Reject(ctx, actor)
	})
}

func (s *ExpenseService) transition(ctx context.Context, actor, expenseID, action string, fire func(*statemachine.ExpenseFSM) error) (*models.Expense, error) {
	var updated *models.Expense
	_, err := s.repo.Modify(ctx, func(e *models.Expense) (bool, error) {
		if e.ID != expenseID {
			return false, nil
		}
		if err := fire(statemachine.NewExpenseFSM(e)); err != nil {
			return false, fmt.Errorf("%w: expense %s is %s", ErrInvalidState, e.ID, e.ApprovalState())
		}
		snapshot := *e
		updated = &snapshot
		return true, repository.ErrStop
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	if _, err := s.audit.Log(ctx, action, "expense", updated.ID, actor, updated.ApprovalState()); err != nil {
		return nil, err
	}

	logger.Info("Expense reviewed", "expense_id", updated.ID, "state", updated.ApprovalState(), "actor", actor)
	return updated, nil
}

// Pending lists expenses awaiting review, newest date first
func (s *ExpenseService) Pending(ctx context.Context) ([]models.Expense, error) {
	expenses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.IsPending() {
			pending = append(pending, e)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Date.After(pending[j].Date)
	})
	return pending, nil
}

// ReceiptFile opens the receipt stored with an expense, or its image preview
// when thumbnail is set. The caller closes the file.
func (s *ExpenseService) ReceiptFile(ctx context.Context, expenseID string, thumbnail bool) (*os.File, error) {
	expense, err := s.FindByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if s.receipts == nil || expense.ReceiptPath == "" {
		return nil, fmt.Errorf("%w: expense %s has no receipt", ErrNotFound, expenseID)
	}

	path := expense.ReceiptPath
	if thumbnail {
		path = storage.ThumbnailPath(path)
	}
	if path == "" || !s.receipts.Exists(path) {
		return nil, fmt.Errorf("%w: receipt file for expense %s", ErrNotFound, expenseID)
	}

	f, err := s.receipts.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open receipt: %w", err)
	}
	return f, nil
}

func validateExpense(input ExpenseInput) error {
	if err := validateAmount(input.Amount); err != nil {
		return err
	}
	if !models.ValidExpenseType(input.ExpenseType) {
		return fmt.Errorf("%w: unknown expense type %q", ErrValidation, input.ExpenseType)
	}
	if !models.ValidPaymentMode(input.PaymentMode) {
		return fmt.Errorf("%w: unknown payment mode %q", ErrValidation, input.PaymentMode)
	}
	return nil
}
