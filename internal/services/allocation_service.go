package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/sitetrack-api/internal/metrics"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/repository"
	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// AllocateInput carries the fields an operator supplies for a new allocation
type AllocateInput struct {
	EngineerID string          `json:"engineer_id"`
	SiteID     string          `json:"site_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Notes      string          `json:"notes"`
}

type AllocationService struct {
	repo    repository.AllocationRepository
	audit   *AuditService
	metrics *metrics.Metrics
}

func NewAllocationService(repo repository.AllocationRepository, audit *AuditService, m *metrics.Metrics) *AllocationService {
	return &AllocationService{repo: repo, audit: audit, metrics: m}
}

func (s *AllocationService) List(ctx context.Context) ([]models.FundAllocation, error) {
	return s.repo.List(ctx)
}

// Allocate grants funds to an engineer for a site. The balance starts at the
// full amount. Engineer and site ids are not checked against their tables.
func (s *AllocationService) Allocate(ctx context.Context, actor string, input AllocateInput) (*models.FundAllocation, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	date := input.Date
	if date.IsZero() {
		date = models.Today()
	}

	allocation := &models.FundAllocation{
		ID:               uuid.NewString(),
		EngineerID:       input.EngineerID,
		SiteID:           input.SiteID,
		AmountAllocated:  input.Amount,
		DateAllocated:    date,
		BalanceRemaining: input.Amount,
		Notes:            input.Notes,
	}
	if err := checkFits(actor, allocation); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, allocation); err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	if _, err := s.audit.Log(ctx, models.ActionAllocateFunds, "fund_allocation", allocation.ID, actor, describe(allocation)); err != nil {
		return nil, err
	}

	logger.Info("Funds allocated", "allocation_id", allocation.ID, "engineer_id", allocation.EngineerID,
		"site_id", allocation.SiteID, "amount", models.FormatAmount(allocation.AmountAllocated))
	return allocation, nil
}

// validateAmount accepts non-negative money with at most two decimals, so the
// value kept in memory is exactly the one written to the sheet
func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: amount must be zero or greater", ErrValidation)
	}
	if !models.IsStorableAmount(amount) {
		return fmt.Errorf("%w: amount %s has more than %d decimals", ErrValidation, amount, models.AmountPlaces)
	}
	return nil
}

// Reconcile debits amount from the first allocation, in sheet order, that
// matches the engineer and site and still has a positive balance. The debit
// may drive the balance negative. When nothing matches the call is a no-op
// and the returned id is empty.
func (s *AllocationService) Reconcile(ctx context.Context, engineerID, siteID string, amount decimal.Decimal) (string, error) {
	if engineerID == "" || siteID == "" {
		return "", nil
	}

	var debited string
	_, err := s.repo.Modify(ctx, func(a *models.FundAllocation) (bool, error) {
		if !a.Matches(engineerID, siteID) || !a.HasBalance() {
			return false, nil
		}
		a.BalanceRemaining = a.BalanceRemaining.Sub(amount)
		debited = a.ID
		return true, repository.ErrStop
	})
	if err != nil {
		return "", fmt.Errorf("failed to reconcile expense: %w", err)
	}

	if debited == "" {
		s.metrics.IncrementAllocationDebit("unmatched")
		logger.Debug("No allocation to debit", "engineer_id", engineerID, "site_id", siteID)
		return "", nil
	}
	s.metrics.IncrementAllocationDebit("debited")
	return debited, nil
}
