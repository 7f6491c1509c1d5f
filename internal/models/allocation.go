package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FundAllocation is a budget granted to an engineer for one site.
// BalanceRemaining starts equal to AmountAllocated and only goes down as
// expenses are reconciled against it. It is allowed to go negative.
type FundAllocation struct {
	ID               string          `json:"allocation_id"`
	EngineerID       string          `json:"engineer_id"`
	SiteID           string          `json:"site_id"`
	AmountAllocated  decimal.Decimal `json:"amount_allocated"`
	DateAllocated    time.Time       `json:"date_allocated"`
	BalanceRemaining decimal.Decimal `json:"balance_remaining"`
	Notes            string          `json:"notes"`
}

// Matches reports whether the allocation belongs to the engineer/site pair
func (a FundAllocation) Matches(engineerID, siteID string) bool {
	return a.EngineerID == engineerID && a.SiteID == siteID
}

// HasBalance reports whether anything is left to spend
func (a FundAllocation) HasBalance() bool {
	return a.BalanceRemaining.IsPositive()
}

// ToRow flattens the allocation in fund_allocations column order
func (a FundAllocation) ToRow() []string {
	return []string{
		a.ID,
		a.EngineerID,
		a.SiteID,
		FormatAmount(a.AmountAllocated),
		FormatDate(a.DateAllocated),
		FormatAmount(a.BalanceRemaining),
		a.Notes,
	}
}

// FundAllocationFromRow decodes a fund_allocations row
func FundAllocationFromRow(cells []string) (FundAllocation, error) {
	r := newRowReader(cells, 7)
	return FundAllocation{
		ID:               r.str(0),
		EngineerID:       r.str(1),
		SiteID:           r.str(2),
		AmountAllocated:  r.decimal(3, "amount_allocated"),
		DateAllocated:    r.date(4, "date_allocated"),
		BalanceRemaining: r.decimal(5, "balance_remaining"),
		Notes:            r.str(6),
	}, r.err
}
