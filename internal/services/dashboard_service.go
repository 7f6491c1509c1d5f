package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sjperalta/sitetrack-api/internal/models"
	"github.com/sjperalta/sitetrack-api/internal/repository"
)

// DashboardService computes the read-only rollups. Nothing is cached; every
// call reads the current tables.
type DashboardService struct {
	repos *repository.Repositories
}

func NewDashboardService(repos *repository.Repositories) *DashboardService {
	return &DashboardService{repos: repos}
}

// SiteSummary totals every expense, approved or not, per site. Expenses for
// unknown sites are ignored and sites without expenses total zero.
func (s *DashboardService) SiteSummary(ctx context.Context) ([]models.SiteSummary, error) {
	sites, err := s.repos.Site.List(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repos.Expense.List(ctx)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		spent[e.SiteID] = spent[e.SiteID].Add(e.Amount)
	}

	summary := make([]models.SiteSummary, 0, len(sites))
	for _, site := range sites {
		summary = append(summary, models.SiteSummary{
			SiteID:     site.ID,
			SiteName:   site.Name,
			Location:   site.Location,
			Status:     site.Status,
			TotalSpent: spent[site.ID],
		})
	}
	return summary, nil
}

// EngineerSummary totals allocations, remaining balances and expenses per
// engineer.
func (s *DashboardService) EngineerSummary(ctx context.Context) ([]models.EngineerSummary, error) {
	engineers, err := s.repos.Engineer.List(ctx)
	if err != nil {
		return nil, err
	}
	allocations, err := s.repos.Allocation.List(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.repos.Expense.List(ctx)
	if err != nil {
		return nil, err
	}

	allocated := make(map[string]decimal.Decimal)
	balance := make(map[string]decimal.Decimal)
	for _, a := range allocations {
		allocated[a.EngineerID] = allocated[a.EngineerID].Add(a.AmountAllocated)
		balance[a.EngineerID] = balance[a.EngineerID].Add(a.BalanceRemaining)
	}
	spent := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		spent[e.EngineerID] = spent[e.EngineerID].Add(e.Amount)
	}

	summary := make([]models.EngineerSummary, 0, len(engineers))
	for _, eng := range engineers {
		summary = append(summary, models.EngineerSummary{
			EngineerID: eng.ID,
			Name:       eng.Name,
			Role:       eng.Role,
			TotalAlloc: allocated[eng.ID],
			TotalSpent: spent[eng.ID],
			Balance:    balance[eng.ID],
		})
	}
	return summary, nil
}
