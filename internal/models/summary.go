package models

import "github.com/shopspring/decimal"

// SiteSummary is one dashboard line per site
type SiteSummary struct {
	SiteID     string          `json:"site_id"`
	SiteName   string          `json:"site_name"`
	Location   string          `json:"location"`
	Status     string          `json:"status"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// EngineerSummary is one dashboard line per engineer
type EngineerSummary struct {
	EngineerID string          `json:"engineer_id"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	TotalAlloc decimal.Decimal `json:"total_alloc"`
	TotalSpent decimal.Decimal `json:"total_spent"`
	Balance    decimal.Decimal `json:"balance"`
}
