package handlers

import (
	"github.com/sjperalta/sitetrack-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Directory  *DirectoryHandler
	Allocation *AllocationHandler
	Expense    *ExpenseHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
	Audit      *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Auth:       NewAuthHandler(svcs.Auth),
		Directory:  NewDirectoryHandler(svcs.Directory),
		Allocation: NewAllocationHandler(svcs.Allocation),
		Expense:    NewExpenseHandler(svcs.Expense),
		Dashboard:  NewDashboardHandler(svcs.Dashboard),
		Export:     NewExportHandler(svcs.Export),
		Audit:      NewAuditHandler(svcs.Audit),
	}
}
