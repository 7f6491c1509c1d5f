package services

import (
	"github.com/sjperalta/sitetrack-api/internal/config"
	"github.com/sjperalta/sitetrack-api/internal/metrics"
	"github.com/sjperalta/sitetrack-api/internal/repository"
)

// Services holds all service instances
type Services struct {
	Auth       *AuthService
	Audit      *AuditService
	Directory  *DirectoryService
	Allocation *AllocationService
	Expense    *ExpenseService
	Dashboard  *DashboardService
	Export     *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, source TableSource, receipts ReceiptStore, cfg *config.Config, m *metrics.Metrics) *Services {
	auditSvc := NewAuditService(repos.Audit)
	allocationSvc := NewAllocationService(repos.Allocation, auditSvc, m)
	dashboardSvc := NewDashboardService(repos)

	return &Services{
		Auth:       NewAuthService(auditSvc, cfg),
		Audit:      auditSvc,
		Directory:  NewDirectoryService(repos, auditSvc),
		Allocation: allocationSvc,
		Expense:    NewExpenseService(repos.Expense, allocationSvc, auditSvc, receipts),
		Dashboard:  dashboardSvc,
		Export:     NewExportService(source, dashboardSvc),
	}
}
