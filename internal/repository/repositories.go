package repository

// Repositories holds all repository instances
type Repositories struct {
	Company    CompanyRepository
	Engineer   EngineerRepository
	Site       SiteRepository
	Assignment AssignmentRepository
	Allocation AllocationRepository
	Expense    ExpenseRepository
	Audit      AuditRepository
}

// NewRepositories creates all repository instances over one workbook store
func NewRepositories(store Store) *Repositories {
	return &Repositories{
		Company:    NewCompanyRepository(store),
		Engineer:   NewEngineerRepository(store),
		Site:       NewSiteRepository(store),
		Assignment: NewAssignmentRepository(store),
		Allocation: NewAllocationRepository(store),
		Expense:    NewExpenseRepository(store),
		Audit:      NewAuditRepository(store),
	}
}
