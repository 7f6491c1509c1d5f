package models

// Sheet names inside the workbook
const (
	TableCompanies       = "companies"
	TableEngineers       = "engineers"
	TableSites           = "sites"
	TableAssignments     = "assignments"
	TableFundAllocations = "fund_allocations"
	TableExpenses        = "expenses"
	TableAuditLog        = "audit_log"
)

// TableSchema is the fixed column layout of one sheet
type TableSchema struct {
	Name    string
	Columns []string
}

var schemas = []TableSchema{
	{Name: TableCompanies, Columns: []string{"company_id", "company_name", "address", "phone"}},
	{Name: TableEngineers, Columns: []string{"engineer_id", "name", "role", "phone", "email", "active"}},
	{Name: TableSites, Columns: []string{"site_id", "site_name", "location", "start_date", "end_date", "status"}},
	{Name: TableAssignments, Columns: []string{"assignment_id", "engineer_id", "site_id", "assigned_by", "assigned_on", "is_active"}},
	{Name: TableFundAllocations, Columns: []string{"allocation_id", "engineer_id", "site_id", "amount_allocated", "date_allocated", "balance_remaining", "notes"}},
	{Name: TableExpenses, Columns: []string{"expense_id", "site_id", "engineer_id", "expense_type", "amount", "date", "payment_mode", "receipt_path", "approved_by", "approved", "notes"}},
	{Name: TableAuditLog, Columns: []string{"log_id", "action", "object_type", "object_id", "user", "timestamp", "details"}},
}

// Schemas returns every table schema in workbook order
func Schemas() []TableSchema {
	out := make([]TableSchema, len(schemas))
	for i, s := range schemas {
		out[i] = TableSchema{Name: s.Name, Columns: append([]string(nil), s.Columns...)}
	}
	return out
}

// SchemaFor looks up the schema of a sheet by name
func SchemaFor(name string) (TableSchema, bool) {
	for _, s := range schemas {
		if s.Name == name {
			return TableSchema{Name: s.Name, Columns: append([]string(nil), s.Columns...)}, true
		}
	}
	return TableSchema{}, false
}

// TableNames returns the sheet names in workbook order
func TableNames() []string {
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name
	}
	return names
}
