package models

// Company is the single business the tracker belongs to
type Company struct {
	ID      string `json:"company_id"`
	Name    string `json:"company_name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// ToRow flattens the company in companies column order
func (c Company) ToRow() []string {
	return []string{c.ID, c.Name, c.Address, c.Phone}
}

// CompanyFromRow decodes a companies row
func CompanyFromRow(cells []string) (Company, error) {
	r := newRowReader(cells, 4)
	return Company{
		ID:      r.str(0),
		Name:    r.str(1),
		Address: r.str(2),
		Phone:   r.str(3),
	}, r.err
}
