package models

import "strconv"

// Engineer roles
const (
	RoleSiteEngineer = "Site Engineer"
	RoleManager      = "Manager"
)

// Engineer is a person who can be assigned to sites and receive funds
type Engineer struct {
	ID     string `json:"engineer_id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// ValidRole reports whether role is one of the known engineer roles
func ValidRole(role string) bool {
	return role == RoleSiteEngineer || role == RoleManager
}

// ToRow flattens the engineer in engineers column order
func (e Engineer) ToRow() []string {
	return []string{e.ID, e.Name, e.Role, e.Phone, e.Email, strconv.FormatBool(e.Active)}
}

// EngineerFromRow decodes an engineers row. A blank active cell counts as active.
func EngineerFromRow(cells []string) (Engineer, error) {
	r := newRowReader(cells, 6)
	return Engineer{
		ID:     r.str(0),
		Name:   r.str(1),
		Role:   r.str(2),
		Phone:  r.str(3),
		Email:  r.str(4),
		Active: r.boolean(5, "active", true),
	}, r.err
}
