package models

import (
	"strconv"
	"time"
)

// Assignment links an engineer to a site
type Assignment struct {
	ID         string    `json:"assignment_id"`
	EngineerID string    `json:"engineer_id"`
	SiteID     string    `json:"site_id"`
	AssignedBy string    `json:"assigned_by"`
	AssignedOn time.Time `json:"assigned_on"`
	IsActive   bool      `json:"is_active"`
}

// ToRow flattens the assignment in assignments column order
func (a Assignment) ToRow() []string {
	return []string{a.ID, a.EngineerID, a.SiteID, a.AssignedBy, FormatDate(a.AssignedOn), strconv.FormatBool(a.IsActive)}
}

// AssignmentFromRow decodes an assignments row
func AssignmentFromRow(cells []string) (Assignment, error) {
	r := newRowReader(cells, 6)
	return Assignment{
		ID:         r.str(0),
		EngineerID: r.str(1),
		SiteID:     r.str(2),
		AssignedBy: r.str(3),
		AssignedOn: r.date(4, "assigned_on"),
		IsActive:   r.boolean(5, "is_active", true),
	}, r.err
}
