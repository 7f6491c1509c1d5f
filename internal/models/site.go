package models

import "time"

// Site status constants
const (
	SiteStatusOngoing = "Ongoing"
	SiteStatusOnHold  = "On Hold"
	SiteStatusClosed  = "Closed"
)

// Site is a construction site
type Site struct {
	ID        string     `json:"site_id"`
	Name      string     `json:"site_name"`
	Location  string     `json:"location"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Status    string     `json:"status"`
}

// ValidSiteStatus reports whether status is a known site status
func ValidSiteStatus(status string) bool {
	switch status {
	case SiteStatusOngoing, SiteStatusOnHold, SiteStatusClosed:
		return true
	}
	return false
}

// ToRow flattens the site in sites column order
func (s Site) ToRow() []string {
	return []string{s.ID, s.Name, s.Location, FormatDate(s.StartDate), formatOptionalDate(s.EndDate), s.Status}
}

// SiteFromRow decodes a sites row
func SiteFromRow(cells []string) (Site, error) {
	r := newRowReader(cells, 6)
	return Site{
		ID:        r.str(0),
		Name:      r.str(1),
		Location:  r.str(2),
		StartDate: r.date(3, "start_date"),
		EndDate:   r.optionalDate(4, "end_date"),
		Status:    r.str(5),
	}, r.err
}
