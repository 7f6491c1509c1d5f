package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how calendar dates are written to the workbook
const DateLayout = "2006-01-02"

// Row is a typed record that knows how to flatten itself into a sheet row
type Row interface {
	ToRow() []string
}

// rowReader decodes cells by position and remembers the first failure so the
// FromRow functions stay linear.
type rowReader struct {
	cells []string
	err   error
}

func newRowReader(cells []string, width int) *rowReader {
	if len(cells) < width {
		padded := make([]string, width)
		copy(padded, cells)
		cells = padded
	}
	return &rowReader{cells: cells}
}

func (r *rowReader) str(i int) string {
	return r.cells[i]
}

func (r *rowReader) trimmed(i int) string {
	return strings.TrimSpace(r.cells[i])
}

func (r *rowReader) decimal(i int, column string) decimal.Decimal {
	raw := r.trimmed(i)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: invalid decimal %q: %w", column, raw, err)
	}
	return d
}

func (r *rowReader) date(i int, column string) time.Time {
	t, err := ParseDate(r.cells[i])
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: %w", column, err)
	}
	return t
}

func (r *rowReader) optionalDate(i int, column string) *time.Time {
	if r.trimmed(i) == "" {
		return nil
	}
	t := r.date(i, column)
	return &t
}

func (r *rowReader) timestamp(i int, column string) time.Time {
	raw := r.trimmed(i)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	if r.err == nil {
		r.err = fmt.Errorf("column %s: invalid timestamp %q", column, raw)
	}
	return time.Time{}
}

// boolean treats an empty cell as def; pandas-written sheets use True/False.
func (r *rowReader) boolean(i int, column string, def bool) bool {
	raw := r.trimmed(i)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: invalid boolean %q", column, raw)
	}
	return b
}

func (r *rowReader) triState(i int, column string) *bool {
	if r.trimmed(i) == "" {
		return nil
	}
	b := r.boolean(i, column, false)
	return &b
}

// ParseDate accepts a bare date or a full timestamp and truncates to the day
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// FormatDate renders a calendar date; the zero time renders empty
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// AmountPlaces is the number of decimals money is stored with
const AmountPlaces = 2

// FormatAmount renders money with two fixed decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPlaces)
}

// IsStorableAmount reports whether d survives FormatAmount without rounding
func IsStorableAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountPlaces))
}

func formatTriState(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// Today returns the current UTC calendar date
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
