// Package presenter maps expenses to display rows for the HTML views.
package presenter

import (
	"fmt"
	"regexp"
	"time"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// Placeholders rendered when a stored date-time cannot be parsed.
const (
	InvalidDate = "Invalid Date"
	InvalidTime = "Invalid Time"
)

var isoLocalDateTime = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?$`)

// ExpenseRow is an expense enriched with per-request display fields.
type ExpenseRow struct {
	ID           uint
	Amount       int64
	Description  string
	DateTime     string
	CategoryID   *uint
	CategoryName string
	Date         string
	Time         string
}

// DisplayAmount renders the amount in currency units, e.g. "12.50".
func (r ExpenseRow) DisplayAmount() string {
	return money.Format(r.Amount)
}

// CategoryLookup resolves a category id to a category.
type CategoryLookup func(id uint) (*models.Category, error)

// ParseLocalDateTime parses an ISO-8601 local date-time such as
// "2024-01-05T09:00" or "2024-01-05T09:00:00.5". The separator may be a
// lower-case t. Offsets and zone names are rejected.
func ParseLocalDateTime(s string) (time.Time, error) {
	if !isoLocalDateTime.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid ISO local date-time %q", s)
	}
	s = s[:10] + "T" + s[11:]
	layout := "2006-01-02T15:04:05"
	if len(s) == len("2006-01-02T15:04") {
		layout = "2006-01-02T15:04"
	}
	return time.Parse(layout, s)
}

// SplitDateTime splits a stored date-time into its ISO date and ISO local
// time parts. ok is false when the value cannot be parsed.
func SplitDateTime(s string) (date, clock string, ok bool) {
	t, err := ParseLocalDateTime(s)
	if err != nil {
		return "", "", false
	}
	return t.Format(time.DateOnly), formatLocalTime(t), true
}

// formatLocalTime renders HH:MM, dropping zero seconds, and prints any
// fraction in groups of 3, 6 or 9 digits.
func formatLocalTime(t time.Time) string {
	nanos := t.Nanosecond()
	switch {
	case t.Second() == 0 && nanos == 0:
		return t.Format("15:04")
	case nanos == 0:
		return t.Format("15:04:05")
	case nanos%1_000_000 == 0:
		return t.Format("15:04:05.000")
	case nanos%1_000 == 0:
		return t.Format("15:04:05.000000")
	default:
		return t.Format("15:04:05.000000000")
	}
}

// BuildExpenseRows enriches expenses for display. A nil category or a failed
// lookup yields "Uncategorized"; an unparseable date-time yields the
// Invalid Date / Invalid Time placeholders. Lookups are memoized per call.
func BuildExpenseRows(expenses []models.Expense, lookup CategoryLookup) []ExpenseRow {
	names := make(map[uint]string)
	rows := make([]ExpenseRow, 0, len(expenses))

	for _, e := range expenses {
		row := ExpenseRow{
			ID:           e.ID,
			Amount:       e.Amount,
			Description:  e.Description,
			DateTime:     e.DateTime,
			CategoryID:   e.CategoryID,
			CategoryName: models.UncategorizedName,
		}

		if e.CategoryID != nil {
			name, seen := names[*e.CategoryID]
			if !seen {
				name = models.UncategorizedName
				if category, err := lookup(*e.CategoryID); err == nil && category != nil {
					name = category.Name
				}
				names[*e.CategoryID] = name
			}
			row.CategoryName = name
		}

		if date, clock, ok := SplitDateTime(e.DateTime); ok {
			row.Date, row.Time = date, clock
		} else {
			row.Date, row.Time = InvalidDate, InvalidTime
		}

		rows = append(rows, row)
	}
	return rows
}

// Total sums the amounts of the given rows in cents.
func Total(rows []ExpenseRow) int64 {
	var total int64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}
