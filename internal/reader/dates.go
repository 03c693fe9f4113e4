package reader

import (
	"fmt"
	"time"

	"fjacquet/expense-analyzer/internal/models"
)

// statement exports vary; try the formats seen in practice, most common
// first.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006-01-02T15:04:05Z07:00",
}

// parseDate parses a statement date string and normalizes it to a calendar
// date in UTC.
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return models.NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
