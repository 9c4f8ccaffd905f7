package main

import (
	"fmt"
	"time"

	"github.com/j-veylop/zonetls/internal/models"
)

// timestampFormats are the accepted --start-date/--end-date layouts.
// Layouts without an offset are taken as UTC.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// resolveRange computes the query interval. An explicit start date wins
// over --days-ago; a missing end date defaults to now.
func resolveRange(startDate, endDate string, daysAgo int, now func() time.Time) (models.TimeWindow, error) {
	end := now().UTC()
	if endDate != "" {
		t, err := parseTimestamp(endDate)
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("invalid --end-date: %w", err)
		}
		end = t
	}

	var start time.Time
	if startDate != "" {
		t, err := parseTimestamp(startDate)
		if err != nil {
			return models.TimeWindow{}, fmt.Errorf("invalid --start-date: %w", err)
		}
		start = t
	} else {
		if daysAgo <= 0 {
			return models.TimeWindow{}, fmt.Errorf("--days-ago must be positive, got %d", daysAgo)
		}
		start = end.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	}

	if !start.Before(end) {
		return models.TimeWindow{}, fmt.Errorf("start %s is not before end %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	return models.TimeWindow{Start: start, End: end}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (want ISO 8601)", value)
}
