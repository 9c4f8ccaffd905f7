// Package chunk splits a time range into windows that respect the
// analytics API's per-query span ceiling.
package chunk

import (
	"errors"
	"time"

	"github.com/j-veylop/zonetls/internal/models"
)

// DefaultMaxSpan is the longest range the analytics API accepts in a
// single query: 259200 seconds (3 days).
const DefaultMaxSpan = 72 * time.Hour

// ErrInvalidRange is returned for an inverted or empty range, or a
// non-positive span.
var ErrInvalidRange = errors.New("chunk: start must be before end and span must be positive")

// Split decomposes [start, end) into ordered, contiguous, non-overlapping
// windows of at most maxSpan each. The windows' union is exactly the input
// range and their count is ceil((end-start)/maxSpan); only the last window
// may be shorter than maxSpan.
func Split(start, end time.Time, maxSpan time.Duration) ([]models.TimeWindow, error) {
	if !start.Before(end) || maxSpan <= 0 {
		return nil, ErrInvalidRange
	}

	var windows []models.TimeWindow
	for cur := start; cur.Before(end); {
		next := cur.Add(maxSpan)
		if next.After(end) {
			next = end
		}
		windows = append(windows, models.TimeWindow{Start: cur, End: next})
		cur = next
	}
	return windows, nil
}
