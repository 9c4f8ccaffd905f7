// Package models defines data structures and domain types.
package models

import (
	"fmt"
	"time"
)

// TimeWindow is a half-open interval [Start, End) of absolute timestamps.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the window.
func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// String renders the window bounds as UTC RFC 3339 timestamps.
func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)",
		w.Start.UTC().Format(time.RFC3339),
		w.End.UTC().Format(time.RFC3339))
}
