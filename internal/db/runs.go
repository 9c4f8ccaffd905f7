package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/zonetls/internal/models"
)

// timeFormat keeps stored timestamps compatible with SQLite's date/time
// functions; modernc.org/sqlite's default time.Time encoding is not.
const timeFormat = "2006-01-02 15:04:05"

// RunParams describes one pipeline run for the history store.
type RunParams struct {
	Range      models.TimeWindow
	MaxSpan    time.Duration
	Limit      int
	ZoneFilter string
}

// BeginRun records a new run and returns its identifier.
func (db *DB) BeginRun(params RunParams) (string, error) {
	id := uuid.NewString()

	query := `
		INSERT INTO runs (id, started_at, range_start, range_end, max_span_seconds, row_limit, zone_filter)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(context.Background(), query,
		id,
		time.Now().UTC().Format(timeFormat),
		params.Range.Start.UTC().Format(timeFormat),
		params.Range.End.UTC().Format(timeFormat),
		int64(params.MaxSpan.Seconds()),
		params.Limit,
		nullString(params.ZoneFilter),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	return id, nil
}

// CompleteRun stamps the run as finished.
func (db *DB) CompleteRun(runID string) error {
	query := `UPDATE runs SET completed_at = ? WHERE id = ?`
	_, err := db.ExecContext(context.Background(), query,
		time.Now().UTC().Format(timeFormat), runID)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// InsertZoneReport stores every nonzero protocol count of a zone report.
func (db *DB) InsertZoneReport(runID string, report models.ZoneReport) error {
	query := `
		INSERT INTO zone_protocol_counts (run_id, zone_tag, zone_name, protocol, requests)
		VALUES (?, ?, ?, ?, ?)
	`

	for _, entry := range report.Counts.Sorted() {
		if entry.Requests == 0 {
			continue
		}
		_, err := db.ExecContext(context.Background(), query,
			runID, report.Zone.Tag, report.Zone.Name, entry.Protocol, entry.Requests)
		if err != nil {
			return fmt.Errorf("failed to insert zone counts: %w", err)
		}
	}

	return nil
}

// GetZoneCounts reads the stored protocol counts of a run back, keyed by
// zone tag.
func (db *DB) GetZoneCounts(runID string) (map[string]models.ProtocolCount, error) {
	query := `
		SELECT zone_tag, protocol, requests
		FROM zone_protocol_counts
		WHERE run_id = ?
	`

	rows, err := db.QueryContext(context.Background(), query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query zone counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]models.ProtocolCount)
	for rows.Next() {
		var tag, protocol string
		var requests int64
		if err := rows.Scan(&tag, &protocol, &requests); err != nil {
			return nil, fmt.Errorf("failed to scan zone counts: %w", err)
		}
		if counts[tag] == nil {
			counts[tag] = make(models.ProtocolCount)
		}
		counts[tag].Add(protocol, requests)
	}

	return counts, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
