package db

import "github.com/j-veylop/zonetls/internal/models"

// Sink persists finished zone reports for one run. It is write-only during
// a run; stored history is never consulted to answer or skip queries.
type Sink struct {
	db    *DB
	runID string
}

// NewRunSink records the run and returns a pipeline sink for it.
func (db *DB) NewRunSink(params RunParams) (*Sink, error) {
	runID, err := db.BeginRun(params)
	if err != nil {
		return nil, err
	}
	return &Sink{db: db, runID: runID}, nil
}

// RunID returns the identifier of the recorded run.
func (s *Sink) RunID() string {
	return s.runID
}

// ZoneCompleted stores one finished zone report.
func (s *Sink) ZoneCompleted(report models.ZoneReport) error {
	return s.db.InsertZoneReport(s.runID, report)
}

// RunCompleted stamps the run as finished.
func (s *Sink) RunCompleted(models.GlobalReport) error {
	return s.db.CompleteRun(s.runID)
}
