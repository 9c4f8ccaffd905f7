// Package pipeline drives zone discovery, chunked statistics queries and
// aggregation for one run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/zonetls/internal/chunk"
	"github.com/j-veylop/zonetls/internal/cloudflare"
	"github.com/j-veylop/zonetls/internal/logger"
	"github.com/j-veylop/zonetls/internal/models"
	"github.com/j-veylop/zonetls/internal/stats"
)

var (
	// ErrNoZones means zone discovery found nothing for this token.
	ErrNoZones = errors.New("no zones visible to this token")
	// ErrNoMatch means the zone filter matched no discovered zone.
	ErrNoMatch = errors.New("zone filter matched no zones")
)

// Directory resolves the set of zones visible to a credential.
type Directory interface {
	ListZones(ctx context.Context) ([]models.Zone, error)
}

// Executor issues a single statistics query for one zone and time window.
type Executor interface {
	QueryTLSStats(ctx context.Context, zoneTag string, window models.TimeWindow, limit int) (*cloudflare.RawResult, error)
}

// Sink receives finished reports as the run progresses. Zone reports are
// streamed as each zone completes; the global report arrives once at the
// end. Sink errors are reported and never abort the run.
type Sink interface {
	ZoneCompleted(report models.ZoneReport) error
	RunCompleted(report models.GlobalReport) error
}

// Config holds the per-run parameters.
type Config struct {
	// Range is the overall [start, end) query interval.
	Range models.TimeWindow
	// MaxSpan caps the length of a single query window.
	MaxSpan time.Duration
	// Limit is the result-row cap passed through to each query.
	Limit int
	// Delay is the cooperative pause inserted after each query, except
	// the last one of the run.
	Delay time.Duration
	// ZoneFilter, when non-empty, restricts the run to zones whose
	// display name contains it (case-insensitive).
	ZoneFilter string
}

// Runner owns the accumulation state for one run. Execution is strictly
// sequential: one outstanding query at a time, paced by Config.Delay to
// stay under upstream rate limits.
type Runner struct {
	directory Directory
	executor  Executor
	sinks     []Sink
	config    Config

	// sleep is a seam for tests; it must honor context cancellation.
	sleep func(ctx context.Context, d time.Duration)
}

// New creates a Runner over the given collaborators.
func New(directory Directory, executor Executor, config Config, sinks ...Sink) *Runner {
	return &Runner{
		directory: directory,
		executor:  executor,
		sinks:     sinks,
		config:    config,
		sleep:     sleepContext,
	}
}

// Run executes the whole pipeline: discover zones, filter, chunk the range
// once, query every chunk of every zone in order, and fold the results.
// Individual query failures are logged and contribute nothing; only
// discovery, filtering and range validation are fatal. On cancellation the
// reports finished so far are returned alongside the context error.
func (r *Runner) Run(ctx context.Context) (*models.GlobalReport, []models.ZoneReport, error) {
	zones, err := r.directory.ListZones(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("zone discovery: %w", err)
	}
	if len(zones) == 0 {
		return nil, nil, ErrNoZones
	}

	if r.config.ZoneFilter != "" {
		zones = filterZones(zones, r.config.ZoneFilter)
		if len(zones) == 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrNoMatch, r.config.ZoneFilter)
		}
	}

	windows, err := chunk.Split(r.config.Range.Start, r.config.Range.End, r.config.MaxSpan)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("starting run",
		"zones", len(zones),
		"windows", len(windows),
		"range", r.config.Range.String())

	reports := make([]models.ZoneReport, 0, len(zones))
	totalQueries := len(zones) * len(windows)
	issued := 0

	for _, zone := range zones {
		results := make([]*cloudflare.RawResult, 0, len(windows))

		for _, window := range windows {
			if err := ctx.Err(); err != nil {
				return r.finish(reports), reports, err
			}

			result, queryErr := r.executor.QueryTLSStats(ctx, zone.Tag, window, r.config.Limit)
			issued++

			if queryErr != nil {
				logger.Warn("chunk query failed, counting zero for this window",
					"zone", zone.Name,
					"window", window.String(),
					"error", queryErr)
			} else {
				if result.ErrorsFieldNull {
					logger.Warn("response carried a null errors field; the token may lack analytics permission for this zone",
						"zone", zone.Name)
				}
				results = append(results, result)
			}

			if issued < totalQueries {
				r.sleep(ctx, r.config.Delay)
			}
		}

		report := models.ZoneReport{Zone: zone, Counts: stats.ReduceChunks(results)}
		if report.Empty() {
			logger.Warn("no TLS data for zone", "zone", zone.Name)
		}
		reports = append(reports, report)
		r.notifyZone(report)
	}

	return r.finish(reports), reports, nil
}

// finish folds the zone reports into the global report and hands it to the
// sinks.
func (r *Runner) finish(reports []models.ZoneReport) *models.GlobalReport {
	global := models.GlobalReport{
		Counts: stats.ReduceZones(reports),
		Zones:  len(reports),
	}
	for _, sink := range r.sinks {
		if err := sink.RunCompleted(global); err != nil {
			logger.Warn("report sink failed", "error", err)
		}
	}
	return &global
}

func (r *Runner) notifyZone(report models.ZoneReport) {
	for _, sink := range r.sinks {
		if err := sink.ZoneCompleted(report); err != nil {
			logger.Warn("report sink failed", "zone", report.Zone.Name, "error", err)
		}
	}
}

func filterZones(zones []models.Zone, filter string) []models.Zone {
	needle := strings.ToLower(filter)
	var matched []models.Zone
	for _, zone := range zones {
		if strings.Contains(strings.ToLower(zone.Name), needle) {
			matched = append(matched, zone)
		}
	}
	return matched
}

// sleepContext pauses for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
