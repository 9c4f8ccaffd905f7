// Package main is the entry point for the zonetls command line tool. It
// queries Cloudflare analytics for negotiated TLS protocol usage across
// every zone visible to an API token.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-veylop/zonetls/internal/cloudflare"
	"github.com/j-veylop/zonetls/internal/config"
	"github.com/j-veylop/zonetls/internal/db"
	"github.com/j-veylop/zonetls/internal/logger"
	"github.com/j-veylop/zonetls/internal/pipeline"
	"github.com/j-veylop/zonetls/internal/report"
	"github.com/j-veylop/zonetls/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	apiToken   string
	daysAgo    int
	startDate  string
	endDate    string
	limit      int
	delay      time.Duration
	maxSpan    time.Duration
	zoneFilter string
	summary    bool
	exportFile string
	exportDB   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "zonetls",
		Short: "Report negotiated TLS protocol usage across Cloudflare zones",
		Long: `zonetls queries Cloudflare's analytics API for request counts per
negotiated TLS protocol version, across every zone visible to the API
token, over an arbitrary time range. Long ranges are split into windows
of at most 3 days to respect the upstream per-query span ceiling, and
queries are paced to stay under rate limits.

Individual chunk or zone query failures are reported and counted as
zero; they never abort the run.`,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, &flags)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.apiToken, "api-token", "", "Cloudflare API token (or CF_API_TOKEN)")
	fl.IntVar(&flags.daysAgo, "days-ago", 30, "number of days back from now to query")
	fl.StringVar(&flags.startDate, "start-date", "", "custom start date (ISO 8601, overrides --days-ago)")
	fl.StringVar(&flags.endDate, "end-date", "", "custom end date (ISO 8601, defaults to now)")
	fl.IntVar(&flags.limit, "limit", 1000, "result-row cap per query; rows beyond it are silently truncated upstream")
	fl.DurationVar(&flags.delay, "delay", 500*time.Millisecond, "pause between consecutive queries")
	fl.DurationVar(&flags.maxSpan, "max-span", 72*time.Hour, "longest time window per query")
	fl.StringVar(&flags.zoneFilter, "zone-filter", "", "only process zones whose name contains this (case-insensitive)")
	fl.BoolVar(&flags.summary, "summary", false, "print aggregate statistics across all zones")
	fl.StringVar(&flags.exportFile, "export-file", "", "append semicolon-separated stats to this file")
	fl.StringVar(&flags.exportDB, "export-db", "", "record the run and its stats in this SQLite database")
	fl.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	return cmd
}

func run(cmd *cobra.Command, flags *rootFlags) error {
	logger.SetVerbose(flags.verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over environment; unset flags fall back to env/defaults.
	if flags.apiToken == "" {
		flags.apiToken = cfg.APIToken
	}
	if flags.apiToken == "" {
		return errors.New("an API token is required (--api-token or CF_API_TOKEN)")
	}
	if !cmd.Flags().Changed("delay") {
		flags.delay = cfg.Delay
	}
	if !cmd.Flags().Changed("limit") {
		flags.limit = cfg.Limit
	}
	if !cmd.Flags().Changed("max-span") {
		flags.maxSpan = cfg.MaxSpan
	}

	rng, err := resolveRange(flags.startDate, flags.endDate, flags.daysAgo, time.Now)
	if err != nil {
		return err
	}

	client := cloudflare.New(flags.apiToken,
		cloudflare.WithBaseURL(cfg.BaseURL),
		cloudflare.WithTimeout(cfg.HTTPTimeout))

	out := cmd.OutOrStdout()
	sinks := []pipeline.Sink{report.NewConsole(out, flags.summary)}

	if flags.exportFile != "" {
		sinks = append(sinks, report.NewExportWriter(flags.exportFile))
	}

	if flags.exportDB != "" {
		historyDB, err := db.New(flags.exportDB)
		if err != nil {
			return fmt.Errorf("failed to open history database: %w", err)
		}
		defer func() {
			if closeErr := historyDB.Close(); closeErr != nil {
				logger.Warn("failed to close history database", "error", closeErr)
			}
		}()

		sink, err := historyDB.NewRunSink(db.RunParams{
			Range:      rng,
			MaxSpan:    flags.maxSpan,
			Limit:      flags.limit,
			ZoneFilter: flags.zoneFilter,
		})
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		sinks = append(sinks, sink)
	}

	report.Header(out, rng, flags.limit, flags.zoneFilter)

	runner := pipeline.New(client, client, pipeline.Config{
		Range:      rng,
		MaxSpan:    flags.maxSpan,
		Limit:      flags.limit,
		Delay:      flags.delay,
		ZoneFilter: flags.zoneFilter,
	}, sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, _, err := runner.Run(ctx); err != nil {
		return err
	}

	return nil
}
