package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/j-veylop/zonetls/internal/models"
)

// ExportWriter appends semicolon-delimited statistics lines to a file, one
// line per (zone, protocol) pair with a nonzero count:
//
//	zoneName;zoneTag;protocol;count
//
// Each zone report opens the file independently, so a failed write never
// blocks later zones.
type ExportWriter struct {
	path string
}

// NewExportWriter creates an export writer for path. The file is created on
// first write and always appended to.
func NewExportWriter(path string) *ExportWriter {
	return &ExportWriter{path: path}
}

// ZoneCompleted appends the zone's nonzero protocol counts, ordered by
// count descending.
func (e *ExportWriter) ZoneCompleted(report models.ZoneReport) error {
	if report.Empty() {
		return nil
	}

	f, err := os.OpenFile(e.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open export file %s: %w", e.path, err)
	}
	defer func() { _ = f.Close() }()

	for _, entry := range report.Counts.Sorted() {
		if entry.Requests == 0 {
			continue
		}
		line := fmt.Sprintf("%s;%s;%s;%d\n",
			report.Zone.Name, report.Zone.Tag, entry.Protocol, entry.Requests)
		if _, err := f.WriteString(line); err != nil {
			return fmt.Errorf("failed to write export line: %w", err)
		}
	}

	return nil
}

// RunCompleted is a no-op; the export format has no global section.
func (e *ExportWriter) RunCompleted(models.GlobalReport) error {
	return nil
}

// ParseExport reads exported lines back into per-zone protocol counts keyed
// by zone tag. Counts for a (zone, protocol) pair appearing on multiple
// lines are summed, matching the append-only write semantics.
func ParseExport(r io.Reader) (map[string]models.ProtocolCount, error) {
	counts := make(map[string]models.ProtocolCount)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, ";", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", lineNo, len(fields))
		}

		requests, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad count %q: %w", lineNo, fields[3], err)
		}

		tag := fields[1]
		if counts[tag] == nil {
			counts[tag] = make(models.ProtocolCount)
		}
		counts[tag].Add(fields[2], requests)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read export data: %w", err)
	}

	return counts, nil
}
