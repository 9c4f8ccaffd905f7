// Package stats folds raw per-chunk query results into protocol counts.
//
// Both folds are plain integer-map additions, so the outcome never depends
// on input order.
package stats

import (
	"github.com/j-veylop/zonetls/internal/cloudflare"
	"github.com/j-veylop/zonetls/internal/models"
)

// unknownProtocol stands in for a summary row with no protocol label.
const unknownProtocol = "Unknown"

// ReduceChunks folds the raw results of every chunk query for one zone into
// a single protocol count mapping. Nil results (failed chunks) contribute
// nothing.
func ReduceChunks(results []*cloudflare.RawResult) models.ProtocolCount {
	counts := make(models.ProtocolCount)
	for _, result := range results {
		if result == nil {
			continue
		}
		for _, zone := range result.Zones {
			for _, group := range zone.Groups {
				for _, row := range group.Sum.ClientSSLMap {
					protocol := row.Protocol
					if protocol == "" {
						protocol = unknownProtocol
					}
					counts.Add(protocol, row.Requests)
				}
			}
		}
	}
	return counts
}

// ReduceZones folds finished zone reports into a global protocol count
// mapping. Empty reports contribute nothing.
func ReduceZones(reports []models.ZoneReport) models.ProtocolCount {
	counts := make(models.ProtocolCount)
	for _, report := range reports {
		counts.Merge(report.Counts)
	}
	return counts
}
