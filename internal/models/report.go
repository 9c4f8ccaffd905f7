// Package models defines data structures and domain types.
package models

import "sort"

// ProtocolCount maps a negotiated protocol label (e.g. "TLSv1.3") to a
// request count. Labels are caller-opaque and never validated against a
// fixed set.
type ProtocolCount map[string]int64

// Add accumulates requests for a protocol label, creating the entry at
// zero if absent. Counts only ever grow by addition.
func (p ProtocolCount) Add(protocol string, requests int64) {
	p[protocol] += requests
}

// Merge folds every entry of other into p.
func (p ProtocolCount) Merge(other ProtocolCount) {
	for protocol, requests := range other {
		p[protocol] += requests
	}
}

// Total returns the sum of all request counts.
func (p ProtocolCount) Total() int64 {
	var total int64
	for _, requests := range p {
		total += requests
	}
	return total
}

// ProtocolEntry is one (protocol, requests) pair of a sorted mapping.
type ProtocolEntry struct {
	Protocol string
	Requests int64
}

// Sorted returns the mapping entries ordered by request count descending,
// protocol label ascending on ties.
func (p ProtocolCount) Sorted() []ProtocolEntry {
	entries := make([]ProtocolEntry, 0, len(p))
	for protocol, requests := range p {
		entries = append(entries, ProtocolEntry{Protocol: protocol, Requests: requests})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Requests != entries[j].Requests {
			return entries[i].Requests > entries[j].Requests
		}
		return entries[i].Protocol < entries[j].Protocol
	})
	return entries
}

// ZoneReport pairs a zone with its aggregated protocol counts. An empty
// mapping means the zone had no data in the queried range or every chunk
// query for it failed.
type ZoneReport struct {
	Zone   Zone
	Counts ProtocolCount
}

// Empty reports whether the zone contributed no data.
func (r ZoneReport) Empty() bool {
	return len(r.Counts) == 0
}

// GlobalReport is the element-wise sum of all zone reports of a run.
type GlobalReport struct {
	Counts ProtocolCount
	// Zones is the number of zone reports folded in, including empty ones.
	Zones int
}
