package models

import (
	"reflect"
	"testing"
)

func TestProtocolCount_Add(t *testing.T) {
	counts := make(ProtocolCount)
	counts.Add("TLSv1.3", 10)
	counts.Add("TLSv1.3", 5)
	counts.Add("TLSv1.2", 0)

	if counts["TLSv1.3"] != 15 {
		t.Errorf("Expected 15, got %d", counts["TLSv1.3"])
	}
	if _, ok := counts["TLSv1.2"]; !ok {
		t.Error("Adding zero should still create the entry")
	}
}

func TestProtocolCount_Merge(t *testing.T) {
	counts := ProtocolCount{"TLSv1.2": 100, "TLSv1.3": 50}
	counts.Merge(ProtocolCount{"TLSv1.3": 25, "TLSv1.0": 1})

	want := ProtocolCount{"TLSv1.2": 100, "TLSv1.3": 75, "TLSv1.0": 1}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("Merge = %v, want %v", counts, want)
	}
}

func TestProtocolCount_Total(t *testing.T) {
	counts := ProtocolCount{"TLSv1.2": 100, "TLSv1.3": 75}
	if got := counts.Total(); got != 175 {
		t.Errorf("Total = %d, want 175", got)
	}

	if got := (ProtocolCount{}).Total(); got != 0 {
		t.Errorf("Empty total = %d, want 0", got)
	}
}

func TestProtocolCount_Sorted(t *testing.T) {
	counts := ProtocolCount{
		"TLSv1.0": 5,
		"TLSv1.3": 100,
		"TLSv1.2": 100,
		"QUIC":    7,
	}

	got := counts.Sorted()
	want := []ProtocolEntry{
		{Protocol: "TLSv1.2", Requests: 100},
		{Protocol: "TLSv1.3", Requests: 100},
		{Protocol: "QUIC", Requests: 7},
		{Protocol: "TLSv1.0", Requests: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted = %v, want %v", got, want)
	}
}

func TestZoneReport_Empty(t *testing.T) {
	report := ZoneReport{Zone: Zone{Tag: "abc"}, Counts: ProtocolCount{}}
	if !report.Empty() {
		t.Error("Expected empty report")
	}

	report.Counts.Add("TLSv1.3", 1)
	if report.Empty() {
		t.Error("Expected non-empty report")
	}
}
