package report

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/j-veylop/zonetls/internal/models"
)

func TestExportWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writer := NewExportWriter(path)

	report := models.ZoneReport{
		Zone: models.Zone{Tag: "abc123", Name: "one.example"},
		Counts: models.ProtocolCount{
			"TLSv1.3": 1500,
			"TLSv1.2": 300,
			"TLSv1.0": 0, // never written
		},
	}

	if err := writer.ZoneCompleted(report); err != nil {
		t.Fatalf("ZoneCompleted returned error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open export file: %v", err)
	}
	defer func() { _ = f.Close() }()

	parsed, err := ParseExport(f)
	if err != nil {
		t.Fatalf("ParseExport returned error: %v", err)
	}

	want := models.ProtocolCount{"TLSv1.3": 1500, "TLSv1.2": 300}
	if !reflect.DeepEqual(parsed["abc123"], want) {
		t.Errorf("Round trip = %v, want %v", parsed["abc123"], want)
	}
}

func TestExportWriter_AppendsAcrossZones(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writer := NewExportWriter(path)

	reports := []models.ZoneReport{
		{
			Zone:   models.Zone{Tag: "zone1", Name: "one.example"},
			Counts: models.ProtocolCount{"TLSv1.3": 10},
		},
		{
			Zone:   models.Zone{Tag: "zone2", Name: "two.example"},
			Counts: models.ProtocolCount{"TLSv1.2": 20},
		},
	}

	for _, r := range reports {
		if err := writer.ZoneCompleted(r); err != nil {
			t.Fatalf("ZoneCompleted returned error: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), lines)
	}
	if lines[0] != "one.example;zone1;TLSv1.3;10" {
		t.Errorf("Unexpected first line: %q", lines[0])
	}
	if lines[1] != "two.example;zone2;TLSv1.2;20" {
		t.Errorf("Unexpected second line: %q", lines[1])
	}
}

func TestExportWriter_SkipsEmptyReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writer := NewExportWriter(path)

	report := models.ZoneReport{
		Zone:   models.Zone{Tag: "zone1", Name: "one.example"},
		Counts: models.ProtocolCount{},
	}
	if err := writer.ZoneCompleted(report); err != nil {
		t.Fatalf("ZoneCompleted returned error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Empty report should not create the export file")
	}
}

func TestExportWriter_OrdersByCountDescending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.csv")
	writer := NewExportWriter(path)

	report := models.ZoneReport{
		Zone:   models.Zone{Tag: "zone1", Name: "one.example"},
		Counts: models.ProtocolCount{"TLSv1.0": 1, "TLSv1.3": 100, "TLSv1.2": 50},
	}
	if err := writer.ZoneCompleted(report); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"one.example;zone1;TLSv1.3;100",
		"one.example;zone1;TLSv1.2;50",
		"one.example;zone1;TLSv1.0;1",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("Lines = %v, want %v", lines, want)
	}
}

func TestParseExport_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"too few fields", "one.example;zone1;TLSv1.3\n"},
		{"bad count", "one.example;zone1;TLSv1.3;lots\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseExport(strings.NewReader(tc.input)); err == nil {
				t.Error("Expected a parse error")
			}
		})
	}
}

func TestParseExport_SkipsBlankLines(t *testing.T) {
	input := "one.example;zone1;TLSv1.3;5\n\none.example;zone1;TLSv1.3;7\n"

	parsed, err := ParseExport(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseExport returned error: %v", err)
	}
	if parsed["zone1"]["TLSv1.3"] != 12 {
		t.Errorf("Repeated pairs should sum, got %v", parsed["zone1"])
	}
}
