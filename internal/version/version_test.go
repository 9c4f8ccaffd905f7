package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()

	if !strings.HasPrefix(info, "zonetls ") {
		t.Errorf("Info should start with the binary name, got %q", info)
	}
	if !strings.Contains(info, "commit:") {
		t.Errorf("Info should contain the commit, got %q", info)
	}
}

func TestInfo_FieldsPopulated(t *testing.T) {
	_ = Info()

	if Version == "" {
		t.Error("Version should fall back to a non-empty value")
	}
	if Commit == "" {
		t.Error("Commit should fall back to a non-empty value")
	}
	if Date == "" {
		t.Error("Date should fall back to a non-empty value")
	}
}
