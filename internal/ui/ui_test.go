package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Records", []string{"ID", "Vaccine", "Date"})
	table.AddRow("r-1", "Typhoid", "2025-01-10")
	table.AddRow("r-2", "Rabies")

	view := table.View(DefaultStyles())

	for _, want := range []string{"Records", "Vaccine", "Typhoid", "r-2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	if got := NewSimpleTable("x", []string{"a"}).View(DefaultStyles()); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("SHIELDKIT_DARK_MODE", "1")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme when SHIELDKIT_DARK_MODE=1")
	}

	t.Setenv("SHIELDKIT_DARK_MODE", "")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme when SHIELDKIT_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for black background")
	}
}

func TestSeverityColor(t *testing.T) {
	if SeverityColor("HIGH") != Destructive {
		t.Error("high severity should be destructive red")
	}
	if SeverityColor("") != Info {
		t.Error("unspecified severity should be info")
	}
}

func TestSourceLabel(t *testing.T) {
	if SourceLabel("fallback") != "General guidance" {
		t.Errorf("SourceLabel(fallback) = %q", SourceLabel("fallback"))
	}
	if SourceLabel("custom") != "custom" {
		t.Error("unknown sources pass through")
	}
}
