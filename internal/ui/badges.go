package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SeverityColor maps a precaution severity (low|medium|high) to a color.
func SeverityColor(severity string) lipgloss.Color {
	switch strings.ToLower(severity) {
	case "high":
		return Destructive
	case "medium":
		return Warning
	case "low":
		return Success
	default:
		return Info
	}
}

// SourceLabel is the human label for a country data source.
func SourceLabel(source string) string {
	switch source {
	case "mock":
		return "Curated data"
	case "api":
		return "Live data"
	case "fallback":
		return "General guidance"
	default:
		return source
	}
}

// SourceColor maps a data source to a badge color.
func SourceColor(source string) lipgloss.Color {
	switch source {
	case "api":
		return Success
	case "fallback":
		return Warning
	default:
		return Info
	}
}
