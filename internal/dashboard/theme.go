// Package dashboard renders the executive dashboard page. Rendering is a pure
// function of an explicit Theme and View; there is no process-wide theme.
package dashboard

import (
	"fmt"
	"strings"
)

// Theme is one colour palette.
type Theme struct {
	Name     string
	Bg       string
	Card     string
	TextMain string
	TextSub  string
	Sidebar  string
	Border   string
	ChartBg  string
}

// Light and Dark are the two built-in palettes.
var (
	Light = Theme{
		Name:     "light",
		Bg:       "#f3f4f6",
		Card:     "#ffffff",
		TextMain: "#111827",
		TextSub:  "#6b7280",
		Sidebar:  "#1f2937",
		Border:   "#e5e7eb",
		ChartBg:  "#ffffff",
	}
	Dark = Theme{
		Name:     "dark",
		Bg:       "#0f172a",
		Card:     "#1e293b",
		TextMain: "#f8fafc",
		TextSub:  "#94a3b8",
		Sidebar:  "#020617",
		Border:   "#334155",
		ChartBg:  "#1e293b",
	}
)

// barColors colour the top-product bars in rank order.
var barColors = []string{"#3b82f6", "#10b981", "#8b5cf6", "#f59e0b", "#ef4444"}

// ParseTheme resolves "light" or "dark" (case-insensitive).
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light":
		return Light, nil
	case "dark":
		return Dark, nil
	}
	return Theme{}, fmt.Errorf("dashboard: unknown theme %q", s)
}

// Toggle returns the other palette.
func (t Theme) Toggle() Theme {
	if t.Name == Dark.Name {
		return Light
	}
	return Dark
}
