package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	peakStyle   = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#555", Dark: "#555"})
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// renderStations lists the catalog, marking the default station.
func renderStations(catalog *domain.Catalog) string {
	def := catalog.Default().ID
	t := newTable("ID", "NAME", "DEFAULT")
	for _, s := range catalog.Stations() {
		mark := ""
		if s.ID == def {
			mark = "*"
		}
		t.Row(strconv.Itoa(s.ID), s.Name, mark)
	}
	return t.StyleFunc(plainStyle).String()
}

// renderBuckets shows the per-period breakdown, one row per bucket.
// Buckets that carry a peak are highlighted.
func renderBuckets(report domain.SwellReport) string {
	peakSeconds := make(map[int]bool, len(report.Peaks))
	for _, p := range report.Peaks {
		peakSeconds[p.Seconds] = true
	}

	t := newTable("PERIOD (s)", "ENERGY (m^2/Hz)", "DIRECTION", "CARDINAL")
	for _, b := range report.Buckets {
		t.Row(strconv.Itoa(b.Seconds), fmt.Sprintf("%.3f", b.Energy), formatDirection(b.Direction), b.Cardinal)
	}
	return t.StyleFunc(func(row, _ int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if peakSeconds[report.Buckets[row].Seconds] {
			return peakStyle
		}
		return cellStyle
	}).String()
}

// renderPeaks lists the detected swell trains in frequency order.
func renderPeaks(report domain.SwellReport) string {
	t := newTable("#", "PERIOD (s)", "ENERGY (m^2/Hz)", "FROM")
	for i, p := range report.Peaks {
		from := "-"
		if p.Direction != nil {
			from = fmt.Sprintf("%.0f° %s", *p.Direction, p.Cardinal)
		}
		t.Row(strconv.Itoa(i+1), fmt.Sprintf("%.2f", p.Period), fmt.Sprintf("%.3f", p.Energy), from)
	}
	return t.StyleFunc(plainStyle).String()
}

func plainStyle(row, _ int) lipgloss.Style {
	if row == table.HeaderRow {
		return headerStyle
	}
	return cellStyle
}

func formatDirection(d *int) string {
	if d == nil {
		return "-"
	}
	return strconv.Itoa(*d)
}
