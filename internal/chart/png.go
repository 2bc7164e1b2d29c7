package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

// ErrNoBuckets is returned when a report has nothing to plot.
var ErrNoBuckets = errors.New("report has no period buckets")

// RenderSpectrumPNG writes a bar chart of bucket energy by period. Buckets
// that hold a plotted peak share its polar chart colour, the rest are grey.
func RenderSpectrumPNG(w io.Writer, report domain.SwellReport) error {
	if len(report.Buckets) == 0 {
		return ErrNoBuckets
	}

	peakColor := make(map[int]drawing.Color)
	for i, c := range peakColors(report.Peaks) {
		if c == "" {
			continue
		}
		if _, ok := peakColor[report.Peaks[i].Seconds]; !ok {
			peakColor[report.Peaks[i].Seconds] = hexColor(c)
		}
	}

	bars := make([]chart.Value, 0, len(report.Buckets))
	maxEnergy := 0.0
	for _, b := range report.Buckets {
		fill, ok := peakColor[b.Seconds]
		if !ok {
			fill = drawing.ColorFromHex("B0B0B0")
		}
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(b.Seconds),
			Value: b.Energy,
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: drawing.ColorBlack,
				StrokeWidth: 1,
			},
		})
		if b.Energy > maxEnergy {
			maxEnergy = b.Energy
		}
	}

	graph := chart.BarChart{
		Title: Title(report.Station),
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Height:     480,
		Width:      1024,
		BarWidth:   30,
		BarSpacing: 10,
		Bars:       bars,
		XAxis: chart.Style{
			FontSize: 10,
		},
		YAxis: chart.YAxis{
			Name: "Energy (m^2 / Hz)",
			NameStyle: chart.Style{
				FontSize: 10,
			},
			Style: chart.Style{
				FontSize: 10,
			},
			Range: &chart.ContinuousRange{Min: 0, Max: radialRange(maxEnergy)[1]},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render spectrum chart: %w", err)
	}
	return nil
}

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}
