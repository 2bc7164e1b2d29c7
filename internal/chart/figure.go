// Package chart turns swell reports into the polar figure the dashboard draws
// with Plotly, plus a static PNG rendition for clients without JavaScript.
package chart

import (
	"fmt"
	"math"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

const (
	spectralBarWidth = 35
	hoverTemplate    = "%{r} m^2 / hZ <br>@ %{text} <extra></extra>"
	radialHeadroom   = 1.25
)

// PeakColors cycle over the peaks in frequency order.
var PeakColors = []string{"#E4FF87", "#709BFF", "#B6FFB4", "#FFAA70"}

var (
	compassTickVals = []float64{90, 45, 0, 315, 270, 225, 180, 135}
	compassTickText = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
)

// Figure is a Plotly figure: the JSON object passed to Plotly.react.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a barpolar trace. Every slice has one element per bar.
type Trace struct {
	Type          string    `json:"type"`
	R             []float64 `json:"r"`
	Theta         []float64 `json:"theta"`
	Width         []float64 `json:"width"`
	Text          []string  `json:"text"`
	HoverTemplate string    `json:"hovertemplate"`
	Marker        Marker    `json:"marker"`
	Opacity       float64   `json:"opacity"`
}

type Marker struct {
	Color []string   `json:"color"`
	Line  MarkerLine `json:"line"`
}

type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

type Layout struct {
	Template any   `json:"template"` // always null: no Plotly theme
	Polar    Polar `json:"polar"`
}

type Polar struct {
	RadialAxis  RadialAxis  `json:"radialaxis"`
	AngularAxis AngularAxis `json:"angularaxis"`
}

type RadialAxis struct {
	Range          [2]float64 `json:"range"`
	ShowTickLabels bool       `json:"showticklabels"`
	Ticks          string     `json:"ticks"`
}

type AngularAxis struct {
	ShowTickLabels bool      `json:"showticklabels"`
	Ticks          string    `json:"ticks"`
	TickMode       string    `json:"tickmode"`
	TickVals       []float64 `json:"tickvals"`
	TickText       []string  `json:"ticktext"`
}

// Build draws one bar per peak: length is energy, angle is the direction the
// swell comes from. Peaks without a direction cannot be placed and are left out.
func Build(report domain.SwellReport) Figure {
	trace := Trace{
		Type:          "barpolar",
		R:             []float64{},
		Theta:         []float64{},
		Width:         []float64{},
		Text:          []string{},
		HoverTemplate: hoverTemplate,
		Marker: Marker{
			Color: []string{},
			Line:  MarkerLine{Color: "black", Width: 2},
		},
		Opacity: 0.8,
	}

	colors := peakColors(report.Peaks)
	maxR := 0.0
	for i, p := range report.Peaks {
		if p.Direction == nil {
			continue
		}
		trace.R = append(trace.R, p.Energy)
		trace.Theta = append(trace.Theta, domain.PolarTheta(*p.Direction))
		trace.Width = append(trace.Width, barWidth(report.Resolution, p.Energy))
		trace.Text = append(trace.Text, fmt.Sprintf("%d sec. %s", p.Seconds, p.Cardinal))
		trace.Marker.Color = append(trace.Marker.Color, colors[i])
		maxR = math.Max(maxR, p.Energy)
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Polar: Polar{
				RadialAxis: RadialAxis{
					Range: radialRange(maxR),
				},
				AngularAxis: AngularAxis{
					ShowTickLabels: true,
					TickMode:       "array",
					TickVals:       compassTickVals,
					TickText:       compassTickText,
				},
			},
		},
	}
}

// barWidth is angular width in degrees. Discrete bars widen slightly with energy.
func barWidth(res domain.Resolution, energy float64) float64 {
	if res == domain.ResolutionDiscrete {
		return 20 + energy/50
	}
	return spectralBarWidth
}

// peakColors assigns PeakColors in order to the peaks that have a direction,
// the ones drawn on the polar chart. Peaks without a direction get "".
func peakColors(peaks []domain.Peak) []string {
	colors := make([]string, len(peaks))
	n := 0
	for i, p := range peaks {
		if p.Direction == nil {
			continue
		}
		colors[i] = PeakColors[n%len(PeakColors)]
		n++
	}
	return colors
}

func radialRange(maxR float64) [2]float64 {
	if maxR <= 0 {
		return [2]float64{0, 1}
	}
	return [2]float64{0, maxR * radialHeadroom}
}
