package chart

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/buoy-swell-service/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func testReport(res domain.Resolution) domain.SwellReport {
	d := 287
	return domain.SwellReport{
		ID:         "46219-abcdef",
		Station:    domain.Station{ID: 46219, Name: "South Channel Islands"},
		ObservedAt: time.Date(2021, 3, 2, 5, 40, 0, 0, time.UTC),
		Resolution: res,
		Buckets: []domain.PeriodBucket{
			{Seconds: 15, Energy: 2.87, Direction: &d, Cardinal: "WNW"},
			{Seconds: 8, Energy: 0.91, Direction: nil},
		},
		Peaks: []domain.Peak{
			{Index: 7, Period: 14.71, Seconds: 15, Energy: 2.87, Direction: ptr(287.0), Cardinal: "WNW"},
			{Index: 15, Period: 8.33, Seconds: 8, Energy: 0.91, Direction: ptr(45.0), Cardinal: "NE"},
			{Index: 20, Period: 5.88, Seconds: 6, Energy: 0.62, Direction: nil},
		},
	}
}

func TestBuild_Spectral(t *testing.T) {
	fig := Build(testReport(domain.ResolutionSpectral))
	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]

	assert.Equal(t, "barpolar", tr.Type)
	assert.Equal(t, []float64{2.87, 0.91}, tr.R)
	assert.Equal(t, []float64{163, 45}, tr.Theta)
	assert.Equal(t, []float64{35, 35}, tr.Width)
	assert.Equal(t, []string{"15 sec. WNW", "8 sec. NE"}, tr.Text)
	assert.Equal(t, []string{"#E4FF87", "#709BFF"}, tr.Marker.Color)
	assert.Equal(t, "%{r} m^2 / hZ <br>@ %{text} <extra></extra>", tr.HoverTemplate)
	assert.Equal(t, MarkerLine{Color: "black", Width: 2}, tr.Marker.Line)
	assert.InDelta(t, 0.8, tr.Opacity, 1e-9)

	assert.InDeltaSlice(t, []float64{0, 2.87 * 1.25}, fig.Layout.Polar.RadialAxis.Range[:], 1e-9)
	assert.False(t, fig.Layout.Polar.RadialAxis.ShowTickLabels)
}

func TestBuild_DiscreteWidth(t *testing.T) {
	fig := Build(testReport(domain.ResolutionDiscrete))
	assert.InDeltaSlice(t, []float64{20 + 2.87/50, 20 + 0.91/50}, fig.Data[0].Width, 1e-9)
}

func TestBuild_NoPeaks(t *testing.T) {
	report := testReport(domain.ResolutionSpectral)
	report.Peaks = []domain.Peak{}

	fig := Build(report)
	assert.Empty(t, fig.Data[0].R)
	assert.Equal(t, [2]float64{0, 1}, fig.Layout.Polar.RadialAxis.Range)

	// Empty arrays, not null, so Plotly.react accepts the trace.
	b, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"r":[]`)
	assert.Contains(t, string(b), `"template":null`)
}

func TestBuild_AngularAxis(t *testing.T) {
	axis := Build(testReport(domain.ResolutionSpectral)).Layout.Polar.AngularAxis
	want := AngularAxis{
		ShowTickLabels: true,
		TickMode:       "array",
		TickVals:       []float64{90, 45, 0, 315, 270, 225, 180, 135},
		TickText:       []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"},
	}
	if diff := cmp.Diff(want, axis); diff != "" {
		t.Errorf("angular axis mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ColorsCycle(t *testing.T) {
	report := testReport(domain.ResolutionSpectral)
	report.Peaks = nil
	for i := range 5 {
		report.Peaks = append(report.Peaks, domain.Peak{Seconds: 10 + i, Energy: 1, Direction: ptr(270.0), Cardinal: "W"})
	}
	fig := Build(report)
	assert.Equal(t, []string{"#E4FF87", "#709BFF", "#B6FFB4", "#FFAA70", "#E4FF87"}, fig.Data[0].Marker.Color)
}

func TestPeakColors_SkipDirectionlessPeaks(t *testing.T) {
	report := testReport(domain.ResolutionSpectral)
	report.Peaks = []domain.Peak{
		{Seconds: 15, Energy: 2, Direction: nil},
		{Seconds: 12, Energy: 1.5, Direction: ptr(270.0), Cardinal: "W"},
		{Seconds: 8, Energy: 1, Direction: ptr(200.0), Cardinal: "SSW"},
	}

	colors := peakColors(report.Peaks)
	assert.Equal(t, []string{"", "#E4FF87", "#709BFF"}, colors)

	// The polar trace and the PNG bars read the same assignment.
	fig := Build(report)
	assert.Equal(t, []string{colors[1], colors[2]}, fig.Data[0].Marker.Color)
}

func TestNewView(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	v := NewView(testReport(domain.ResolutionSpectral), loc)
	assert.Equal(t, 46219, v.StationID)
	assert.Equal(t, "South Channel Islands Swells - Buoy 46219", v.Title)
	assert.Equal(t, "Last update from buoy: 9:40 PM PST on 3/1", v.Subtitle)
	assert.Len(t, v.Figure.Data[0].R, 2)
}

func TestRenderSpectrumPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSpectrumPNG(&buf, testReport(domain.ResolutionSpectral)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")), "output should be a PNG")
}

func TestRenderSpectrumPNG_NoBuckets(t *testing.T) {
	report := testReport(domain.ResolutionSpectral)
	report.Buckets = nil
	err := RenderSpectrumPNG(&bytes.Buffer{}, report)
	assert.ErrorIs(t, err, ErrNoBuckets)
}
