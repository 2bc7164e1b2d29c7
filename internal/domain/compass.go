package domain

import (
	"fmt"
	"math"
	"time"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// DegreesToCardinal maps a bearing in degrees to one of 16 compass points.
// The 0.02 nudge sends exact sector boundaries to the lower sector.
// Returns "" for NaN.
func DegreesToCardinal(d float64) string {
	if math.IsNaN(d) {
		return ""
	}
	ix := int((d+11.25)/22.5 - 0.02)
	return compassPoints[((ix%16)+16)%16]
}

// PolarTheta converts a compass bearing (clockwise from north) to a polar
// plot angle (counter-clockwise from east).
func PolarTheta(bearing float64) float64 {
	if bearing <= 90 {
		return 90 - bearing
	}
	return 450 - bearing
}

// FormatObservedAt renders an observation time in loc as a wall clock
// ("9:40 PM PST") and a month/day ("3/1").
func FormatObservedAt(t time.Time, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return lt.Format("3:04 PM MST"), fmt.Sprintf("%d/%d", int(lt.Month()), lt.Day())
}
