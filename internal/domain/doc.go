// Package domain models NOAA National Data Buoy Center (NDBC) spectral wave
// data and the swell summary derived from it.
//
// # Data Source
//
// Realtime spectral files are published per station under
// https://www.ndbc.noaa.gov/data/realtime2/. Two files feed a report:
//
//	<station>.data_spec  spectral energy density (m^2/Hz) per frequency bin
//	<station>.swdir      mean wave direction (alpha1, degrees true) per bin
//
// # NDBC Table Conventions
//
// Both files start with a "#" header line and list observations newest first.
// Only the first data row (the latest observation) is used.
//
// Density row:
//
//	YY MM DD hh mm Sep_Freq  e1 (f1)  e2 (f2) ... eN (fN)
//	2021 03 02 05 40 0.100 0.000 (0.033) 0.012 (0.038) ...
//
// Direction row:
//
//	YY MM DD hh mm  d1 (f1)  d2 (f2) ... dN (fN)
//
// Timestamps are UTC. Frequencies appear in parentheses after each value and
// are read from the row rather than assumed, so stations with a different bin
// layout still parse. The common 46-bin layout spans 0.033 Hz (30.3 s) to
// 0.485 Hz (2.06 s).
//
// Missing values:
//
//	"MM" is the NDBC sentinel for a missing measurement.
//	Sep_Freq of 9.999 means no swell/wind-sea separation was computed.
//	Direction 999.0 means no direction for the bin.
//
// # Period Buckets
//
// Bins are collapsed into whole-second buckets: a bin belongs to the bucket of
// its period rounded to the nearest second. Each bucket keeps the bin with the
// largest energy (first bin wins ties). For the 46-bin layout this gives the
// 21 buckets 30, 26, 23, 21, 19, 17, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5,
// 4, 3 and 2 seconds.
//
// # Peaks
//
// Swell trains are identified as local maxima of the energy series (see
// [FindPeaks]). Peaks are reported in frequency order, long period first, and
// capped at a configurable count.
package domain
