/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import "math"

/*****************************************************************************************************************/

// RollingShutterReadTimeMS and RollingShutterLines are the camera-compatibility constants used by
// the rolling-shutter row-time correction; they default to the values hard-coded in
// original_source/airs/src/AFindPV.cpp but are exposed here as package variables so a caller can
// override them per-camera (see DESIGN.md, Open Questions #2) without this package depending on
// internal/config.
var (
	RollingShutterReadTimeMS = 125.0
	RollingShutterLines      = 4096.0
)

/*****************************************************************************************************************/

// rollingShutterCorrectionSeconds returns the per-row UTC correction, in seconds, for a detection
// at pixel row y: t_row = (read_time/lines) · y.
func rollingShutterCorrectionSeconds(y float64) float64 {
	return (RollingShutterReadTimeMS / RollingShutterLines) * y / 1000.0
}

/*****************************************************************************************************************/

// noiseFilter rejects a candidate whose confirmed points barely move at all: adjacent-delta pixel
// span in both axes ≤ 3, and total endpoint displacement ≤ 3 pixels.
func noiseFilter(pts []*PvPoint) bool {
	n := len(pts)
	if n < 2 {
		return true
	}

	dxMax, dxMin := math.Inf(-1), math.Inf(1)
	dyMax, dyMin := math.Inf(-1), math.Inf(1)

	for i := 1; i < n; i++ {
		dx := pts[i].X - pts[i-1].X
		dy := pts[i].Y - pts[i-1].Y

		if dx > dxMax {
			dxMax = dx
		}

		if dx < dxMin {
			dxMin = dx
		}

		if dy > dyMax {
			dyMax = dy
		}

		if dy < dyMin {
			dyMin = dy
		}
	}

	endpointDx := pts[n-1].X - pts[0].X
	endpointDy := pts[n-1].Y - pts[0].Y
	endpointDelta := math.Hypot(endpointDx, endpointDy)

	return (dxMax-dxMin) <= 3 && (dyMax-dyMin) <= 3 && endpointDelta <= 3
}

/*****************************************************************************************************************/

// stellarFilter rejects a candidate whose endpoint sky motion is consistent with a mis-identified
// fixed star rather than a moving target: Δdec under 10 arcsec and Δra under the Earth-rotation
// drift budget for the elapsed time.
func stellarFilter(pts []*PvPoint) bool {
	n := len(pts)
	if n < 2 {
		return false
	}

	first, last := pts[0], pts[n-1]

	deltaRA := math.Abs(last.RA - first.RA)
	if deltaRA > 180 {
		deltaRA = 360 - deltaRA
	}

	deltaRAArcsec := deltaRA * 3600
	deltaDecArcsec := math.Abs(last.Dec-first.Dec) * 3600

	deltaT := last.MJD - first.MJD
	dtRate := deltaT * 86400 * earthRotationRateArcsecPerSec

	return deltaDecArcsec < 10 && deltaRAArcsec < dtRate
}

/*****************************************************************************************************************/

// earthRotationRateArcsecPerSec follows spec.md's stellar-noise filter constant; see
// DESIGN.md, Open Questions #4 for the discrepancy with the original C++'s bare 15.0 literal.
const earthRotationRateArcsecPerSec = 15.04108

/*****************************************************************************************************************/

// finalizeTrack applies the noise and stellar filters to a candidate with ≥ minTrackLength
// confirmed points, and on acceptance applies the rolling-shutter row-time correction to every
// point's mid-UTC/MJD before returning the Track.
func finalizeTrack(c *Candidate) (*Track, bool) {
	if len(c.Pts) < minTrackLength {
		return nil, false
	}

	if noiseFilter(c.Pts) {
		return nil, false
	}

	if stellarFilter(c.Pts) {
		return nil, false
	}

	pts := make([]*PvPoint, len(c.Pts))

	for i, p := range c.Pts {
		corrected := *p

		dt := rollingShutterCorrectionSeconds(p.Y)
		corrected.MidUTC = corrected.MidUTC.Add(durationFromSeconds(dt))
		corrected.MJD += dt / 86400.0

		pts[i] = &corrected
	}

	return &Track{ID: newTrackID(), Pts: pts}, true
}

/*****************************************************************************************************************/
