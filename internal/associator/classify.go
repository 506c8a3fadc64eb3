/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import "math"

/*****************************************************************************************************************/

// pixelGateTolerance is the maximum pixel displacement, in either axis, still considered
// coincident for the Stare-under-mount-tracking case and the Transit prediction gate.
const pixelGateTolerance = 2.0

/*****************************************************************************************************************/

// Classify determines the motion mode between two chronologically ordered points: Stare when the
// apparent sky position barely drifts (diurnal tracking) or the pixel position barely moves
// (mount tracking), otherwise Transit.
func Classify(p1, p2 *PvPoint) Mode {
	dtSeconds := (p2.MJD - p1.MJD) * 86400

	deltaRA := p2.RA - p1.RA
	if deltaRA > 180 {
		deltaRA -= 360
	} else if deltaRA < -180 {
		deltaRA += 360
	}

	deltaRAArcsec := math.Abs(deltaRA) * 3600
	deltaDecArcsec := math.Abs(p2.Dec-p1.Dec) * 3600

	limit := 10 * dtSeconds

	if deltaRAArcsec < limit && deltaDecArcsec < limit {
		return ModeStare
	}

	if math.Abs(p2.X-p1.X) <= pixelGateTolerance && math.Abs(p2.Y-p1.Y) <= pixelGateTolerance {
		return ModeStare
	}

	return ModeTransit
}

/*****************************************************************************************************************/
