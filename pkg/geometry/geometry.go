/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package geometry

/*****************************************************************************************************************/

import (
	"math"
)

/*****************************************************************************************************************/

func DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

/*****************************************************************************************************************/

// AngularSeparation returns the great-circle distance between two equatorial coordinates, in
// radians, using the numerically stable haversine-free form required by the catalog cone test:
//
//	acos(sin δ1 sin δ2 + cos δ1 cos δ2 cos(α1 − α2))
//
// All arguments and the return value are in radians.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	sd1, cd1 := math.Sincos(dec1)
	sd2, cd2 := math.Sincos(dec2)

	cosd := sd1*sd2 + cd1*cd2*math.Cos(ra1-ra2)

	// Clamp for floating point drift at the poles / zero separation, where cosd can land
	// fractionally outside [-1, 1] and acos would otherwise return NaN.
	if cosd > 1 {
		cosd = 1
	} else if cosd < -1 {
		cosd = -1
	}

	return math.Acos(cosd)
}

/*****************************************************************************************************************/

// WrapDegrees folds a degrees value into (-180, 180], the convention used when comparing two
// right ascensions that may straddle the 0/360 boundary.
func WrapDegrees(delta float64) float64 {
	for delta > 180 {
		delta -= 360
	}

	for delta <= -180 {
		delta += 360
	}

	return delta
}

/*****************************************************************************************************************/
