/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package timeutil

/*****************************************************************************************************************/

import (
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
)

/*****************************************************************************************************************/

// EarthRotationRateArcsecPerSec is the mean sidereal rotation rate of the Earth (15.04108"/s), the
// same figure internal/associator's stellar filter uses as its own constant. spec.md's stellar-noise filter states this
// figure explicitly; original_source/airs/src/AFindPV.cpp's candidate2object uses a bare 15.0
// literal with a comment naming the precise value, so this repo follows spec.md as the
// authoritative requirements document (see DESIGN.md, Open Questions #4).
const EarthRotationRateArcsecPerSec = 15.04108

/*****************************************************************************************************************/

// GreenwichMeanSiderealTime returns the Greenwich mean sidereal time, in radians, for the given
// Julian day (UT1 ≈ UTC for this purpose), per original_source/airs1/src/ATimeSpace.cpp's
// sidereal-time series.
func GreenwichMeanSiderealTime(jd float64) float64 {
	t := (jd - 2451545.0) / 36525.0

	gmstSec := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*t*t -
		t*t*t/38710000.0

	gmstDeg := math.Mod(gmstSec, 360)
	if gmstDeg < 0 {
		gmstDeg += 360
	}

	return gmstDeg * math.Pi / 180
}

/*****************************************************************************************************************/

// ApparentSiderealTime returns the Greenwich apparent sidereal time, in radians: the mean sidereal
// time corrected for nutation in longitude and the true obliquity of the ecliptic.
func ApparentSiderealTime(jd float64) float64 {
	gmst := GreenwichMeanSiderealTime(jd)

	dPsi, dEps := nutation.Nutation(jd)
	eps := nutation.MeanObliquity(jd) + dEps

	return gmst + dPsi.Rad()*math.Cos(eps.Rad())
}

/*****************************************************************************************************************/

// Nutation returns nutation in longitude and obliquity (radians) at the given Julian day.
func Nutation(jd float64) (deltaPsi, deltaEpsilon float64) {
	dPsi, dEps := nutation.Nutation(jd)
	return dPsi.Rad(), dEps.Rad()
}

/*****************************************************************************************************************/

// MeanObliquity returns the mean obliquity of the ecliptic, in radians, at the given Julian day.
func MeanObliquity(jd float64) float64 {
	return nutation.MeanObliquity(jd).Rad()
}

/*****************************************************************************************************************/

// aberrationConstant is the constant of aberration, κ = 20.49552 arcsec.
const aberrationConstant = 20.49552 * math.Pi / (180 * 3600)

/*****************************************************************************************************************/

// AnnualAberration returns the annual aberration displacement (Δra, Δdec), in radians, to apply to
// a mean equatorial position (ra, dec, radians) at the given Julian day, following the low-
// precision series of original_source/airs1/src/ATimeSpace.h's AnnualAberration::GetAnnualAberration.
func AnnualAberration(jd, ra, dec float64) (deltaRA, deltaDec float64) {
	t := (jd - 2451545.0) / 36525.0

	// Sun's mean longitude and eccentricity of Earth's orbit (Meeus ch. 25, low precision).
	l0 := math.Mod(280.46646+36000.76983*t+0.0003032*t*t, 360) * math.Pi / 180
	e := 0.016708634 - 0.000042037*t - 0.0000001267*t*t

	piLon := (102.93735 + 1.71946*t + 0.00046*t*t) * math.Pi / 180

	sinRA, cosRA := math.Sincos(ra)
	sinDec, cosDec := math.Sincos(dec)

	k := aberrationConstant

	deltaRA = -k * (cosRA*math.Cos(l0)*math.Cos(MeanObliquity(jd)) + sinRA*math.Sin(l0)) / cosDec
	deltaRA += e * k * (cosRA*math.Cos(piLon)*math.Cos(MeanObliquity(jd)) + sinRA*math.Sin(piLon)) / cosDec

	deltaDec = -k * (math.Cos(l0)*math.Cos(MeanObliquity(jd))*(math.Tan(MeanObliquity(jd))*cosDec-sinRA*sinDec) +
		cosRA*sinDec*math.Sin(l0))
	deltaDec += e * k * (math.Cos(piLon)*math.Cos(MeanObliquity(jd))*(math.Tan(MeanObliquity(jd))*cosDec-sinRA*sinDec) +
		cosRA*sinDec*math.Sin(piLon))

	return deltaRA, deltaDec
}

/*****************************************************************************************************************/
