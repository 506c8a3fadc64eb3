/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"math"

	"github.com/airsurvey/reduction/pkg/geometry"
)

/*****************************************************************************************************************/

// zoneDecWidth is the declination width of one catalog zone strip, Δδ≈0.2°, giving 900 zones
// spanning the full -90°..+90° range (z001..z900), per original_source/airs/src/ACatalog.cpp.
const zoneDecWidth = 0.2

/*****************************************************************************************************************/

const zoneCount = 900

/*****************************************************************************************************************/

// raZoneCount is the number of right-ascension zones per declination zone, Δα≈0.25° for UCAC4, per
// §4.1's "(180°/Δδ) × (360°/Δα)" sky-cell grid.
const raZoneCount = 1440

/*****************************************************************************************************************/

const raZoneWidth = 360.0 / raZoneCount

/*****************************************************************************************************************/

// zoneForDec returns the 1-indexed zone number (1..zoneCount) containing declination dec (degrees).
func zoneForDec(dec float64) int {
	z := int((dec+90)/zoneDecWidth) + 1

	if z < 1 {
		z = 1
	}

	if z > zoneCount {
		z = zoneCount
	}

	return z
}

/*****************************************************************************************************************/

// zoneRange returns the inclusive [lo, hi] zone numbers that could contain a star within radius
// degrees of dec.
func zoneRange(dec, radius float64) (lo, hi int) {
	lo = zoneForDec(dec - radius)
	hi = zoneForDec(dec + radius)
	return lo, hi
}

/*****************************************************************************************************************/

// normalizeRA wraps ra (degrees) into [0, 360).
func normalizeRA(ra float64) float64 {
	for ra < 0 {
		ra += 360
	}

	for ra >= 360 {
		ra -= 360
	}

	return ra
}

/*****************************************************************************************************************/

// alphaZoneForRA returns the 1-indexed RA zone (1..raZoneCount) containing ra (degrees).
func alphaZoneForRA(ra float64) int {
	z := int(normalizeRA(ra)/raZoneWidth) + 1

	if z < 1 {
		z = 1
	}

	if z > raZoneCount {
		z = raZoneCount
	}

	return z
}

/*****************************************************************************************************************/

// alphaZonesInRange returns the 1-indexed RA zones overlapping a cone of radius degrees about (ra,
// dec), per §4.1: if sin(r) ≥ cos(δ) the pole lies inside the cone and the full RA range is
// returned; otherwise Δα = asin(sin r / cos δ) bounds [ra-Δα, ra+Δα], wrapped modulo 360° and
// quantized to zone indices — iterating α_max+360° and taking i mod N_α when the wrap crosses 0/360.
// A radius of 180° or more covers the entire celestial sphere regardless of center (no two points
// are ever more than 180° apart), so it always takes the full RA range too.
func alphaZonesInRange(ra, dec, radius float64) []int {
	if radius >= 180 {
		zones := make([]int, raZoneCount)
		for i := range zones {
			zones[i] = i + 1
		}

		return zones
	}

	decRad := dec * math.Pi / 180
	rRad := radius * math.Pi / 180

	sinR := math.Sin(rRad)
	cosDec := math.Cos(decRad)

	if sinR >= cosDec {
		zones := make([]int, raZoneCount)
		for i := range zones {
			zones[i] = i + 1
		}

		return zones
	}

	deltaAlpha := math.Asin(sinR/cosDec) * 180 / math.Pi

	loZone := alphaZoneForRA(ra - deltaAlpha)
	hiZone := alphaZoneForRA(ra + deltaAlpha)

	if loZone <= hiZone {
		zones := make([]int, 0, hiZone-loZone+1)

		for z := loZone; z <= hiZone; z++ {
			zones = append(zones, z)
		}

		return zones
	}

	// Wraps through 0/360°: take zones from loZone..raZoneCount, then 1..hiZone (i.e. i mod N_α).
	zones := make([]int, 0, raZoneCount-loZone+1+hiZone)

	for z := loZone; z <= raZoneCount; z++ {
		zones = append(zones, z)
	}

	for z := 1; z <= hiZone; z++ {
		zones = append(zones, z)
	}

	return zones
}

/*****************************************************************************************************************/

// growScratch grows buf's capacity, in increments of 16 records, to hold at least need bytes,
// mirroring the original reader's scratch-buffer growth policy.
func growScratch(buf []byte, need, recordSize int) []byte {
	if cap(buf) >= need {
		return buf[:need]
	}

	chunk := 16 * recordSize

	newCap := ((need + chunk - 1) / chunk) * chunk

	grown := make([]byte, need, newCap)
	copy(grown, buf)

	return grown
}

/*****************************************************************************************************************/

// inCone reports whether (ra, dec), both in degrees, lies within radius degrees of (centerRA,
// centerDec), using the numerically stable great-circle distance. A radius of 180° or more always
// matches: the great-circle distance between any two points is at most 180°.
func inCone(ra, dec, centerRA, centerDec, radius float64) bool {
	if radius >= 180 {
		return true
	}

	d := geometry.AngularSeparation(ra*math.Pi/180, dec*math.Pi/180, centerRA*math.Pi/180, centerDec*math.Pi/180)
	return d*180/math.Pi <= radius
}

/*****************************************************************************************************************/

// minConeRadiusDeg is the 1 arcsecond floor every cone search is clamped to.
const minConeRadiusDeg = 1.0 / 3600.0

/*****************************************************************************************************************/

// validateCone checks a cone search's center against the catalog's coordinate convention
// (ra in [0,360), dec in [-90,90]) and clamps radius below at 1 arcsecond, per §4.1.
func validateCone(ra, dec, radius float64) (float64, error) {
	if ra < 0 || ra >= 360 {
		return 0, ErrInvalidCoordinate
	}

	if dec < -90 || dec > 90 {
		return 0, ErrInvalidCoordinate
	}

	if radius < minConeRadiusDeg {
		radius = minConeRadiusDeg
	}

	return radius, nil
}

/*****************************************************************************************************************/
