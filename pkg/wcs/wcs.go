/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package wcs implements the TNX world coordinate system: a tangent-plane (TAN) projection
// carrying two polynomial distortion residual surfaces, one per axis, as described in
// original_source/airs/src/WCSTNX.h. It is a non-standard extension beyond a plain CD-matrix
// linear WCS.

package wcs

/*****************************************************************************************************************/

import (
	"errors"
	"math"

	"github.com/airsurvey/reduction/pkg/astrometry"
	"github.com/airsurvey/reduction/pkg/transform"
)

/*****************************************************************************************************************/

const (
	Deg2Rad    = math.Pi / 180
	Rad2Deg    = 180 / math.Pi
	Arcsec2Rad = Deg2Rad / 3600
	Rad2Arcsec = Rad2Deg * 3600
)

/*****************************************************************************************************************/

var (
	ErrInsufficientSamples = errors.New("wcs: fewer matched samples than polynomial terms")
	ErrSingularMatrix      = errors.New("wcs: normal matrix is singular")
	ErrNoConvergence       = errors.New("wcs: sky-to-image inversion did not converge")
)

/*****************************************************************************************************************/

// ResidualSurface is one axis (ξ or η) of the TNX polynomial distortion model: a basis family,
// a cross-term rule, per-axis orders, the normalization box the samples were fit within, and the
// fitted coefficient vector, indexed by the same ordering as transform.Terms produces.
type ResidualSurface struct {
	Basis  transform.Basis
	Cross  transform.CrossTerm
	XOrder int
	YOrder int
	XMin   float64
	XMax   float64
	YMin   float64
	YMax   float64
	Coef   []float64
	RMS    float64
}

/*****************************************************************************************************************/

// normalize maps v onto the basis's expected domain: identity for the power basis, [-1, 1] for
// Legendre/Chebyshev.
func (s *ResidualSurface) normalize(v, min, max float64) float64 {
	if s.Basis == transform.BasisPower {
		return v
	}

	return transform.Normalize(v, min, max)
}

/*****************************************************************************************************************/

// PolyVal evaluates the residual surface at pixel offset (x, y), returning a value in arcseconds.
func (s *ResidualSurface) PolyVal(x, y float64) float64 {
	if len(s.Coef) == 0 {
		return 0
	}

	nx := s.normalize(x, s.XMin, s.XMax)
	ny := s.normalize(y, s.YMin, s.YMax)

	xvals := make([]float64, s.XOrder+1)
	yvals := make([]float64, s.YOrder+1)

	transform.EvaluateBasis(s.Basis, nx, s.XOrder, xvals)
	transform.EvaluateBasis(s.Basis, ny, s.YOrder, yvals)

	terms := transform.Terms(s.Cross, s.XOrder, s.YOrder)

	var sum float64

	for i, term := range terms {
		if i >= len(s.Coef) {
			break
		}

		sum += s.Coef[i] * xvals[term.I] * yvals[term.J]
	}

	return sum
}

/*****************************************************************************************************************/

// TnxModel is the fitted WCS for one solved frame: reference pixel and sky position, the linear
// CD matrix (degrees/pixel) and its inverse, and the two distortion residual surfaces.
type TnxModel struct {
	RefPixX  float64
	RefPixY  float64
	RefRA    float64 // radians
	RefDec   float64 // radians
	CD       [2][2]float64
	CDInv    [2][2]float64
	Res      [2]ResidualSurface
	ErrFit   float64 // arcseconds
	Scale    float64 // arcsec/pixel
	Rotation float64 // degrees
}

/*****************************************************************************************************************/

// forwardTAN projects an equatorial coordinate onto the tangent plane about (ra0, dec0), all in
// radians, using the standard gnomonic forward equations.
func forwardTAN(ra, dec, ra0, dec0 float64) (xi, eta float64) {
	sd0, cd0 := math.Sincos(dec0)
	sd, cd := math.Sincos(dec)
	sda, cda := math.Sincos(ra - ra0)

	denominator := sd0*sd + cd0*cd*cda

	xi = cd * sda / denominator
	eta = (cd0*sd - sd0*cd*cda) / denominator

	return xi, eta
}

/*****************************************************************************************************************/

// inverseTAN recovers an equatorial coordinate from a tangent-plane position, all in radians.
func inverseTAN(xi, eta, ra0, dec0 float64) (ra, dec float64) {
	sd0, cd0 := math.Sincos(dec0)

	ra = ra0 + math.Atan2(xi, cd0-eta*sd0)
	dec = math.Atan((eta*cd0 + sd0) * math.Cos(ra-ra0) / (cd0 - eta*sd0))

	return ra, dec
}

/*****************************************************************************************************************/

// ImageToSky projects a pixel coordinate to an ICRS equatorial coordinate in degrees, per §4.2:
// subtract the reference pixel, add the polynomial distortion to the CD-matrix-projected tangent
// plane position, then invert the TAN projection.
func (m *TnxModel) ImageToSky(x, y float64) astrometry.ICRSEquatorialCoordinate {
	dx := x - m.RefPixX
	dy := y - m.RefPixY

	xi := m.CD[0][0]*dx + m.CD[0][1]*dy + m.Res[0].PolyVal(dx, dy)*Arcsec2Rad
	eta := m.CD[1][0]*dx + m.CD[1][1]*dy + m.Res[1].PolyVal(dx, dy)*Arcsec2Rad

	ra, dec := inverseTAN(xi, eta, m.RefRA, m.RefDec)

	return astrometry.ICRSEquatorialCoordinate{
		RA:  ra * Rad2Deg,
		Dec: dec * Rad2Deg,
	}
}

/*****************************************************************************************************************/

// SkyToImage inverts ImageToSky: it projects an equatorial coordinate (degrees) onto the tangent
// plane, then iteratively subtracts the distortion term (which itself depends on the still-
// unknown pixel position) until the pixel estimate stops moving by more than 10⁻³ pixels, or ten
// iterations elapse.
func (m *TnxModel) SkyToImage(ra, dec float64) (float64, float64, error) {
	xi, eta := forwardTAN(ra*Deg2Rad, dec*Deg2Rad, m.RefRA, m.RefDec)

	x, y := m.RefPixX, m.RefPixY

	for i := 0; i < 10; i++ {
		dx := x - m.RefPixX
		dy := y - m.RefPixY

		rxi := xi - m.Res[0].PolyVal(dx, dy)*Arcsec2Rad
		reta := eta - m.Res[1].PolyVal(dx, dy)*Arcsec2Rad

		ndx := m.CDInv[0][0]*rxi + m.CDInv[0][1]*reta
		ndy := m.CDInv[1][0]*rxi + m.CDInv[1][1]*reta

		nx := m.RefPixX + ndx
		ny := m.RefPixY + ndy

		if math.Abs(nx-x)+math.Abs(ny-y) < 1e-3 {
			return nx, ny, nil
		}

		x, y = nx, ny
	}

	return x, y, ErrNoConvergence
}

/*****************************************************************************************************************/

func invert2x2(m [2][2]float64) ([2][2]float64, error) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]

	if det == 0 {
		return [2][2]float64{}, ErrSingularMatrix
	}

	inv := [2][2]float64{
		{m[1][1] / det, -m[0][1] / det},
		{-m[1][0] / det, m[0][0] / det},
	}

	return inv, nil
}

/*****************************************************************************************************************/
