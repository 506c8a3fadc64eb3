/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package xmatch cross-matches plate-solved DetectedSource positions against reference-catalog
// entries, per §4.3's "Stage: catalog match". The teacher's pkg/quad matches star-pattern quads
// against a blind-solve index via gonum's vptree; this package adapts the same
// vptree.Comparable/Tree.Nearest idiom to a much simpler problem: nearest-neighbor lookup of a
// single sky position against the small set of catalog stars a cone search about that frame's
// pointing already returned.
package xmatch

/*****************************************************************************************************************/

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/vptree"

	"github.com/airsurvey/reduction/pkg/catalog"
	"github.com/airsurvey/reduction/pkg/geometry"
	"github.com/airsurvey/reduction/pkg/matrix"
)

/*****************************************************************************************************************/

var ErrNoMatch = errors.New("xmatch: no catalog star within tolerance")

/*****************************************************************************************************************/

// radiansToArcsec converts a great-circle separation in radians, as returned by
// geometry.AngularSeparation, to arcseconds, the unit §4.3's cross-match tolerance is expressed in.
const radiansToArcsec = 180 / math.Pi * 3600

/*****************************************************************************************************************/

// point wraps a ReferenceStar as a vptree.Comparable, measuring true great-circle separation via
// geometry.AngularSeparation rather than a flat projection, since cone-search result sets can span
// enough sky near the poles that a flat approximation would mismeasure it.
type point struct {
	star catalog.ReferenceStar
}

/*****************************************************************************************************************/

// Distance satisfies vptree.Comparable, returning the angular separation in arcseconds between two
// catalog points.
func (p point) Distance(other vptree.Comparable) float64 {
	o, ok := other.(point)
	if !ok {
		panic("xmatch: incompatible type for distance calculation")
	}

	sep := geometry.AngularSeparation(
		p.star.RA*math.Pi/180,
		p.star.Dec*math.Pi/180,
		o.star.RA*math.Pi/180,
		o.star.Dec*math.Pi/180,
	)

	return sep * radiansToArcsec
}

/*****************************************************************************************************************/

// Matcher answers nearest-catalog-star queries for the sources of a single solved frame.
type Matcher struct {
	tree *vptree.Tree
}

/*****************************************************************************************************************/

// NewMatcher builds a Matcher over stars, a cone-search result set for the frame's pointing.
func NewMatcher(stars []catalog.ReferenceStar) (*Matcher, error) {
	if len(stars) == 0 {
		return &Matcher{}, nil
	}

	comparables := make([]vptree.Comparable, len(stars))

	for i, s := range stars {
		comparables[i] = point{star: s}
	}

	tree, err := vptree.New(comparables, 1, nil)
	if err != nil {
		return nil, err
	}

	return &Matcher{tree: tree}, nil
}

/*****************************************************************************************************************/

// Nearest returns the catalog star nearest (ra, dec), both degrees, and the separation in
// arcseconds, provided it is within toleranceArcsec (§4.3: tolerance ≈ 2·scale).
func (m *Matcher) Nearest(ra, dec, toleranceArcsec float64) (catalog.ReferenceStar, float64, error) {
	if m.tree == nil {
		return catalog.ReferenceStar{}, 0, ErrNoMatch
	}

	query := point{star: catalog.ReferenceStar{RA: ra, Dec: dec}}

	nearest, dist := m.tree.Nearest(query)

	if dist > toleranceArcsec {
		return catalog.ReferenceStar{}, dist, ErrNoMatch
	}

	matched, ok := nearest.(point)
	if !ok {
		return catalog.ReferenceStar{}, dist, ErrNoMatch
	}

	return matched.star, dist, nil
}

/*****************************************************************************************************************/

// Pair is one matched (instrument magnitude, catalog magnitude) observation fed to FitZeroPoint.
type Pair struct {
	InstrumentMag float64
	CatalogMag    float64
}

/*****************************************************************************************************************/

// FitZeroPoint fits mag_image = a + b·mag_catalog over pairs by linear least squares, per §4.3's
// photometric calibration. It returns ErrNoMatch if fewer than two pairs are supplied.
func FitZeroPoint(pairs []Pair) (a, b float64, err error) {
	n := len(pairs)
	if n < 2 {
		return 0, 0, ErrNoMatch
	}

	design, err := matrix.New(n, 2)
	if err != nil {
		return 0, 0, err
	}

	target, err := matrix.New(n, 1)
	if err != nil {
		return 0, 0, err
	}

	for i, p := range pairs {
		_ = design.Set(i, 0, 1)
		_ = design.Set(i, 1, p.CatalogMag)
		_ = target.Set(i, 0, p.InstrumentMag)
	}

	designT, err := design.Transpose()
	if err != nil {
		return 0, 0, err
	}

	normal, err := designT.Multiply(design)
	if err != nil {
		return 0, 0, err
	}

	rhs, err := designT.Multiply(target)
	if err != nil {
		return 0, 0, err
	}

	normalInv, err := normal.Invert()
	if err != nil {
		return 0, 0, err
	}

	solution, err := normalInv.Multiply(rhs)
	if err != nil {
		return 0, 0, err
	}

	a, err = solution.At(0, 0)
	if err != nil {
		return 0, 0, err
	}

	b, err = solution.At(1, 0)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

/*****************************************************************************************************************/
