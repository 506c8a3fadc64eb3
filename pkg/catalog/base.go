/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package catalog implements a reader for zoned binary reference-star catalogs in the style of
// UCAC4 and Tycho-2, per original_source/airs/src/ACatUCAC4.{h,cpp} and ACatalog.{h,cpp}. A UCAC4
// catalog is one strip file per declination zone, indexed by an ASCII table giving the first
// record index and record count of each (declination, right ascension) cell; a Tycho-2 catalog is
// a single file whose embedded binary table gives the byte offset and record count of each
// declination zone.
package catalog

/*****************************************************************************************************************/

import (
	"errors"
)

/*****************************************************************************************************************/

type Format int

/*****************************************************************************************************************/

const (
	// UCAC4 strips are keyed by a zone-index file plus 78-byte fixed binary records.
	UCAC4 Format = iota
	// Tycho2 is a single binary file carrying an embedded offset/count index table.
	Tycho2
)

/*****************************************************************************************************************/

var (
	ErrUnsupportedFormat = errors.New("catalog: unsupported format")
	ErrZoneIndexMissing  = errors.New("catalog: zone index file could not be read")
	ErrStripMissing      = errors.New("catalog: strip file could not be opened")
	ErrRecordCorrupt     = errors.New("catalog: record length mismatch reading strip file")
	ErrInvalidCoordinate = errors.New("catalog: ra/dec outside the valid range")
)

/*****************************************************************************************************************/

// ReferenceStar is a single reference-catalog entry, carrying the UCAC4 78-byte record's fields
// plus the optional 2MASS/APASS cross-identification photometry original_source preserves
// alongside it.
type ReferenceStar struct {
	RA  float64 // degrees, J2000
	Dec float64 // degrees, J2000

	MagnitudeModel    float64 // UCAC fit model magnitude
	MagnitudeAperture float64 // UCAC aperture magnitude
	MagnitudeError    float64 // mag, 0.01 mag units in the source record

	ObjectType      int8
	DoubleStarFlag  int8
	ErrorRA         float64 // arcsec
	ErrorDec        float64 // arcsec
	ProperMotionRA  float64 // mas/yr
	ProperMotionDec float64 // mas/yr

	PtsKey int32 // cross-reference key into the 2MASS Point Source Catalog

	// 2MASS cross-identified photometry, zero-valued when the star has no 2MASS counterpart.
	JMag float64
	HMag float64
	KMag float64

	// APASS cross-identified photometry (B, V, g', r', i'), zero-valued when absent.
	APASSMag [5]float64

	Zone   int
	Record int
}

/*****************************************************************************************************************/

// Params describes one cone search request: a center and radius, both in degrees, plus an
// optional magnitude limit (zero disables the limit).
type Params struct {
	RA              float64
	Dec             float64
	Radius          float64
	MagnitudeLimit  float64
}

/*****************************************************************************************************************/

// Reader is the interface a zoned binary catalog format must satisfy to answer cone searches.
type Reader interface {
	// FindStar performs a cone search about (ra, dec) within radius degrees. ok reports whether
	// the search was well-formed enough to run (even with zero matches); err carries I/O or
	// missing-index failures. This resolves the ambiguous int-as-bool return of the routine it is
	// ported from.
	FindStar(params Params) (ok bool, stars []ReferenceStar, err error)
	Close() error
}

/*****************************************************************************************************************/

// Open opens a zoned catalog rooted at dir in the given format.
func Open(format Format, dir string) (Reader, error) {
	switch format {
	case UCAC4:
		return openUCAC4(dir)
	case Tycho2:
		return openTycho2(dir)
	default:
		return nil, ErrUnsupportedFormat
	}
}

/*****************************************************************************************************************/
