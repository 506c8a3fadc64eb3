/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"encoding/binary"
	"io"
	"os"
)

/*****************************************************************************************************************/

// tycho2RecordSize is the fixed width, in bytes, of one Tycho-2 style record: RA, Dec (int32,
// degrees × 10⁶), proper motion in RA/Dec (int16, 0.1 mas/yr), and BT/VT magnitudes (int16,
// millimag).
const tycho2RecordSize = 16

/*****************************************************************************************************************/

// tycho2IndexEntrySize is the width of one (offset, count) pair in the file's embedded index
// table, immediately following the zoneCount header word.
const tycho2IndexEntrySize = 12

/*****************************************************************************************************************/

type tycho2ZoneEntry struct {
	offset int64
	count  int32
}

/*****************************************************************************************************************/

type tycho2Catalog struct {
	f     *os.File
	zones [zoneCount + 1]tycho2ZoneEntry
}

/*****************************************************************************************************************/

// openTycho2 opens the single Tycho-2 style binary file: a little-endian uint32 zone count,
// followed by that many (int64 offset, int32 count) index entries, followed by the record data
// the offsets point into.
func openTycho2(path string) (*tycho2Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrZoneIndexMissing
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(f, header); err != nil {
		f.Close()
		return nil, ErrZoneIndexMissing
	}

	n := int(binary.LittleEndian.Uint32(header))
	if n <= 0 || n > zoneCount {
		f.Close()
		return nil, ErrZoneIndexMissing
	}

	table := make([]byte, n*tycho2IndexEntrySize)
	if _, err := io.ReadFull(f, table); err != nil {
		f.Close()
		return nil, ErrZoneIndexMissing
	}

	c := &tycho2Catalog{f: f}

	for i := 0; i < n; i++ {
		base := i * tycho2IndexEntrySize

		offset := int64(binary.LittleEndian.Uint64(table[base : base+8]))
		count := int32(binary.LittleEndian.Uint32(table[base+8 : base+12]))

		c.zones[i+1] = tycho2ZoneEntry{offset: offset, count: count}
	}

	return c, nil
}

/*****************************************************************************************************************/

func (c *tycho2Catalog) Close() error {
	return c.f.Close()
}

/*****************************************************************************************************************/

func (c *tycho2Catalog) FindStar(params Params) (bool, []ReferenceStar, error) {
	radius, err := validateCone(params.RA, params.Dec, params.Radius)
	if err != nil {
		return false, nil, err
	}
	params.Radius = radius

	lo, hi := zoneRange(params.Dec, params.Radius)

	var stars []ReferenceStar

	scratch := make([]byte, 0, 16*tycho2RecordSize)

	for zone := lo; zone <= hi; zone++ {
		entry := c.zones[zone]
		if entry.count == 0 {
			continue
		}

		need := int(entry.count) * tycho2RecordSize
		scratch = growScratch(scratch, need, tycho2RecordSize)

		if _, err := c.f.ReadAt(scratch, entry.offset); err != nil {
			return false, nil, ErrStripMissing
		}

		for i := 0; i < int(entry.count); i++ {
			rec := scratch[i*tycho2RecordSize : (i+1)*tycho2RecordSize]

			star, ok := decodeTycho2Record(rec)
			if !ok {
				continue
			}

			star.Zone = zone
			star.Record = i

			if params.MagnitudeLimit > 0 && star.MagnitudeModel > params.MagnitudeLimit {
				continue
			}

			if inCone(star.RA, star.Dec, params.RA, params.Dec, params.Radius) {
				stars = append(stars, star)
			}
		}
	}

	return true, stars, nil
}

/*****************************************************************************************************************/

func decodeTycho2Record(b []byte) (ReferenceStar, bool) {
	if len(b) != tycho2RecordSize {
		return ReferenceStar{}, false
	}

	le := binary.LittleEndian

	ra := int32(le.Uint32(b[0:4]))
	dec := int32(le.Uint32(b[4:8]))
	pmra := int16(le.Uint16(b[8:10]))
	pmdec := int16(le.Uint16(b[10:12]))
	btmag := int16(le.Uint16(b[12:14]))
	vtmag := int16(le.Uint16(b[14:16]))

	return ReferenceStar{
		RA:                float64(ra) / 1e6,
		Dec:               float64(dec) / 1e6,
		ProperMotionRA:    float64(pmra) / 10.0,
		ProperMotionDec:   float64(pmdec) / 10.0,
		MagnitudeModel:    float64(vtmag) / 1000.0,
		MagnitudeAperture: float64(btmag) / 1000.0,
	}, true
}

/*****************************************************************************************************************/
