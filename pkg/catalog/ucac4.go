/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

/*****************************************************************************************************************/

// ucac4RecordSize is the fixed width, in bytes, of one UCAC4-style strip record, per
// original_source/airs/src/ACatUCAC4.h's ucac4_item layout.
const ucac4RecordSize = 78

/*****************************************************************************************************************/

const noData2MASS = int16(-32768)

/*****************************************************************************************************************/

// ucac4AlphaEntry is one (offset, count) cell of the two-dimensional (δ-zone, α-zone) index: offset
// is the first record index within that declination zone's strip file, count the number of records
// whose center lies in the cell.
type ucac4AlphaEntry struct {
	offset int
	count  int
}

/*****************************************************************************************************************/

type ucac4Catalog struct {
	dir string

	// zones[decZone][alphaZone] is the (offset, count) cell for that sky cell, both 1-indexed,
	// mirroring original_source/airs/src/ACatUCAC4.h's ZC = zd*ucac4_zrn + (zr % ucac4_zrn) table.
	zones [][]ucac4AlphaEntry
}

/*****************************************************************************************************************/

// openUCAC4 loads the two-dimensional u4i/u4index.asc zone index — one "<offset> <count>" line per
// (δ-zone, α-zone) cell, row-major over δ-zone then α-zone, per §6 — and prepares to read the
// u4b/zNNN strip files, per-search, via the direct offsets this table gives.
func openUCAC4(dir string) (*ucac4Catalog, error) {
	f, err := os.Open(filepath.Join(dir, "u4i", "u4index.asc"))
	if err != nil {
		return nil, ErrZoneIndexMissing
	}
	defer f.Close()

	c := &ucac4Catalog{dir: dir, zones: make([][]ucac4AlphaEntry, zoneCount+1)}

	for z := 1; z <= zoneCount; z++ {
		c.zones[z] = make([]ucac4AlphaEntry, raZoneCount+1)
	}

	scanner := bufio.NewScanner(f)

	idx := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		offset, err1 := strconv.Atoi(fields[0])
		count, err2 := strconv.Atoi(fields[1])

		if err1 == nil && err2 == nil {
			decZone := idx/raZoneCount + 1
			alphaZone := idx%raZoneCount + 1

			if decZone >= 1 && decZone <= zoneCount {
				c.zones[decZone][alphaZone] = ucac4AlphaEntry{offset: offset, count: count}
			}
		}

		idx++
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrZoneIndexMissing
	}

	return c, nil
}

/*****************************************************************************************************************/

func (c *ucac4Catalog) Close() error {
	return nil
}

/*****************************************************************************************************************/

func (c *ucac4Catalog) stripPath(zone int) string {
	return filepath.Join(c.dir, "u4b", fmt.Sprintf("z%03d", zone))
}

/*****************************************************************************************************************/

// FindStar performs a cone search by quantizing (α₀, δ₀, r) to the overlapping (δ-zone, α-zone)
// cells per §4.1, seeking directly to each cell's (offset, count) within its declination zone's
// strip file, and applying the great-circle cone test to every record read — no RA-band
// short-circuit, since the 2D index already bounds the read to the cells that can hold a match.
func (c *ucac4Catalog) FindStar(params Params) (bool, []ReferenceStar, error) {
	radius, err := validateCone(params.RA, params.Dec, params.Radius)
	if err != nil {
		return false, nil, err
	}
	params.Radius = radius

	decLo, decHi := zoneRange(params.Dec, params.Radius)
	alphaZones := alphaZonesInRange(params.RA, params.Dec, params.Radius)

	var stars []ReferenceStar

	scratch := make([]byte, 0, 16*ucac4RecordSize)

	for zone := decLo; zone <= decHi; zone++ {
		f, err := os.Open(c.stripPath(zone))
		if err != nil {
			// Missing strip file: skip this zone silently and go on with the next (partial sky).
			continue
		}

		for _, az := range alphaZones {
			entry := c.zones[zone][az]
			if entry.count == 0 {
				continue
			}

			need := entry.count * ucac4RecordSize
			scratch = growScratch(scratch, need, ucac4RecordSize)

			if _, err := f.ReadAt(scratch, int64(entry.offset)*ucac4RecordSize); err != nil {
				f.Close()
				return false, nil, ErrRecordCorrupt
			}

			for i := 0; i < entry.count; i++ {
				rec := scratch[i*ucac4RecordSize : (i+1)*ucac4RecordSize]

				star, ok := decodeUCAC4Record(rec)
				if !ok {
					continue
				}

				star.Zone = zone
				star.Record = entry.offset + i

				if params.MagnitudeLimit > 0 && star.MagnitudeModel > params.MagnitudeLimit {
					continue
				}

				if inCone(star.RA, star.Dec, params.RA, params.Dec, params.Radius) {
					stars = append(stars, star)
				}
			}
		}

		f.Close()
	}

	return true, stars, nil
}

/*****************************************************************************************************************/

func decodeUCAC4Record(b []byte) (ReferenceStar, bool) {
	if len(b) != ucac4RecordSize {
		return ReferenceStar{}, false
	}

	le := binary.LittleEndian

	ra := int32(le.Uint32(b[0:4]))
	spd := int32(le.Uint32(b[4:8]))
	magm := int16(le.Uint16(b[8:10]))
	maga := int16(le.Uint16(b[10:12]))
	sigmag := int8(b[12])
	objt := int8(b[13])
	cdf := int8(b[14])
	sigra := int8(b[15])
	sigdc := int8(b[16])
	pmrac := int16(le.Uint16(b[24:26]))
	pmdc := int16(le.Uint16(b[26:28]))
	ptsKey := int32(le.Uint32(b[30:34]))
	jM := int16(le.Uint16(b[34:36]))
	hM := int16(le.Uint16(b[36:38]))
	kM := int16(le.Uint16(b[38:40]))

	star := ReferenceStar{
		RA:                float64(ra) / 3600000.0,
		Dec:               float64(spd)/3600000.0 - 90,
		MagnitudeModel:    float64(magm) / 1000.0,
		MagnitudeAperture: float64(maga) / 1000.0,
		MagnitudeError:    float64(sigmag) / 100.0,
		ObjectType:        objt,
		DoubleStarFlag:    cdf,
		ErrorRA:           float64(sigra),
		ErrorDec:          float64(sigdc),
		ProperMotionRA:    float64(pmrac) / 10.0,
		ProperMotionDec:   float64(pmdc) / 10.0,
		PtsKey:            ptsKey,
	}

	if jM != noData2MASS {
		star.JMag = float64(jM) / 1000.0
	}

	if hM != noData2MASS {
		star.HMag = float64(hM) / 1000.0
	}

	if kM != noData2MASS {
		star.KMag = float64(kM) / 1000.0
	}

	for i := 0; i < 5; i++ {
		offset := 46 + i*2
		v := int16(le.Uint16(b[offset : offset+2]))

		if v != noData2MASS {
			star.APASSMag[i] = float64(v) / 1000.0
		}
	}

	return star, true
}

/*****************************************************************************************************************/
