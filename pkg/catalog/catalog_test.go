/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package catalog

/*****************************************************************************************************************/

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

/*****************************************************************************************************************/

func writeUCAC4Record(ra, dec, magm float64) []byte {
	b := make([]byte, ucac4RecordSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:4], uint32(int32(ra*3600000)))
	le.PutUint32(b[4:8], uint32(int32((dec+90)*3600000)))
	le.PutUint16(b[8:10], uint16(int16(magm*1000)))
	le.PutUint16(b[10:12], uint16(int16(magm*1000)))

	noData := noData2MASS

	for i := 0; i < 5; i++ {
		offset := 46 + i*2
		le.PutUint16(b[offset:offset+2], uint16(noData))
	}

	le.PutUint16(b[34:36], uint16(noData))
	le.PutUint16(b[36:38], uint16(noData))
	le.PutUint16(b[38:40], uint16(noData))

	return b
}

/*****************************************************************************************************************/

// ucac4Cell is one (decZone, alphaZone) cell's (offset, count) entry, used to build a synthetic
// u4i/u4index.asc fixture.
type ucac4Cell struct {
	decZone   int
	alphaZone int
	offset    int
	count     int
}

/*****************************************************************************************************************/

// writeUCAC4Index writes a u4i/u4index.asc fixture: one "<offset> <count>" line per (δ-zone,
// α-zone) cell, row-major, up through the highest cell named in cells — every earlier cell not
// named defaults to "0 0", matching an unpopulated sky cell.
func writeUCAC4Index(t *testing.T, dir string, cells []ucac4Cell) {
	t.Helper()

	byIdx := make(map[int]ucac4Cell, len(cells))

	maxIdx := 0

	for _, c := range cells {
		idx := (c.decZone-1)*raZoneCount + (c.alphaZone - 1)
		byIdx[idx] = c

		if idx > maxIdx {
			maxIdx = idx
		}
	}

	var buf bytes.Buffer
	buf.Grow((maxIdx + 1) * 4)

	for idx := 0; idx <= maxIdx; idx++ {
		c, ok := byIdx[idx]

		offset, count := 0, 0
		if ok {
			offset, count = c.offset, c.count
		}

		buf.WriteString(strconv.Itoa(offset))
		buf.WriteByte(' ')
		buf.WriteString(strconv.Itoa(count))
		buf.WriteByte('\n')
	}

	if err := os.MkdirAll(filepath.Join(dir, "u4i"), 0o755); err != nil {
		t.Fatalf("failed creating u4i dir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "u4i", "u4index.asc"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed writing u4index.asc: %v", err)
	}
}

/*****************************************************************************************************************/

// writeUCAC4Strip writes a u4b/zNNN strip file from a sequence of already-encoded records.
func writeUCAC4Strip(t *testing.T, dir string, zone int, records ...[]byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Join(dir, "u4b"), 0o755); err != nil {
		t.Fatalf("failed creating u4b dir: %v", err)
	}

	var data []byte
	for _, r := range records {
		data = append(data, r...)
	}

	path := filepath.Join(dir, "u4b", fmt.Sprintf("z%03d", zone))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed writing strip file %s: %v", path, err)
	}
}

/*****************************************************************************************************************/

func TestUCAC4FindStarWithinCone(t *testing.T) {
	dir := t.TempDir()

	ra, dec := 10.0, -89.9
	decZone, alphaZone := zoneForDec(dec), alphaZoneForRA(ra)

	writeUCAC4Index(t, dir, []ucac4Cell{{decZone: decZone, alphaZone: alphaZone, offset: 0, count: 1}})
	writeUCAC4Strip(t, dir, decZone, writeUCAC4Record(ra, dec, 12.5))

	cat, err := Open(UCAC4, dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	ok, stars, err := cat.FindStar(Params{RA: ra, Dec: dec, Radius: 0.01})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if !ok {
		t.Fatal("FindStar ok = false; want true")
	}

	if len(stars) != 1 {
		t.Fatalf("len(stars) = %d; want 1", len(stars))
	}

	if math.Abs(stars[0].RA-ra) > 1e-4 {
		t.Errorf("RA = %f; want %f", stars[0].RA, ra)
	}

	if math.Abs(stars[0].Dec-dec) > 1e-4 {
		t.Errorf("Dec = %f; want %f", stars[0].Dec, dec)
	}

	if stars[0].JMag != 0 {
		t.Errorf("JMag = %f; want 0 (no 2MASS counterpart)", stars[0].JMag)
	}
}

/*****************************************************************************************************************/

func TestUCAC4FindStarOutsideCone(t *testing.T) {
	dir := t.TempDir()

	ra, dec := 10.0, -89.9
	decZone, alphaZone := zoneForDec(dec), alphaZoneForRA(ra)

	writeUCAC4Index(t, dir, []ucac4Cell{{decZone: decZone, alphaZone: alphaZone, offset: 0, count: 1}})
	writeUCAC4Strip(t, dir, decZone, writeUCAC4Record(ra, dec, 12.5))

	cat, err := Open(UCAC4, dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	_, stars, err := cat.FindStar(Params{RA: 250.0, Dec: dec, Radius: 0.01})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if len(stars) != 0 {
		t.Errorf("len(stars) = %d; want 0", len(stars))
	}
}

/*****************************************************************************************************************/

// TestUCAC4FindStarNearPole reproduces §8's named end-to-end scenario: a catalog with 2 stars at
// (ra=10°, dec=89.9°) and (ra=200°, dec=89.9°), queried from (0°, 90°, 12 arcmin). Both stars must
// be returned — their RA values are 190° apart, so any RA-band short-circuit that fails to widen to
// the full range when the pole lies inside the cone silently drops them.
func TestUCAC4FindStarNearPole(t *testing.T) {
	dir := t.TempDir()

	starA := struct{ ra, dec float64 }{10.0, 89.9}
	starB := struct{ ra, dec float64 }{200.0, 89.9}

	decZone := zoneForDec(starA.dec)
	if other := zoneForDec(starB.dec); other != decZone {
		t.Fatalf("test fixture assumption violated: stars land in different dec zones (%d, %d)", decZone, other)
	}

	alphaA := alphaZoneForRA(starA.ra)
	alphaB := alphaZoneForRA(starB.ra)

	writeUCAC4Index(t, dir, []ucac4Cell{
		{decZone: decZone, alphaZone: alphaA, offset: 0, count: 1},
		{decZone: decZone, alphaZone: alphaB, offset: 1, count: 1},
	})

	writeUCAC4Strip(t, dir, decZone,
		writeUCAC4Record(starA.ra, starA.dec, 10.0),
		writeUCAC4Record(starB.ra, starB.dec, 11.0),
	)

	cat, err := Open(UCAC4, dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	radius := 12.0 / 60.0 // 12 arcmin, in the package's internal degrees convention.

	ok, stars, err := cat.FindStar(Params{RA: 0.0, Dec: 90.0, Radius: radius})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if !ok {
		t.Fatal("FindStar ok = false; want true")
	}

	if len(stars) != 2 {
		t.Fatalf("len(stars) = %d; want 2 (both near-pole stars)", len(stars))
	}

	seen := map[float64]bool{}
	for _, s := range stars {
		seen[s.RA] = true
	}

	if !seen[starA.ra] || !seen[starB.ra] {
		t.Errorf("stars = %+v; want RA values %v and %v present", stars, starA.ra, starB.ra)
	}
}

/*****************************************************************************************************************/

// TestUCAC4FindStarStraddlesRAZero covers §8's "a cone that straddles RA=0 returns the same set as
// the equivalent unwrapped query": one star just below 360° and one just above 0°, queried from a
// center of exactly 0°, must both be returned even though the naive (non-wrapping) alpha-zone range
// would place them on opposite ends of the zone table.
func TestUCAC4FindStarStraddlesRAZero(t *testing.T) {
	dir := t.TempDir()

	dec := 0.0
	starLow := 359.95  // just west of 0°
	starHigh := 0.05   // just east of 0°
	decZone := zoneForDec(dec)

	alphaLow := alphaZoneForRA(starLow)
	alphaHigh := alphaZoneForRA(starHigh)

	writeUCAC4Index(t, dir, []ucac4Cell{
		{decZone: decZone, alphaZone: alphaLow, offset: 0, count: 1},
		{decZone: decZone, alphaZone: alphaHigh, offset: 1, count: 1},
	})

	writeUCAC4Strip(t, dir, decZone,
		writeUCAC4Record(starLow, dec, 9.0),
		writeUCAC4Record(starHigh, dec, 9.5),
	)

	cat, err := Open(UCAC4, dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	ok, stars, err := cat.FindStar(Params{RA: 0.0, Dec: dec, Radius: 0.2})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if !ok {
		t.Fatal("FindStar ok = false; want true")
	}

	if len(stars) != 2 {
		t.Fatalf("len(stars) = %d; want 2 (both stars straddling RA=0)", len(stars))
	}

	seen := map[float64]bool{}
	for _, s := range stars {
		seen[s.RA] = true
	}

	if !seen[starLow] || !seen[starHigh] {
		t.Errorf("stars = %+v; want RA values %v and %v present", stars, starLow, starHigh)
	}
}

/*****************************************************************************************************************/

// TestUCAC4FindStarFullSphereReturnsTotalRecords covers §8's "Catalog cone with r = 180° returns
// exactly total_records": every record in the catalog, however scattered across zones, must come
// back regardless of where the query is centered.
func TestUCAC4FindStarFullSphereReturnsTotalRecords(t *testing.T) {
	dir := t.TempDir()

	type star struct{ ra, dec, magm float64 }

	stars := []star{
		{10.0, -89.9, 12.0},
		{200.0, -89.8, 11.5},
		{300.0, -89.95, 13.0},
	}

	byZone := map[int][]star{}
	for _, s := range stars {
		z := zoneForDec(s.dec)
		byZone[z] = append(byZone[z], s)
	}

	var cells []ucac4Cell

	for zone, zoneStars := range byZone {
		for i, s := range zoneStars {
			cells = append(cells, ucac4Cell{
				decZone:   zone,
				alphaZone: alphaZoneForRA(s.ra),
				offset:    i,
				count:     1,
			})
		}
	}

	writeUCAC4Index(t, dir, cells)

	for zone, zoneStars := range byZone {
		records := make([][]byte, 0, len(zoneStars))
		for _, s := range zoneStars {
			records = append(records, writeUCAC4Record(s.ra, s.dec, s.magm))
		}

		writeUCAC4Strip(t, dir, zone, records...)
	}

	cat, err := Open(UCAC4, dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	ok, found, err := cat.FindStar(Params{RA: 0.0, Dec: 0.0, Radius: 180.0})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if !ok {
		t.Fatal("FindStar ok = false; want true")
	}

	if len(found) != len(stars) {
		t.Fatalf("len(found) = %d; want %d (total_records)", len(found), len(stars))
	}
}

/*****************************************************************************************************************/

func writeTycho2Record(ra, dec, vtmag, btmag float64) []byte {
	b := make([]byte, tycho2RecordSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:4], uint32(int32(ra*1e6)))
	le.PutUint32(b[4:8], uint32(int32(dec*1e6)))
	le.PutUint16(b[12:14], uint16(int16(btmag*1000)))
	le.PutUint16(b[14:16], uint16(int16(vtmag*1000)))

	return b
}

/*****************************************************************************************************************/

func TestTycho2FindStarWithinCone(t *testing.T) {
	dir := t.TempDir()

	record := writeTycho2Record(20.0, -89.9, 11.0, 12.0)

	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, 1)

	entry := make([]byte, tycho2IndexEntrySize)
	binary.LittleEndian.PutUint64(entry[0:8], uint64(4+tycho2IndexEntrySize))
	binary.LittleEndian.PutUint32(entry[8:12], 1)

	data := append(header, entry...)
	data = append(data, record...)

	path := filepath.Join(dir, "tycho2.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed writing tycho2 file: %v", err)
	}

	cat, err := Open(Tycho2, path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer cat.Close()

	ok, stars, err := cat.FindStar(Params{RA: 20.0, Dec: -89.9, Radius: 0.01})
	if err != nil {
		t.Fatalf("FindStar returned error: %v", err)
	}

	if !ok || len(stars) != 1 {
		t.Fatalf("FindStar ok=%v stars=%d; want ok=true stars=1", ok, len(stars))
	}

	if math.Abs(stars[0].RA-20.0) > 1e-4 {
		t.Errorf("RA = %f; want 20.0", stars[0].RA)
	}
}

/*****************************************************************************************************************/
