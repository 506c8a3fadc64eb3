/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package gtw writes moving-target detection reports in the fixed-column GTW format, ported from
// original_source/airs/src/AFindPV.cpp's save_gtw_orbit and its ra_convert/dec_convert/mag_convert
// field encoders.
package gtw

/*****************************************************************************************************************/

import (
	"fmt"
	"io"
	"math"
	"time"
)

/*****************************************************************************************************************/

// Observation is one GTW detection line: a track's position, magnitude, and observation time.
type Observation struct {
	SequenceID string
	RA         float64 // degrees
	Dec        float64 // degrees
	Magnitude  float64
	ObservedAt time.Time
}

/*****************************************************************************************************************/

// Writer emits GTW-format reports: a fixed 10-line header followed by one fixed-width line per
// observation, with a station/sequence identifier (SID) that cycles 1..999.
type Writer struct {
	w   io.Writer
	sid int
}

/*****************************************************************************************************************/

// NewWriter constructs a Writer and emits the 10-line GTW header immediately.
func NewWriter(w io.Writer, station string) (*Writer, error) {
	gw := &Writer{w: w, sid: 1}

	if err := gw.writeHeader(station); err != nil {
		return nil, err
	}

	return gw, nil
}

/*****************************************************************************************************************/

func (g *Writer) writeHeader(station string) error {
	lines := []string{
		"COD " + station,
		"OBS",
		"MEA",
		"TEL",
		"ACK",
		"AC2",
		"NET",
		"NUM",
		"---- generated by the reduction pipeline ----",
		"",
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(g.w, line); err != nil {
			return err
		}
	}

	return nil
}

/*****************************************************************************************************************/

// WriteObservation emits one fixed-width detection line and advances the cycling SID.
func (g *Writer) WriteObservation(obs Observation) error {
	line := fmt.Sprintf(
		"%03d %-12s %s %s %s",
		g.sid,
		obs.SequenceID,
		utcConvert(obs.ObservedAt),
		raConvert(obs.RA),
		decConvert(obs.Dec),
	) + " " + magConvert(obs.Magnitude)

	if _, err := fmt.Fprintln(g.w, line); err != nil {
		return err
	}

	g.sid++
	if g.sid > 999 {
		g.sid = 1
	}

	return nil
}

/*****************************************************************************************************************/

// utcConvert renders the observation instant as "YYYY MM DD.dddddd", per utc_convert_1/
// utc_convert_2 in the original.
func utcConvert(t time.Time) string {
	u := t.UTC()

	fractionalDay := float64(u.Day()) + (float64(u.Hour())*3600+float64(u.Minute())*60+
		float64(u.Second())+float64(u.Nanosecond())/1e9)/86400.0

	return fmt.Sprintf("%04d %02d %09.6f", u.Year(), int(u.Month()), fractionalDay)
}

/*****************************************************************************************************************/

// raConvert renders a right ascension in degrees as the packed fixed-width field "DDDMMSSSS":
// 3-digit whole degrees, 2-digit arcminutes, and 4-digit hundredths-of-arcsecond, per ra_convert.
func raConvert(ra float64) string {
	deg := math.Mod(ra, 360)
	if deg < 0 {
		deg += 360
	}

	d := int(deg)
	remMin := (deg - float64(d)) * 60
	m := int(remMin)
	secHundredths := int(math.Round((remMin - float64(m)) * 60 * 100))

	if secHundredths >= 6000 {
		secHundredths -= 6000
		m++
	}

	if m >= 60 {
		m -= 60
		d++
	}

	if d >= 360 {
		d -= 360
	}

	return fmt.Sprintf("%03d%02d%04d", d, m, secHundredths)
}

/*****************************************************************************************************************/

// decConvert renders a declination in degrees as the packed fixed-width field "sDDMMSSS": a sign,
// 2-digit whole degrees, 2-digit arcminutes, and 3-digit tenths-of-arcsecond, per dec_convert.
func decConvert(dec float64) string {
	sign := "+"

	d := dec
	if d < 0 {
		sign = "-"
		d = -d
	}

	deg := int(d)
	remMin := (d - float64(deg)) * 60
	m := int(remMin)
	secTenths := int(math.Round((remMin - float64(m)) * 60 * 10))

	if secTenths >= 600 {
		secTenths -= 600
		m++
	}

	if m >= 60 {
		m -= 60
		deg++
	}

	return fmt.Sprintf("%s%02d%02d%03d", sign, deg, m, secTenths)
}

/*****************************************************************************************************************/

// magConvert renders a magnitude as the packed fixed-width field "sMMM": a sign and 3 digits of
// tenths-of-magnitude, per mag_convert.
func magConvert(mag float64) string {
	sign := "+"

	m := mag
	if m < 0 {
		sign = "-"
		m = -m
	}

	tenths := int(math.Round(m * 10))

	return fmt.Sprintf("%s%03d", sign, tenths)
}

/*****************************************************************************************************************/
