/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package timeutil provides the calendar, sidereal-time, nutation, and annual-aberration
// conversions the astrometry stage needs to turn a frame's recorded UTC into the quantities the
// TNX fit and rolling-shutter correction are expressed in, per original_source/airs1/src/
// ATimeSpace.{h,cpp}.
package timeutil

/*****************************************************************************************************************/

import (
	"errors"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

/*****************************************************************************************************************/

var (
	// ErrInvalidDate is returned by SetUTC when the given date does not exist in the proleptic
	// Gregorian calendar, e.g. 29 February of a non-leap year.
	ErrInvalidDate = errors.New("timeutil: date does not exist in the Gregorian calendar")
)

/*****************************************************************************************************************/

// ModifiedJulianDay converts a UTC civil time to its Modified Julian Date.
func ModifiedJulianDay(t time.Time) float64 {
	u := t.UTC()

	day := float64(u.Day()) + (float64(u.Hour())*3600+float64(u.Minute())*60+
		float64(u.Second())+float64(u.Nanosecond())/1e9)/86400.0

	jd := julian.CalendarGregorianToJD(u.Year(), int(u.Month()), day)

	return jd - 2400000.5
}

/*****************************************************************************************************************/

// SetUTC validates that year/month/day/hour/minute/second describe a real Gregorian calendar UTC
// instant, rejecting e.g. 29 February in a non-leap year, and returns the corresponding time.Time.
func SetUTC(year, month, day, hour, minute int, second float64) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, ErrInvalidDate
	}

	leap := julian.LeapYearGregorian(year)

	daysInMonth := [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	max := daysInMonth[month-1]

	if month == 2 && leap {
		max = 29
	}

	if day < 1 || day > max {
		return time.Time{}, ErrInvalidDate
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second >= 61 {
		return time.Time{}, ErrInvalidDate
	}

	sec := int(second)
	nsec := int((second - float64(sec)) * 1e9)

	return time.Date(year, time.Month(month), day, hour, minute, sec, nsec, time.UTC), nil
}

/*****************************************************************************************************************/
