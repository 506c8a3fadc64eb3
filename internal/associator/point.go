/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package associator implements the per-pointing moving-target tracker: a streaming multi-
// hypothesis Candidate/Track state machine that classifies consecutive detections as stare or
// transit motion, extends open candidates with predicted positions, and finalizes tracks that
// exceed a length threshold, filtering noise and mis-identified stars. Ported from
// original_source/airs/src/AFindPV.{h,cpp}.
package associator

/*****************************************************************************************************************/

import "time"

/*****************************************************************************************************************/

// PvPoint is one measurement intended to be chained into a track.
type PvPoint struct {
	File     string
	MidUTC   time.Time
	MJD      float64
	FrameNo  int
	SourceID int

	X float64
	Y float64

	RA  float64 // degrees, apparent (annual-aberration corrected)
	Dec float64 // degrees, apparent

	Magnitude float64

	// Matched reports whether this detection was cross-matched to a reference catalog star; the
	// create-candidate seed filter uses it to reject asterisms seeded entirely on noise.
	Matched bool

	// Related counts how many candidates currently hold this point in their confirmed pts list.
	Related int
}

/*****************************************************************************************************************/

// Mode is a candidate's motion classification.
type Mode int

/*****************************************************************************************************************/

const (
	ModeInit Mode = iota
	ModeStare
	ModeTransit
)

/*****************************************************************************************************************/

func (m Mode) String() string {
	switch m {
	case ModeStare:
		return "stare"
	case ModeTransit:
		return "transit"
	default:
		return "init"
	}
}

/*****************************************************************************************************************/

// Candidate is an open track hypothesis.
type Candidate struct {
	Pts  []*PvPoint // confirmed points, strictly increasing in FrameNo
	Frmu []*PvPoint // unconfirmed points added during the current frame

	Mode Mode

	// VX, VY are the Transit-mode predicted pixel velocity, in pixels/day.
	VX float64
	VY float64
}

/*****************************************************************************************************************/

// Last returns the candidate's most recently confirmed point.
func (c *Candidate) Last() *PvPoint {
	if len(c.Pts) == 0 {
		return nil
	}

	return c.Pts[len(c.Pts)-1]
}

/*****************************************************************************************************************/

// predict returns the candidate's predicted pixel position at time t (MJD), given its current
// mode: stationary for Stare, extrapolated along (VX, VY) for Transit.
func (c *Candidate) predict(mjd float64) (x, y float64) {
	last := c.Last()
	if last == nil {
		return 0, 0
	}

	if c.Mode != ModeTransit {
		return last.X, last.Y
	}

	dt := mjd - last.MJD

	return last.X + c.VX*dt, last.Y + c.VY*dt
}

/*****************************************************************************************************************/

// Track is a finalized candidate with at least 5 points.
type Track struct {
	ID  string
	Pts []*PvPoint
}

/*****************************************************************************************************************/
