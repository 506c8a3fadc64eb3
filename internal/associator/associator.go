/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import (
	"math"

	"github.com/airsurvey/reduction/internal/timeutil"
)

/*****************************************************************************************************************/

// frameData is one frame's worth of as-yet-unrelated points awaiting candidate creation.
type frameData struct {
	frameNo int
	pts     []*PvPoint
}

/*****************************************************************************************************************/

// recheckHorizon is the maximum number of frames a candidate may go without a new confirmed point
// before it is closed (finalized or discarded).
const recheckHorizon = 5

/*****************************************************************************************************************/

// minTrackLength is the minimum confirmed-point count for a candidate to become a Track.
const minTrackLength = 5

/*****************************************************************************************************************/

// createPairPixelGate bounds the pixel distance, in both axes, within which an unrelated
// previous-frame point and an unrelated current-frame point may seed a new candidate.
const createPairPixelGate = 100.0

/*****************************************************************************************************************/

// Associator is the per-pointing moving-target tracker. It is not safe for concurrent use; the
// frame processor's associator dispatch thread owns it exclusively.
type Associator struct {
	prevFrame *frameData
	curFrame  *frameData

	candidates []*Candidate

	// finalized accumulates tracks since the last call to TakeFinalized.
	finalized []*Track
}

/*****************************************************************************************************************/

// New returns an empty Associator, ready for its first frame.
func New() *Associator {
	return &Associator{}
}

/*****************************************************************************************************************/

// NewFrame begins a new frame with the given frame number. A drop in frame number relative to the
// previous frame starts a new sequence: all open candidates are finalized or discarded and the
// candidate list is cleared.
func (a *Associator) NewFrame(frameNo int) {
	if a.curFrame != nil && frameNo < a.curFrame.frameNo {
		a.finalizeAll()
		a.candidates = nil
		a.prevFrame = nil
		a.curFrame = nil
	}

	a.prevFrame = a.curFrame
	a.curFrame = &frameData{frameNo: frameNo}
}

/*****************************************************************************************************************/

// AddSource corrects a detected source's mean (J2000) sky position for annual aberration and adds
// it to the current frame's pending points.
func (a *Associator) AddSource(p *PvPoint) {
	jd := p.MJD + 2400000.5

	deltaRA, deltaDec := timeutil.AnnualAberration(jd, p.RA*math.Pi/180, p.Dec*math.Pi/180)

	p.RA += deltaRA * 180 / math.Pi
	p.Dec += deltaDec * 180 / math.Pi

	a.curFrame.pts = append(a.curFrame.pts, p)
}

/*****************************************************************************************************************/

// EndFrame runs the recheck/append/update/create sequence of §4.4 for the current frame.
func (a *Associator) EndFrame() {
	a.recheck()
	a.appendCandidates()
	a.update()
	a.create()
}

/*****************************************************************************************************************/

// TakeFinalized returns and clears the tracks finalized since the last call.
func (a *Associator) TakeFinalized() []*Track {
	out := a.finalized
	a.finalized = nil
	return out
}

/*****************************************************************************************************************/

// recheck closes any candidate that has gone more than recheckHorizon frames without a new
// confirmed point.
func (a *Associator) recheck() {
	kept := a.candidates[:0]

	for _, c := range a.candidates {
		last := c.Last()
		if last == nil {
			continue
		}

		if a.curFrame.frameNo-last.FrameNo > recheckHorizon {
			a.closeCandidate(c)
			continue
		}

		kept = append(kept, c)
	}

	a.candidates = kept
}

/*****************************************************************************************************************/

// closeCandidate finalizes a candidate into a Track if long enough, otherwise discards it,
// releasing every confirmed point's related count.
func (a *Associator) closeCandidate(c *Candidate) {
	if len(c.Pts) >= minTrackLength {
		if track, ok := finalizeTrack(c); ok {
			a.finalized = append(a.finalized, track)
		}
	}

	for _, p := range c.Pts {
		p.Related--
	}
}

/*****************************************************************************************************************/

func (a *Associator) finalizeAll() {
	for _, c := range a.candidates {
		a.closeCandidate(c)
	}
}

/*****************************************************************************************************************/

// appendCandidates attempts to add every pending current-frame point to every open candidate.
func (a *Associator) appendCandidates() {
	for _, c := range a.candidates {
		for _, p := range a.curFrame.pts {
			if mode, ok := addPoint(c, p); ok {
				c.Frmu = append(c.Frmu, p)
				p.Related++
				_ = mode
			}
		}
	}
}

/*****************************************************************************************************************/

// addPoint implements §4.4's "Add point": classify against the candidate's last confirmed point,
// reject on mode mismatch, and for Transit mode reject points outside the 2px prediction gate.
func addPoint(c *Candidate, p *PvPoint) (Mode, bool) {
	last := c.Last()
	if last == nil || len(c.Pts) < 2 {
		return ModeInit, false
	}

	mode := Classify(last, p)
	if mode != c.Mode {
		return mode, false
	}

	if mode == ModeTransit {
		px, py := c.predict(p.MJD)

		if math.Abs(px-p.X) > pixelGateTolerance || math.Abs(py-p.Y) > pixelGateTolerance {
			return mode, false
		}
	}

	return mode, true
}

/*****************************************************************************************************************/

// update promotes, for each candidate, the unconfirmed point closest to the predicted position
// into the confirmed list, discarding the rest.
func (a *Associator) update() {
	for _, c := range a.candidates {
		if len(c.Frmu) == 0 {
			continue
		}

		last := c.Last()

		var best *PvPoint
		bestDist := math.Inf(1)

		for _, p := range c.Frmu {
			px, py := c.predict(p.MJD)

			dx := px - p.X
			dy := py - p.Y

			d := dx*dx + dy*dy

			if d < bestDist {
				bestDist = d
				best = p
			}
		}

		for _, p := range c.Frmu {
			if p != best {
				p.Related--
			}
		}

		if best != nil {
			if c.Mode == ModeTransit && last != nil {
				dt := best.MJD - last.MJD
				if dt > 0 {
					c.VX = (best.X - last.X) / dt
					c.VY = (best.Y - last.Y) / dt
				}
			}

			c.Pts = append(c.Pts, best)
		}

		c.Frmu = nil
	}
}

/*****************************************************************************************************************/

// create pairs unrelated points across prev/cur frames within the pixel gate and seeds a new
// candidate per pair, then drops weak two-point seeds that are neither Stare nor matched.
func (a *Associator) create() {
	if a.prevFrame == nil {
		return
	}

	var created []*Candidate

	for _, p1 := range a.prevFrame.pts {
		if p1.Related != 0 {
			continue
		}

		for _, p2 := range a.curFrame.pts {
			if p2.Related != 0 {
				continue
			}

			if math.Abs(p2.X-p1.X) > createPairPixelGate || math.Abs(p2.Y-p1.Y) > createPairPixelGate {
				continue
			}

			mode := Classify(p1, p2)

			c := &Candidate{
				Pts:  []*PvPoint{p1, p2},
				Mode: mode,
			}

			if mode == ModeTransit {
				dt := p2.MJD - p1.MJD
				if dt > 0 {
					c.VX = (p2.X - p1.X) / dt
					c.VY = (p2.Y - p1.Y) / dt
				}
			}

			p1.Related++
			p2.Related++

			created = append(created, c)
		}
	}

	for _, c := range created {
		if c.Mode != ModeStare && len(c.Pts) <= 2 && !c.Pts[1].Matched {
			for _, p := range c.Pts {
				p.Related--
			}

			continue
		}

		a.candidates = append(a.candidates, c)
	}
}

/*****************************************************************************************************************/
