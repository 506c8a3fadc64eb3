/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import (
	"testing"
	"time"
)

/*****************************************************************************************************************/

const mjdJ2000 = 51544.5

/*****************************************************************************************************************/

func newPoint(frameNo int, mjdOffsetSeconds, x, y, ra, dec float64) *PvPoint {
	return &PvPoint{
		File:     "frame.fits",
		MidUTC:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(mjdOffsetSeconds) * time.Second),
		MJD:      mjdJ2000 + mjdOffsetSeconds/86400.0,
		FrameNo:  frameNo,
		SourceID: frameNo,
		X:        x,
		Y:        y,
		RA:       ra,
		Dec:      dec,
	}
}

/*****************************************************************************************************************/

func TestClassifyStareWithinSkyDriftBudget(t *testing.T) {
	p1 := newPoint(1, 0, 100, 100, 10.0, 20.0)
	p2 := newPoint(2, 30, 100, 100, 10.0+1.0/3600, 20.0)

	if mode := Classify(p1, p2); mode != ModeStare {
		t.Errorf("Classify() = %v; want Stare", mode)
	}
}

/*****************************************************************************************************************/

func TestClassifyStareWithinPixelGate(t *testing.T) {
	p1 := newPoint(1, 0, 100, 100, 10.0, 20.0)
	p2 := newPoint(2, 1, 101, 101, 10.01, 20.01)

	if mode := Classify(p1, p2); mode != ModeStare {
		t.Errorf("Classify() = %v; want Stare (pixel-coincident)", mode)
	}
}

/*****************************************************************************************************************/

func TestClassifyTransitWhenMovingInBothAxes(t *testing.T) {
	p1 := newPoint(1, 0, 100, 100, 10.0, 20.0)
	p2 := newPoint(2, 30, 110, 110, 10.1, 20.1)

	if mode := Classify(p1, p2); mode != ModeTransit {
		t.Errorf("Classify() = %v; want Transit", mode)
	}
}

/*****************************************************************************************************************/

// TestMovingTargetBecomesTrack exercises a 7-frame sequence with one transiting point and one
// stationary (stellar) point; only the transiting track should survive finalization.
func TestMovingTargetBecomesTrack(t *testing.T) {
	a := New()

	for i := 0; i < 7; i++ {
		a.NewFrame(i + 1)

		tSec := float64(i * 30)

		// stationary star: sky position fixed, well within the stare drift budget.
		a.AddSource(newPoint(i+1, tSec, 500, 500, 50.0, -10.0))

		// transiting target: moves steadily in both pixel and sky position.
		a.AddSource(newPoint(i+1, tSec, 200+float64(i)*20, 200+float64(i)*20, 60.0+float64(i)*0.01, -5.0+float64(i)*0.01))

		a.EndFrame()
	}

	// force a sequence boundary to flush whatever is still open.
	a.NewFrame(1)

	tracks := a.TakeFinalized()

	if len(tracks) != 1 {
		t.Fatalf("finalized track count = %d; want 1", len(tracks))
	}

	if len(tracks[0].Pts) < minTrackLength {
		t.Errorf("finalized track length = %d; want >= %d", len(tracks[0].Pts), minTrackLength)
	}
}

/*****************************************************************************************************************/

func TestSequenceBoundaryFinalizesOpenCandidates(t *testing.T) {
	a := New()

	for i := 0; i < 6; i++ {
		a.NewFrame(10 + i)

		tt := float64(i * 30)
		a.AddSource(newPoint(10+i, tt, 200+float64(i)*20, 200+float64(i)*20, 60.0+float64(i)*0.01, -5.0+float64(i)*0.01))

		a.EndFrame()
	}

	// a decreasing frame number (10,11,...,15 then back to 5) starts a new sequence and flushes.
	a.NewFrame(5)

	tracks := a.TakeFinalized()

	if len(tracks) != 1 {
		t.Fatalf("finalized track count at sequence boundary = %d; want 1", len(tracks))
	}
}

/*****************************************************************************************************************/

func TestNoiseFilterRejectsStationaryCluster(t *testing.T) {
	pts := []*PvPoint{
		newPoint(1, 0, 100, 100, 10.0, 20.0),
		newPoint(2, 30, 100.5, 100.5, 10.0, 20.0),
		newPoint(3, 60, 101, 100.8, 10.0, 20.0),
		newPoint(4, 90, 100.2, 101, 10.0, 20.0),
		newPoint(5, 120, 100.8, 100.5, 10.0, 20.0),
	}

	if !noiseFilter(pts) {
		t.Errorf("noiseFilter() = false; want true for a sub-pixel-span cluster")
	}
}

/*****************************************************************************************************************/

func TestNoiseFilterAcceptsTransitingTrack(t *testing.T) {
	pts := []*PvPoint{
		newPoint(1, 0, 100, 100, 10.0, 20.0),
		newPoint(2, 30, 120, 120, 10.01, 20.01),
		newPoint(3, 60, 140, 140, 10.02, 20.02),
		newPoint(4, 90, 160, 160, 10.03, 20.03),
		newPoint(5, 120, 180, 180, 10.04, 20.04),
	}

	if noiseFilter(pts) {
		t.Errorf("noiseFilter() = true; want false for a clearly-moving track")
	}
}

/*****************************************************************************************************************/

func TestStellarFilterRejectsDiurnalDrift(t *testing.T) {
	pts := []*PvPoint{
		newPoint(1, 0, 100, 100, 10.0, 20.0),
		newPoint(2, 3600, 100, 100, 10.0+0.01/3600, 20.0),
	}

	if !stellarFilter(pts) {
		t.Errorf("stellarFilter() = false; want true (drift within Earth-rotation budget)")
	}
}

/*****************************************************************************************************************/

func TestRollingShutterCorrectionAtRow2048(t *testing.T) {
	got := rollingShutterCorrectionSeconds(2048)
	want := 0.0625 // (125ms/4096)*2048 = 62.5ms

	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("rollingShutterCorrectionSeconds(2048) = %v; want %v", got, want)
	}
}

/*****************************************************************************************************************/
