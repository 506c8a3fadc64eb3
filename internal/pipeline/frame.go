/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package pipeline implements the frame-processing state machine of §4.3: a thread-safe FIFO of
// frames advanced through source extraction, plate solving and catalog cross-match by external
// (or in-process fallback) compute stages, ported from original_source/airs/src/DoProcess.{h,cpp},
// AstroDIP.{h,cpp}, AstroMetry.{h,cpp} and PhotoMetry.{h,cpp}.
package pipeline

/*****************************************************************************************************************/

import (
	"sync"
	"time"

	"github.com/airsurvey/reduction/pkg/catalog"
)

/*****************************************************************************************************************/

// State is a frame's position in the extract → solve → match lifecycle, per §3.
type State int

/*****************************************************************************************************************/

const (
	StateInit State = iota
	StateExtracted
	StateSolved
	StateCalibratedOrMatched
	StateFailedExtract
	StateFailedSolve
	StateFailedPhotometry
)

/*****************************************************************************************************************/

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateExtracted:
		return "Extracted"
	case StateSolved:
		return "Solved"
	case StateCalibratedOrMatched:
		return "CalibratedOrMatched"
	case StateFailedExtract:
		return "Failed_Extract"
	case StateFailedSolve:
		return "Failed_Solve"
	case StateFailedPhotometry:
		return "Failed_Photometry"
	default:
		return "Unknown"
	}
}

/*****************************************************************************************************************/

// Terminal reports whether s is one of the Failed_* terminal states.
func (s State) Terminal() bool {
	return s == StateFailedExtract || s == StateFailedSolve || s == StateFailedPhotometry
}

/*****************************************************************************************************************/

// DetectedSource is one per-frame star-like measurement, per §3. Sky position and matched
// catalog star are only valid once the owning Frame reaches StateSolved or later.
type DetectedSource struct {
	ID int

	X float64
	Y float64

	Magnitude float64 // instrument magnitude, normalized to 1s exposure
	FWHM      float64
	Ellipticity float64

	RA  float64 // degrees, J2000; valid from StateSolved onward
	Dec float64

	Matched bool
	Catalog catalog.ReferenceStar
}

/*****************************************************************************************************************/

// Pointing identifies the group/unit/camera a frame belongs to, used by the associator to detect
// sequence boundaries (a drop in FrameNo).
type Pointing struct {
	GID     string
	UID     string
	CID     string
	FrameNo int
}

/*****************************************************************************************************************/

// Frame is one input FITS file moving through the pipeline. It is created on arrival, mutated
// only by the frame processor, and destroyed once the associator has consumed it (or immediately
// on terminal failure), per §3's lifecycle invariant.
type Frame struct {
	mu sync.Mutex

	FilePath string
	Width    int
	Height   int

	ExposureStart time.Time
	ExposureMid   time.Time
	ExposureSecs  float64

	State State

	Pointing Pointing

	Sources []DetectedSource

	// FWHM is the median FWHM over the sources §4.3's extraction stage selects as representative.
	FWHM float64

	// ZeroPointA and ZeroPointB are the fitted mag_image = a + b·mag_catalog coefficients from the
	// match stage's magnitude calibration, valid once State reaches StateCalibratedOrMatched and at
	// least two sources matched the reference catalog.
	ZeroPointA float64
	ZeroPointB float64

	// Err carries the cause of a terminal failure, if any.
	Err error
}

/*****************************************************************************************************************/

// NewFrame returns a Frame in StateInit for the given path and pointing identifiers.
func NewFrame(filePath string, pointing Pointing) *Frame {
	return &Frame{
		FilePath: filePath,
		Pointing: pointing,
		State:    StateInit,
	}
}

/*****************************************************************************************************************/

// setState advances the frame's state token under its own lock. Transitions are monotone except
// that any stage's failure moves directly to the matching terminal Failed_* state.
func (f *Frame) setState(s State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.State = s
}

/*****************************************************************************************************************/

// CurrentState returns the frame's state token.
func (f *Frame) CurrentState() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.State
}

/*****************************************************************************************************************/

// fail transitions the frame directly to the terminal state matching the failing stage and
// records the cause.
func (f *Frame) fail(terminal State, cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.State = terminal
	f.Err = cause
}

/*****************************************************************************************************************/
