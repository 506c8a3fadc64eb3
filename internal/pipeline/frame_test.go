/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"errors"
	"testing"
)

/*****************************************************************************************************************/

func TestNewFrameStartsInStateInit(t *testing.T) {
	f := NewFrame("frame.fits", Pointing{GID: "g", UID: "u", CID: "c", FrameNo: 1})

	if f.CurrentState() != StateInit {
		t.Errorf("CurrentState() = %v; want StateInit", f.CurrentState())
	}
}

/*****************************************************************************************************************/

func TestFrameSetStateAdvances(t *testing.T) {
	f := NewFrame("frame.fits", Pointing{})

	f.setState(StateExtracted)

	if f.CurrentState() != StateExtracted {
		t.Errorf("CurrentState() = %v; want StateExtracted", f.CurrentState())
	}
}

/*****************************************************************************************************************/

func TestFrameFailRecordsCauseAndTerminalState(t *testing.T) {
	f := NewFrame("frame.fits", Pointing{})

	cause := errors.New("boom")

	f.fail(StateFailedExtract, cause)

	if f.CurrentState() != StateFailedExtract {
		t.Errorf("CurrentState() = %v; want StateFailedExtract", f.CurrentState())
	}

	if !f.CurrentState().Terminal() {
		t.Errorf("Terminal() = false; want true for a Failed_* state")
	}

	if !errors.Is(f.Err, cause) {
		t.Errorf("Err = %v; want %v", f.Err, cause)
	}
}

/*****************************************************************************************************************/

func TestStateTerminalOnlyMatchesFailedStates(t *testing.T) {
	for _, s := range []State{StateInit, StateExtracted, StateSolved, StateCalibratedOrMatched} {
		if s.Terminal() {
			t.Errorf("State(%v).Terminal() = true; want false", s)
		}
	}

	for _, s := range []State{StateFailedExtract, StateFailedSolve, StateFailedPhotometry} {
		if !s.Terminal() {
			t.Errorf("State(%v).Terminal() = false; want true", s)
		}
	}
}

/*****************************************************************************************************************/

func TestWrapReturnsNilForNilCause(t *testing.T) {
	if err := wrap(KindIoError, "frame.fits", nil); err != nil {
		t.Errorf("wrap(..., nil) = %v; want nil", err)
	}
}

/*****************************************************************************************************************/

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")

	err := wrap(KindParseError, "frame.fits", cause)

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrap(...), cause) = false; want true")
	}
}

/*****************************************************************************************************************/
