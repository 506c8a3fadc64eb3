/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package gtw

/*****************************************************************************************************************/

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

/*****************************************************************************************************************/

func TestNewWriterEmitsTenLineHeader(t *testing.T) {
	var buf bytes.Buffer

	if _, err := NewWriter(&buf, "T05"); err != nil {
		t.Fatalf("NewWriter returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	if len(lines) != 10 {
		t.Fatalf("header line count = %d; want 10", len(lines))
	}

	if lines[0] != "COD T05" {
		t.Errorf("first header line = %q; want \"COD T05\"", lines[0])
	}
}

/*****************************************************************************************************************/

func TestWriteObservationCyclesSID(t *testing.T) {
	var buf bytes.Buffer

	w, err := NewWriter(&buf, "T05")
	if err != nil {
		t.Fatalf("NewWriter returned error: %v", err)
	}

	obs := Observation{
		SequenceID: "TRK0001",
		RA:         180.5,
		Dec:        -12.25,
		Magnitude:  19.4,
		ObservedAt: time.Date(2026, 3, 1, 6, 30, 0, 0, time.UTC),
	}

	if w.sid != 1 {
		t.Fatalf("initial sid = %d; want 1", w.sid)
	}

	for i := 0; i < 999; i++ {
		if err := w.WriteObservation(obs); err != nil {
			t.Fatalf("WriteObservation returned error: %v", err)
		}
	}

	if w.sid != 1 {
		t.Errorf("sid after 999 observations = %d; want 1 (wrapped)", w.sid)
	}
}

/*****************************************************************************************************************/

func TestRaConvertWrapsHours(t *testing.T) {
	if got := raConvert(0); got != "000000000" {
		t.Errorf("raConvert(0) = %q; want %q", got, "000000000")
	}

	if got := raConvert(360); got != "000000000" {
		t.Errorf("raConvert(360) = %q; want %q", got, "000000000")
	}

	if got := raConvert(180.5); len(got) != 9 {
		t.Errorf("raConvert(180.5) = %q; want length 9 (DDDMMSSSS)", got)
	}
}

/*****************************************************************************************************************/

func TestDecConvertSign(t *testing.T) {
	if got := decConvert(-45.5); got[0] != '-' {
		t.Errorf("decConvert(-45.5) = %q; want to start with '-'", got)
	}

	if got := decConvert(45.5); got[0] != '+' {
		t.Errorf("decConvert(45.5) = %q; want to start with '+'", got)
	}

	if got := decConvert(45.5); len(got) != 8 {
		t.Errorf("decConvert(45.5) = %q; want length 8 (sDDMMSSS)", got)
	}
}

/*****************************************************************************************************************/
