/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/airsurvey/reduction/internal/gtw"
)

/*****************************************************************************************************************/

// Emitter persists finalized tracks as an .obj file, a .txt file, and a GTW report under
// <outputRoot>/<yyyymmdd>/, named per the pipeline's output convention. It holds the GTW
// file-sequence counter that appears in each report's filename, cycling 1..999 across tracks
// exactly as the per-line SID does within a report.
type Emitter struct {
	outputRoot string
	station    string
	fileSeq    int
}

/*****************************************************************************************************************/

// NewEmitter returns an Emitter rooted at outputRoot, identifying itself to GTW consumers as
// station.
func NewEmitter(outputRoot, station string) *Emitter {
	return &Emitter{outputRoot: outputRoot, station: station, fileSeq: 1}
}

/*****************************************************************************************************************/

// Emit writes the three persisted-output files for a finalized track. A file-write error is
// returned to the caller, who is expected to log it and continue: association is best-effort and
// one track's I/O failure must not abort the pipeline.
func (e *Emitter) Emit(track *Track) error {
	if len(track.Pts) == 0 {
		return nil
	}

	yyyymmdd := track.Pts[0].MidUTC.UTC().Format("20060102")
	dir := filepath.Join(e.outputRoot, yyyymmdd)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("associator: create output directory %s: %w", dir, err)
	}

	if err := e.writeObj(track, dir, yyyymmdd); err != nil {
		return err
	}

	if err := e.writeTxt(track, dir, yyyymmdd); err != nil {
		return err
	}

	if err := e.writeGTW(track, dir, yyyymmdd); err != nil {
		return err
	}

	e.fileSeq++
	if e.fileSeq > 999 {
		e.fileSeq = 1
	}

	return nil
}

/*****************************************************************************************************************/

func (e *Emitter) writeObj(track *Track, dir, yyyymmdd string) error {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.obj", yyyymmdd, track.ID))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("associator: create obj file: %w", err)
	}
	defer f.Close()

	for _, p := range track.Pts {
		if _, err := fmt.Fprintf(f, "%s %s %d\n", track.ID, p.File, p.SourceID); err != nil {
			return fmt.Errorf("associator: write obj line: %w", err)
		}
	}

	return nil
}

/*****************************************************************************************************************/

func (e *Emitter) writeTxt(track *Track, dir, yyyymmdd string) error {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", yyyymmdd, track.ID))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("associator: create txt file: %w", err)
	}
	defer f.Close()

	for _, p := range track.Pts {
		u := p.MidUTC.UTC()

		mag := p.Magnitude
		if mag > 20 {
			mag = 99.99
		}

		_, err := fmt.Fprintf(
			f,
			"%s %04d %02d %02d %02d %02d %06.3f %d %.6f %.6f %.2f %.3f %.3f\n",
			p.File,
			u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute(),
			float64(u.Second())+float64(u.Nanosecond())/1e9,
			p.FrameNo,
			p.RA, p.Dec,
			mag,
			p.X, p.Y,
		)
		if err != nil {
			return fmt.Errorf("associator: write txt line: %w", err)
		}
	}

	return nil
}

/*****************************************************************************************************************/

func (e *Emitter) writeGTW(track *Track, dir, yyyymmdd string) error {
	tstart := track.Pts[0].MidUTC.UTC().Format("150405")

	path := filepath.Join(dir, fmt.Sprintf("%s_%s_990%03d_1690.GTW", yyyymmdd, tstart, e.fileSeq))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("associator: create GTW file: %w", err)
	}
	defer f.Close()

	w, err := gtw.NewWriter(f, e.station)
	if err != nil {
		return fmt.Errorf("associator: write GTW header: %w", err)
	}

	for _, p := range track.Pts {
		obs := gtw.Observation{
			SequenceID: track.ID,
			RA:         p.RA,
			Dec:        p.Dec,
			Magnitude:  p.Magnitude,
			ObservedAt: p.MidUTC,
		}

		if err := w.WriteObservation(obs); err != nil {
			return fmt.Errorf("associator: write GTW observation: %w", err)
		}
	}

	return nil
}

/*****************************************************************************************************************/
