/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package cli

/*****************************************************************************************************************/

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/airsurvey/reduction/internal/associator"
)

/*****************************************************************************************************************/

var (
	trackConfigPath string
	trackInputDir   string
	trackStation    string
	trackDebugRender bool
	trackRenderDir  string
)

/*****************************************************************************************************************/

var trackCommand = &cobra.Command{
	Use:   "track",
	Short: "track batch-processes a fixed directory of frames and associates moving targets across them",
	Long:  "track batch-processes a fixed directory of frames and associates moving targets across them",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrack()
	},
}

/*****************************************************************************************************************/

func init() {
	// example usage: --config ./reduction.json or -c ./reduction.json
	trackCommand.Flags().StringVarP(&trackConfigPath, "config", "c", "./reduction.json", "The runtime configuration file location")

	// example usage: --input ./frames or -i ./frames
	trackCommand.Flags().StringVarP(&trackInputDir, "input", "i", "", "The directory of FITS frames to batch-process")
	trackCommand.MarkFlagRequired("input")

	// example usage: --station G96 or -s G96
	trackCommand.Flags().StringVarP(&trackStation, "station", "s", "G96", "The GTW station identifier this run reports observations under")

	// example usage: --debug-render
	trackCommand.Flags().BoolVar(&trackDebugRender, "debug-render", false, "Render each finalized track's pixel trajectory to a PNG for visual inspection")

	// example usage: --debug-render-dir ./debug
	trackCommand.Flags().StringVar(&trackRenderDir, "debug-render-dir", "./debug", "Directory finalized-track debug renders are written to")
}

/*****************************************************************************************************************/

func runTrack() error {
	pctx, closeCtx, err := buildContext(trackConfigPath)
	if err != nil {
		return fmt.Errorf("track: %w", err)
	}
	defer closeCtx()

	proc := newProcessorFromConfig(pctx, trackStation)
	closeJournal := attachJournal(proc, pctx.Config, pctx.Log)
	defer closeJournal()

	if trackDebugRender {
		if err := os.MkdirAll(trackRenderDir, 0o755); err != nil {
			return fmt.Errorf("track: create debug render directory: %w", err)
		}

		proc.OnTrack = func(track *associator.Track) {
			if err := renderTrack(track, trackRenderDir); err != nil {
				pctx.Log.Failure("DebugRenderFailed", track.ID, err)
			}
		}
	}

	entries, err := os.ReadDir(trackInputDir)
	if err != nil {
		return fmt.Errorf("track: read input directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() { done <- proc.Run(ctx) }()

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".fits") {
			continue
		}

		proc.Submit(filepath.Join(trackInputDir, entry.Name()), parsePointing(entry.Name()))
	}

	// Drain: track is a one-shot batch run, not a long-lived service, so polling the queue length
	// is simpler than wiring a completion signal through every stage.
	for proc.Len() > 0 {
		time.Sleep(200 * time.Millisecond)
	}

	cancel()

	return <-done
}

/*****************************************************************************************************************/

// renderTrack draws track's pixel-space trajectory as a polyline over a canvas sized to its
// bounding box plus a margin, for visual sanity-checking of the associator's output.
func renderTrack(track *associator.Track, dir string) error {
	if len(track.Pts) < 2 {
		return nil
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, p := range track.Pts {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	const margin = 20.0

	width := int(maxX-minX) + 2*int(margin)
	height := int(maxY-minY) + 2*int(margin)

	if width < 64 {
		width = 64
	}

	if height < 64 {
		height = 64
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.SetLineWidth(2)

	for i, p := range track.Pts {
		x := p.X - minX + margin
		y := p.Y - minY + margin

		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}

	dc.Stroke()

	dc.SetRGB(0.8, 0.1, 0.1)

	for _, p := range track.Pts {
		dc.DrawCircle(p.X-minX+margin, p.Y-minY+margin, 3)
		dc.Fill()
	}

	return dc.SavePNG(filepath.Join(dir, track.ID+".png"))
}

/*****************************************************************************************************************/
