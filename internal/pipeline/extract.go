/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/observerly/iris/pkg/fits"
	"github.com/observerly/iris/pkg/photometry"
	stats "github.com/observerly/iris/pkg/statistics"
)

/*****************************************************************************************************************/

// watcherPollInterval is how often the extraction watcher polls the subprocess output file's
// size, per §4.3.
const watcherPollInterval = 100 * time.Millisecond

/*****************************************************************************************************************/

// watcherStableSamples is the number of consecutive stable-size samples the watcher requires
// before declaring the extractor subprocess complete.
const watcherStableSamples = 5

/*****************************************************************************************************************/

// extractCentralFraction is the central-quarter window (of width/height) sources must lie in to
// contribute to the frame FWHM statistic, per §4.3.
const extractCentralFraction = 0.25

/*****************************************************************************************************************/

const (
	fwhmAreaThreshold = 10
	fwhmEllipMax      = 0.1
)

/*****************************************************************************************************************/

// readFITSHeader opens path and reads NAXIS1/NAXIS2/DATE-OBS/TIME-OBS/EXPTIME, per §4.3's
// "Stage: source extraction" opening step.
func readFITSHeader(path string) (width, height int, start time.Time, expSecs float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, time.Time{}, 0, wrap(KindIoError, path, err)
	}
	defer f.Close()

	img := fits.NewFITSImage(2, 0, 0, 65535)

	if err := img.Read(f); err != nil {
		return 0, 0, time.Time{}, 0, wrap(KindIoError, path, fmt.Errorf("read FITS header: %w", err))
	}

	width = int(img.Header.Naxis1)
	height = int(img.Header.Naxis2)

	dateObs, hasDate := img.Header.Strings["DATE-OBS"]
	if !hasDate {
		return 0, 0, time.Time{}, 0, wrap(KindParseError, path, fmt.Errorf("missing DATE-OBS header"))
	}

	dateStr := dateObs.Value
	if !strings.Contains(dateStr, "T") {
		if timeObs, ok := img.Header.Strings["TIME-OBS"]; ok {
			dateStr = dateStr + "T" + timeObs.Value
		}
	}

	start, parseErr := time.Parse(time.RFC3339Nano, dateStr)
	if parseErr != nil {
		start, parseErr = time.Parse("2006-01-02T15:04:05.999999999", dateStr)
	}
	if parseErr != nil {
		return 0, 0, time.Time{}, 0, wrap(KindParseError, path, fmt.Errorf("parse DATE-OBS %q: %w", dateStr, parseErr))
	}

	exptime, hasExp := img.Header.Floats["EXPTIME"]
	if !hasExp {
		return 0, 0, time.Time{}, 0, wrap(KindParseError, path, fmt.Errorf("missing EXPTIME header"))
	}

	return width, height, start.UTC(), float64(exptime.Value), nil
}

/*****************************************************************************************************************/

// extractionOutputPath returns the scratch-directory catalog path the extractor subprocess writes
// to, per §4.3's "catalog-output path under a working directory."
func extractionOutputPath(workDir, framePath string) string {
	name := filepath.Base(framePath)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".cat"

	return filepath.Join(workDir, name)
}

/*****************************************************************************************************************/

// runExtractorSubprocess spawns the external extractor (§6) and watches its output file for
// completion by polling file size, declaring completion once the size is stable for
// watcherStableSamples consecutive 100ms samples.
func runExtractorSubprocess(ctx *Context, frame *Frame, outputPath string) error {
	cmd := exec.Command(ctx.Config.Reduction.PathExe, frame.FilePath,
		"-c", ctx.Config.Reduction.PathConfig,
		"-CATALOG_NAME", outputPath,
	)

	if err := cmd.Start(); err != nil {
		return wrap(KindExtractorFailed, frame.FilePath, fmt.Errorf("start extractor: %w", err))
	}

	go func() {
		_ = cmd.Wait()
	}()

	var lastSize int64
	stable := 0

	for stable < watcherStableSamples {
		time.Sleep(watcherPollInterval)

		info, err := os.Stat(outputPath)
		if err != nil {
			stable = 0
			continue
		}

		if info.Size() > 0 && info.Size() == lastSize {
			stable++
		} else {
			stable = 0
		}

		lastSize = info.Size()
	}

	return nil
}

/*****************************************************************************************************************/

// parseExtractorCatalog parses the extractor's text catalog: lines starting with # are comments;
// data lines carry isoarea, x, y, flux, fwhm, ellipticity in that order, per §6.
func parseExtractorCatalog(path string, expSecs float64) ([]DetectedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(KindIoError, path, err)
	}
	defer f.Close()

	var sources []DetectedSource

	scanner := bufio.NewScanner(f)
	id := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}

		flux, errFlux := strconv.ParseFloat(fields[3], 64)
		if errFlux != nil || flux < 1.0 {
			continue
		}

		x, _ := strconv.ParseFloat(fields[1], 64)
		y, _ := strconv.ParseFloat(fields[2], 64)
		fwhm, _ := strconv.ParseFloat(fields[4], 64)
		ellip, _ := strconv.ParseFloat(fields[5], 64)

		sources = append(sources, DetectedSource{
			ID:          id,
			X:           x,
			Y:           y,
			Magnitude:   25.0 - 2.5*math.Log10(flux/expSecs),
			FWHM:        fwhm,
			Ellipticity: ellip,
		})

		id++
	}

	if err := scanner.Err(); err != nil {
		return nil, wrap(KindParseError, path, err)
	}

	return sources, nil
}

/*****************************************************************************************************************/

// extractInProcess runs github.com/observerly/iris's star extractor directly on the frame's image
// data, as the in-process fallback backend selected by ExtractionInProcess, per §2B/§4.3.
func extractInProcess(path string, width, height int) ([]DetectedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(KindIoError, path, err)
	}
	defer f.Close()

	img := fits.NewFITSImage(2, 0, 0, 65535)

	if err := img.Read(f); err != nil {
		return nil, wrap(KindIoError, path, fmt.Errorf("read FITS image: %w", err))
	}

	d := img.Data

	s := stats.NewStats(d, img.ADU, width)

	location, scale := s.FastApproxSigmaClippedMedianAndQn()

	sexp := photometry.NewStarsExtractor(d, width, height, 16, img.ADU)
	sexp.Threshold = location + scale*8

	stars := sexp.GetBrightPixels()

	sort.Slice(stars, func(i, j int) bool {
		return stars[i].Intensity > stars[j].Intensity
	})

	sources := make([]DetectedSource, len(stars))

	for i, star := range stars {
		sources[i] = DetectedSource{
			ID:        i,
			X:         float64(star.X),
			Y:         float64(star.Y),
			Magnitude: 25.0 - 2.5*math.Log10(float64(star.Intensity)),
		}
	}

	return sources, nil
}

/*****************************************************************************************************************/

// frameFWHM computes the median FWHM over sources with ellipticity below 0.1 lying in the central
// quarter of the frame. Sources are not filtered by area: DetectedSource does not carry the
// extractor's isoarea, and fwhmAreaThreshold is not applied.
func frameFWHM(sources []DetectedSource, width, height int) float64 {
	x1 := float64(width-width/4) / 2
	x2 := x1 + float64(width)/4
	y1 := float64(height-height/4) / 2
	y2 := y1 + float64(height)/4

	var values []float64

	for _, s := range sources {
		if s.Ellipticity >= fwhmEllipMax {
			continue
		}

		if s.X <= x1 || s.X >= x2 || s.Y <= y1 || s.Y >= y2 {
			continue
		}

		values = append(values, s.FWHM)
	}

	if len(values) == 0 {
		return 0
	}

	sort.Float64s(values)

	return values[len(values)/2]
}

/*****************************************************************************************************************/

// RunExtraction performs the source-extraction stage of §4.3 for frame, mutating it in place:
// populates Width/Height/ExposureStart/ExposureMid/ExposureSecs/Sources/FWHM on success, or
// transitions it to StateFailedExtract on failure.
func RunExtraction(ctx *Context, frame *Frame) error {
	width, height, start, expSecs, err := readFITSHeader(frame.FilePath)
	if err != nil {
		frame.fail(StateFailedExtract, err)
		return err
	}

	frame.Width = width
	frame.Height = height
	frame.ExposureStart = start
	frame.ExposureSecs = expSecs
	frame.ExposureMid = start.Add(time.Duration(expSecs/2*float64(time.Second)))

	var sources []DetectedSource

	switch ctx.ExtractionBackend {
	case ExtractionInProcess:
		sources, err = extractInProcess(frame.FilePath, width, height)
	default:
		outputPath := extractionOutputPath(ctx.WorkDir, frame.FilePath)

		if err = runExtractorSubprocess(ctx, frame, outputPath); err == nil {
			sources, err = parseExtractorCatalog(outputPath, expSecs)
		}
	}

	if err != nil {
		frame.fail(StateFailedExtract, err)
		return err
	}

	frame.Sources = sources
	frame.FWHM = frameFWHM(sources, width, height)
	frame.setState(StateExtracted)

	return nil
}

/*****************************************************************************************************************/
