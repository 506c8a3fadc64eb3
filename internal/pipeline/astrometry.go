/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/observerly/iris/pkg/fits"

	"github.com/airsurvey/reduction/pkg/transform"
	"github.com/airsurvey/reduction/pkg/wcs"
)

/*****************************************************************************************************************/

// wcsOutputPath returns the .wcs sidecar path solve-field writes next to the solved FITS file,
// per §6.
func wcsOutputPath(framePath string) string {
	ext := filepath.Ext(framePath)

	return strings.TrimSuffix(framePath, ext) + ".wcs"
}

/*****************************************************************************************************************/

// runAstrometrySubprocess spawns the external plate-solver (§6) with the configured pixel-scale
// guess range and blocks on its exit, per §4.3: "Waits for the child to exit (no polling)."
func runAstrometrySubprocess(ctx *Context, frame *Frame) error {
	cmd := exec.Command(
		ctx.Config.Astrometry.PathExe,
		"--use-sextractor",
		"-p", "-K", "-J",
		"-L", strconv.FormatFloat(ctx.Config.Astrometry.ScaleLow, 'f', 1, 64),
		"-H", strconv.FormatFloat(ctx.Config.Astrometry.ScaleHigh, 'f', 1, 64),
		"-u", "app",
		frame.FilePath,
	)

	if err := cmd.Run(); err != nil {
		return wrap(KindAstrometryFailed, frame.FilePath, fmt.Errorf("solve-field: %w", err))
	}

	return nil
}

/*****************************************************************************************************************/

// sipToResidualSurface translates a SIP forward-distortion polynomial (pixel-space corrections,
// per the A_i_j/B_i_j convention) into the equivalent TNX power-basis, full-cross-term residual
// surface, expressed in arcseconds, so that pkg/wcs's single ImageToSky projector serves both
// externally solved and internally fit frames, per §4.3/§2B.
func sipToResidualSurface(power map[string]float64, order int, width, height int, scaleArcsecPerPixel float64) wcs.ResidualSurface {
	terms := transform.Terms(transform.CrossTermFull, order, order)

	coef := make([]float64, len(terms))

	for i, term := range terms {
		coef[i] = power[term.Key()] * scaleArcsecPerPixel
	}

	return wcs.ResidualSurface{
		Basis:  transform.BasisPower,
		Cross:  transform.CrossTermFull,
		XOrder: order,
		YOrder: order,
		XMin:   0,
		XMax:   float64(width),
		YMin:   0,
		YMax:   float64(height),
		Coef:   coef,
	}
}

/*****************************************************************************************************************/

// loadWCS reads the .wcs FITS-header sidecar written by the plate solver and builds a TnxModel
// carrying the SIP distortion translated into TNX residual surfaces, per §4.3/§6.
func loadWCS(path string, width, height int) (*wcs.TnxModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap(KindAstrometryFailed, path, fmt.Errorf("open wcs sidecar: %w", err))
	}
	defer f.Close()

	img := fits.NewFITSImage(2, 0, 0, 65535)

	if err := img.Read(f); err != nil {
		return nil, wrap(KindParseError, path, fmt.Errorf("read wcs sidecar: %w", err))
	}

	get := func(key string) float64 {
		v, ok := img.Header.Floats[key]
		if !ok {
			return 0
		}

		return float64(v.Value)
	}

	crpix1, crpix2 := get("CRPIX1"), get("CRPIX2")
	crval1, crval2 := get("CRVAL1"), get("CRVAL2")

	cd := [2][2]float64{
		{get("CD1_1"), get("CD1_2")},
		{get("CD2_1"), get("CD2_2")},
	}

	det := cd[0][0]*cd[1][1] - cd[0][1]*cd[1][0]
	if det == 0 {
		return nil, wrap(KindModelFitFailed, path, fmt.Errorf("singular CD matrix"))
	}

	cdInv := [2][2]float64{
		{cd[1][1] / det, -cd[0][1] / det},
		{-cd[1][0] / det, cd[0][0] / det},
	}

	scale := 3600 * math.Sqrt(math.Abs(det))

	aOrder := int(get("A_ORDER"))
	bOrder := int(get("B_ORDER"))

	aPower := map[string]float64{}
	bPower := map[string]float64{}

	for key, v := range img.Header.Floats {
		switch {
		case strings.HasPrefix(key, "A_") && key != "A_ORDER":
			aPower[strings.TrimPrefix(key, "A_")] = float64(v.Value)
		case strings.HasPrefix(key, "B_") && key != "B_ORDER":
			bPower[strings.TrimPrefix(key, "B_")] = float64(v.Value)
		}
	}

	model := &wcs.TnxModel{
		RefPixX: crpix1,
		RefPixY: crpix2,
		RefRA:   crval1 * wcs.Deg2Rad,
		RefDec:  crval2 * wcs.Deg2Rad,
		CD:      cd,
		CDInv:   cdInv,
		Scale:   scale,
		Res: [2]wcs.ResidualSurface{
			sipToResidualSurface(aPower, aOrder, width, height, scale),
			sipToResidualSurface(bPower, bOrder, width, height, scale),
		},
	}

	model.Rotation = math.Atan2(cd[0][1], cd[0][0]) * wcs.Rad2Deg

	return model, nil
}

/*****************************************************************************************************************/

// RunAstrometry performs the plate-solving stage of §4.3: spawns the external solver, blocks on
// its exit, loads the resulting WCS, and projects every DetectedSource's pixel centroid to a sky
// position.
func RunAstrometry(ctx *Context, frame *Frame) error {
	if !ctx.Config.Astrometry.Enable {
		frame.setState(StateSolved)
		return nil
	}

	if err := runAstrometrySubprocess(ctx, frame); err != nil {
		frame.fail(StateFailedSolve, err)
		return err
	}

	model, err := loadWCS(wcsOutputPath(frame.FilePath), frame.Width, frame.Height)
	if err != nil {
		frame.fail(StateFailedSolve, err)
		return err
	}

	for i := range frame.Sources {
		eq := model.ImageToSky(frame.Sources[i].X, frame.Sources[i].Y)
		frame.Sources[i].RA = eq.RA
		frame.Sources[i].Dec = eq.Dec
	}

	frame.setState(StateSolved)

	return nil
}

/*****************************************************************************************************************/
