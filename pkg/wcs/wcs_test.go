/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package wcs

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/airsurvey/reduction/pkg/transform"
)

/*****************************************************************************************************************/

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

/*****************************************************************************************************************/

func newLinearModel(refPixX, refPixY, refRA, refDec, scaleArcsecPerPix, rotationDeg float64) *TnxModel {
	theta := rotationDeg * Deg2Rad
	scale := scaleArcsecPerPix * Arcsec2Rad

	cd := [2][2]float64{
		{scale * math.Cos(theta), scale * math.Sin(theta)},
		{-scale * math.Sin(theta), scale * math.Cos(theta)},
	}

	cdInv, err := invert2x2(cd)
	if err != nil {
		panic(err)
	}

	return &TnxModel{
		RefPixX: refPixX,
		RefPixY: refPixY,
		RefRA:   refRA * Deg2Rad,
		RefDec:  refDec * Deg2Rad,
		CD:      cd,
		CDInv:   cdInv,
	}
}

/*****************************************************************************************************************/

func TestImageToSkyAtReferencePixel(t *testing.T) {
	model := newLinearModel(512, 512, 180, 0, 8.4, 30)

	coord := model.ImageToSky(512, 512)

	if !almostEqual(coord.RA, 180, 1e-9) {
		t.Errorf("RA at reference pixel = %f; want 180", coord.RA)
	}

	if !almostEqual(coord.Dec, 0, 1e-9) {
		t.Errorf("Dec at reference pixel = %f; want 0", coord.Dec)
	}
}

/*****************************************************************************************************************/

func TestSkyToImageRoundTrip(t *testing.T) {
	model := newLinearModel(512, 512, 180, 0, 8.4, 30)

	wantX, wantY := 612.0, 440.0

	coord := model.ImageToSky(wantX, wantY)

	gotX, gotY, err := model.SkyToImage(coord.RA, coord.Dec)
	if err != nil {
		t.Fatalf("SkyToImage returned error: %v", err)
	}

	if !almostEqual(gotX, wantX, 1e-3) {
		t.Errorf("round-tripped X = %f; want %f", gotX, wantX)
	}

	if !almostEqual(gotY, wantY, 1e-3) {
		t.Errorf("round-tripped Y = %f; want %f", gotY, wantY)
	}
}

/*****************************************************************************************************************/

func TestResidualSurfacePolyValZeroWhenNoCoefficients(t *testing.T) {
	surface := ResidualSurface{Basis: transform.BasisPower, XOrder: 2, YOrder: 2}

	if v := surface.PolyVal(10, -10); v != 0 {
		t.Errorf("PolyVal with no coefficients = %f; want 0", v)
	}
}

/*****************************************************************************************************************/

// gridSamples builds the 5x5 grid of matched samples against the scenario's own model, so a fit
// against them should recover that exact model.
func gridSamples(model *TnxModel) []Sample {
	samples := make([]Sample, 0, 25)

	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			x := 112.0 + float64(i)*200
			y := 112.0 + float64(j)*200

			coord := model.ImageToSky(x, y)

			samples = append(samples, Sample{X: x, Y: y, RA: coord.RA, Dec: coord.Dec})
		}
	}

	return samples
}

/*****************************************************************************************************************/

func TestFitTNXRecoversNoDistortionModel(t *testing.T) {
	truth := newLinearModel(512, 512, 180, 0, 8.4, 30)

	samples := gridSamples(truth)

	model, err := FitTNX(samples, FitParams{
		Basis:    transform.BasisPower,
		Cross:    transform.CrossTermNone,
		XOrder:   1,
		YOrder:   1,
		RefPixX:  512,
		RefPixY:  512,
		HasRefPx: true,
	})
	if err != nil {
		t.Fatalf("FitTNX returned error: %v", err)
	}

	if !almostEqual(model.Scale, 8.4, 1e-3) {
		t.Errorf("fitted scale = %f; want 8.4", model.Scale)
	}

	rotation := model.Rotation
	if rotation < 0 {
		rotation += 360
	}

	if !almostEqual(rotation, 30, 1e-2) {
		t.Errorf("fitted rotation = %f; want 30", rotation)
	}

	if model.ErrFit >= 0.05 {
		t.Errorf("errfit = %f arcsec; want < 0.05", model.ErrFit)
	}
}

/*****************************************************************************************************************/

func TestFitTNXRejectsColinearSamples(t *testing.T) {
	samples := []Sample{
		{X: 100, Y: 100, RA: 180.0, Dec: 0.0},
		{X: 200, Y: 100, RA: 180.1, Dec: 0.0},
		{X: 300, Y: 100, RA: 180.2, Dec: 0.0},
	}

	_, err := FitTNX(samples, FitParams{
		Basis:  transform.BasisPower,
		Cross:  transform.CrossTermNone,
		XOrder: 1,
		YOrder: 1,
	})

	if err == nil {
		t.Fatal("expected an error fitting colinear samples, got nil")
	}
}

/*****************************************************************************************************************/

func TestFitTNXInsufficientSamples(t *testing.T) {
	samples := []Sample{
		{X: 100, Y: 100, RA: 180.0, Dec: 0.0},
	}

	_, err := FitTNX(samples, FitParams{
		Basis:  transform.BasisPower,
		Cross:  transform.CrossTermFull,
		XOrder: 2,
		YOrder: 2,
	})

	if err != ErrInsufficientSamples {
		t.Errorf("err = %v; want ErrInsufficientSamples", err)
	}
}

/*****************************************************************************************************************/
