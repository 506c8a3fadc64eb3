/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package wcs

/*****************************************************************************************************************/

import (
	"math"

	"github.com/airsurvey/reduction/pkg/geometry"
	"github.com/airsurvey/reduction/pkg/matrix"
	"github.com/airsurvey/reduction/pkg/transform"
)

/*****************************************************************************************************************/

// Sample is one matched (detected source, catalog star) pair fed to the TNX fitter.
type Sample struct {
	X   float64 // pixel
	Y   float64 // pixel
	RA  float64 // catalog, degrees
	Dec float64 // catalog, degrees
}

/*****************************************************************************************************************/

// FitParams selects the polynomial distortion model and an optional caller-supplied reference
// pixel, per §4.2.
type FitParams struct {
	Basis    transform.Basis
	Cross    transform.CrossTerm
	XOrder   int
	YOrder   int
	RefPixX  float64
	RefPixY  float64
	HasRefPx bool
}

/*****************************************************************************************************************/

const (
	maxFitIterations  = 5
	minRetainFraction = 0.6
	convergedErrFit   = 0.05 // arcseconds
	clipSigma         = 3.0
)

/*****************************************************************************************************************/

// FitTNX builds a TnxModel by least-squares fit of the CD matrix and the two polynomial
// distortion residual surfaces from a list of matched samples, following §4.2 steps 1-6.
func FitTNX(samples []Sample, params FitParams) (*TnxModel, error) {
	terms := transform.Terms(params.Cross, params.XOrder, params.YOrder)

	if len(samples) < len(terms) {
		return nil, ErrInsufficientSamples
	}

	xmin, xmax, ymin, ymax := boundingBox(samples)

	refPixX, refPixY := params.RefPixX, params.RefPixY

	if !params.HasRefPx || refPixX < xmin || refPixX > xmax || refPixY < ymin || refPixY > ymax {
		refPixX = (xmin + xmax) / 2
		refPixY = (ymin + ymax) / 2
	}

	refSample := nearestSample(samples, refPixX, refPixY)
	refRA := refSample.RA * Deg2Rad
	refDec := refSample.Dec * Deg2Rad

	active := append([]Sample(nil), samples...)

	original := len(samples)

	var model *TnxModel

	for iteration := 0; iteration < maxFitIterations; iteration++ {
		m, err := fitOnce(active, refPixX, refPixY, refRA, refDec, xmin, xmax, ymin, ymax, params, terms)
		if err != nil {
			return nil, err
		}

		model = m

		if model.ErrFit < convergedErrFit {
			break
		}

		kept := clipOutliers(active, model, clipSigma*model.ErrFit)

		if len(kept) == len(active) {
			break
		}

		if float64(len(kept))/float64(original) < minRetainFraction {
			break
		}

		if len(kept) < len(terms) {
			return nil, ErrInsufficientSamples
		}

		active = kept
	}

	// Step 6: if the caller gave an explicit reference pixel within the normalization box,
	// re-project once more using that exact pixel, with its model-derived sky position.
	if params.HasRefPx && params.RefPixX >= xmin && params.RefPixX <= xmax &&
		params.RefPixY >= ymin && params.RefPixY <= ymax &&
		(params.RefPixX != refPixX || params.RefPixY != refPixY) {
		coord := model.ImageToSky(params.RefPixX, params.RefPixY)

		m, err := fitOnce(active, params.RefPixX, params.RefPixY, coord.RA*Deg2Rad, coord.Dec*Deg2Rad,
			xmin, xmax, ymin, ymax, params, terms)
		if err == nil {
			model = m
		}
	}

	return model, nil
}

/*****************************************************************************************************************/

func boundingBox(samples []Sample) (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = samples[0].X, samples[0].X
	ymin, ymax = samples[0].Y, samples[0].Y

	for _, s := range samples[1:] {
		if s.X < xmin {
			xmin = s.X
		}

		if s.X > xmax {
			xmax = s.X
		}

		if s.Y < ymin {
			ymin = s.Y
		}

		if s.Y > ymax {
			ymax = s.Y
		}
	}

	return xmin, xmax, ymin, ymax
}

/*****************************************************************************************************************/

func nearestSample(samples []Sample, x, y float64) Sample {
	best := samples[0]
	bestDist := math.Abs(best.X-x) + math.Abs(best.Y-y)

	for _, s := range samples[1:] {
		d := math.Abs(s.X-x) + math.Abs(s.Y-y)

		if d < bestDist {
			best = s
			bestDist = d
		}
	}

	return best
}

/*****************************************************************************************************************/

// fitOnce performs steps 2-4 of §4.2 for a fixed reference pixel/sky position: solve the CD
// matrix by linear least squares, fit the residual polynomial surfaces, and compute errfit.
func fitOnce(
	samples []Sample,
	refPixX, refPixY, refRA, refDec float64,
	xmin, xmax, ymin, ymax float64,
	params FitParams,
	terms []transform.Term,
) (*TnxModel, error) {
	n := len(samples)

	dxs := make([]float64, n)
	dys := make([]float64, n)
	xis := make([]float64, n)
	etas := make([]float64, n)

	for i, s := range samples {
		dxs[i] = s.X - refPixX
		dys[i] = s.Y - refPixY

		xi, eta := forwardTAN(s.RA*Deg2Rad, s.Dec*Deg2Rad, refRA, refDec)
		xis[i] = xi
		etas[i] = eta
	}

	cd, err := fitCD(dxs, dys, xis, etas)
	if err != nil {
		return nil, err
	}

	cdInv, err := invert2x2(cd)
	if err != nil {
		return nil, err
	}

	// Residuals in the tangent plane, in arcseconds, against the purely linear CD projection.
	resid0 := make([]float64, n)
	resid1 := make([]float64, n)

	for i := range samples {
		xiLin := cd[0][0]*dxs[i] + cd[0][1]*dys[i]
		etaLin := cd[1][0]*dxs[i] + cd[1][1]*dys[i]

		resid0[i] = (xis[i] - xiLin) * Rad2Arcsec
		resid1[i] = (etas[i] - etaLin) * Rad2Arcsec
	}

	res0, err := fitResidualSurface(dxs, dys, resid0, xmin, xmax, ymin, ymax, params, terms)
	if err != nil {
		return nil, err
	}

	res1, err := fitResidualSurface(dxs, dys, resid1, xmin, xmax, ymin, ymax, params, terms)
	if err != nil {
		return nil, err
	}

	model := &TnxModel{
		RefPixX: refPixX,
		RefPixY: refPixY,
		RefRA:   refRA,
		RefDec:  refDec,
		CD:      cd,
		CDInv:   cdInv,
		Res:     [2]ResidualSurface{res0, res1},
		Scale:   3600 * math.Sqrt(math.Abs(cd[0][0]*cd[1][1]-cd[0][1]*cd[1][0])),
		Rotation: math.Atan2(cd[0][1], cd[0][0]) * Rad2Deg,
	}

	model.ErrFit = rmsResidual(samples, model)

	return model, nil
}

/*****************************************************************************************************************/

// fitCD solves both rows of the CD matrix by independent linear least squares (no intercept):
// ξ = cd00·Δx + cd01·Δy, η = cd10·Δx + cd11·Δy.
func fitCD(dxs, dys, xis, etas []float64) ([2][2]float64, error) {
	row0, err := leastSquaresTwoTerm(dxs, dys, xis)
	if err != nil {
		return [2][2]float64{}, err
	}

	row1, err := leastSquaresTwoTerm(dxs, dys, etas)
	if err != nil {
		return [2][2]float64{}, err
	}

	return [2][2]float64{
		{row0[0], row0[1]},
		{row1[0], row1[1]},
	}, nil
}

/*****************************************************************************************************************/

func leastSquaresTwoTerm(a, b, target []float64) ([2]float64, error) {
	n := len(a)

	design := make([]float64, 0, n*2)

	for i := 0; i < n; i++ {
		design = append(design, a[i], b[i])
	}

	coef, err := leastSquares(design, target, n, 2)
	if err != nil {
		return [2]float64{}, err
	}

	return [2]float64{coef[0], coef[1]}, nil
}

/*****************************************************************************************************************/

func fitResidualSurface(
	dxs, dys, target []float64,
	xmin, xmax, ymin, ymax float64,
	params FitParams,
	terms []transform.Term,
) (ResidualSurface, error) {
	surface := ResidualSurface{
		Basis:  params.Basis,
		Cross:  params.Cross,
		XOrder: params.XOrder,
		YOrder: params.YOrder,
		XMin:   xmin,
		XMax:   xmax,
		YMin:   ymin,
		YMax:   ymax,
	}

	if len(dxs) < len(terms) {
		return ResidualSurface{}, ErrInsufficientSamples
	}

	n := len(dxs)

	design := make([]float64, 0, n*len(terms))

	xvals := make([]float64, params.XOrder+1)
	yvals := make([]float64, params.YOrder+1)

	for i := 0; i < n; i++ {
		nx, ny := dxs[i], dys[i]

		if params.Basis != transform.BasisPower {
			nx = transform.Normalize(dxs[i], xmin, xmax)
			ny = transform.Normalize(dys[i], ymin, ymax)
		}

		transform.EvaluateBasis(params.Basis, nx, params.XOrder, xvals)
		transform.EvaluateBasis(params.Basis, ny, params.YOrder, yvals)

		for _, term := range terms {
			design = append(design, xvals[term.I]*yvals[term.J])
		}
	}

	coef, err := leastSquares(design, target, n, len(terms))
	if err != nil {
		return ResidualSurface{}, err
	}

	surface.Coef = coef

	var sumSq float64

	for i := 0; i < n; i++ {
		var predicted float64

		for j := range terms {
			predicted += coef[j] * design[i*len(terms)+j]
		}

		diff := target[i] - predicted
		sumSq += diff * diff
	}

	surface.RMS = math.Sqrt(sumSq / float64(n))

	return surface, nil
}

/*****************************************************************************************************************/

// leastSquares solves the normal equations (AᵀA) coef = Aᵀb for a row-major design matrix A of
// shape (rows, cols) and target vector b, via pkg/matrix's Gaussian-elimination inversion.
func leastSquares(design []float64, target []float64, rows, cols int) ([]float64, error) {
	a, err := matrix.NewFromSlice(design, rows, cols)
	if err != nil {
		return nil, err
	}

	b, err := matrix.NewFromSlice(target, rows, 1)
	if err != nil {
		return nil, err
	}

	at, err := a.Transpose()
	if err != nil {
		return nil, err
	}

	ata, err := at.Multiply(a)
	if err != nil {
		return nil, err
	}

	atb, err := at.Multiply(b)
	if err != nil {
		return nil, err
	}

	inv, err := ata.Invert()
	if err != nil {
		return nil, ErrSingularMatrix
	}

	solution, err := inv.Multiply(atb)
	if err != nil {
		return nil, err
	}

	coef := make([]float64, cols)

	for i := 0; i < cols; i++ {
		v, err := solution.At(i, 0)
		if err != nil {
			return nil, err
		}

		coef[i] = v
	}

	return coef, nil
}

/*****************************************************************************************************************/

// rmsResidual computes the RMS total angular residual between each sample's catalog position and
// the model's image-to-sky projection of its pixel position, in arcseconds (§4.2 step 4).
func rmsResidual(samples []Sample, model *TnxModel) float64 {
	var sumSq float64

	for _, s := range samples {
		coord := model.ImageToSky(s.X, s.Y)

		d := geometry.AngularSeparation(s.RA*Deg2Rad, s.Dec*Deg2Rad, coord.RA*Deg2Rad, coord.Dec*Deg2Rad)
		arcsec := d * Rad2Arcsec

		sumSq += arcsec * arcsec
	}

	return math.Sqrt(sumSq / float64(len(samples)))
}

/*****************************************************************************************************************/

// clipOutliers returns the subset of samples whose total residual does not exceed threshold
// arcseconds (§4.2 step 5).
func clipOutliers(samples []Sample, model *TnxModel, threshold float64) []Sample {
	kept := make([]Sample, 0, len(samples))

	for _, s := range samples {
		coord := model.ImageToSky(s.X, s.Y)

		d := geometry.AngularSeparation(s.RA*Deg2Rad, s.Dec*Deg2Rad, coord.RA*Deg2Rad, coord.Dec*Deg2Rad)

		if d*Rad2Arcsec <= threshold {
			kept = append(kept, s)
		}
	}

	return kept
}

/*****************************************************************************************************************/
