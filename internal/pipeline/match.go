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

	"github.com/airsurvey/reduction/internal/xmatch"
	"github.com/airsurvey/reduction/pkg/catalog"
	"github.com/airsurvey/reduction/pkg/fov"
)

/*****************************************************************************************************************/

// matchToleranceFactor is the "tolerance ≈ 2·scale" cross-match radius of §4.3, expressed in units
// of the configured solver's coarse pixel scale.
const matchToleranceFactor = 2.0

/*****************************************************************************************************************/

// frameCenter returns the mean RA/Dec, in degrees, of a solved frame's sources, standing in for
// the pointing's field center for the purposes of the cone search §4.3's match stage issues.
func frameCenter(sources []DetectedSource) (ra, dec float64, ok bool) {
	if len(sources) == 0 {
		return 0, 0, false
	}

	cosDec := math.Cos(sources[0].Dec * math.Pi / 180)
	if cosDec < 0.05 {
		cosDec = 0.05
	}

	var sx, sy, sdec float64

	for _, s := range sources {
		rad := s.RA * math.Pi / 180
		sx += math.Cos(rad)
		sy += math.Sin(rad)
		sdec += s.Dec
	}

	n := float64(len(sources))

	ra = math.Atan2(sy/n, sx/n) * 180 / math.Pi
	if ra < 0 {
		ra += 360
	}

	dec = sdec / n

	return ra, dec, true
}

/*****************************************************************************************************************/

// fieldRadiusDegrees estimates the cone-search radius needed to cover a frame's whole footprint
// from its pixel dimensions and the solver's coarse pixel-scale guess, with a 20% margin.
func fieldRadiusDegrees(width, height int, scaleArcsecPerPixel float64) float64 {
	scaleDeg := scaleArcsecPerPixel / 3600

	extent := fov.GetRadialExtent(float64(width)/2, float64(height)/2, fov.PixelScale{X: scaleDeg, Y: scaleDeg})

	return 1.2 * extent
}

/*****************************************************************************************************************/

// RunMatch performs the catalog cross-match stage of §4.3: a cone search about the solved frame's
// field center, nearest-neighbor matching of every DetectedSource against the returned reference
// stars within a tolerance of matchToleranceFactor times the coarse pixel scale, and a linear
// instrument-to-catalog magnitude zero-point fit over the matched pairs.
func RunMatch(ctx *Context, frame *Frame) error {
	if !ctx.Config.Photometry.Enable {
		frame.setState(StateCalibratedOrMatched)
		return nil
	}

	if ctx.Catalog == nil {
		err := wrap(KindCatalogUnavailable, frame.FilePath, fmt.Errorf("no catalog reader configured"))
		frame.fail(StateFailedPhotometry, err)

		return err
	}

	centerRA, centerDec, ok := frameCenter(frame.Sources)
	if !ok {
		frame.setState(StateCalibratedOrMatched)
		return nil
	}

	scale := ctx.Config.Astrometry.ScaleHigh
	if scale <= 0 {
		scale = ctx.Config.Astrometry.ScaleLow
	}

	radius := fieldRadiusDegrees(frame.Width, frame.Height, scale)

	found, stars, err := ctx.Catalog.FindStar(catalog.Params{
		RA:     centerRA,
		Dec:    centerDec,
		Radius: radius,
	})
	if err != nil {
		werr := wrap(KindCatalogUnavailable, frame.FilePath, err)
		frame.fail(StateFailedPhotometry, werr)

		return werr
	}

	if !found || len(stars) == 0 {
		frame.setState(StateCalibratedOrMatched)
		return nil
	}

	matcher, err := xmatch.NewMatcher(stars)
	if err != nil {
		werr := wrap(KindModelFitFailed, frame.FilePath, err)
		frame.fail(StateFailedPhotometry, werr)

		return werr
	}

	toleranceArcsec := matchToleranceFactor * scale

	var pairs []xmatch.Pair

	for i := range frame.Sources {
		star, _, nerr := matcher.Nearest(frame.Sources[i].RA, frame.Sources[i].Dec, toleranceArcsec)
		if nerr != nil {
			continue
		}

		frame.Sources[i].Matched = true
		frame.Sources[i].Catalog = star

		pairs = append(pairs, xmatch.Pair{
			InstrumentMag: frame.Sources[i].Magnitude,
			CatalogMag:    star.MagnitudeModel,
		})
	}

	if len(pairs) >= 2 {
		a, b, ferr := xmatch.FitZeroPoint(pairs)
		if ferr != nil {
			werr := wrap(KindModelFitFailed, frame.FilePath, ferr)
			frame.fail(StateFailedPhotometry, werr)

			return werr
		}

		frame.ZeroPointA = a
		frame.ZeroPointB = b
	}

	frame.setState(StateCalibratedOrMatched)

	return nil
}

/*****************************************************************************************************************/
