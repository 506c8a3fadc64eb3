/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

import "fmt"

/*****************************************************************************************************************/

// Basis identifies one of the three polynomial families a TNX distortion residual surface may be
// built from, ported from the FUNC_CHEBYSHEV/FUNC_LEGENDRE/FUNC_LINEAR enum of WCSTNX.h.
type Basis int

/*****************************************************************************************************************/

const (
	BasisPower Basis = iota
	BasisLegendre
	BasisChebyshev
)

/*****************************************************************************************************************/

// CrossTerm identifies which cross-terms between the x and y polynomial families are retained,
// ported from the X_NONE/X_FULL/X_HALF enum of WCSTNX.h.
type CrossTerm int

/*****************************************************************************************************************/

const (
	CrossTermNone CrossTerm = iota
	CrossTermFull
	CrossTermHalf
)

/*****************************************************************************************************************/

// Normalize maps v, defined over [min, max], onto [-1, 1]. Chebyshev and Legendre series require
// their argument to be normalized this way; the power basis uses v directly.
func Normalize(v, min, max float64) float64 {
	return ((max + min) - 2*v) / (max - min)
}

/*****************************************************************************************************************/

// EvaluateBasis fills values[0:order+1] with φ₀(v)..φ_order(v) for the given basis family. v must
// already be normalized (via Normalize) when basis is not BasisPower.
func EvaluateBasis(basis Basis, v float64, order int, values []float64) {
	switch basis {
	case BasisLegendre:
		evaluateLegendre(v, order, values)
	case BasisChebyshev:
		evaluateChebyshev(v, order, values)
	default:
		evaluatePower(v, order, values)
	}
}

/*****************************************************************************************************************/

func evaluatePower(v float64, order int, values []float64) {
	values[0] = 1

	for i := 1; i <= order; i++ {
		values[i] = values[i-1] * v
	}
}

/*****************************************************************************************************************/

func evaluateLegendre(v float64, order int, values []float64) {
	values[0] = 1

	if order >= 1 {
		values[1] = v
	}

	for i := 2; i <= order; i++ {
		n := float64(i)
		values[i] = ((2*n-1)*v*values[i-1] - (n-1)*values[i-2]) / n
	}
}

/*****************************************************************************************************************/

func evaluateChebyshev(v float64, order int, values []float64) {
	values[0] = 1

	if order >= 1 {
		values[1] = v
	}

	for i := 2; i <= order; i++ {
		values[i] = 2*v*values[i-1] - values[i-2]
	}
}

/*****************************************************************************************************************/

// Term names one (i, j) exponent pair of a two-dimensional polynomial surface, e.g. x^2 y^0.
type Term struct {
	I int
	J int
}

/*****************************************************************************************************************/

// Key renders a term the way FITS SIP headers name polynomial coefficients, e.g. "2_0".
func (t Term) Key() string {
	return fmt.Sprintf("%d_%d", t.I, t.J)
}

/*****************************************************************************************************************/

// Terms enumerates the (i, j) exponent pairs retained for a given cross-term rule and order pair,
// per spec §4.2: none keeps only pure-x/pure-y terms, full keeps every product, half keeps the
// triangular subset i+j < max(xorder, yorder).
func Terms(cross CrossTerm, xorder, yorder int) []Term {
	terms := []Term{}

	switch cross {
	case CrossTermFull:
		for i := 0; i <= xorder; i++ {
			for j := 0; j <= yorder; j++ {
				terms = append(terms, Term{I: i, J: j})
			}
		}
	case CrossTermHalf:
		limit := xorder
		if yorder > limit {
			limit = yorder
		}

		for i := 0; i <= xorder; i++ {
			for j := 0; j <= yorder; j++ {
				if i+j < limit {
					terms = append(terms, Term{I: i, J: j})
				}
			}
		}
	default: // CrossTermNone
		for i := 0; i <= xorder; i++ {
			terms = append(terms, Term{I: i, J: 0})
		}

		for j := 1; j <= yorder; j++ {
			terms = append(terms, Term{I: 0, J: j})
		}
	}

	return terms
}

/*****************************************************************************************************************/
