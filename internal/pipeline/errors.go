/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import "fmt"

/*****************************************************************************************************************/

// Kind is one of the error kinds named in §7.
type Kind int

/*****************************************************************************************************************/

const (
	KindIoError Kind = iota
	KindParseError
	KindExtractorFailed
	KindAstrometryFailed
	KindCatalogUnavailable
	KindModelFitFailed
	KindInvalidInput
)

/*****************************************************************************************************************/

func (k Kind) String() string {
	switch k {
	case KindIoError:
		return "IoError"
	case KindParseError:
		return "ParseError"
	case KindExtractorFailed:
		return "ExtractorFailed"
	case KindAstrometryFailed:
		return "AstrometryFailed"
	case KindCatalogUnavailable:
		return "CatalogUnavailable"
	case KindModelFitFailed:
		return "ModelFitFailed"
	case KindInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

/*****************************************************************************************************************/

// Error is a tagged pipeline failure: a Kind, the frame it happened on (if any), and the
// underlying cause. It satisfies Unwrap so that callers can use errors.Is/errors.As against the
// sentinel causes pkg/catalog and pkg/wcs already export.
type Error struct {
	Kind  Kind
	Frame string
	Cause error
}

/*****************************************************************************************************************/

func (e *Error) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}

	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Frame, e.Cause)
}

/*****************************************************************************************************************/

func (e *Error) Unwrap() error {
	return e.Cause
}

/*****************************************************************************************************************/

// wrap builds an *Error for framePath, or nil if cause is nil.
func wrap(kind Kind, framePath string, cause error) error {
	if cause == nil {
		return nil
	}

	return &Error{Kind: kind, Frame: framePath, Cause: cause}
}

/*****************************************************************************************************************/
