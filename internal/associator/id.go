/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package associator

/*****************************************************************************************************************/

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid"
)

/*****************************************************************************************************************/

// trackEntropy is a package-level ULID entropy source. ulid.Entropy implementations are not
// required to be safe for concurrent use; Associator itself is documented as single-owner, so a
// package-level source is sufficient here.
var trackEntropy = rand.New(rand.NewSource(time.Now().UnixNano()))

/*****************************************************************************************************************/

// newTrackID mints a lexicographically sortable identifier for a newly finalized Track.
func newTrackID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), trackEntropy).String()
}

/*****************************************************************************************************************/

// durationFromSeconds converts a fractional-second offset into a time.Duration.
func durationFromSeconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

/*****************************************************************************************************************/
