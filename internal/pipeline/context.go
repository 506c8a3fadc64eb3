/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"github.com/airsurvey/reduction/internal/config"
	"github.com/airsurvey/reduction/internal/logging"
	"github.com/airsurvey/reduction/pkg/catalog"
)

/*****************************************************************************************************************/

// ExtractionBackend selects how source extraction is performed, per §4.3: an external
// SExtractor-compatible subprocess, or the in-process github.com/observerly/iris fallback.
type ExtractionBackend int

/*****************************************************************************************************************/

const (
	ExtractionSubprocess ExtractionBackend = iota
	ExtractionInProcess
)

/*****************************************************************************************************************/

// Context carries every per-run collaborator a stage needs, replacing the original program's
// singleton working paths and module-global logger, per §9's Design Note: "move to a context
// struct passed to each stage; keep the one-shot logger as an explicit collaborator, not a module
// global."
type Context struct {
	Config *config.Config
	Log    *logging.Logger

	ExtractionBackend ExtractionBackend

	// WorkDir is the scratch directory each stage's output files are written under; it should be
	// tmpfs-backed where available, per §4.3.
	WorkDir string

	// Catalog is the opened reference-catalog reader used by the match stage. It is not safe for
	// concurrent reentrant queries on a single instance, per §5; the processor serializes calls to
	// it from its single match-stage dispatch path.
	Catalog catalog.Reader
}

/*****************************************************************************************************************/
