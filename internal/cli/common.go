/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package cli

/*****************************************************************************************************************/

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/airsurvey/reduction/internal/associator"
	"github.com/airsurvey/reduction/internal/config"
	"github.com/airsurvey/reduction/internal/logging"
	"github.com/airsurvey/reduction/internal/pipeline"
	"github.com/airsurvey/reduction/internal/store"
	"github.com/airsurvey/reduction/pkg/catalog"
)

/*****************************************************************************************************************/

// buildContext loads cfg from configPath and assembles the collaborators every stage needs,
// returning a closer the caller must invoke once processing is finished.
func buildContext(configPath string) (*pipeline.Context, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	log := logging.Default()

	associator.RollingShutterReadTimeMS = cfg.Camera.ReadTimeMs
	associator.RollingShutterLines = float64(cfg.Camera.Lines)

	var closers []func()

	var reader catalog.Reader

	if cfg.Photometry.Enable {
		reader, err = catalog.Open(catalog.UCAC4, cfg.Photometry.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog: %w", err)
		}

		closers = append(closers, func() { _ = reader.Close() })
	}

	pctx := &pipeline.Context{
		Config:            cfg,
		Log:               log,
		ExtractionBackend: pipeline.ExtractionSubprocess,
		WorkDir:           cfg.Work.Path,
		Catalog:           reader,
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	return pctx, closeAll, nil
}

/*****************************************************************************************************************/

// newProcessorFromConfig builds a Processor rooted at pctx.Config.Output.Path, identifying itself
// to GTW consumers as station.
func newProcessorFromConfig(pctx *pipeline.Context, station string) *pipeline.Processor {
	return pipeline.NewProcessor(pctx, pctx.Config.Output.Path, station)
}

/*****************************************************************************************************************/

// attachJournal opens and attaches the optional audit journal to proc when db.enable is set,
// returning a closer that is a no-op when no journal was opened.
func attachJournal(proc *pipeline.Processor, cfg *config.Config, log *logging.Logger) func() {
	if !cfg.DB.Enable {
		return func() {}
	}

	j, err := store.Open(cfg.DB.URL)
	if err != nil {
		log.Failure("JournalOpenFailed", cfg.DB.URL, err)
		return func() {}
	}

	proc.SetJournal(j)

	return func() { _ = j.Close() }
}

/*****************************************************************************************************************/

// parsePointing recovers a frame's group/unit/camera/sequence identity from its filename, which is
// expected to follow the "<gid>_<uid>_<cid>_<frameno>.fits" convention used by the upstream camera
// controller.
func parsePointing(name string) pipeline.Pointing {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.Split(base, "_")

	p := pipeline.Pointing{}

	if len(parts) < 4 {
		return p
	}

	p.GID = parts[0]
	p.UID = parts[1]
	p.CID = parts[2]

	if n, err := strconv.Atoi(parts[3]); err == nil {
		p.FrameNo = n
	}

	return p
}

/*****************************************************************************************************************/
