/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package cli

/*****************************************************************************************************************/

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

var (
	runConfigPath    string
	runWatchDir      string
	runStation       string
	runPollSeconds   int
)

/*****************************************************************************************************************/

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "run drives the frame processor continuously against a watched directory of incoming frames",
	Long:  "run drives the frame processor continuously against a watched directory of incoming frames",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipeline()
	},
}

/*****************************************************************************************************************/

func init() {
	// example usage: --config ./reduction.json or -c ./reduction.json
	runCommand.Flags().StringVarP(&runConfigPath, "config", "c", "./reduction.json", "The runtime configuration file location")

	// example usage: --watch ./incoming or -w ./incoming
	runCommand.Flags().StringVarP(&runWatchDir, "watch", "w", "", "The directory to watch for newly arrived FITS frames")
	runCommand.MarkFlagRequired("watch")

	// example usage: --station G96 or -s G96
	runCommand.Flags().StringVarP(&runStation, "station", "s", "G96", "The GTW station identifier this pipeline reports observations under")

	// example usage: --poll-seconds 2
	runCommand.Flags().IntVar(&runPollSeconds, "poll-seconds", 2, "How often, in seconds, to poll the watch directory for new frames")
}

/*****************************************************************************************************************/

func runPipeline() error {
	pctx, closeCtx, err := buildContext(runConfigPath)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	defer closeCtx()

	proc := newProcessorFromConfig(pctx, runStation)
	closeJournal := attachJournal(proc, pctx.Config, pctx.Log)
	defer closeJournal()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		if err := proc.Run(ctx); err != nil {
			pctx.Log.Info("processor stopped", "error", err)
		}
	}()

	seen := map[string]bool{}

	ticker := time.NewTicker(time.Duration(runPollSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil
		case <-ticker.C:
			entries, err := os.ReadDir(runWatchDir)
			if err != nil {
				pctx.Log.Failure("WatchFailed", runWatchDir, err)
				continue
			}

			for _, entry := range entries {
				if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".fits") {
					continue
				}

				path := filepath.Join(runWatchDir, entry.Name())
				if seen[path] {
					continue
				}

				seen[path] = true

				proc.Submit(path, parsePointing(entry.Name()))
			}
		}
	}
}

/*****************************************************************************************************************/
