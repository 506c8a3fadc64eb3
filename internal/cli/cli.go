/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package cli implements the command-line surface of §2A: a cobra root command carrying "run"
// (drive the frame processor continuously against a watched directory) and "track" (batch-
// associate an already-populated directory of frames, with optional debug rendering).
package cli

/*****************************************************************************************************************/

import (
	"github.com/spf13/cobra"
)

/*****************************************************************************************************************/

var rootCommand = &cobra.Command{
	Use:   "reduction",
	Short: "reduction is a command-line tool for reducing astronomical image sequences into moving-target detections.",
	Long:  "reduction is a command-line tool for reducing astronomical image sequences into moving-target detections.",
}

/*****************************************************************************************************************/

func init() {
	rootCommand.AddCommand(runCommand)
	rootCommand.AddCommand(trackCommand)
}

/*****************************************************************************************************************/

// Execute runs the CLI, panicking on a cobra execution error exactly as the teacher's own
// entrypoint does.
func Execute() {
	if err := rootCommand.Execute(); err != nil {
		panic(err)
	}
}

/*****************************************************************************************************************/
