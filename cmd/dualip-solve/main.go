/*
 Copyright (C) 2025 Douglas Wayne Potter

 This program is free software: you can redistribute it and/or modify
 it under the terms of the GNU Affero General Public License as
 published by the Free Software Foundation, either version 3 of the
 License, or (at your option) any later version.

 This program is distributed in the hope that it will be useful,
 but WITHOUT ANY WARRANTY; without even the implied warranty of
 MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 GNU Affero General Public License for more details.

 You should have received a copy of the GNU Affero General Public License
 along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// A driver for the Lagrangian dual maximizers in this module. Resolves an
// objective class by name, loads an optional warm-start dual, maximizes,
// and persists the result.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/snow-abstraction/dualip/driver"
	"github.com/snow-abstraction/dualip/internal/util"
	"github.com/snow-abstraction/dualip/objective"
)

const usage = `Usage: %s --driver.objectiveClass <name> --driver.projectionType <Simplex|Greedy> --driver.solverOutputPath <path> --input.ACblocksPath <path> --input.vectorBPath <path> --input.format <AVRO|ORC>

%s maximizes the Lagrangian dual of a block-separable LP and writes the
result (dual, constraint slack, and optionally a primal certificate) to
the given output path.

Arguments:
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(rawArgs []string) int {
	fs := util.NewContinueOnErrorFlagSet(usage)

	projectionType := fs.String("driver.projectionType", string(objective.Simplex), "inner primal projection (Simplex, Greedy)")
	objectiveClass := fs.String("driver.objectiveClass", "", "fully-qualified objective class name")
	solverOutputPath := fs.String("driver.solverOutputPath", "", "output directory for the solver result")
	initialLambdaPath := fs.String("driver.initialLambdaPath", "", "path to a warm-start dual table (optional)")
	gamma := fs.Float64("driver.gamma", 1e-3, "regularization parameter passed to the objective factory")
	outputFormat := fs.String("driver.outputFormat", "AVRO", "table format for persisted results (AVRO, ORC, CSV)")
	savePrimal := fs.Bool("driver.savePrimal", false, "request a primal certificate from the objective, if available")
	verbosity := fs.Int("driver.verbosity", 1, "log verbosity: 0=Warn, 1=Info, 2=Debug")
	algorithm := fs.String("driver.algorithm", string(driver.LBFGSB), "maximizer to use (LBFGSB, AGD)")
	maxIter := fs.Int("driver.maxIter", 1000, "maximum number of maximizer iterations")

	acBlocksPath := fs.String("input.ACblocksPath", "", "path to the coupling-constraint coefficients")
	vectorBPath := fs.String("input.vectorBPath", "", "path to the constraint right-hand-side vector")
	inputFormat := fs.String("input.format", "AVRO", "input table format (AVRO, ORC, CSV)")

	if err := fs.ParseArgs(rawArgs); err != nil {
		// fs already printed a diagnostic; ErrHelp is not itself fatal.
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	level := parseLogLevel(*verbosity)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})))

	if *objectiveClass == "" || *solverOutputPath == "" {
		fmt.Fprintln(os.Stderr, "--driver.objectiveClass and --driver.solverOutputPath are required")
		return 2
	}

	p := driver.Params{
		ProjectionType:    objective.ProjectionType(*projectionType),
		ObjectiveClass:    *objectiveClass,
		SolverOutputPath:  *solverOutputPath,
		InitialLambdaPath: *initialLambdaPath,
		Gamma:             *gamma,
		OutputFormat:      *outputFormat,
		SavePrimal:        *savePrimal,
		Verbosity:         *verbosity,
		Algorithm:         driver.Algorithm(*algorithm),
		MaxIter:           *maxIter,
	}
	ip := driver.InputParams{
		ACBlocksPath: *acBlocksPath,
		VectorBPath:  *vectorBPath,
		Format:       *inputFormat,
	}

	// Objective-specific positional arguments (spec.md §6: "unknown flags
	// are ignored, passed through to objective-specific parsers").
	objectiveArgs := fs.Args()

	result, err := driver.SingleRun(p, ip, objectiveArgs, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "solve failed: %s\n", err)
		return 1
	}

	fmt.Printf("status=%s iterations=%d activeConstraints=%d\n",
		result.Status, result.Iterations, result.ActiveConstraints)
	return 0
}

func parseLogLevel(verbosity int) slog.Level {
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 2:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
