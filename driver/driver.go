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

// Package driver implements the solver driver (C7): the eight-step
// sequence that ties objective instantiation, the initial-dual loader, a
// maximizer and the result serializer together into a single run.
package driver

import (
	"fmt"
	"log/slog"

	"github.com/snow-abstraction/dualip/agd"
	"github.com/snow-abstraction/dualip/dualio"
	"github.com/snow-abstraction/dualip/lbfgsb"
	"github.com/snow-abstraction/dualip/objective"
	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// Maximizer is a C4/C5-shaped maximizer: given an objective and an
// initial dual, return a terminal RunResult. agd.Maximize and
// lbfgsb.Maximize both satisfy this signature.
type Maximizer func(obj objective.Objective, lambda0 *sparsevec.Vector, verbosity int) (optstate.RunResult, error)

// Algorithm names a maximizer choice for dispatch when the caller does not
// supply a Maximizer directly.
type Algorithm string

const (
	LBFGSB Algorithm = "LBFGSB"
	AGD    Algorithm = "AGD"
)

// Params holds the driver-level configuration (the `--driver.*` CLI
// namespace mirrored as a plain struct, matching the teacher's
// BranchAndBoundConfig configuration idiom).
type Params struct {
	ProjectionType    objective.ProjectionType
	ObjectiveClass    string
	SolverOutputPath  string
	InitialLambdaPath string
	Gamma             float64
	OutputFormat      string
	SavePrimal        bool
	Verbosity         int
	Algorithm         Algorithm
	MaxIter           int
}

// DefaultParams returns the CLI defaults spec.md §6 fixes.
func DefaultParams() Params {
	return Params{
		ProjectionType: objective.Simplex,
		Gamma:          1e-3,
		OutputFormat:   "AVRO",
		SavePrimal:     false,
		Verbosity:      1,
		Algorithm:      LBFGSB,
		MaxIter:        1000,
	}
}

// InputParams holds the `--input.*` CLI namespace: where the coupling
// matrix blocks and right-hand side vector live, and in what table format.
type InputParams struct {
	ACBlocksPath string
	VectorBPath  string
	Format       string
}

// Result is what SingleRun reports back to its caller (and what
// cmd/dualip-solve prints on success).
type Result struct {
	Status           optstate.Status
	Lambda           *sparsevec.Vector
	ActiveConstraints int
	Iterations       int
}

// SingleRun executes the eight-step driver sequence from spec.md §4.4. If
// fastSolver is non-nil, it overrides dispatch by p.Algorithm.
// args are objective-specific positional arguments passed through
// unparsed to the resolved factory, matching the loader protocol's
// "(gamma, projectionType, args)" signature.
func SingleRun(p Params, ip InputParams, args []string, fastSolver Maximizer) (Result, error) {
	maximize := fastSolver
	if maximize == nil {
		maximize = dispatch(p.Algorithm, p.MaxIter)
	}

	factory, err := objective.Lookup(p.ObjectiveClass)
	if err != nil {
		return Result{}, fmt.Errorf("driver: resolving objective class %q: %w", p.ObjectiveClass, err)
	}
	obj, err := factory(p.Gamma, p.ProjectionType, args)
	if err != nil {
		return Result{}, fmt.Errorf("driver: instantiating objective %q: %w", p.ObjectiveClass, err)
	}

	codec, err := table.Lookup(ip.Format)
	if err != nil {
		return Result{}, fmt.Errorf("driver: resolving input table format %q: %w", ip.Format, err)
	}

	lambda0, err := dualio.LoadInitialDual(p.InitialLambdaPath, obj.DualDimensionality(), codec)
	if err != nil {
		return Result{}, fmt.Errorf("driver: loading initial dual: %w", err)
	}

	run, err := maximize(obj, lambda0, p.Verbosity)
	if err != nil {
		return Result{}, fmt.Errorf("driver: maximizing: %w", err)
	}

	activeConstraints := run.Lambda.NNZ()

	terminal := fmt.Sprintf("%s after %d iterations, %d active constraints, dual=%g",
		run.Status, run.Iterations, activeConstraints, run.Last.DualValue)
	slog.Info("driver: run finished",
		"status", run.Status.String(),
		"iterations", run.Iterations,
		"activeConstraints", activeConstraints,
		"dualValue", run.Last.DualValue)

	var (
		primal    table.Rows
		hasPrimal bool
	)
	if p.SavePrimal {
		primal, hasPrimal = obj.PrimalForSaving(run.Lambda)
		if !hasPrimal {
			slog.Warn("driver: savePrimal requested but objective has no primal view to save")
		}
	}

	outputCodec, err := table.Lookup(p.OutputFormat)
	if err != nil {
		return Result{}, fmt.Errorf("driver: resolving output table format %q: %w", p.OutputFormat, err)
	}

	slack := run.Last.Slack
	if slack == nil {
		slack = sparsevec.Zero(obj.DualDimensionality())
	}
	log := run.Log
	log.Append(run.Iterations, terminal)

	if err := dualio.SaveResults(p.SolverOutputPath, run.Lambda, slack, primal, hasPrimal, &log, terminal, outputCodec); err != nil {
		return Result{}, fmt.Errorf("driver: saving results: %w", err)
	}

	return Result{
		Status:            run.Status,
		Lambda:            run.Lambda,
		ActiveConstraints: activeConstraints,
		Iterations:        run.Iterations,
	}, nil
}

func dispatch(algorithm Algorithm, maxIter int) Maximizer {
	switch algorithm {
	case AGD:
		return func(obj objective.Objective, lambda0 *sparsevec.Vector, verbosity int) (optstate.RunResult, error) {
			cfg := agd.DefaultConfig()
			cfg.Verbosity = verbosity
			if maxIter > 0 {
				cfg.MaxIter = maxIter
			}
			return agd.Maximize(obj, lambda0, cfg)
		}
	default:
		return func(obj objective.Objective, lambda0 *sparsevec.Vector, verbosity int) (optstate.RunResult, error) {
			cfg := lbfgsb.DefaultConfig()
			cfg.Verbosity = verbosity
			if maxIter > 0 {
				cfg.MaxIter = maxIter
			}
			return lbfgsb.Maximize(obj, lambda0, cfg)
		}
	}
}
