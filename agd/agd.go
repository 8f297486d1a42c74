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

// Package agd implements the accelerated gradient maximizer (spec
// component C4): Nesterov's accelerated method applied to the dual,
// without the non-negative-orthant projection C5 enforces.
package agd

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/floats"

	"github.com/snow-abstraction/dualip/objective"
	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
)

// LineSearch selects how the gradient step size is chosen at each
// iteration.
type LineSearch int

const (
	// Fixed uses Config.StepSize unchanged at every iteration.
	Fixed LineSearch = iota
	// ArmijoBacktracking halves the step from Config.StepSize until the
	// ascent sufficient-increase condition is satisfied.
	ArmijoBacktracking
)

// Config holds the accelerated gradient maximizer's parameters.
type Config struct {
	MaxIter       int
	DualTolerance float64
	StepSize      float64
	LineSearch    LineSearch
	ArmijoC1      float64
	Verbosity     int
}

// DefaultConfig returns reasonable defaults grounded on spec.md §8
// scenario 1 (maxIter=1000, dualTolerance=1e-10).
func DefaultConfig() Config {
	return Config{
		MaxIter:       1000,
		DualTolerance: 1e-10,
		StepSize:      0.1,
		LineSearch:    Fixed,
		ArmijoC1:      1e-4,
	}
}

// Maximize runs the accelerated gradient method on obj, starting from
// lambda0, until the magnitude of the relative change in dual value drops
// below cfg.DualTolerance for a single iteration or cfg.MaxIter is reached.
// Unlike lbfgsb.Maximize, this maximizer does not enforce lambda >= 0.
func Maximize(obj objective.Objective, lambda0 *sparsevec.Vector, cfg Config) (optstate.RunResult, error) {
	dim := obj.DualDimensionality()
	if lambda0 == nil {
		lambda0 = sparsevec.Zero(dim)
	}

	var log optstate.IterationLog
	muPrev := lambda0
	mu := lambda0

	var last optstate.Result
	var lastDual float64
	haveLast := false
	status := optstate.Running
	iterations := 0

	for k := 1; k <= cfg.MaxIter; k++ {
		iterations = k

		momentum := (float64(k) - 1) / (float64(k) + 2)
		trial, err := stepCombination(mu, muPrev, momentum)
		if err != nil {
			return optstate.RunResult{}, fmt.Errorf("agd: building momentum trial point: %w", err)
		}

		log.Clear(k)
		result, err := obj.Calculate(trial, &log, cfg.Verbosity)
		if err != nil {
			return optstate.RunResult{}, fmt.Errorf("agd: evaluating objective: %w", err)
		}
		log.Commit()

		step := cfg.StepSize
		if cfg.LineSearch == ArmijoBacktracking {
			step = armijoStep(obj, &log, cfg, trial, result)
		}

		next, err := trial.AddScaled(result.Gradient, step)
		if err != nil {
			return optstate.RunResult{}, fmt.Errorf("agd: taking gradient step: %w", err)
		}

		muPrev = mu
		mu = next
		last = result

		if haveLast && lastDual != 0 {
			relImprovement := (result.DualValue - lastDual) / abs(lastDual)
			if abs(relImprovement) < cfg.DualTolerance {
				status = optstate.Converged
				break
			}
		}
		lastDual = result.DualValue
		haveLast = true
	}

	if status == optstate.Running {
		status = optstate.Terminated
	}

	log.Append(iterations, fmt.Sprintf("agd finished: status=%s iterations=%d", status, iterations))
	slog.Debug("agd finished", "status", status.String(), "iterations", iterations, "dualValue", last.DualValue)

	return optstate.RunResult{
		Lambda:     mu,
		Status:     status,
		Iterations: iterations,
		Last:       last,
		Log:        log,
	}, nil
}

// stepCombination computes mu + momentum*(mu - muPrev).
func stepCombination(mu, muPrev *sparsevec.Vector, momentum float64) (*sparsevec.Vector, error) {
	diff, err := mu.AddScaled(muPrev, -1.0)
	if err != nil {
		return nil, err
	}
	return mu.AddScaled(diff, momentum)
}

// armijoStep halves cfg.StepSize until the ascent sufficient-increase
// condition d(trial + step*g) >= d(trial) + c1*step*||g||^2 holds, using
// gonum/floats for the dense norm computation.
func armijoStep(obj objective.Objective, log *optstate.IterationLog, cfg Config, trial *sparsevec.Vector, result optstate.Result) float64 {
	gradNormSq := floats.Dot(result.Gradient.Dense(), result.Gradient.Dense())
	step := cfg.StepSize
	for i := 0; i < 30; i++ {
		candidate, err := trial.AddScaled(result.Gradient, step)
		if err != nil {
			return cfg.StepSize
		}
		probe, err := obj.Calculate(candidate, log, cfg.Verbosity)
		if err != nil {
			step /= 2
			continue
		}
		if probe.DualValue >= result.DualValue+cfg.ArmijoC1*step*gradNormSq {
			return step
		}
		step /= 2
	}
	return step
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
