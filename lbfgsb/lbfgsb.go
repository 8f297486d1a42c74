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

// Package lbfgsb implements the bound-constrained quasi-Newton maximizer
// (spec component C5, the centerpiece): the dual problem "maximize d(lambda)
// subject to lambda >= 0" is handed to nlopt's L-BFGS engine as "minimize
// -d(lambda)", with lower bounds pinned at zero to realize the non-negative
// orthant. The quasi-Newton machinery itself is external
// (github.com/go-nlopt/nlopt, an off-the-shelf bound-constrained engine,
// the same dependency viamrobotics-rdk uses for its inverse-kinematics
// solver); everything interesting here is the convergence controller
// inside the minimization closure.
package lbfgsb

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/go-nlopt/nlopt"

	"github.com/snow-abstraction/dualip/objective"
	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
)

// Config holds the L-BFGS-B maximizer's parameters (spec.md §4.3).
type Config struct {
	MaxIter                int
	HistorySize            int // m, the number of secant pairs nlopt retains internally.
	DualTolerance          float64
	SlackTolerance         float64
	HoldConvergenceForIter int
	Verbosity              int
}

// DefaultConfig returns the parameter defaults spec.md §4.3 specifies.
func DefaultConfig() Config {
	return Config{
		MaxIter:                1000,
		HistorySize:            50,
		DualTolerance:          1e-8,
		SlackTolerance:         5e-6,
		HoldConvergenceForIter: 10,
	}
}

// secantPair is one curvature pair (s_k, y_k) with s_k = lambda_k -
// lambda_{k-1} and y_k = -g(lambda_k) + g(lambda_{k-1}), signs inverted
// because the dual maximization is converted to a minimization (spec.md
// §3). nlopt owns the quasi-Newton memory actually driving the step; this
// bounded history exists only so callers and tests can inspect the
// secant-pair invariant y^T s > 0 the spec calls out.
type secantPair struct {
	s, y []float64
}

// History is the bounded ring of the last m secant pairs.
type History struct {
	pairs []secantPair
	cap   int
}

func newHistory(cap int) *History {
	if cap <= 0 {
		cap = 1
	}
	return &History{cap: cap}
}

func (h *History) push(p secantPair) {
	h.pairs = append(h.pairs, p)
	if len(h.pairs) > h.cap {
		h.pairs = h.pairs[1:]
	}
}

// Len returns the number of retained secant pairs.
func (h *History) Len() int { return len(h.pairs) }

// CurvatureOK reports whether the k-th retained pair (0-indexed, most
// recent last) satisfies y^T s > 0.
func (h *History) CurvatureOK(k int) (bool, error) {
	if k < 0 || k >= len(h.pairs) {
		return false, fmt.Errorf("lbfgsb: history index %d out of range [0, %d)", k, len(h.pairs))
	}
	p := h.pairs[k]
	var dot float64
	for i := range p.s {
		dot += p.s[i] * p.y[i]
	}
	return dot > 0, nil
}

// Maximize runs the L-BFGS-B convergence controller described in spec.md
// §4.3 on obj, starting from lambda0 (the zero vector if nil), returning
// the final dual, terminal status, iteration count and last-useful-result
// snapshot.
func Maximize(obj objective.Objective, lambda0 *sparsevec.Vector, cfg Config) (optstate.RunResult, error) {
	dim := obj.DualDimensionality()
	if lambda0 == nil {
		lambda0 = sparsevec.Zero(dim)
	}

	if cfg.MaxIter <= 0 {
		return optstate.RunResult{Lambda: lambda0, Status: optstate.Terminated, Iterations: 0}, nil
	}

	opt, err := nlopt.NewNLopt(nlopt.LD_LBFGS, uint(dim))
	if err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: creating nlopt optimizer: %w", err)
	}
	defer opt.Destroy()

	lowerBounds := make([]float64, dim)
	upperBounds := make([]float64, dim)
	for i := range upperBounds {
		upperBounds[i] = math.Inf(1)
	}
	if err := opt.SetLowerBounds(lowerBounds); err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: setting lower bounds: %w", err)
	}
	if err := opt.SetUpperBounds(upperBounds); err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: setting upper bounds: %w", err)
	}
	if err := opt.SetVectorStorage(cfg.HistorySize); err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: setting history size: %w", err)
	}
	if err := opt.SetMaxEval(cfg.MaxIter); err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: setting max evaluations: %w", err)
	}

	var (
		log              optstate.IterationLog
		status           = optstate.Running
		iter             int
		lastUsefulIter   int
		lastUseful       optstate.Result
		lastUsefulLambda []float64
		haveLastDual     bool
		lastDual         float64
		prevLambda       []float64
		prevGradient     []float64
		havePrevious     bool
		history          = newHistory(cfg.HistorySize)
	)

	closure := func(x []float64, gradient []float64) float64 {
		// Once the objective has failed, further points nlopt probes are not
		// evaluated: the last useful result and the Failed status stay fixed.
		if status == optstate.Failed {
			zeroGradient(gradient)
			return -lastUseful.DualValue
		}
		thisIter := iter
		iter++

		log.Clear(thisIter)
		start := time.Now()

		lambda := sparsevec.FromDense(x)
		result, err := obj.Calculate(lambda, &log, cfg.Verbosity)
		if err != nil {
			if !errors.Is(err, objective.ErrNonDifferentiable) {
				slog.Warn("lbfgsb: objective returned unexpected error", "iteration", thisIter, "error", err)
			}
			status = optstate.Failed
			zeroGradient(gradient)
			return -lastUseful.DualValue
		}
		log.Set(result.DualValue, result.MaxSlack, time.Since(start))
		log.Commit()

		// Convergence test, skipped on iterations 0 and 1: the inner engine
		// calls the function once to bootstrap its state before the first
		// true step.
		if thisIter >= 2 {
			if result.MaxSlack < cfg.SlackTolerance && thisIter-lastUsefulIter > cfg.HoldConvergenceForIter {
				status = optstate.Converged
			}
		}

		isFirstEvaluation := !haveLastDual
		usefulImprovement := isFirstEvaluation
		if !isFirstEvaluation {
			if lastDual != 0 {
				usefulImprovement = (result.DualValue-lastDual)/math.Abs(lastDual) > cfg.DualTolerance
			} else {
				usefulImprovement = result.DualValue > lastDual
			}
		}
		if usefulImprovement {
			lastUseful = result
			lastUsefulIter = thisIter
			lastUsefulLambda = append([]float64(nil), x...)
		}
		lastDual = result.DualValue
		haveLastDual = true

		if obj.CheckInfeasibility(result) {
			status = optstate.Infeasible
		}

		if havePrevious {
			s := make([]float64, dim)
			y := make([]float64, dim)
			currentGradient := result.Gradient.Dense()
			for i := 0; i < dim; i++ {
				s[i] = x[i] - prevLambda[i]
				y[i] = -currentGradient[i] + prevGradient[i]
			}
			history.push(secantPair{s: s, y: y})
		}
		prevLambda = append([]float64(nil), x...)
		prevGradient = result.Gradient.Dense()
		havePrevious = true

		if status != optstate.Running {
			zeroGradient(gradient)
			return -result.DualValue
		}

		dense := result.Gradient.Dense()
		for i := range gradient {
			gradient[i] = -dense[i]
		}
		return -result.DualValue
	}

	if err := opt.SetMinObjective(closure); err != nil {
		return optstate.RunResult{}, fmt.Errorf("lbfgsb: setting objective closure: %w", err)
	}

	// nlopt's own result code is intentionally not treated as authoritative:
	// the convergence controller above is what spec.md §4.3 asks for, and
	// it drives termination by starving the engine with a zero gradient
	// once status leaves Running. A non-nil err here (e.g. nlopt reporting
	// MAXEVAL_REACHED or XTOL_REACHED as non-SUCCESS result codes) is
	// expected on the common path and is not itself a failure.
	xopt, _, optErr := opt.Optimize(lambda0.Dense())
	if optErr != nil {
		slog.Debug("lbfgsb: nlopt returned a non-success result code", "error", optErr)
	}

	iterations := iter
	if status == optstate.Running {
		if iterations >= cfg.MaxIter {
			status = optstate.Terminated
		} else {
			status = optstate.Converged
		}
	}

	// On the failure path, the lambda nlopt settled on is whatever it fed
	// the closure after being starved with a zero gradient -- not a useful
	// iterate. Report the lambda at the last useful result instead (spec.md
	// §4.3 "Failure path"), falling back to nlopt's xopt/prevLambda only if
	// no useful iteration was ever recorded.
	finalDense := xopt
	if status == optstate.Failed && lastUsefulLambda != nil {
		finalDense = lastUsefulLambda
	}
	if finalDense == nil {
		finalDense = prevLambda
	}
	finalLambda := sparsevec.FromDense(finalDense).Clamp(0, math.Inf(1))

	return optstate.RunResult{
		Lambda:     finalLambda,
		Status:     status,
		Iterations: iterations,
		Last:       lastUseful,
		Log:        log,
	}, nil
}

func zeroGradient(gradient []float64) {
	for i := range gradient {
		gradient[i] = 0
	}
}
