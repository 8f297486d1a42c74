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

package objective

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"

	internalmath "github.com/snow-abstraction/dualip/internal/math"
	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// SimplexCoverObjectiveClass is the fully-qualified name SimplexCoverObjective
// is registered under, per the objective loader protocol (spec.md §6).
const SimplexCoverObjectiveClass = "dualip.objective.SimplexCover"

func init() {
	Register(SimplexCoverObjectiveClass, newSimplexCoverFromArgs)
}

// simplexCoverInstance is the JSON shape newSimplexCoverFromArgs reads,
// mirroring the teacher's cmd/solve_sc readJsonInstance convention of
// decoding a whole problem instance from a single JSON file rather than
// from the distributed data-frame layer spec.md §2 excludes.
type simplexCoverInstance struct {
	B          []float64
	Blocks     [][]int
	Costs      []float64
	ColumnRows [][]int
}

// newSimplexCoverFromArgs is the Factory for SimplexCoverObjective. gamma
// and projection are accepted for protocol conformance but unused: this
// fixture's inner subproblem is always a per-block simplex choice. args[0]
// must be the path to a JSON-encoded simplexCoverInstance.
func newSimplexCoverFromArgs(gamma float64, projection ProjectionType, args []string) (Objective, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("objective: %s requires an instance file path argument", SimplexCoverObjectiveClass)
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("objective: reading instance file %q: %w", args[0], err)
	}
	var ins simplexCoverInstance
	if err := json.Unmarshal(b, &ins); err != nil {
		return nil, fmt.Errorf("objective: decoding instance file %q: %w", args[0], err)
	}
	return NewSimplexCoverObjective(ins.B, ins.Blocks, ins.Costs, ins.ColumnRows)
}

// tieEpsilon is the margin within which two candidate items in the same
// block are considered tied, making the inner simplex projection
// non-unique at this lambda.
const tieEpsilon = 1e-12

// SimplexCoverObjective is a reference Lagrangian-dual objective for a
// block-separable LP
//
//	maximize   sum_j costs[j] * x_j
//	subject to A x <= b,  x in X
//
// where X is the Cartesian product of one probability simplex per block
// (each block selects exactly one item) and A is a 0/1 matrix given in
// column (per-item) form: columnRows[j] lists the coupling-constraint rows
// item j participates in. This generalizes the teacher's set-cover dual
// (internal/solvers/subgrad.go), which dualizes A x >= 1 over a 0/1 greedy
// projection, to the maximize/Ax<=b/simplex-per-block shape spec.md §1
// describes.
type SimplexCoverObjective struct {
	NumConstraints int
	B              []float64
	Blocks         [][]int
	Costs          []float64
	ColumnRows     [][]int
	UpperBound     float64

	matrix internalmath.CouplingMatrix
}

// NewSimplexCoverObjective validates and constructs a SimplexCoverObjective,
// compiling columnRows once into the compressed-matrix representation
// (internal/math) that Calculate and PrimalForSaving use for the A^T*lambda
// and A*x products. UpperBound defaults to +Inf (infeasibility checking
// disabled) unless the caller overwrites the field afterward.
func NewSimplexCoverObjective(b []float64, blocks [][]int, costs []float64, columnRows [][]int) (*SimplexCoverObjective, error) {
	matrix, err := internalmath.NewCouplingMatrixFromColumnRows(columnRows)
	if err != nil {
		return nil, fmt.Errorf("objective: compiling coupling matrix: %w", err)
	}
	return &SimplexCoverObjective{
		NumConstraints: len(b),
		B:              b,
		Blocks:         blocks,
		Costs:          costs,
		ColumnRows:     columnRows,
		UpperBound:     math.Inf(1),
		matrix:         matrix,
	}, nil
}

func (o *SimplexCoverObjective) Calculate(lambda *sparsevec.Vector, log *optstate.IterationLog, verbosity int) (optstate.Result, error) {
	start := time.Now()

	// (A^T lambda)_j for every item j, computed once per call via the
	// compiled coupling matrix: the sparse/dense boundary the spec calls
	// out happens exactly here.
	atLambda := o.matrix.ColumnDot(lambda.Dense(), len(o.Costs))

	chosen := make([]int, len(o.Blocks))
	chosenIndicator := make([]float64, len(o.Costs))
	var blockValue float64

	for bi, block := range o.Blocks {
		best, second := -1, -1
		bestVal, secondVal := math.Inf(-1), math.Inf(-1)
		for _, j := range block {
			reduced := o.Costs[j] - atLambda[j]
			if reduced > bestVal {
				second, secondVal = best, bestVal
				best, bestVal = j, reduced
			} else if reduced > secondVal {
				second, secondVal = j, reduced
			}
		}
		if second != -1 && bestVal-secondVal < tieEpsilon {
			return optstate.Result{}, ErrNonDifferentiable
		}

		chosen[bi] = best
		chosenIndicator[best] = 1
		blockValue += bestVal
	}

	ax := o.matrix.MultiplyDense(chosenIndicator, o.NumConstraints)

	var lambdaDotB float64
	for k, i := range lambda.Index {
		lambdaDotB += lambda.Values[k] * o.B[i]
	}
	dualValue := lambdaDotB + blockValue

	gradient := make([]float64, o.NumConstraints)
	var primalValue float64
	for _, c := range chosen {
		primalValue += o.Costs[c]
	}
	for i := 0; i < o.NumConstraints; i++ {
		gradient[i] = o.B[i] - ax[i]
	}
	gradientVec := sparsevec.FromDense(gradient)

	result := optstate.Result{
		DualValue:        dualValue,
		Gradient:         gradientVec,
		PrimalValue:      primalValue,
		PrimalUpperBound: o.UpperBound,
		Slack:            gradientVec,
		MaxSlack:         gradientVec.MaxViolation(),
	}

	if log != nil {
		log.Set(dualValue, result.MaxSlack, time.Since(start))
	}
	return result, nil
}

func (o *SimplexCoverObjective) DualDimensionality() int { return o.NumConstraints }

func (o *SimplexCoverObjective) PrimalUpperBound() float64 { return o.UpperBound }

func (o *SimplexCoverObjective) CheckInfeasibility(r optstate.Result) bool {
	return CheckInfeasibility(r.DualValue, o.UpperBound)
}

func (o *SimplexCoverObjective) PrimalForSaving(lambda *sparsevec.Vector) (table.Rows, bool) {
	atLambda := o.matrix.ColumnDot(lambda.Dense(), len(o.Costs))

	rows := make(table.Rows, 0, len(o.Blocks))
	for _, block := range o.Blocks {
		best := block[0]
		bestVal := o.Costs[best] - atLambda[best]
		for _, j := range block[1:] {
			if reduced := o.Costs[j] - atLambda[j]; reduced > bestVal {
				best, bestVal = j, reduced
			}
		}
		rows = append(rows, table.Row{Index: int32(best), Value: 1})
	}
	return rows, true
}
