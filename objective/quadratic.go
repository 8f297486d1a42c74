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
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// QuadraticObjectiveClass is the fully-qualified name QuadraticObjective is
// registered under, per the objective loader protocol (spec.md §6).
const QuadraticObjectiveClass = "dualip.objective.Quadratic"

func init() {
	Register(QuadraticObjectiveClass, newQuadraticFromArgs)
}

// newQuadraticFromArgs is the Factory for QuadraticObjective: gamma and
// projection are unused (this fixture has no inner primal subproblem), and
// args optionally supplies "centerX centerY" as two positional floats,
// defaulting to (3, -2) to match the end-to-end scenario spec.md §8
// describes.
func newQuadraticFromArgs(gamma float64, projection ProjectionType, args []string) (Objective, error) {
	centerX, centerY := 3.0, -2.0
	if len(args) >= 2 {
		var err error
		centerX, err = strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("objective: parsing centerX %q: %w", args[0], err)
		}
		centerY, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("objective: parsing centerY %q: %w", args[1], err)
		}
	}
	return NewQuadraticObjective(centerX, centerY), nil
}

// QuadraticObjective is a two-dimensional, closed-form concave objective
// used as a synthetic test fixture standing in for a real distributed
// objective: d(x, y) = -(x-centerX)^2 - (y-centerY)^2, with gradient
// (-2(x-centerX), -2(y-centerY)). It treats lambda directly as the point at
// which this concave function is evaluated, bypassing any dual
// decomposition, since there is no inner primal subproblem to decompose.
type QuadraticObjective struct {
	CenterX, CenterY float64
	UpperBound       float64
}

// NewQuadraticObjective builds a QuadraticObjective centered at (centerX,
// centerY), with no primal upper bound (+Inf, disabling infeasibility
// checks).
func NewQuadraticObjective(centerX, centerY float64) *QuadraticObjective {
	return &QuadraticObjective{CenterX: centerX, CenterY: centerY, UpperBound: math.Inf(1)}
}

func (o *QuadraticObjective) Calculate(lambda *sparsevec.Vector, log *optstate.IterationLog, verbosity int) (optstate.Result, error) {
	start := time.Now()
	x, y := lambda.At(0), lambda.At(1)
	dx, dy := x-o.CenterX, y-o.CenterY
	value := -(dx*dx) - (dy * dy)
	gradient, err := sparsevec.New(2, []int{0, 1}, []float64{-2 * dx, -2 * dy})
	if err != nil {
		return optstate.Result{}, err
	}

	result := optstate.Result{
		DualValue:        value,
		Gradient:         gradient,
		PrimalValue:      value,
		PrimalUpperBound: o.UpperBound,
		Slack:            sparsevec.Zero(2),
		MaxSlack:         0,
	}

	if log != nil {
		log.Set(value, result.MaxSlack, time.Since(start))
	}
	return result, nil
}

func (o *QuadraticObjective) DualDimensionality() int { return 2 }

func (o *QuadraticObjective) PrimalUpperBound() float64 { return o.UpperBound }

func (o *QuadraticObjective) CheckInfeasibility(r optstate.Result) bool {
	return CheckInfeasibility(r.DualValue, o.UpperBound)
}

func (o *QuadraticObjective) PrimalForSaving(lambda *sparsevec.Vector) (table.Rows, bool) {
	return table.Rows{
		{Index: 0, Value: lambda.At(0)},
		{Index: 1, Value: lambda.At(1)},
	}, true
}
