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

// Package objective specifies the contract every LP flavor implements
// (spec component C2) plus a small string-keyed registry that stands in
// for the reference implementation's reflective objective-class loading.
package objective

import (
	"errors"

	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// ErrNonDifferentiable is returned by Calculate when the inner primal
// argmax is non-unique at the supplied lambda (e.g. a tie in a simplex
// projection). The maximizer converts this into a Failed run rather than
// propagating it as a fatal error.
var ErrNonDifferentiable = errors.New("objective: non-differentiable at this dual point")

// ErrObjectiveNotFound is returned by Lookup when no factory is registered
// under the requested name.
var ErrObjectiveNotFound = errors.New("objective: no factory registered under this name")

// Objective is the polymorphic entity every LP flavor implements.
type Objective interface {
	// Calculate evaluates the dual value, dual gradient, primal inner
	// solution and constraint slack at lambda. It is deterministic given
	// lambda, and is safe to call only sequentially by a single caller. It
	// must populate log with timing before returning. It returns
	// ErrNonDifferentiable when the inner argmax ties at lambda.
	Calculate(lambda *sparsevec.Vector, log *optstate.IterationLog, verbosity int) (optstate.Result, error)

	// DualDimensionality returns the fixed dimensionality of lambda.
	DualDimensionality() int

	// PrimalUpperBound returns any finite valid primal objective value, used
	// only by CheckInfeasibility. Returning +Inf disables the check.
	PrimalUpperBound() float64

	// CheckInfeasibility returns true when r's dual objective exceeds
	// PrimalUpperBound by more than a small epsilon, which by weak duality
	// proves the primal relaxation infeasible.
	CheckInfeasibility(r optstate.Result) bool

	// PrimalForSaving returns the final primal certificate for lambda, in a
	// schema chosen by the objective, or ok=false if none is available.
	PrimalForSaving(lambda *sparsevec.Vector) (rows table.Rows, ok bool)
}

// infeasibilityEpsilon is the tolerance applied in the default
// CheckInfeasibility helper below; by weak duality any excess beyond
// floating-point noise proves infeasibility.
const infeasibilityEpsilon = 1e-9

// CheckInfeasibility is the shared default implementation of
// Objective.CheckInfeasibility: dualObjective > primalUpperBound + epsilon.
func CheckInfeasibility(dualObjective, primalUpperBound float64) bool {
	return dualObjective > primalUpperBound+infeasibilityEpsilon
}
