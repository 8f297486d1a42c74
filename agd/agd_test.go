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

package agd

import (
	"math"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/snow-abstraction/dualip/objective"
	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
)

// TestMaximizeQuadratic is grounded on spec.md §8 scenario 1 (SimpleObjective,
// maxIter=1000, dualTolerance=1e-10, starting at lambda=(0,0)). Because this
// maximizer does not enforce lambda >= 0 (spec.md §4.2), both coordinates
// converge toward the unconstrained optimum (3, -2); see DESIGN.md for why
// we do not reproduce the scenario's literal "y stays exactly 0.0" claim,
// which spec.md §9 itself flags as an unresolved ambiguity.
func TestMaximizeQuadratic(t *testing.T) {
	obj := objective.NewQuadraticObjective(3, -2)
	cfg := DefaultConfig()
	cfg.MaxIter = 1000
	cfg.DualTolerance = 1e-10
	cfg.StepSize = 0.05

	result, err := Maximize(obj, sparsevec.Zero(2), cfg)
	assert.NilError(t, err)
	assert.Assert(t, result.Status == optstate.Converged || result.Status == optstate.Terminated)
	assert.Assert(t, math.Abs(result.Lambda.At(0)-3) < 1e-2)
	assert.Assert(t, math.Abs(result.Lambda.At(1)+2) < 1e-2)
}

func TestMaximizeRespectsIterationCap(t *testing.T) {
	obj := objective.NewQuadraticObjective(3, -2)
	cfg := DefaultConfig()
	cfg.MaxIter = 3
	cfg.DualTolerance = 0 // never converge, so the cap always binds

	result, err := Maximize(obj, sparsevec.Zero(2), cfg)
	assert.NilError(t, err)
	assert.Equal(t, result.Status, optstate.Terminated)
	assert.Equal(t, result.Iterations, 3)
}

func TestMaximizeWithArmijoLineSearch(t *testing.T) {
	obj := objective.NewQuadraticObjective(3, -2)
	cfg := DefaultConfig()
	cfg.LineSearch = ArmijoBacktracking
	cfg.StepSize = 0.5
	cfg.MaxIter = 500

	result, err := Maximize(obj, sparsevec.Zero(2), cfg)
	assert.NilError(t, err)
	assert.Assert(t, math.Abs(result.Lambda.At(0)-3) < 1e-1)
}
