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
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/snow-abstraction/dualip/sparsevec"
)

// Two blocks, one coupling constraint (row 0), unit capacity b=1:
//
//	block 0: item 0 costs 3 and uses row 0; item 1 costs 1 and uses nothing.
//	block 1: item 2 costs 2 and uses row 0; item 3 costs 1 and uses nothing.
func smallCoverFixture(t *testing.T) *SimplexCoverObjective {
	t.Helper()
	obj, err := NewSimplexCoverObjective(
		[]float64{1},
		[][]int{{0, 1}, {2, 3}},
		[]float64{3, 1, 2, 1},
		[][]int{{0}, {}, {0}, {}},
	)
	assert.NilError(t, err)
	return obj
}

func TestSimplexCoverObjectiveAtZero(t *testing.T) {
	obj := smallCoverFixture(t)
	lambda := sparsevec.Zero(1)

	result, err := obj.Calculate(lambda, nil, 0)
	assert.NilError(t, err)

	// At lambda=0 each block picks its highest-cost item regardless of row
	// usage: item 0 (cost 3) and item 2 (cost 2).
	assert.Equal(t, result.PrimalValue, 5.0)
	// Ax = 2 (both chosen items use row 0); slack = b - Ax = 1 - 2 = -1.
	assert.Equal(t, result.Gradient.At(0), -1.0)
	assert.Equal(t, result.MaxSlack, 1.0)
}

func TestSimplexCoverObjectiveConverges(t *testing.T) {
	obj := smallCoverFixture(t)

	// At a large enough lambda, the penalty on row 0 flips both blocks to
	// their free (row-0-free) alternative, making Ax=0: the constraint is
	// no longer violated (MaxSlack 0) and is strictly satisfied, with
	// b - Ax = 1 under a positive multiplier.
	lambda, err := sparsevec.New(1, []int{0}, []float64{5})
	assert.NilError(t, err)

	result, err := obj.Calculate(lambda, nil, 0)
	assert.NilError(t, err)
	assert.Equal(t, result.Gradient.At(0), 1.0) // b - Ax = 1 - 0
	assert.Equal(t, result.MaxSlack, 0.0)
	assert.Equal(t, result.PrimalValue, 2.0) // items 1 and 3, cost 1 each
}

func TestSimplexCoverObjectiveTieIsNonDifferentiable(t *testing.T) {
	// item 0 and item 1 tie when lambda makes their reduced costs equal.
	obj, err := NewSimplexCoverObjective(
		[]float64{1},
		[][]int{{0, 1}},
		[]float64{3, 1},
		[][]int{{0}, {}},
	)
	assert.NilError(t, err)
	lambda, err := sparsevec.New(1, []int{0}, []float64{2}) // 3-2 == 1-0
	assert.NilError(t, err)

	_, err = obj.Calculate(lambda, nil, 0)
	assert.Assert(t, errors.Is(err, ErrNonDifferentiable))
}

func TestSimplexCoverPrimalForSaving(t *testing.T) {
	obj := smallCoverFixture(t)
	rows, ok := obj.PrimalForSaving(sparsevec.Zero(1))
	assert.Assert(t, ok)
	assert.Equal(t, len(rows), 2)
	assert.Equal(t, rows[0].Index, int32(0))
	assert.Equal(t, rows[1].Index, int32(2))
}
