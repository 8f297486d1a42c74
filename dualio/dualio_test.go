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

package dualio

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/snow-abstraction/dualip/optstate"
	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// TestLoadInitialDualEmptyPath grounds testable property #3's first half:
// running C6 with no path yields a zero vector of the declared dimension.
func TestLoadInitialDualEmptyPath(t *testing.T) {
	lambda, err := LoadInitialDual("", 5, table.CSVCodec{})
	assert.NilError(t, err)
	assert.Equal(t, lambda.NNZ(), 0)
	assert.Equal(t, lambda.Dim, 5)
}

// TestSaveThenLoadRoundTrips grounds testable property #3's second half: a
// dual written by C8 and reloaded by C6 is index-wise and value-wise equal.
func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "run1")

	dual, err := sparsevec.New(4, []int{0, 2, 3}, []float64{1.5, -2.0, 7.0})
	assert.NilError(t, err)
	slack := sparsevec.Zero(4)

	var log optstate.IterationLog
	log.Append(0, "bootstrap")

	err = SaveResults(outputDir, dual, slack, nil, false, &log, "Converged after 10 iterations", table.CSVCodec{})
	assert.NilError(t, err)

	reloaded, err := LoadInitialDual(filepath.Join(outputDir, "dual", dataFileName), 4, table.CSVCodec{})
	assert.NilError(t, err)
	assert.Assert(t, reloaded.Equal(dual))

	logBytes, err := os.ReadFile(filepath.Join(outputDir, "log", "log.txt"))
	assert.NilError(t, err)
	assert.Assert(t, len(logBytes) > 0)

	_, err = os.Stat(filepath.Join(outputDir, "primal"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestSaveResultsWritesPrimalWhenPresent(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "run2")

	dual := sparsevec.Zero(2)
	slack := sparsevec.Zero(2)
	primal := table.Rows{{Index: 0, Value: 1}, {Index: 1, Value: 0}}

	var log optstate.IterationLog
	err := SaveResults(outputDir, dual, slack, primal, true, &log, "Terminated", table.CSVCodec{})
	assert.NilError(t, err)

	reloadedPrimal, err := table.CSVCodec{}.Read(mustOpen(t, filepath.Join(outputDir, "primal", dataFileName)))
	assert.NilError(t, err)
	assert.DeepEqual(t, reloadedPrimal, primal)
}

// TestSaveResultsReplacesExistingDirectory exercises the stage-then-replace
// path: a second run over the same outputDir must leave only the new
// contents, never a mix of old and new files.
func TestSaveResultsReplacesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "run3")

	first := sparsevec.Zero(1)
	var log optstate.IterationLog
	assert.NilError(t, SaveResults(outputDir, first, first, nil, false, &log, "first", table.CSVCodec{}))

	second, err := sparsevec.New(1, []int{0}, []float64{9})
	assert.NilError(t, err)
	assert.NilError(t, SaveResults(outputDir, second, second, nil, false, &log, "second", table.CSVCodec{}))

	reloaded, err := LoadInitialDual(filepath.Join(outputDir, "dual", dataFileName), 1, table.CSVCodec{})
	assert.NilError(t, err)
	assert.Assert(t, reloaded.Equal(second))

	_, err = os.Stat(outputDir + ".tmp")
	assert.Assert(t, os.IsNotExist(err))
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	assert.NilError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
