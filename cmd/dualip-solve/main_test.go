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

package main

import (
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/snow-abstraction/dualip/objective"
)

func TestRunMissingRequiredFlags(t *testing.T) {
	code := run([]string{})
	assert.Equal(t, code, 2)
}

func TestRunSucceedsWithQuadraticObjective(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"--driver.objectiveClass", objective.QuadraticObjectiveClass,
		"--driver.solverOutputPath", filepath.Join(dir, "out"),
		"--driver.maxIter", "100",
		"--driver.outputFormat", "CSV",
		"--input.format", "CSV",
	})
	assert.Equal(t, code, 0)
}

// TestRunPassesThroughUnrecognizedFlag grounds spec.md §6: a flag this
// command does not define is not fatal -- it is set aside and handed to
// the objective factory as a positional argument instead of aborting the
// run with a parse error.
func TestRunPassesThroughUnrecognizedFlag(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"--driver.objectiveClass", objective.QuadraticObjectiveClass,
		"--driver.solverOutputPath", filepath.Join(dir, "out"),
		"--driver.maxIter", "100",
		"--driver.outputFormat", "CSV",
		"--input.format", "CSV",
		"--objective.unknownFlag",
	})
	assert.Equal(t, code, 0)
}

func TestRunFailsOnUnknownObjective(t *testing.T) {
	dir := t.TempDir()
	code := run([]string{
		"--driver.objectiveClass", "dualip.objective.DoesNotExist",
		"--driver.solverOutputPath", filepath.Join(dir, "out"),
		"--input.format", "CSV",
	})
	assert.Equal(t, code, 1)
}
