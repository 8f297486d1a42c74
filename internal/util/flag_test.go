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

package util

import (
	"flag"
	"testing"

	"gotest.tools/v3/assert"
)

const testUsage = "Usage: %s [flags]\n\n%s does a thing.\n\nArguments:\n"

// TestParseArgsSkipsUnrecognizedFlags grounds spec.md §6: an unrecognized
// flag (and its value) is set aside instead of aborting the parse, and
// surfaces through Args() alongside ordinary positional arguments.
func TestParseArgsSkipsUnrecognizedFlags(t *testing.T) {
	fs := NewContinueOnErrorFlagSet(testUsage)
	gamma := fs.Float64("gamma", 1e-3, "")

	err := fs.ParseArgs([]string{
		"--gamma", "0.5",
		"--objective.foo", "bar",
		"instance.json",
	})
	assert.NilError(t, err)
	assert.Equal(t, *gamma, 0.5)
	assert.DeepEqual(t, fs.Args(), []string{"--objective.foo", "bar", "instance.json"})
}

// TestParseArgsSkipsUnrecognizedEqualsForm covers an unrecognized flag
// passed in "=value" form, which should not consume a following token.
func TestParseArgsSkipsUnrecognizedEqualsForm(t *testing.T) {
	fs := NewContinueOnErrorFlagSet(testUsage)
	fs.String("driver.objectiveClass", "", "")

	err := fs.ParseArgs([]string{
		"--driver.objectiveClass=dualip.objective.Quadratic",
		"--objective.center=3,-2",
		"extra",
	})
	assert.NilError(t, err)
	assert.DeepEqual(t, fs.Args(), []string{"--objective.center=3,-2", "extra"})
}

// TestParseArgsKnownBoolFlagDoesNotConsumeNextToken ensures a defined bool
// flag is not mistaken for a value-taking flag when deciding what to
// forward to the underlying flag.FlagSet.
func TestParseArgsKnownBoolFlagDoesNotConsumeNextToken(t *testing.T) {
	fs := NewContinueOnErrorFlagSet(testUsage)
	savePrimal := fs.Bool("driver.savePrimal", false, "")

	err := fs.ParseArgs([]string{"--driver.savePrimal", "instance.json"})
	assert.NilError(t, err)
	assert.Assert(t, *savePrimal)
	assert.DeepEqual(t, fs.Args(), []string{"instance.json"})
}

// TestParseArgsStillErrorsOnMalformedValue confirms leniency is scoped to
// unrecognized flags only: a recognized flag given a value it cannot
// parse still fails the same way flag.FlagSet.Parse always has.
func TestParseArgsStillErrorsOnMalformedValue(t *testing.T) {
	fs := NewContinueOnErrorFlagSet(testUsage)
	fs.Float64("gamma", 1e-3, "")

	err := fs.ParseArgs([]string{"--gamma", "not-a-number"})
	assert.ErrorContains(t, err, "invalid value")
}

// TestParseArgsHandlesHelp confirms "-h"/"-help" still trigger the
// stdlib's own usage-and-ErrHelp behavior despite never being defined as
// a flag on this set.
func TestParseArgsHandlesHelp(t *testing.T) {
	fs := NewContinueOnErrorFlagSet(testUsage)
	fs.String("driver.objectiveClass", "", "")

	err := fs.ParseArgs([]string{"-h"})
	assert.Equal(t, err, flag.ErrHelp)
}
