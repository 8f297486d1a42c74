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

package optstate

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{Running, "Running"},
		{Converged, "Converged"},
		{Terminated, "Terminated"},
		{Infeasible, "Infeasible"},
		{Failed, "Failed"},
		{Status(99), "Status(99)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.status.String(), c.want)
	}
}

func TestIterationLogClearSetCommit(t *testing.T) {
	var log IterationLog

	log.Clear(0)
	log.Set(1.5, 0.01, 2*time.Millisecond)
	log.Commit()

	log.Clear(1)
	log.Set(2.5, 0.0, time.Millisecond)
	log.Commit()

	entries := log.Entries()
	assert.Equal(t, len(entries), 2)
	assert.Equal(t, entries[0].Iteration, 0)
	assert.Equal(t, entries[0].DualValue, 1.5)
	assert.Equal(t, entries[1].DualValue, 2.5)
}

func TestIterationLogClearDiscardsUncommittedEntry(t *testing.T) {
	var log IterationLog

	log.Clear(0)
	log.Set(100, 100, time.Second) // never committed, e.g. a probe the line search rejected
	log.Clear(1)
	log.Set(3, 0, time.Millisecond)
	log.Commit()

	entries := log.Entries()
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].DualValue, 3.0)
}

func TestIterationLogAppend(t *testing.T) {
	var log IterationLog
	log.Append(7, "Converged after 7 iterations")

	entries := log.Entries()
	assert.Equal(t, len(entries), 1)
	assert.Equal(t, entries[0].Iteration, 7)
	assert.Equal(t, entries[0].Message, "Converged after 7 iterations")
}
