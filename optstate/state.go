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

// Package optstate holds the value types shared by every maximizer: the
// terminal status enum, the per-run iteration log and the final result
// record the driver persists.
package optstate

import (
	"fmt"
	"time"

	"github.com/snow-abstraction/dualip/sparsevec"
)

// Status is the terminal (or in-flight) state of a maximizer run.
type Status int

const (
	// Running means the maximizer has not yet reached a terminal state.
	Running Status = iota
	// Converged means the convergence controller accepted the run.
	Converged
	// Terminated means the iteration cap was hit before convergence.
	Terminated
	// Infeasible means the dual value exceeded the primal upper bound,
	// proving the primal relaxation infeasible by weak duality.
	Infeasible
	// Failed means the objective raised a non-differentiability error.
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Converged:
		return "Converged"
	case Terminated:
		return "Terminated"
	case Infeasible:
		return "Infeasible"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is one row of the iteration log: an iteration's timing and outcome.
type Entry struct {
	Iteration   int
	DualValue   float64
	MaxSlack    float64
	Duration    time.Duration
	Message     string
}

// IterationLog is the append-only record of evaluations across a run. Each
// evaluation calls Clear then appends its own Entry before the log is
// appended to history by the caller, matching the "clear the per-iteration
// log" step of the convergence controller's evaluation closure.
type IterationLog struct {
	current Entry
	history []Entry
}

// Clear resets the per-iteration entry before a new evaluation begins.
func (l *IterationLog) Clear(iteration int) {
	l.current = Entry{Iteration: iteration}
}

// Set populates the fields of the current (not-yet-committed) entry.
func (l *IterationLog) Set(dualValue, maxSlack float64, d time.Duration) {
	l.current.DualValue = dualValue
	l.current.MaxSlack = maxSlack
	l.current.Duration = d
}

// Commit appends the current entry to history.
func (l *IterationLog) Commit() {
	l.history = append(l.history, l.current)
}

// Append adds a free-form terminal message as a final log entry.
func (l *IterationLog) Append(iteration int, message string) {
	l.history = append(l.history, Entry{Iteration: iteration, Message: message})
}

// Entries returns the accumulated log entries in order.
func (l *IterationLog) Entries() []Entry {
	return l.history
}

// Result is the immutable record of a single objective evaluation: the
// dual value, dual gradient, primal value/upper-bound, constraint slack and
// its summary statistic.
type Result struct {
	DualValue        float64
	Gradient         *sparsevec.Vector
	PrimalValue      float64
	PrimalUpperBound float64
	Slack            *sparsevec.Vector
	MaxSlack         float64
}

// RunResult is what a maximizer returns to the driver: the final dual, the
// terminal status, the number of iterations taken and the last Result
// snapshot the convergence controller recorded as useful.
type RunResult struct {
	Lambda     *sparsevec.Vector
	Status     Status
	Iterations int
	Last       Result
	Log        IterationLog
}
