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
	"sync"
)

// ProjectionType selects the inner primal subproblem an objective factory
// should use: Simplex (probability-simplex-per-block projection) or Greedy
// (coordinate-wise argmin over a box). See spec GLOSSARY.
type ProjectionType string

const (
	Simplex ProjectionType = "Simplex"
	Greedy  ProjectionType = "Greedy"
)

// Factory builds an Objective given the gamma regularization parameter, the
// selected inner-projection type, and any objective-specific arguments
// passed through from the command line.
type Factory func(gamma float64, projection ProjectionType, args []string) (Objective, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register installs factory under a fully-qualified objective class name.
// Register is meant to be called from package init funcs, replacing the
// reference implementation's runtime reflective class loading with a
// compile-time-populated, string-keyed table (see spec design notes).
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = factory
}

// Lookup resolves name to its Factory. Failure to resolve is fatal to the
// caller: the driver treats it as an ObjectiveLoadError.
func Lookup(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectiveNotFound, name)
	}
	return factory, nil
}

// Names returns the currently registered objective class names, for
// diagnostics and tests.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
