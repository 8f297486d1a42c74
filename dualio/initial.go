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

// Package dualio implements the initial-dual loader (spec component C6)
// and the result serializer (spec component C8).
package dualio

import (
	"fmt"
	"os"

	"github.com/snow-abstraction/dualip/sparsevec"
	"github.com/snow-abstraction/dualip/table"
)

// LoadInitialDual reads a table of (index, value) pairs from path using
// codec and builds a sparse vector of the given declared dimensionality.
// An empty path returns the zero vector, matching spec.md §4.5. Row order
// on disk need not be sorted; sparsevec.New sorts it.
func LoadInitialDual(path string, dim int, codec table.Codec) (*sparsevec.Vector, error) {
	if path == "" {
		return sparsevec.Zero(dim), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dualio: opening initial dual file %q: %w", path, err)
	}
	defer f.Close()

	rows, err := codec.Read(f)
	if err != nil {
		return nil, fmt.Errorf("dualio: reading initial dual file %q: %w", path, err)
	}

	index := make([]int, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		index[i] = int(row.Index)
		values[i] = row.Value
	}

	lambda, err := sparsevec.New(dim, index, values)
	if err != nil {
		return nil, fmt.Errorf("dualio: building initial dual vector: %w", err)
	}
	return lambda, nil
}
