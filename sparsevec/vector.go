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

// Package sparsevec implements the sparse vector type shared by the dual,
// dual gradient and constraint slack of the solver. A Vector is a sorted,
// parallel-slice representation (indices, values) over a fixed
// dimensionality; entries absent from the index slice are implicitly zero.
package sparsevec

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Vector is a sparse vector of float64 values indexed by non-negative ints
// in [0, Dim). Index is kept sorted and contains no duplicates; this is the
// representation's invariant and every constructor below establishes it.
type Vector struct {
	Dim    int
	Index  []int
	Values []float64
}

// Zero returns the zero vector of the given dimensionality.
func Zero(dim int) *Vector {
	return &Vector{Dim: dim}
}

// New builds a Vector from unsorted (index, value) pairs, dropping exact
// zeros and erroring on out-of-range or duplicate indices.
func New(dim int, index []int, values []float64) (*Vector, error) {
	if len(index) != len(values) {
		return nil, fmt.Errorf("sparsevec: index and values must have equal length, got %d and %d",
			len(index), len(values))
	}

	order := make([]int, len(index))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) bool { return index[a] < index[b] })

	v := &Vector{Dim: dim, Index: make([]int, 0, len(index)), Values: make([]float64, 0, len(values))}
	prev := -1
	for _, pos := range order {
		i, x := index[pos], values[pos]
		if i < 0 || i >= dim {
			return nil, fmt.Errorf("sparsevec: index %d out of range [0, %d)", i, dim)
		}
		if i == prev {
			return nil, fmt.Errorf("sparsevec: duplicate index %d", i)
		}
		prev = i
		if x == 0.0 {
			continue
		}
		v.Index = append(v.Index, i)
		v.Values = append(v.Values, x)
	}
	return v, nil
}

// FromDense builds a Vector from a dense slice, keeping only nonzero entries.
func FromDense(x []float64) *Vector {
	v := &Vector{Dim: len(x)}
	for i, val := range x {
		if val != 0.0 {
			v.Index = append(v.Index, i)
			v.Values = append(v.Values, val)
		}
	}
	return v
}

// Dense expands the Vector into a newly allocated dense slice of length Dim.
func (v *Vector) Dense() []float64 {
	x := make([]float64, v.Dim)
	for k, i := range v.Index {
		x[i] = v.Values[k]
	}
	return x
}

// NNZ returns the number of explicitly stored (nonzero) entries.
func (v *Vector) NNZ() int {
	return len(v.Index)
}

// At returns the value at index i, which is 0 if i is not explicitly stored.
func (v *Vector) At(i int) float64 {
	pos, found := slices.BinarySearch(v.Index, i)
	if !found {
		return 0.0
	}
	return v.Values[pos]
}

// Scale returns a new Vector equal to v scaled by alpha. Entries that become
// exactly zero are dropped to preserve the nonzero-only invariant.
func (v *Vector) Scale(alpha float64) *Vector {
	out := &Vector{Dim: v.Dim}
	if alpha == 0.0 {
		return out
	}
	for k, i := range v.Index {
		out.Index = append(out.Index, i)
		out.Values = append(out.Values, alpha*v.Values[k])
	}
	return out
}

// Add returns a new Vector equal to v + w. Both vectors must share the same
// dimensionality.
func (v *Vector) Add(w *Vector) (*Vector, error) {
	return v.AddScaled(w, 1.0)
}

// AddScaled returns a new Vector equal to v + alpha*w.
func (v *Vector) AddScaled(w *Vector, alpha float64) (*Vector, error) {
	if v.Dim != w.Dim {
		return nil, fmt.Errorf("sparsevec: dimension mismatch %d != %d", v.Dim, w.Dim)
	}

	out := &Vector{Dim: v.Dim}
	i, j := 0, 0
	for i < len(v.Index) || j < len(w.Index) {
		switch {
		case j >= len(w.Index) || (i < len(v.Index) && v.Index[i] < w.Index[j]):
			out.appendNonzero(v.Index[i], v.Values[i])
			i++
		case i >= len(v.Index) || (j < len(w.Index) && w.Index[j] < v.Index[i]):
			out.appendNonzero(w.Index[j], alpha*w.Values[j])
			j++
		default:
			out.appendNonzero(v.Index[i], v.Values[i]+alpha*w.Values[j])
			i++
			j++
		}
	}
	return out, nil
}

func (v *Vector) appendNonzero(index int, value float64) {
	if value == 0.0 {
		return
	}
	v.Index = append(v.Index, index)
	v.Values = append(v.Values, value)
}

// Dot returns the inner product of v and w, which must share dimensionality.
func (v *Vector) Dot(w *Vector) (float64, error) {
	if v.Dim != w.Dim {
		return 0, fmt.Errorf("sparsevec: dimension mismatch %d != %d", v.Dim, w.Dim)
	}
	var sum float64
	i, j := 0, 0
	for i < len(v.Index) && j < len(w.Index) {
		switch {
		case v.Index[i] < w.Index[j]:
			i++
		case w.Index[j] < v.Index[i]:
			j++
		default:
			sum += v.Values[i] * w.Values[j]
			i++
			j++
		}
	}
	return sum, nil
}

// Clamp returns a copy of v with every component clamped to [lo, hi].
func (v *Vector) Clamp(lo, hi float64) *Vector {
	out := &Vector{Dim: v.Dim}
	for k, i := range v.Index {
		x := v.Values[k]
		if x < lo {
			x = lo
		} else if x > hi {
			x = hi
		}
		out.appendNonzero(i, x)
	}
	return out
}

// MaxViolation returns max(0, max_i -x_i), the worst negative component,
// used to compute maxSlack from a gradient vector.
func (v *Vector) MaxViolation() float64 {
	var worst float64
	for _, x := range v.Values {
		if -x > worst {
			worst = -x
		}
	}
	return worst
}

// Equal reports whether v and w have identical dimensionality and identical
// (index, value) pairs, in order.
func (v *Vector) Equal(w *Vector) bool {
	if v.Dim != w.Dim || len(v.Index) != len(w.Index) {
		return false
	}
	for k := range v.Index {
		if v.Index[k] != w.Index[k] || v.Values[k] != w.Values[k] {
			return false
		}
	}
	return true
}
