// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gridinfo implements linear<->multi-index conversions for
// d-dimensional regular grids and a reusable flattened d-dim iterator.
package gridinfo

import (
	"github.com/cpmech/gosl/chk"
)

// GridInfo holds the number of points along each axis of a d-dimensional
// regular grid and precomputes the strides needed to move between a flat
// (linear) index and a multi-index (one coordinate per axis).
type GridInfo struct {
	Ndims   int   // d: number of domain dimensions
	Npts    []int // [d] number of points along each axis
	Strides []int // [d] row-major strides; Strides[d-1] == 1
	Total   int   // total number of points == product(Npts)
}

// NewGridInfo allocates a new GridInfo for the given per-axis point counts
func NewGridInfo(npts []int) (o *GridInfo, err error) {
	d := len(npts)
	if d < 1 {
		return nil, chk.Err("gridinfo: npts must have at least one axis; got %v", npts)
	}
	for k, n := range npts {
		if n < 1 {
			return nil, chk.Err("gridinfo: npts[%d]=%d must be >= 1", k, n)
		}
	}
	o = new(GridInfo)
	o.Ndims = d
	o.Npts = make([]int, d)
	copy(o.Npts, npts)
	o.Strides = make([]int, d)
	o.Strides[d-1] = 1
	for k := d - 2; k >= 0; k-- {
		o.Strides[k] = o.Strides[k+1] * o.Npts[k+1]
	}
	o.Total = o.Strides[0] * o.Npts[0]
	return
}

// LinIndex converts a multi-index ijk[d] into a flat index
func (o *GridInfo) LinIndex(ijk []int) (lin int, err error) {
	if len(ijk) != o.Ndims {
		return 0, chk.Err("gridinfo: ijk has wrong length %d; want %d", len(ijk), o.Ndims)
	}
	for k := 0; k < o.Ndims; k++ {
		if ijk[k] < 0 || ijk[k] >= o.Npts[k] {
			return 0, chk.Err("gridinfo: ijk[%d]=%d out of range [0,%d)", k, ijk[k], o.Npts[k])
		}
		lin += ijk[k] * o.Strides[k]
	}
	return
}

// MultiIndex converts a flat index into a multi-index ijk[d] (allocated fresh)
func (o *GridInfo) MultiIndex(lin int) (ijk []int, err error) {
	if lin < 0 || lin >= o.Total {
		return nil, chk.Err("gridinfo: lin=%d out of range [0,%d)", lin, o.Total)
	}
	ijk = make([]int, o.Ndims)
	rem := lin
	for k := 0; k < o.Ndims; k++ {
		ijk[k] = rem / o.Strides[k]
		rem -= ijk[k] * o.Strides[k]
	}
	return
}

// VolIterator walks every multi-index of a d-dimensional box [0,npts)^d
// exactly once, in row-major order, without reallocating on each step.
// It is the generic d-dim iterator reused across the codebase: the same
// type drives the decoder's basis sweeps and the encoder's grid traversals;
// control-point splitting in tmesh and the adaptive error scan use their own
// index loops.
type VolIterator struct {
	npts  []int
	index []int
	total int
	count int
	first bool
}

// NewVolIterator creates an iterator over the box described by npts[d]
func NewVolIterator(npts []int) *VolIterator {
	d := len(npts)
	total := 1
	for _, n := range npts {
		total *= n
	}
	return &VolIterator{
		npts:  append([]int(nil), npts...),
		index: make([]int, d),
		total: total,
		first: true,
	}
}

// Next advances the iterator; returns false once all indices are exhausted
func (o *VolIterator) Next() bool {
	if o.count >= o.total {
		return false
	}
	if o.first {
		o.first = false
		o.count++
		return true
	}
	for k := len(o.npts) - 1; k >= 0; k-- {
		o.index[k]++
		if o.index[k] < o.npts[k] {
			break
		}
		o.index[k] = 0
	}
	o.count++
	return true
}

// Index returns the current multi-index; caller must not mutate the slice
func (o *VolIterator) Index() []int { return o.index }

// Reset rewinds the iterator to its initial state
func (o *VolIterator) Reset() {
	for k := range o.index {
		o.index[k] = 0
	}
	o.count = 0
	o.first = true
}

// Count returns the total number of multi-indices this iterator will visit
func (o *VolIterator) Count() int { return o.total }
