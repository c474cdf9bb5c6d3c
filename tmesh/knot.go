// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tmesh implements the hierarchical T-mesh data model: per-axis
// knot vectors with refinement levels, a set of tensor products with
// adjacency, and the basis evaluator that honors T-mesh levels.
package tmesh

import (
	"github.com/cpmech/gosl/chk"
)

// KnotVector holds, for one domain axis, the ordered knot values in [0,1]
// together with the refinement level each knot was introduced at. Level 0
// is the base grid; knots at higher level are inserted by refinement.
type KnotVector struct {
	Vals   []float64 // monotone non-decreasing knot values
	Levels []int     // refinement level of each knot; parallel to Vals
	Degree int       // p(k): spline degree along this axis
}

// NewClampedKnotVector builds a level-0 clamped knot vector of degree p with
// n control points, placing interior knots by averaging the given parameter
// values (P&T eq. 9.69-style) when params != nil, or uniformly otherwise.
func NewClampedKnotVector(p, n int, params []float64) (kv *KnotVector, err error) {
	if n < p+1 {
		return nil, chk.Err("tmesh: n=%d must be >= p+1=%d", n, p+1)
	}
	m := n - 1 // last control-point index
	nKnots := n + p + 1
	kv = &KnotVector{
		Vals:   make([]float64, nKnots),
		Levels: make([]int, nKnots),
		Degree: p,
	}
	for i := 0; i <= p; i++ {
		kv.Vals[i] = 0
		kv.Vals[nKnots-1-i] = 1
	}
	nInterior := n - p - 1
	if nInterior > 0 {
		if params != nil {
			nParams := len(params)
			d := float64(nParams-1) / float64(nInterior+1)
			for j := 1; j <= nInterior; j++ {
				v := float64(j) * d
				i := int(v)
				alpha := v - float64(i)
				if i+1 >= nParams {
					i = nParams - 2
					alpha = 1
				}
				kv.Vals[p+j] = (1-alpha)*params[i] + alpha*params[i+1]
			}
		} else {
			for j := 1; j <= nInterior; j++ {
				kv.Vals[p+j] = float64(j) / float64(nInterior+1)
			}
		}
	}
	_ = m
	return
}

// InsertKnot inserts a knot value at index pos in this axis's knot vector,
// at the given refinement level, mutating Vals/Levels in place.
func (kv *KnotVector) InsertKnot(pos, level int, value float64) (err error) {
	if pos < 0 || pos > len(kv.Vals) {
		return chk.Err("tmesh: InsertKnot pos=%d out of range [0,%d]", pos, len(kv.Vals))
	}
	kv.Vals = append(kv.Vals, 0)
	kv.Levels = append(kv.Levels, 0)
	copy(kv.Vals[pos+1:], kv.Vals[pos:len(kv.Vals)-1])
	copy(kv.Levels[pos+1:], kv.Levels[pos:len(kv.Levels)-1])
	kv.Vals[pos] = value
	kv.Levels[pos] = level
	return
}

// IsNonDecreasing checks the monotone-knots invariant.
func (kv *KnotVector) IsNonDecreasing() bool {
	for i := 1; i < len(kv.Vals); i++ {
		if kv.Vals[i] < kv.Vals[i-1] {
			return false
		}
	}
	return true
}

// IsClamped checks that the first and last p+1 knots equal 0 and 1
func (kv *KnotVector) IsClamped() bool {
	p := kv.Degree
	for i := 0; i <= p; i++ {
		if kv.Vals[i] != 0 {
			return false
		}
		if kv.Vals[len(kv.Vals)-1-i] != 1 {
			return false
		}
	}
	return true
}
