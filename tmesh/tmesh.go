// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmesh

import (
	"fmt"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Tmesh is the hierarchical partition of parameter space into axis-aligned
// tensor products of knot spans at various levels. Tensors
// are held in an append-only arena: indices are stable once assigned, so
// Next/Prev adjacency can reference tensors by index rather than pointer.
type Tmesh struct {
	Ndims     int
	Degrees   []int
	Nvars     int // r: number of science-value components per control point
	Knots     []*KnotVector
	Tensors   []*TensorProduct
	MaxLevel  int
	globalMax []int // [d] last knot index of the (ever-growing) global knot vectors
}

// NewTmesh seeds a T-mesh with a single level-0 tensor spanning the full
// knot-index box of the given per-axis knot vectors: a model starts from a
// single tensor product at level 0 and refines from there.
func NewTmesh(degrees []int, knots []*KnotVector, r int) (o *Tmesh, err error) {
	d := len(degrees)
	if len(knots) != d {
		return nil, chk.Err("tmesh: knots has %d axes; want %d", len(knots), d)
	}
	o = &Tmesh{
		Ndims:   d,
		Degrees: append([]int(nil), degrees...),
		Nvars:   r,
		Knots:   knots,
	}
	o.globalMax = make([]int, d)
	knotMins := make([]int, d)
	knotMaxs := make([]int, d)
	for k := 0; k < d; k++ {
		o.globalMax[k] = len(knots[k].Vals) - 1
		knotMins[k] = 0
		knotMaxs[k] = o.globalMax[k]
	}
	t0 := newBaseTensor(d, knotMins, knotMaxs, degrees, o.globalMax, r)
	o.Tensors = append(o.Tensors, t0)
	return
}

// Rebuild reconstructs a Tmesh from previously persisted components: tensor
// adjacency is already stored as plain indices into the tensors slice, so
// no re-derivation is needed beyond recomputing globalMax from the knot
// vectors.
func Rebuild(degrees []int, knots []*KnotVector, tensors []*TensorProduct, maxLevel int) *Tmesh {
	o := &Tmesh{
		Ndims:    len(degrees),
		Degrees:  degrees,
		Knots:    knots,
		Tensors:  tensors,
		MaxLevel: maxLevel,
	}
	if len(tensors) > 0 && len(tensors[0].Ctrl) > 0 {
		o.Nvars = len(tensors[0].Ctrl[0])
	}
	o.globalMax = make([]int, o.Ndims)
	for k := range knots {
		o.globalMax[k] = len(knots[k].Vals) - 1
	}
	return o
}

// GlobalMax returns the last valid knot index of axis k in the ever-growing
// global knot vector (used by callers that need to recognize the upper
// domain boundary without reaching into package-private state).
func (o *Tmesh) GlobalMax(k int) int {
	return o.globalMax[k]
}

// TensorAt returns the unique tensor whose box contains the given knot-index
// point.
func (o *Tmesh) TensorAt(idx []int) (ti int, err error) {
	for i, t := range o.Tensors {
		inside := true
		for k := 0; k < o.Ndims; k++ {
			if idx[k] < t.KnotMins[k] || idx[k] >= t.KnotMaxs[k] {
				if !(idx[k] == t.KnotMaxs[k] && t.KnotMaxs[k] == o.globalMax[k]) {
					inside = false
					break
				}
			}
		}
		if inside {
			return i, nil
		}
	}
	return -1, chk.Err("tmesh: no tensor contains knot index %v", idx)
}

// CheckInvariants verifies that tensors partition the full knot-index
// domain, adjacency is symmetric and non-degenerate, and knot vectors are
// clamped and non-decreasing.
func (o *Tmesh) CheckInvariants() (err error) {
	for k, kv := range o.Knots {
		if !kv.IsNonDecreasing() {
			return chk.Err("tmesh: knot vector axis %d is not non-decreasing", k)
		}
		if !kv.IsClamped() {
			return chk.Err("tmesh: knot vector axis %d is not clamped", k)
		}
	}
	if err = o.checkCoverage(); err != nil {
		return err
	}
	if err = o.checkAdjacencySymmetric(); err != nil {
		return err
	}
	return nil
}

// checkCoverage verifies the union of tensor boxes equals the full domain
// and interiors are pairwise disjoint, by summing hyper-volumes.
func (o *Tmesh) checkCoverage() error {
	total := 1
	for k := 0; k < o.Ndims; k++ {
		total *= o.globalMax[k]
	}
	sum := 0
	for _, t := range o.Tensors {
		vol := 1
		for k := 0; k < o.Ndims; k++ {
			vol *= t.KnotMaxs[k] - t.KnotMins[k]
		}
		sum += vol
	}
	if sum != total {
		return chk.Err("tmesh: tensor boxes cover volume %d; want %d (overlap or gap)", sum, total)
	}
	return nil
}

// checkAdjacencySymmetric verifies t1 in Next[t0] iff t0 in Prev[t1] (and
// vice-versa across axes), and the shared face is non-degenerate.
func (o *Tmesh) checkAdjacencySymmetric() error {
	for i, t := range o.Tensors {
		for k := 0; k < o.Ndims; k++ {
			for _, j := range t.Next[k] {
				if !containsInt(o.Tensors[j].Prev[k], i) {
					return chk.Err("tmesh: adjacency asymmetric: tensor %d Next[%d] has %d but %d.Prev[%d] lacks %d", i, k, j, j, k, i)
				}
				nb := o.Tensors[j]
				if faceAdjacent(t.KnotMins, t.KnotMaxs, nb.KnotMins, nb.KnotMaxs, k) != 1 {
					return chk.Err("tmesh: adjacency t%d.Next[%d] has t%d but they share no non-degenerate face", i, k, j)
				}
			}
			for _, j := range t.Prev[k] {
				if !containsInt(o.Tensors[j].Next[k], i) {
					return chk.Err("tmesh: adjacency asymmetric: tensor %d Prev[%d] has %d but %d.Next[%d] lacks %d", i, k, j, j, k, i)
				}
			}
		}
	}
	return nil
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Canonicalize returns a stable string representation of the T-mesh state
// (knot values per axis, then tensor boxes and levels sorted by level and
// box), independent of tensor insertion order, for comparing T-mesh states.
// InsertKnot does not detect a knot that is already present: inserting the
// same value twice adds a second knot, and the representation changes.
func (o *Tmesh) Canonicalize() string {
	type key struct {
		mins, maxs []int
		level      int
	}
	keys := make([]key, len(o.Tensors))
	for i, t := range o.Tensors {
		keys[i] = key{append([]int(nil), t.KnotMins...), append([]int(nil), t.KnotMaxs...), t.Level}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.level != b.level {
			return a.level < b.level
		}
		for k := range a.mins {
			if a.mins[k] != b.mins[k] {
				return a.mins[k] < b.mins[k]
			}
			if a.maxs[k] != b.maxs[k] {
				return a.maxs[k] < b.maxs[k]
			}
		}
		return false
	})
	s := ""
	for k, kv := range o.Knots {
		s += fmt.Sprintf("axis%d:%v|", k, kv.Vals)
	}
	for _, t := range keys {
		s += fmt.Sprintf("[L%d %v..%v]", t.level, t.mins, t.maxs)
	}
	return s
}
