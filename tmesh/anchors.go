// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmesh

// Anchor identifies one anchor contributing to the basis support at a query
// point. Tensor is the tensor containing the query point (the neighbor tensor
// that supplied a knot line is not recorded), Local holds the global knot
// index of the anchor's knot line on each axis, and Level is the highest
// level among those knot lines.
type Anchor struct {
	Tensor int
	Local  []int
	Level  int
}

// Anchors walks outward from the tensor containing param, ported from the
// original source's knot_intersections/anchors: for each axis it
// collects the p(k)+1 knot lines straddling param, switching to a
// neighboring tensor's (possibly different-level) knot vector whenever the
// local tensor's knot lines run out before p(k)+1 are found. When more than
// one neighbor tensor could supply the same knot line at different levels,
// the highest level wins.
func (o *Tmesh) Anchors(param []float64) (anchors []Anchor, err error) {
	center, err := o.paramTensor(param)
	if err != nil {
		return nil, err
	}

	localIdx := make([][]int, o.Ndims)
	levels := make([][]int, o.Ndims)
	for k := 0; k < o.Ndims; k++ {
		idx, lv, err := o.knotIntersections(center, k, param[k])
		if err != nil {
			return nil, err
		}
		localIdx[k] = idx
		levels[k] = lv
	}

	// cartesian product of the per-axis p(k)+1 knot-line choices, each
	// contributing one anchor recorded against the center tensor, carrying
	// the highest level among its knot lines
	counts := make([]int, o.Ndims)
	for k := range counts {
		counts[k] = len(localIdx[k])
	}
	total := 1
	for _, c := range counts {
		total *= c
	}
	idx := make([]int, o.Ndims)
	for lin := 0; lin < total; lin++ {
		rem := lin
		for k := o.Ndims - 1; k >= 0; k-- {
			idx[k] = rem % counts[k]
			rem /= counts[k]
		}
		local := make([]int, o.Ndims)
		maxLevel := 0
		for k := 0; k < o.Ndims; k++ {
			local[k] = localIdx[k][idx[k]]
			if levels[k][idx[k]] > maxLevel {
				maxLevel = levels[k][idx[k]]
			}
		}
		anchors = append(anchors, Anchor{Tensor: center, Local: local, Level: maxLevel})
	}
	return anchors, nil
}

// paramTensor finds the tensor whose knot-index box contains param (via its
// knot values rather than raw indices).
func (o *Tmesh) paramTensor(param []float64) (int, error) {
	for i, t := range o.Tensors {
		inside := true
		for k := 0; k < o.Ndims; k++ {
			kv := o.Knots[k]
			lo := kv.Vals[t.KnotMins[k]]
			hi := kv.Vals[t.KnotMaxs[k]]
			onUpperBoundary := t.KnotMaxs[k] == o.globalMax[k] && param[k] == hi
			if param[k] < lo || (param[k] >= hi && !onUpperBoundary) {
				inside = false
				break
			}
		}
		if inside {
			return i, nil
		}
	}
	return -1, nil
}

// knotIntersections gathers the p(k)+1 local knot indices (in the global
// knot vector of axis k) whose basis functions are non-zero at u, starting
// from the tensor containing u and walking to Prev/Next neighbors along axis
// k whenever the tensor's own level-filtered knot vector is exhausted before
// p(k)+1 knots are found (ports the original source's knot_intersections
// outward walk; neighbor switching resolves ties toward the higher level,
// matching anchors()'s border_higher_level/temp_max_level bookkeeping).
func (o *Tmesh) knotIntersections(center, axis int, u float64) (idx, lvl []int, err error) {
	p := o.Degrees[axis]
	need := p + 1

	span, err := o.FindSpan(axis, u, o.Tensors[center].Level)
	if err != nil {
		return nil, nil, err
	}
	globalIdx, _ := o.localKnots(axis, o.Tensors[center].Level)
	start := span - p
	for i := 0; i < need && start+i < len(globalIdx); i++ {
		idx = append(idx, globalIdx[start+i])
		lvl = append(lvl, o.Tensors[center].Level)
	}

	// extend toward higher global knot indices using neighbor tensors across
	// the max face if the center tensor's own box didn't supply enough
	cur := center
	for len(idx) < need {
		nbrs := o.Tensors[cur].Next[axis]
		if len(nbrs) == 0 {
			break
		}
		best := nbrs[0]
		for _, n := range nbrs {
			if o.Tensors[n].Level > o.Tensors[best].Level {
				best = n
			}
		}
		nb := o.Tensors[best]
		g, _ := o.localKnots(axis, nb.Level)
		added := false
		for _, gi := range g {
			if gi > idx[len(idx)-1] {
				idx = append(idx, gi)
				lvl = append(lvl, nb.Level)
				added = true
				if len(idx) == need {
					break
				}
			}
		}
		if !added {
			break
		}
		cur = best
	}

	// extend toward lower global knot indices using neighbor tensors across
	// the min face if not enough knots were collected below the span
	cur = center
	for len(idx) < need {
		nbrs := o.Tensors[cur].Prev[axis]
		if len(nbrs) == 0 {
			break
		}
		best := nbrs[0]
		for _, n := range nbrs {
			if o.Tensors[n].Level > o.Tensors[best].Level {
				best = n
			}
		}
		nb := o.Tensors[best]
		g, _ := o.localKnots(axis, nb.Level)
		var prepend []int
		var prependLvl []int
		for i := len(g) - 1; i >= 0 && len(prepend) < need-len(idx); i-- {
			if g[i] < idx[0] {
				prepend = append([]int{g[i]}, prepend...)
				prependLvl = append([]int{nb.Level}, prependLvl...)
			}
		}
		if len(prepend) == 0 {
			break
		}
		idx = append(prepend, idx...)
		lvl = append(prependLvl, lvl...)
		cur = best
	}

	return idx, lvl, nil
}
