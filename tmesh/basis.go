// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmesh

import "github.com/cpmech/gosl/chk"

// localKnots returns the global knot indices, restricted to axis, whose
// level does not exceed the given tensor level, together with the values at
// those indices: the basis evaluator honors T-mesh levels by skipping
// knots whose level exceeds the containing tensor's level.
func (o *Tmesh) localKnots(axis, level int) (idx []int, vals []float64) {
	kv := o.Knots[axis]
	for i, lv := range kv.Levels {
		if lv <= level {
			idx = append(idx, i)
			vals = append(vals, kv.Vals[i])
		}
	}
	return
}

// FindSpan locates the knot span (in the level-filtered local index space of
// axis, within the tensor at the given refinement level) containing
// parameter u, using the standard clamped-knot-vector convention that u at
// the upper domain boundary maps to the last interior span.
func (o *Tmesh) FindSpan(axis int, u float64, level int) (span int, err error) {
	p := o.Degrees[axis]
	_, vals := o.localKnots(axis, level)
	n := len(vals) - p - 2 // index of last control point in this level-filtered vector
	if n < 0 {
		return 0, chk.Err("tmesh: FindSpan axis %d level %d has too few knots", axis, level)
	}
	if u >= vals[n+1] {
		return n, nil
	}
	if u <= vals[p] {
		return p, nil
	}
	lo, hi := p, n+1
	for u < vals[lo] || u >= vals[lo+1] {
		mid := (lo + hi) / 2
		if u < vals[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}
	return lo, nil
}

// BasisFuns evaluates the p+1 nonzero B-spline basis functions at u in span,
// within the level-filtered local knot vector of axis at the given level,
// via the Cox-de Boor recurrence (Piegl & Tiller Algorithm A2.2), returning
// them in out[0..p].
func (o *Tmesh) BasisFuns(axis int, u float64, span, level int, out []float64) (err error) {
	p := o.Degrees[axis]
	if len(out) < p+1 {
		return chk.Err("tmesh: BasisFuns out has len %d; need >= %d", len(out), p+1)
	}
	_, vals := o.localKnots(axis, level)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	out[0] = 1.0
	for j := 1; j <= p; j++ {
		left[j] = u - vals[span+1-j]
		right[j] = vals[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			denom := right[r+1] + left[j-r]
			var temp float64
			if denom != 0 {
				temp = out[r] / denom
			}
			out[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		out[j] = saved
	}
	return nil
}

// DerivBasisFuns evaluates the basis functions and their derivatives up to
// order nd (inclusive) at u in span, within axis's level-filtered local knot
// vector (Piegl & Tiller Algorithm A2.3). ders[k][j] holds the k-th
// derivative of the j-th nonzero basis function, k=0..nd, j=0..p.
func (o *Tmesh) DerivBasisFuns(axis int, u float64, span, level, nd int, ders [][]float64) (err error) {
	p := o.Degrees[axis]
	if len(ders) < nd+1 {
		return chk.Err("tmesh: DerivBasisFuns ders has %d rows; need >= %d", len(ders), nd+1)
	}
	for k := range ders {
		if len(ders[k]) < p+1 {
			return chk.Err("tmesh: DerivBasisFuns ders[%d] has len %d; need >= %d", k, len(ders[k]), p+1)
		}
	}
	_, vals := o.localKnots(axis, level)

	ndu := make([][]float64, p+1)
	for i := range ndu {
		ndu[i] = make([]float64, p+1)
	}
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	ndu[0][0] = 1.0
	for j := 1; j <= p; j++ {
		left[j] = u - vals[span+1-j]
		right[j] = vals[span+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			denom := ndu[j][r]
			var temp float64
			if denom != 0 {
				temp = ndu[r][j-1] / denom
			}
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}

	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1.0
		for k := 1; k <= nd; k++ {
			d := 0.0
			rk := r - k
			pk := p - k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			var j1 int
			if rk >= -1 {
				j1 = 1
			} else {
				j1 = -rk
			}
			var j2 int
			if r-1 <= pk {
				j2 = k - 1
			} else {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}

	fact := float64(p)
	for k := 1; k <= nd; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= fact
		}
		fact *= float64(p - k)
	}
	return nil
}
