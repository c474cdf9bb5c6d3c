// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decoder implements forward evaluation of a T-mesh model: point
// decode, mixed-partial derivative decode, and axis-aligned ray
// integration. The decoder is a pure reader of tmesh.Tmesh state.
package decoder

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/mfa/gridinfo"
	"github.com/cpmech/mfa/tmesh"
)

// DecodePoint evaluates the model at params, writing the r science
// components into out. It locates the owning
// tensor, computes the p(k)+1 non-vanishing basis values per axis, and
// accumulates the control-point linear combination over the flattened
// ∏(p(k)+1) tuple sweep.
func DecodePoint(tm *tmesh.Tmesh, params []float64, out []float64) (err error) {
	ti, knotIdx, err := locate(tm, params)
	if err != nil {
		return err
	}
	t := tm.Tensors[ti]

	p := tm.Degrees
	spans := make([]int, tm.Ndims)
	basis := make([][]float64, tm.Ndims)
	for k := 0; k < tm.Ndims; k++ {
		spans[k], err = tm.FindSpan(k, params[k], t.Level)
		if err != nil {
			return err
		}
		basis[k] = make([]float64, p[k]+1)
		if err = tm.BasisFuns(k, params[k], spans[k], t.Level, basis[k]); err != nil {
			return err
		}
	}

	r := len(out)
	for i := range out {
		out[i] = 0
	}
	denom := 0.0
	weighted := !allOnes(t.Weights)

	shape := make([]int, tm.Ndims)
	for k := range shape {
		shape[k] = p[k] + 1
	}
	iter := gridinfo.NewVolIterator(shape)
	strides := ctrlStrides(t.NctrlPts)
	for iter.Next() {
		c := iter.Index()
		weight := 1.0
		lin := 0
		valid := true
		for k := 0; k < tm.Ndims; k++ {
			col := spans[k] - p[k] + c[k]
			if col < 0 || col >= t.NctrlPts[k] {
				valid = false
				break
			}
			weight *= basis[k][c[k]]
			lin += col * strides[k]
		}
		if !valid {
			continue
		}
		w := weight
		if weighted {
			w *= t.Weights[lin]
		}
		for i := 0; i < r; i++ {
			out[i] += w * t.Ctrl[lin][i]
		}
		denom += w
	}
	if weighted && denom != 0 {
		for i := 0; i < r; i++ {
			out[i] /= denom
		}
	}
	_ = knotIdx
	return nil
}

// DecodePointDeriv evaluates the mixed partial derivative given by deriv[d]
// (derivative order per axis) at params. deriv == zero-vector matches
// DecodePoint exactly.
func DecodePointDeriv(tm *tmesh.Tmesh, params []float64, deriv []int, out []float64) (err error) {
	zeroOrder := true
	for _, d := range deriv {
		if d != 0 {
			zeroOrder = false
		}
	}
	if zeroOrder {
		return DecodePoint(tm, params, out)
	}
	ti, _, err := locate(tm, params)
	if err != nil {
		return err
	}
	t := tm.Tensors[ti]
	p := tm.Degrees

	spans := make([]int, tm.Ndims)
	basis := make([][]float64, tm.Ndims)
	for k := 0; k < tm.Ndims; k++ {
		if deriv[k] > p[k] {
			return chk.Err("decoder: derivative order %d exceeds degree %d on axis %d", deriv[k], p[k], k)
		}
		spans[k], err = tm.FindSpan(k, params[k], t.Level)
		if err != nil {
			return err
		}
		ders := make([][]float64, deriv[k]+1)
		for i := range ders {
			ders[i] = make([]float64, p[k]+1)
		}
		if err = tm.DerivBasisFuns(k, params[k], spans[k], t.Level, deriv[k], ders); err != nil {
			return err
		}
		basis[k] = ders[deriv[k]]
	}

	r := len(out)
	for i := range out {
		out[i] = 0
	}
	shape := make([]int, tm.Ndims)
	for k := range shape {
		shape[k] = p[k] + 1
	}
	iter := gridinfo.NewVolIterator(shape)
	strides := ctrlStrides(t.NctrlPts)
	for iter.Next() {
		c := iter.Index()
		weight := 1.0
		lin := 0
		valid := true
		for k := 0; k < tm.Ndims; k++ {
			col := spans[k] - p[k] + c[k]
			if col < 0 || col >= t.NctrlPts[k] {
				valid = false
				break
			}
			weight *= basis[k][c[k]]
			lin += col * strides[k]
		}
		if !valid {
			continue
		}
		for i := 0; i < r; i++ {
			out[i] += weight * t.Ctrl[lin][i]
		}
	}
	return nil
}

// IntegrateAxisRay integrates the decoded value along `axis` from u0 to u1
// with the remaining axes pinned at paramsPerp, by one 8-point
// Gauss-Legendre rule over [u0,u1] applied to DecodePoint values. The rule
// is not split at knots: the result is exact when [u0,u1] lies inside a
// single knot span (a polynomial of degree <= 15 there) and approximate when
// the segment crosses interior knots. The B-spline antiderivative identity
// is not used.
// integrate(a,b) == integrate(b,a): the function is orientation-independent,
// not signed, so reversed-order calls return the same value rather than its
// negation. The caller is expected to divide by segment length when an
// average is wanted, and a degenerate segment (u0 == u1) returns 0.
func IntegrateAxisRay(tm *tmesh.Tmesh, axis int, paramsPerp []float64, u0, u1 float64) (out []float64, err error) {
	if u0 == u1 {
		r := tensorR(tm)
		return make([]float64, r), nil
	}
	if u1 < u0 {
		u0, u1 = u1, u0
	}

	const nGauss = 8
	xs, ws := gaussLegendre8()
	r := tensorR(tm)
	out = make([]float64, r)
	half := 0.5 * (u1 - u0)
	mid := 0.5 * (u1 + u0)
	params := append([]float64(nil), paramsPerp...)
	params = insertAt(params, axis, 0)
	val := make([]float64, r)
	for i := 0; i < nGauss; i++ {
		u := mid + half*xs[i]
		params[axis] = u
		if err = DecodePoint(tm, params, val); err != nil {
			return nil, err
		}
		for c := 0; c < r; c++ {
			out[c] += ws[i] * val[c]
		}
	}
	for c := 0; c < r; c++ {
		out[c] *= half
	}
	return out, nil
}

func insertAt(s []float64, axis int, v float64) []float64 {
	out := make([]float64, len(s)+1)
	j := 0
	for i := range out {
		if i == axis {
			out[i] = v
		} else {
			out[i] = s[j]
			j++
		}
	}
	return out
}

func tensorR(tm *tmesh.Tmesh) int {
	if len(tm.Tensors) == 0 || len(tm.Tensors[0].Ctrl) == 0 {
		return 0
	}
	return len(tm.Tensors[0].Ctrl[0])
}

// gaussLegendre8 returns the 8-point Gauss-Legendre quadrature nodes and
// weights on [-1,1], accurate to machine precision for the smooth spline
// integrands this decoder evaluates.
func gaussLegendre8() (xs, ws []float64) {
	xs = []float64{
		-0.9602898564975363, -0.7966664774136267, -0.5255324099163290, -0.1834346424956498,
		0.1834346424956498, 0.5255324099163290, 0.7966664774136267, 0.9602898564975363,
	}
	ws = []float64{
		0.1012285362903763, 0.2223810344533745, 0.3137066458778873, 0.3626837833783620,
		0.3626837833783620, 0.3137066458778873, 0.2223810344533745, 0.1012285362903763,
	}
	return
}

// RangePoint is one sample's decoded-vs-input residual.
type RangePoint struct {
	Params []float64
	Resid  []float64
	Norm   float64
}

// RangeError decodes the model at every given parameter tuple and reports
// the per-point residual against expected, plus aggregate L∞/L2 norms.
func RangeError(tm *tmesh.Tmesh, paramRows [][]float64, expected [][]float64) (points []RangePoint, linf, l2 float64, err error) {
	n := len(paramRows)
	points = make([]RangePoint, n)
	r := tensorR(tm)
	for i := 0; i < n; i++ {
		out := make([]float64, r)
		if err = DecodePoint(tm, paramRows[i], out); err != nil {
			return nil, 0, 0, err
		}
		resid := make([]float64, r)
		norm := 0.0
		for c := 0; c < r; c++ {
			resid[c] = out[c] - expected[i][c]
			norm += resid[c] * resid[c]
		}
		norm = math.Sqrt(norm)
		points[i] = RangePoint{Params: paramRows[i], Resid: resid, Norm: norm}
		if norm > linf {
			linf = norm
		}
		l2 += norm * norm
	}
	l2 = math.Sqrt(l2)
	return
}

// DecodeMany decodes every row of paramRows concurrently: shared
// *tmesh.Tmesh state is read-only during the parallel phase, so no
// mutation happens here.
func DecodeMany(tm *tmesh.Tmesh, paramRows [][]float64) (out [][]float64, err error) {
	n := len(paramRows)
	out = make([][]float64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := tensorR(tm)
			row := make([]float64, r)
			errs[i] = DecodePoint(tm, paramRows[i], row)
			out[i] = row
		}(i)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return nil, e
		}
	}
	return out, nil
}

// locate finds the tensor containing params and returns its index. The
// knotIdx result is always nil.
func locate(tm *tmesh.Tmesh, params []float64) (ti int, knotIdx []int, err error) {
	for i, t := range tm.Tensors {
		inside := true
		for k := 0; k < tm.Ndims; k++ {
			kv := tm.Knots[k]
			lo := kv.Vals[t.KnotMins[k]]
			hi := kv.Vals[t.KnotMaxs[k]]
			onUpper := t.KnotMaxs[k] == tm.GlobalMax(k) && params[k] == hi
			if params[k] < lo || (params[k] >= hi && !onUpper) {
				inside = false
				break
			}
		}
		if inside {
			return i, nil, nil
		}
	}
	return -1, nil, chk.Err("decoder: no tensor contains params %v", params)
}

func allOnes(w []float64) bool {
	for _, v := range w {
		if v != 1.0 {
			return false
		}
	}
	return true
}

func ctrlStrides(nctrl []int) []int {
	d := len(nctrl)
	s := make([]int, d)
	s[d-1] = 1
	for k := d - 2; k >= 0; k-- {
		s[k] = s[k+1] * nctrl[k+1]
	}
	return s
}
