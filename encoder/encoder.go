// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package encoder implements the least-squares fixed encoder and the
// adaptive refinement driver: converting a PointSet into
// control points of a T-mesh's base tensor, then alternating encode → error
// scan → refine until every knot span satisfies the error tolerance.
package encoder

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/mfa/gridinfo"
	"github.com/cpmech/mfa/pointset"
	"github.com/cpmech/mfa/tmesh"
)

// RegMode selects the finite-difference smoothness stencil used by the
// encoder's optional regularization term.
type RegMode int

const (
	// RegSecondOnly penalizes the 2nd-derivative operator only.
	RegSecondOnly RegMode = iota
	// RegFirstAndSecond penalizes 1st+2nd-derivative operators together.
	RegFirstAndSecond
)

// Regularization configures the optional smoothness penalty λ·SᵀS added to
// NtN before solving. The stencil is applied when solving the base (level-0)
// tensor, which is the only tensor FixedEncode solves; tensors introduced by
// the adaptive loop are not solved by it.
type Regularization struct {
	Lambda float64
	Mode   RegMode
}

// valueGrid is a dense value buffer over a row-major shape, used for the
// encoder's intermediate double-buffered control nets (one float64 per grid
// cell — scalar, since variables are encoded independently).
type valueGrid struct {
	shape []int
	data  []float64
}

func newValueGrid(shape []int) *valueGrid {
	total := 1
	for _, s := range shape {
		total *= s
	}
	return &valueGrid{shape: append([]int(nil), shape...), data: make([]float64, total)}
}

func (g *valueGrid) lin(idx []int) int {
	return flattenRowMajor(idx, g.shape)
}

func (g *valueGrid) Get(idx []int) float64    { return g.data[g.lin(idx)] }
func (g *valueGrid) Set(idx []int, v float64) { g.data[g.lin(idx)] = v }

func flattenRowMajor(idx, shape []int) int {
	lin := 0
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		lin += idx[i] * stride
		stride *= shape[i]
	}
	return lin
}

// FixedEncode solves for the control points of the T-mesh's base (level-0)
// tensor from the given point set, one science-value component at a time,
// via a separable per-axis normal-equations solve. axisParams
// holds, for each axis, the per-grid-line parameter vector produced by the
// param package (ps.Params is reserved for scattered per-point parameters
// and is not used here). Weighted (rational) control points are left with
// their stored Weights; when weighted is true the basis matrix is
// rationalized before forming the normal equations.
func FixedEncode(tm *tmesh.Tmesh, ps *pointset.PointSet, axisParams [][]float64, reg Regularization, weighted bool) (err error) {
	if ps.Ndims != tm.Ndims {
		return chk.Err("encoder: point set has %d dims; T-mesh has %d", ps.Ndims, tm.Ndims)
	}
	if len(ps.NdomPts) != tm.Ndims {
		return chk.Err("encoder: FixedEncode requires structured input (ndom_pts set per axis)")
	}
	if len(axisParams) != tm.Ndims {
		return chk.Err("encoder: axisParams has %d axes; want %d", len(axisParams), tm.Ndims)
	}
	base := tm.Tensors[0]

	nvars := ps.Nvars
	grids := make([]*valueGrid, nvars)
	for vi := 0; vi < nvars; vi++ {
		grids[vi] = newValueGrid(ps.NdomPts)
		col := ps.Science[vi]
		iter := gridinfo.NewVolIterator(ps.NdomPts)
		lin := 0
		for iter.Next() {
			idx := iter.Index()
			grids[vi].Set(idx, col[lin])
			lin++
		}
	}

	curShape := append([]int(nil), ps.NdomPts...)
	for axis := 0; axis < tm.Ndims; axis++ {
		N, err := basisMatrixInterior(tm, axis, axisParams[axis], base, weighted)
		if err != nil {
			return err
		}
		NtN, err := normalEquations(N, reg)
		if err != nil {
			return err
		}
		NtNinv := la.MatAlloc(len(NtN), len(NtN))
		det, ierr := la.MatInv(NtNinv, NtN, 1e-14)
		if ierr != nil {
			return chk.Err("encoder: normal-equations solve failed on axis %d: %v", axis, ierr)
		}
		if det == 0 {
			return chk.Err("encoder: singular normal-equations matrix on axis %d (det below floor)", axis)
		}
		newShape := append([]int(nil), curShape...)
		newShape[axis] = base.NctrlPts[axis]
		for vi := 0; vi < nvars; vi++ {
			grids[vi], err = solveAxis(N, NtNinv, grids[vi], curShape, newShape, axis)
			if err != nil {
				return err
			}
		}
		curShape = newShape
	}

	total := 1
	for _, n := range curShape {
		total *= n
	}
	if len(base.Ctrl) != total {
		base.Ctrl = la.MatAlloc(total, nvars)
	}
	iter := gridinfo.NewVolIterator(curShape)
	for iter.Next() {
		idx := iter.Index()
		lin := flattenRowMajor(idx, curShape)
		for vi := 0; vi < nvars; vi++ {
			base.Ctrl[lin][vi] = grids[vi].Get(idx)
		}
	}
	return nil
}

// basisMatrixInterior builds the m x n basis matrix for
// one axis, evaluating the base tensor's level-0 basis at each parameter
// sample along that axis. When weighted, each column is scaled by the
// corresponding control point's weight and each row is renormalized by the
// row sum (rational basis).
func basisMatrixInterior(tm *tmesh.Tmesh, axis int, params []float64, base *tmesh.TensorProduct, weighted bool) ([][]float64, error) {
	p := tm.Degrees[axis]
	n := base.NctrlPts[axis]
	m := len(params)
	N := la.MatAlloc(m, n)
	row := make([]float64, p+1)
	for i, u := range params {
		span, err := tm.FindSpan(axis, u, base.Level)
		if err != nil {
			return nil, err
		}
		if err = tm.BasisFuns(axis, u, span, base.Level, row); err != nil {
			return nil, err
		}
		for c := 0; c <= p; c++ {
			col := span - p + c
			if col < 0 || col >= n {
				continue
			}
			N[i][col] = row[c]
		}
	}
	if weighted {
		w := axisWeights(base, axis, n)
		for i := 0; i < m; i++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				N[i][j] *= w[j]
				sum += N[i][j]
			}
			if sum != 0 {
				for j := 0; j < n; j++ {
					N[i][j] /= sum
				}
			}
		}
	}
	return N, nil
}

// axisWeights extracts a representative per-axis weight vector by reading
// the weight of the control point at index 0 in every other axis (the
// common "separable weight" case: NURBS weights that vary along one axis
// independently of the others).
func axisWeights(t *tmesh.TensorProduct, axis, n int) []float64 {
	w := make([]float64, n)
	strides := make([]int, len(t.NctrlPts))
	strides[len(strides)-1] = 1
	for k := len(strides) - 2; k >= 0; k-- {
		strides[k] = strides[k+1] * t.NctrlPts[k+1]
	}
	idx := make([]int, len(t.NctrlPts))
	for j := 0; j < n; j++ {
		idx[axis] = j
		lin := 0
		for k, v := range idx {
			lin += v * strides[k]
		}
		if lin < len(t.Weights) {
			w[j] = t.Weights[lin]
		} else {
			w[j] = 1.0
		}
	}
	return w
}

// normalEquations forms NtN = Nᵀ·N and, when reg.Lambda > 0, adds the
// λ·Sᵀ·S smoothness penalty (a second-difference operator, optionally
// combined with a first-difference operator).
func normalEquations(N [][]float64, reg Regularization) (NtN [][]float64, err error) {
	m := len(N)
	if m == 0 {
		return nil, chk.Err("encoder: empty basis matrix")
	}
	n := len(N[0])
	Nt := la.MatAlloc(n, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			Nt[j][i] = N[i][j]
		}
	}
	NtN = la.MatAlloc(n, n)
	la.MatMul(NtN, 1.0, Nt, N)

	if reg.Lambda > 0 {
		S := secondDiffStencil(n)
		if reg.Mode == RegFirstAndSecond {
			S = append(S, firstDiffStencil(n)...)
		}
		if len(S) > 0 {
			St := la.MatAlloc(n, len(S))
			for i := range S {
				for j := range S[i] {
					St[j][i] = S[i][j]
				}
			}
			StS := la.MatAlloc(n, n)
			la.MatMul(StS, reg.Lambda, St, S)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					NtN[i][j] += StS[i][j]
				}
			}
		}
	}
	return NtN, nil
}

func secondDiffStencil(n int) [][]float64 {
	if n < 3 {
		return nil
	}
	S := la.MatAlloc(n-2, n)
	for i := 0; i < n-2; i++ {
		S[i][i] = 1
		S[i][i+1] = -2
		S[i][i+2] = 1
	}
	return S
}

func firstDiffStencil(n int) [][]float64 {
	if n < 2 {
		return nil
	}
	S := la.MatAlloc(n-1, n)
	for i := 0; i < n-1; i++ {
		S[i][i] = 1
		S[i][i+1] = -1
	}
	return S
}

// solveAxis runs the separable 1-D solve along `axis`: for every fixed
// tuple of the other axes' indices, form the residual vector R from
// `grid`, solve NtN·P = NᵀR via the precomputed inverse of NtN (gosl's la
// package has no dedicated Cholesky/LDLT routine; see DESIGN.md), and
// write the result into a freshly sized output buffer — double-buffering
// across axes, so earlier axes' already-reduced control-point counts
// speed up later axes.
func solveAxis(N, NtNinv [][]float64, grid *valueGrid, curShape, newShape []int, axis int) (*valueGrid, error) {
	m := len(N)
	n := len(NtNinv)

	Nt := la.MatAlloc(n, m)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			Nt[j][i] = N[i][j]
		}
	}

	out := newValueGrid(newShape)
	otherShape := dropAxis(curShape, axis)
	iter := gridinfo.NewVolIterator(otherShape)
	for iter.Next() {
		fixed := iter.Index()
		R := make([]float64, m)
		for i := 0; i < m; i++ {
			R[i] = grid.Get(insertAxis(fixed, axis, i))
		}
		NtR := make([]float64, n)
		la.MatVecMul(NtR, 1.0, Nt, R)
		P := make([]float64, n)
		la.MatVecMul(P, 1.0, NtNinv, NtR)
		for c := 0; c < n; c++ {
			out.Set(insertAxis(fixed, axis, c), P[c])
		}
	}
	return out, nil
}

func dropAxis(shape []int, axis int) []int {
	out := make([]int, 0, len(shape)-1)
	for i, s := range shape {
		if i != axis {
			out = append(out, s)
		}
	}
	return out
}

func insertAxis(fixed []int, axis, val int) []int {
	out := make([]int, len(fixed)+1)
	j := 0
	for i := range out {
		if i == axis {
			out[i] = val
		} else {
			out[i] = fixed[j]
			j++
		}
	}
	return out
}
