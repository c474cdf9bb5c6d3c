// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmesh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// TensorProduct is a d-dimensional axis-aligned box in knot-index space,
// carrying its own dense control-point net.
type TensorProduct struct {
	KnotMins []int // [d] lower knot-index bound per axis (inclusive)
	KnotMaxs []int // [d] upper knot-index bound per axis (inclusive)
	Level    int   // refinement level this tensor was created at
	NctrlPts []int // [d] number of control points per axis inside this tensor

	Ctrl    [][]float64 // [prod(NctrlPts)][r] dense control-point matrix
	Weights []float64   // [prod(NctrlPts)] parallel rational weights

	Next [][]int // [d][...] tensor indices adjacent across the max face of axis k
	Prev [][]int // [d][...] tensor indices adjacent across the min face of axis k
}

// overlapKind classifies how a candidate box's range along one axis relates
// to an existing tensor's range along that axis.
type overlapKind int

const (
	overlapNone overlapKind = iota
	overlapMin              // new box shares existing's min; its max differs from existing's max
	overlapMax              // new box shares existing's max; its min differs from existing's min
	overlapBoth             // new box overlaps but matches neither of existing's bounds
	overlapSame             // new box exactly matches existing's range on this axis
)

func classifyOverlap(exMin, exMax, newMin, newMax int) overlapKind {
	if newMin >= exMax || newMax <= exMin {
		return overlapNone
	}
	sameMin := newMin == exMin
	sameMax := newMax == exMax
	switch {
	case sameMin && sameMax:
		return overlapSame
	case sameMin:
		return overlapMin
	case sameMax:
		return overlapMax
	default:
		return overlapBoth
	}
}

// anchorCount computes the number of control-point anchors along one axis,
// following the original T-mesh source's insert_tensor anchor-counting
// formula exactly:
// nknots = kmax-kmin+1 knots span the box on this axis; anchors coincide
// with knot lines for odd p (nanchors = nknots) or lie midway between them
// for even p (nanchors = nknots-1); near a global domain boundary, knots below
// index p-1 or above totalKnots-p are clamp-multiplicity duplicates and do
// not contribute independent anchors, so the corresponding deficit is
// subtracted.
func anchorCount(p, kmin, kmax, totalKnots int) int {
	nknots := kmax - kmin + 1
	var n int
	if p%2 == 0 {
		n = nknots - 1
	} else {
		n = nknots
	}
	if kmin < p-1 {
		n -= p - 1 - kmin
	}
	if kmax > totalKnots-p {
		n -= kmax + p - totalKnots
	}
	if n < 1 {
		n = 1
	}
	return n
}

// allocTensor builds a TensorProduct's box/adjacency skeleton and allocates
// its control-point net from an already-computed per-axis NctrlPts.
func allocTensor(knotMins, knotMaxs []int, level int, nctrlPts []int, r int) *TensorProduct {
	ndims := len(nctrlPts)
	t := &TensorProduct{
		KnotMins: append([]int(nil), knotMins...),
		KnotMaxs: append([]int(nil), knotMaxs...),
		Level:    level,
		NctrlPts: nctrlPts,
		Next:     make([][]int, ndims),
		Prev:     make([][]int, ndims),
	}
	total := ctrlTotal(nctrlPts)
	t.Ctrl = la.MatAlloc(total, r)
	t.Weights = make([]float64, total)
	for i := range t.Weights {
		t.Weights[i] = 1.0
	}
	return t
}

// newTensor allocates a TensorProduct with control points sized from the
// anchor count of its box. Used for tensors introduced by InsertTensor
// (including split siblings): the box is, in general, a strict sub-range
// of the global knot indices on at least one axis.
func newTensor(ndims int, knotMins, knotMaxs []int, level int, degrees []int, globalMax []int, r int) *TensorProduct {
	nctrlPts := make([]int, ndims)
	for k := 0; k < ndims; k++ {
		totalKnots := globalMax[k] + 1
		nctrlPts[k] = anchorCount(degrees[k], knotMins[k], knotMaxs[k], totalKnots)
	}
	return allocTensor(knotMins, knotMaxs, level, nctrlPts, r)
}

// newBaseTensor allocates the single level-0 tensor spanning the entire
// global knot-index box on every axis, per the original T-mesh source's
// dedicated (and simpler) level-0 sizing: nctrl_pts[j] = all_knots[j].size()
// - p[j] - 1, rather than the generic anchor-counting formula anchorCount
// applies to boxes introduced by later refinement. Unlike anchorCount, this
// formula is exact only when the box spans the full global knot range
// (knotMins==0, knotMaxs==globalMax) on every axis, which is always true
// for the single tensor NewTmesh seeds.
func newBaseTensor(ndims int, knotMins, knotMaxs []int, degrees []int, globalMax []int, r int) *TensorProduct {
	nctrlPts := make([]int, ndims)
	for k := 0; k < ndims; k++ {
		nKnots := globalMax[k] + 1
		nctrlPts[k] = nKnots - degrees[k] - 1
	}
	return allocTensor(knotMins, knotMaxs, 0, nctrlPts, r)
}

// ctrlStrides returns the row-major strides over a tensor's NctrlPts box
func ctrlStrides(nctrl []int) []int {
	d := len(nctrl)
	s := make([]int, d)
	s[d-1] = 1
	for k := d - 2; k >= 0; k-- {
		s[k] = s[k+1] * nctrl[k+1]
	}
	return s
}

// ctrlTotal returns the product of nctrl
func ctrlTotal(nctrl []int) int {
	n := 1
	for _, v := range nctrl {
		n *= v
	}
	return n
}

// checkShape validates that the tensor's control matrix matches NctrlPts*r
func (t *TensorProduct) checkShape(r int) error {
	want := ctrlTotal(t.NctrlPts)
	if len(t.Ctrl) != want {
		return chk.Err("tmesh: tensor control matrix has %d rows; want %d", len(t.Ctrl), want)
	}
	for i, row := range t.Ctrl {
		if len(row) != r {
			return chk.Err("tmesh: tensor control row %d has %d cols; want %d", i, len(row), r)
		}
	}
	return nil
}
