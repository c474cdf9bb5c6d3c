// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package param assigns each sample of a structured grid a parameter in
// [0,1]^d, by chord-length or uniform-by-domain averaging.
package param

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Method selects the parameterization rule
type Method int

const (
	ChordLength     Method = iota // average normalized chord-length along each axis
	UniformByDomain               // |x_i - x_0| / |x_last - x_0|
)

// Domain holds the structured sample coordinates and point count per axis
// needed to assign parameters; Coords holds the geometry (domain_k)
// coordinate of every sample, laid out as a flat d-dim grid.
type Domain struct {
	Ndims    int         // d
	NdomPts  []int       // [d] number of samples along each axis
	Coords   [][]float64 // [ngeom][ntotal] one row per geometry coordinate
	GeomDims int         // number of geometry coordinates stored in Coords (>= d, usually == d)
}

// Params holds the assigned per-axis parameter vectors
type Params struct {
	Vals [][]float64 // [d][NdomPts[k]] parameter values along each axis, 0..1
}

// Compute assigns parameters to a structured point grid using the given method
func Compute(dom *Domain, method Method) (p *Params, err error) {
	if dom.Ndims < 1 {
		return nil, chk.Err("param: domain must have at least one axis")
	}
	if len(dom.NdomPts) != dom.Ndims {
		return nil, chk.Err("param: NdomPts has wrong length %d; want %d", len(dom.NdomPts), dom.Ndims)
	}
	p = new(Params)
	p.Vals = make([][]float64, dom.Ndims)
	switch method {
	case ChordLength:
		for k := 0; k < dom.Ndims; k++ {
			p.Vals[k], err = chordLengthAxis(dom, k)
			if err != nil {
				return nil, err
			}
		}
	case UniformByDomain:
		for k := 0; k < dom.Ndims; k++ {
			p.Vals[k], err = uniformAxis(dom, k)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, chk.Err("param: unknown method %d", method)
	}
	return
}

// curveOffsets walks every curve of the structured grid that runs along axis k,
// returning the linear offset of the first point and the stride to the next point
// along that curve. It is a thin specialization of the d-dim iterator over all
// axes other than k.
func curveOffsets(ndomPts []int, k int) (offsets []int, stride int) {
	d := len(ndomPts)
	strides := make([]int, d)
	strides[d-1] = 1
	for i := d - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * ndomPts[i+1]
	}
	stride = strides[k]
	nOther := 1
	for i := 0; i < d; i++ {
		if i != k {
			nOther *= ndomPts[i]
		}
	}
	offsets = make([]int, nOther)
	idx := make([]int, d)
	o := 0
	total := 1
	for _, n := range ndomPts {
		total *= n
	}
	for lin := 0; lin < total; lin++ {
		rem := lin
		for i := 0; i < d; i++ {
			idx[i] = rem / strides[i]
			rem -= idx[i] * strides[i]
		}
		if idx[k] == 0 {
			offsets[o] = lin
			o++
		}
	}
	return
}

// chordLengthAxis computes params[k] by averaging, across all parallel curves
// running along axis k, the normalized cumulative Euclidean chord length.
func chordLengthAxis(dom *Domain, k int) (vals []float64, err error) {
	n := dom.NdomPts[k]
	if n < 2 {
		vals = make([]float64, n)
		return
	}
	offsets, stride := curveOffsets(dom.NdomPts, k)
	sum := make([]float64, n)
	nUsed := 0
	for _, off := range offsets {
		u := make([]float64, n)
		total := 0.0
		for i := 1; i < n; i++ {
			lin0 := off + (i-1)*stride
			lin1 := off + i*stride
			d2 := 0.0
			for g := 0; g < dom.GeomDims; g++ {
				diff := dom.Coords[g][lin1] - dom.Coords[g][lin0]
				d2 += diff * diff
			}
			total += math.Sqrt(d2)
			u[i] = total
		}
		if total <= 0 {
			continue // ignore zero-length curves
		}
		for i := 0; i < n; i++ {
			sum[i] += u[i] / total
		}
		nUsed++
	}
	vals = make([]float64, n)
	if nUsed == 0 {
		// degenerate: fall back to a uniform spread
		for i := 0; i < n; i++ {
			vals[i] = float64(i) / float64(n-1)
		}
		return
	}
	for i := 0; i < n; i++ {
		vals[i] = sum[i] / float64(nUsed)
	}
	vals[0] = 0.0
	vals[n-1] = 1.0
	return
}

// uniformAxis computes params[k][i] = |x_i - x_0| / |x_last - x_0| using the
// axis-k geometry coordinate of the first curve encountered.
func uniformAxis(dom *Domain, k int) (vals []float64, err error) {
	n := dom.NdomPts[k]
	vals = make([]float64, n)
	if n < 2 {
		return
	}
	offsets, stride := curveOffsets(dom.NdomPts, k)
	if len(offsets) == 0 {
		return nil, chk.Err("param: no curves found along axis %d", k)
	}
	off := offsets[0]
	x0 := dom.Coords[k][off]
	xlast := dom.Coords[k][off+(n-1)*stride]
	extent := math.Abs(xlast - x0)
	if extent <= 0 {
		return nil, chk.Err("param: degenerate axis %d extent (x0=%v, xlast=%v)", k, x0, xlast)
	}
	for i := 0; i < n; i++ {
		xi := dom.Coords[k][off+i*stride]
		vals[i] = math.Abs(xi-x0) / extent
	}
	vals[0] = 0.0
	vals[n-1] = 1.0
	return
}
