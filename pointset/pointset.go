// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pointset owns the input/approximated/error point arrays that
// flow between the encoder and the decoder, partitioned into a geometry
// block and one block per science variable.
package pointset

import (
	"github.com/cpmech/gosl/chk"
)

// PointSet is an N x (d+r) matrix laid out as [geometry coords | science
// values], stored column-major (one []float64 per column) so that a single
// model-dimension's column is a contiguous slice. For structured input it
// also carries ndom_pts[d]; for scattered input, Params holds the explicit
// per-point parameter assigned to each row.
type PointSet struct {
	Ndims    int         // d: number of domain (parameter) dimensions
	Nvars    int         // r: number of science-value columns (total, across all variables)
	Npts     int         // N: total number of points (rows)
	Domain   [][]float64 // [Ndims][Npts] geometry coordinates, one column per axis
	Science  [][]float64 // [Nvars][Npts] science values, one column per variable component
	NdomPts  []int       // [Ndims] structured grid shape; nil for scattered input
	Params   [][]float64 // [Ndims][Npts] explicit per-point parameters; nil if derived from a regular grid
	VarStart []int       // [nvariables] starting column index into Science for each variable
	VarSize  []int       // [nvariables] number of Science columns (r_v) for each variable
}

// NewStructured builds a PointSet for samples on a regular grid
func NewStructured(ndomPts []int, domain, science [][]float64, varSizes []int) (o *PointSet, err error) {
	d := len(ndomPts)
	npts := 1
	for _, n := range ndomPts {
		npts *= n
	}
	if len(domain) != d {
		return nil, chk.Err("pointset: domain has %d columns; want %d (==len(ndomPts))", len(domain), d)
	}
	for k, col := range domain {
		if len(col) != npts {
			return nil, chk.Err("pointset: domain[%d] has %d rows; want %d", k, len(col), npts)
		}
	}
	nvars := 0
	for _, s := range varSizes {
		nvars += s
	}
	if len(science) != nvars {
		return nil, chk.Err("pointset: science has %d columns; want %d (sum of varSizes)", len(science), nvars)
	}
	for k, col := range science {
		if len(col) != npts {
			return nil, chk.Err("pointset: science[%d] has %d rows; want %d", k, len(col), npts)
		}
	}
	o = &PointSet{
		Ndims:   d,
		Nvars:   nvars,
		Npts:    npts,
		Domain:  domain,
		Science: science,
		NdomPts: append([]int(nil), ndomPts...),
	}
	o.VarStart = make([]int, len(varSizes))
	o.VarSize = append([]int(nil), varSizes...)
	start := 0
	for i, s := range varSizes {
		o.VarStart[i] = start
		start += s
	}
	return
}

// NewScattered builds a PointSet for samples with explicit parameters
func NewScattered(ndims int, params, domain, science [][]float64, varSizes []int) (o *PointSet, err error) {
	if len(params) != ndims {
		return nil, chk.Err("pointset: params has %d columns; want %d", len(params), ndims)
	}
	npts := 0
	if ndims > 0 {
		npts = len(params[0])
	}
	for k, col := range params {
		if len(col) != npts {
			return nil, chk.Err("pointset: params[%d] has %d rows; want %d", k, len(col), npts)
		}
	}
	if len(domain) != ndims {
		return nil, chk.Err("pointset: domain has %d columns; want %d", len(domain), ndims)
	}
	nvars := 0
	for _, s := range varSizes {
		nvars += s
	}
	if len(science) != nvars {
		return nil, chk.Err("pointset: science has %d columns; want %d", len(science), nvars)
	}
	o = &PointSet{
		Ndims:   ndims,
		Nvars:   nvars,
		Npts:    npts,
		Domain:  domain,
		Science: science,
		Params:  params,
	}
	o.VarStart = make([]int, len(varSizes))
	o.VarSize = append([]int(nil), varSizes...)
	start := 0
	for i, s := range varSizes {
		o.VarStart[i] = start
		start += s
	}
	return
}

// VarColumns returns the Science columns belonging to variable index vi
func (o *PointSet) VarColumns(vi int) [][]float64 {
	s := o.VarStart[vi]
	n := o.VarSize[vi]
	return o.Science[s : s+n]
}

// RangeExtent returns max(v) - min(v) over a single science column; used by
// the adaptive encoder to normalize residuals.
func RangeExtent(col []float64) float64 {
	if len(col) == 0 {
		return 0
	}
	lo, hi := col[0], col[0]
	for _, v := range col {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
