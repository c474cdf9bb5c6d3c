// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mfa is the external interface of the Multivariate Functional
// Approximation core: MFAInfo configuration, Model construction via fixed
// or adaptive encoding, and model-query operations.
package mfa

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/mfa/decoder"
	"github.com/cpmech/mfa/encoder"
	"github.com/cpmech/mfa/param"
	"github.com/cpmech/mfa/pointset"
	"github.com/cpmech/mfa/tmesh"
)

// MFAInfo configures a Model's construction: per-axis degree, starting
// control-point counts, weighting, regularization, and adaptive-loop
// controls. Follows gofem's inp.Data shape: a plain JSON-tagged struct with a
// SetDefault method and per-field setters, even though no CLI loads it
// here (drivers are external collaborators).
type MFAInfo struct {
	Ndims      int       `json:"ndims"`
	Degrees    []int     `json:"degrees"`
	NctrlPts   []int     `json:"nctrlPts"`
	Weighted   bool      `json:"weighted"`
	RegLambda  float64   `json:"regLambda"`
	RegMode    int       `json:"regMode"` // 0: 2nd only, 1: 1st+2nd (encoder.RegMode)
	Adaptive   bool      `json:"adaptive"`
	ErrLimit   float64   `json:"errLimit"`
	MaxRounds  int       `json:"maxRounds"`
	ParamMode  int       `json:"paramMode"` // 0: chord-length, 1: uniform-by-domain
	Verbose    bool      `json:"verbose"`
}

// NewInfo constructs an MFAInfo for a d-dimensional model with default
// settings.
func NewInfo(d int, verbose bool) (o *MFAInfo) {
	o = &MFAInfo{Ndims: d, Verbose: verbose}
	o.SetDefault()
	return
}

// SetDefault fills degrees (cubic), starting control points (one per
// degree+1, i.e. the minimal legal net), and loop controls with
// conservative defaults (mirrors inp.Data.SetDefault's role of giving every
// field a sane zero-value fallback before the caller customizes it).
func (o *MFAInfo) SetDefault() {
	if len(o.Degrees) != o.Ndims {
		o.Degrees = make([]int, o.Ndims)
		for k := range o.Degrees {
			o.Degrees[k] = 3
		}
	}
	if len(o.NctrlPts) != o.Ndims {
		o.NctrlPts = make([]int, o.Ndims)
		for k := range o.NctrlPts {
			o.NctrlPts[k] = o.Degrees[k] + 1
		}
	}
	if o.ErrLimit == 0 {
		o.ErrLimit = 1e-3
	}
	if o.MaxRounds == 0 {
		o.MaxRounds = 6
	}
}

// SetDegree sets the spline degree for axis k.
func (o *MFAInfo) SetDegree(k, p int) { o.Degrees[k] = p }

// SetNctrlPts sets the starting number of control points for axis k.
func (o *MFAInfo) SetNctrlPts(k, n int) { o.NctrlPts[k] = n }

// SetWeighted enables rational (NURBS) weighting.
func (o *MFAInfo) SetWeighted(w bool) { o.Weighted = w }

// SetRegularization configures the smoothness penalty.
func (o *MFAInfo) SetRegularization(lambda float64, mode int) {
	o.RegLambda = lambda
	o.RegMode = mode
}

// SetAdaptive configures the adaptive refinement loop.
func (o *MFAInfo) SetAdaptive(enabled bool, errLimit float64, maxRounds int) {
	o.Adaptive = enabled
	o.ErrLimit = errLimit
	o.MaxRounds = maxRounds
}

// Model is a fitted MFA: a T-mesh shared by all science-value components,
// plus the axis parameter vectors used to encode it (needed by the adaptive
// loop's re-encode passes). The PointSet's geometry coordinates (its Domain
// columns) and science values are not stored here; only the fitted T-mesh
// and its encoding parameters persist past construction.
type Model struct {
	Info       *MFAInfo
	Tmesh      *tmesh.Tmesh
	AxisParams [][]float64
}

// logVerbose writes a cyan status line when info.Verbose is set. Passing the verbosity flag by reference rather than using a
// package-level logger singleton mirrors gofem's inp.Data/fem.Domain
// verbose-gating convention.
func logVerbose(info *MFAInfo, format string, args ...interface{}) {
	if info.Verbose {
		io.Pfcyan(format, args...)
	}
}

// EncodeFixed builds a Model via the fixed least-squares encoder.
func EncodeFixed(ps *pointset.PointSet, info *MFAInfo) (m *Model, err error) {
	if ps.Ndims != info.Ndims {
		return nil, chk.Err("mfa: point set has %d dims; info has %d", ps.Ndims, info.Ndims)
	}
	if len(ps.NdomPts) != info.Ndims {
		return nil, chk.Err("mfa: EncodeFixed requires structured input")
	}
	logVerbose(info, "mfa: fixed encode, ndims=%d\n", info.Ndims)

	axisParams, knots, err := buildKnots(ps, info)
	if err != nil {
		return nil, err
	}

	tm, err := tmesh.NewTmesh(info.Degrees, knots, ps.Nvars)
	if err != nil {
		return nil, err
	}

	reg := encoder.Regularization{Lambda: info.RegLambda, Mode: encoder.RegMode(info.RegMode)}
	if err = encoder.FixedEncode(tm, ps, axisParams, reg, info.Weighted); err != nil {
		return nil, err
	}
	return &Model{Info: info, Tmesh: tm, AxisParams: axisParams}, nil
}

// EncodeAdaptive builds a Model via the encode→scan→refine loop.
func EncodeAdaptive(ps *pointset.PointSet, info *MFAInfo, eps float64, maxRounds int) (m *Model, res encoder.AdaptiveResult, err error) {
	axisParams, knots, err := buildKnots(ps, info)
	if err != nil {
		return nil, res, err
	}
	tm, err := tmesh.NewTmesh(info.Degrees, knots, ps.Nvars)
	if err != nil {
		return nil, res, err
	}
	reg := encoder.Regularization{Lambda: info.RegLambda, Mode: encoder.RegMode(info.RegMode)}
	res, err = encoder.AdaptiveEncode(tm, ps, axisParams, reg, info.Weighted, eps, maxRounds, decoder.DecodePoint)
	if err != nil {
		return nil, res, err
	}
	logVerbose(info, "mfa: adaptive encode finished in %d rounds, state=%s\n", res.Rounds, res.State)
	return &Model{Info: info, Tmesh: tm, AxisParams: axisParams}, res, nil
}

// buildKnots computes per-axis parameterization and the corresponding
// clamped base-level knot vectors.
func buildKnots(ps *pointset.PointSet, info *MFAInfo) (axisParams [][]float64, knots []*tmesh.KnotVector, err error) {
	method := param.ChordLength
	if info.ParamMode == 1 {
		method = param.UniformByDomain
	}
	dom := &param.Domain{Ndims: ps.Ndims, NdomPts: ps.NdomPts, Coords: ps.Domain, GeomDims: ps.Ndims}
	pp, err := param.Compute(dom, method)
	if err != nil {
		return nil, nil, err
	}
	axisParams = pp.Vals
	knots = make([]*tmesh.KnotVector, info.Ndims)
	for k := 0; k < info.Ndims; k++ {
		knots[k], err = tmesh.NewClampedKnotVector(info.Degrees[k], info.NctrlPts[k], axisParams[k])
		if err != nil {
			return nil, nil, err
		}
	}
	return axisParams, knots, nil
}

// Decode evaluates the model at params.
func (m *Model) Decode(params []float64) (out []float64, err error) {
	out = make([]float64, m.Tmesh.Nvars)
	err = decoder.DecodePoint(m.Tmesh, params, out)
	return
}

// DecodeDeriv evaluates the mixed partial derivative given by deriv[d] at
// params.
func (m *Model) DecodeDeriv(params []float64, deriv []int) (out []float64, err error) {
	out = make([]float64, m.Tmesh.Nvars)
	err = decoder.DecodePointDeriv(m.Tmesh, params, deriv, out)
	return
}

// IntegrateRay integrates along `axis` between u0 and u1 with the other
// axes pinned at paramsPerp; if fixedLength is true the result is divided
// by the segment length to produce an average rather than a raw integral.
func (m *Model) IntegrateRay(axis int, paramsPerp []float64, u0, u1 float64, fixedLength bool) (out []float64, err error) {
	out, err = decoder.IntegrateAxisRay(m.Tmesh, axis, paramsPerp, u0, u1)
	if err != nil {
		return nil, err
	}
	if fixedLength {
		length := u1 - u0
		if length < 0 {
			length = -length
		}
		if length != 0 {
			for i := range out {
				out[i] /= length
			}
		}
	}
	return out, nil
}

// RangeError reports per-point residuals and aggregate L∞/L2 norms against
// expected values at the given parameter rows.
func (m *Model) RangeError(paramRows [][]float64, expected [][]float64) (points []decoder.RangePoint, linf, l2 float64, err error) {
	return decoder.RangeError(m.Tmesh, paramRows, expected)
}
