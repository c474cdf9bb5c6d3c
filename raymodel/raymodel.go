// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package raymodel builds a second-stage 3-D (t, ρ, α) model over an
// existing 2-D geometry+variable MFA, for tomography-like ray queries.
package raymodel

import (
	"math"

	"github.com/cpmech/mfa/decoder"
	"github.com/cpmech/mfa/tmesh"
)

// ClipMode selects how ray endpoints are determined.
type ClipMode int

const (
	// FixedLength places endpoints on a circle of radius r_lim =
	// 1.5 * max|coordinate| in the source domain.
	FixedLength ClipMode = iota
	// BoxIntersection clips the ray against the source domain's
	// rectangle and emits a degenerate (0,0)-(0,0) segment for rays that
	// miss the rectangle entirely.
	BoxIntersection
)

// OutOfDomainSentinel tags samples that fall outside the source domain in
// FixedLength mode. A dedicated sentinel channel or a mask vector would
// be cleaner, but no mask-vector consumer exists yet, so a plain float
// constant is retained here, matching the source's own choice.
const OutOfDomainSentinel = 1000.0

// Sample is one (α, ρ, t) ray sample with its endpoint-clipped f value.
type Sample struct {
	Alpha, Rho, T float64
	X0, Y0        float64
	X1, Y1        float64
	Value         float64
	OutOfDomain   bool
}

// Build samples a grid of (α, ρ, t) triples against the source 2-D model,
// producing the PointSet rows for a new 3-D encode pass. The re-encode
// step is left to the caller via the encoder package, since raymodel
// only owns ray geometry and sampling, not the encode loop.
func Build(source *tmesh.Tmesh, domainHalfExtent float64, mode ClipMode, alphas, rhos, ts []float64) (samples []Sample, err error) {
	rLim := domainHalfExtent
	if mode == FixedLength {
		rLim = 1.5 * domainHalfExtent
	}

	for _, alpha := range alphas {
		for _, rho := range rhos {
			x0, y0, x1, y1, hit := endpoints(alpha, rho, rLim, domainHalfExtent, mode)
			for _, t := range ts {
				s := Sample{Alpha: alpha, Rho: rho, T: t, X0: x0, Y0: y0, X1: x1, Y1: y1}
				if !hit {
					s.OutOfDomain = true
					if mode == BoxIntersection {
						s.Value = 0
					} else {
						s.Value = OutOfDomainSentinel
					}
					samples = append(samples, s)
					continue
				}
				px := x0 + t*(x1-x0)
				py := y0 + t*(y1-y0)
				out := make([]float64, 1)
				derr := decoder.DecodePoint(source, []float64{px, py}, out)
				if derr != nil {
					if mode == BoxIntersection {
						s.Value = 0
					} else {
						s.OutOfDomain = true
						s.Value = OutOfDomainSentinel
					}
				} else {
					s.Value = out[0]
				}
				samples = append(samples, s)
			}
		}
	}
	return samples, nil
}

// endpoints computes the ray endpoints for the line y*sin(alpha) +
// x*cos(alpha) = rho. In FixedLength mode the endpoints
// lie on a circle of radius rLim; a line with |rho| > rLim misses the circle.
// In BoxIntersection mode the line is
// clipped against the square [-halfExtent, halfExtent]^2 using the
// enter/exit case table; hit=false signals a ray that misses the circle or
// the domain entirely (emitted as (0,0)-(0,0)).
func endpoints(alpha, rho, rLim, halfExtent float64, mode ClipMode) (x0, y0, x1, y1 float64, hit bool) {
	dx, dy := -math.Sin(alpha), math.Cos(alpha)
	px, py := rho*math.Cos(alpha), rho*math.Sin(alpha)

	if mode == FixedLength {
		h2 := rLim*rLim - rho*rho
		if h2 < 0 {
			return 0, 0, 0, 0, false
		}
		h := math.Sqrt(h2)
		x0, y0 = px-h*dx, py-h*dy
		x1, y1 = px+h*dx, py+h*dy
		return x0, y0, x1, y1, true
	}

	tmin, tmax, ok := clipToBox(px, py, dx, dy, halfExtent)
	if !ok {
		return 0, 0, 0, 0, false
	}
	x0, y0 = px+tmin*dx, py+tmin*dy
	x1, y1 = px+tmax*dx, py+tmax*dy
	return x0, y0, x1, y1, true
}

// clipToBox clips the parametric line (px,py)+s*(dx,dy) against the square
// [-half,half]^2 via the Liang-Barsky case table (enter-left/exit-bottom/
// etc.), returning the entry/exit parameters.
func clipToBox(px, py, dx, dy, half float64) (tmin, tmax float64, ok bool) {
	tmin, tmax = math.Inf(-1), math.Inf(1)
	clip := func(p, d float64) bool {
		if d == 0 {
			return p >= -half && p <= half
		}
		t0 := (-half - p) / d
		t1 := (half - p) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		return tmin <= tmax
	}
	if !clip(px, dx) {
		return 0, 0, false
	}
	if !clip(py, dy) {
		return 0, 0, false
	}
	return tmin, tmax, true
}
