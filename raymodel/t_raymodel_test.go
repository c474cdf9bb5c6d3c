// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package raymodel

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/mfa/tmesh"
)

// buildConstant2D builds a 2-D T-mesh over [0,1]x[0,1] whose control net is
// uniformly `val`, so any ray through the domain integrates/decodes to a
// known closed-form value.
func buildConstant2D(tst *testing.T, val float64) *tmesh.Tmesh {
	kv0, err := tmesh.NewClampedKnotVector(2, 4, nil)
	if err != nil {
		tst.Fatalf("NewClampedKnotVector axis0 failed: %v", err)
	}
	kv1, err := tmesh.NewClampedKnotVector(2, 4, nil)
	if err != nil {
		tst.Fatalf("NewClampedKnotVector axis1 failed: %v", err)
	}
	tm, err := tmesh.NewTmesh([]int{2, 2}, []*tmesh.KnotVector{kv0, kv1}, 1)
	if err != nil {
		tst.Fatalf("NewTmesh failed: %v", err)
	}
	for i := range tm.Tensors[0].Ctrl {
		tm.Tensors[0].Ctrl[i][0] = val
	}
	return tm
}

func Test_raymodel01_fixed_length_hits_every_ray(tst *testing.T) {

	//verbose()
	chk.PrintTitle("raymodel01: FixedLength mode gives every ray endpoints on the r_lim circle and flags only samples outside the domain")

	tm := buildConstant2D(tst, 0.0)
	samples, err := Build(tm, 1.0, FixedLength, []float64{0, 0.5}, []float64{0, 0.2}, []float64{0, 0.5, 1})
	if err != nil {
		tst.Errorf("Build failed: %v", err)
		return
	}
	if len(samples) != 2*2*3 {
		tst.Errorf("expected %d samples, got %d", 2*2*3, len(samples))
		return
	}
	for _, s := range samples {
		// r_lim = 1.5 * domainHalfExtent = 1.5
		chk.Scalar(tst, "start endpoint radius", 1e-12, math.Hypot(s.X0, s.Y0), 1.5)
		chk.Scalar(tst, "end endpoint radius", 1e-12, math.Hypot(s.X1, s.Y1), 1.5)
		px := s.X0 + s.T*(s.X1-s.X0)
		py := s.Y0 + s.T*(s.Y1-s.Y0)
		outside := px < 0 || px > 1 || py < 0 || py > 1
		if s.OutOfDomain != outside {
			tst.Errorf("FixedLength sample at (%v,%v): OutOfDomain=%v, want %v (alpha=%v rho=%v t=%v)", px, py, s.OutOfDomain, outside, s.Alpha, s.Rho, s.T)
		}
		if s.OutOfDomain && s.Value != OutOfDomainSentinel {
			tst.Errorf("out-of-domain FixedLength sample has value %v, want sentinel %v", s.Value, OutOfDomainSentinel)
		}
	}
}

func Test_raymodel02_box_intersection_center_ray(tst *testing.T) {

	//verbose()
	chk.PrintTitle("raymodel02: BoxIntersection mode decodes the constant value along a central ray")

	tm := buildConstant2D(tst, 7.0)
	samples, err := Build(tm, 0.5, BoxIntersection, []float64{0}, []float64{0}, []float64{0.5})
	if err != nil {
		tst.Errorf("Build failed: %v", err)
		return
	}
	if len(samples) != 1 {
		tst.Fatalf("expected 1 sample, got %d", len(samples))
	}
	s := samples[0]
	if s.OutOfDomain {
		tst.Errorf("central ray unexpectedly marked out-of-domain")
	}
	chk.Scalar(tst, "decoded value along central ray", 1e-6, s.Value, 7.0)
}

func Test_raymodel03_box_intersection_miss(tst *testing.T) {

	//verbose()
	chk.PrintTitle("raymodel03: BoxIntersection marks a ray that misses the domain rectangle")

	tm := buildConstant2D(tst, 1.0)
	// rho far outside the domain half-extent: the line never crosses the box
	samples, err := Build(tm, 0.5, BoxIntersection, []float64{0}, []float64{5.0}, []float64{0.5})
	if err != nil {
		tst.Errorf("Build failed: %v", err)
		return
	}
	if len(samples) != 1 {
		tst.Fatalf("expected 1 sample, got %d", len(samples))
	}
	if !samples[0].OutOfDomain {
		tst.Errorf("expected out-of-domain sample for a ray missing the box")
	}
	chk.Scalar(tst, "zero-filled miss value", 1e-12, samples[0].Value, 0.0)
}
