// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tmesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_basis01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis01: basis functions at a span sum to 1 (partition of unity)")

	kv, err := NewClampedKnotVector(3, 8, nil)
	if err != nil {
		tst.Errorf("NewClampedKnotVector failed: %v", err)
		return
	}
	tm := &Tmesh{Ndims: 1, Degrees: []int{3}, Knots: []*KnotVector{kv}}

	u := 0.37
	span, err := tm.FindSpan(0, u, 0)
	if err != nil {
		tst.Errorf("FindSpan failed: %v", err)
		return
	}
	out := make([]float64, 4)
	if err = tm.BasisFuns(0, u, span, 0, out); err != nil {
		tst.Errorf("BasisFuns failed: %v", err)
		return
	}
	sum := 0.0
	for _, v := range out {
		sum += v
	}
	chk.Scalar(tst, "sum of basis funcs", 1e-14, sum, 1.0)
}

func Test_basis02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis02: derivative basis row 0 matches plain BasisFuns")

	kv, err := NewClampedKnotVector(2, 6, nil)
	if err != nil {
		tst.Errorf("NewClampedKnotVector failed: %v", err)
		return
	}
	tm := &Tmesh{Ndims: 1, Degrees: []int{2}, Knots: []*KnotVector{kv}}

	u := 0.6
	span, err := tm.FindSpan(0, u, 0)
	if err != nil {
		tst.Errorf("FindSpan failed: %v", err)
		return
	}
	plain := make([]float64, 3)
	if err = tm.BasisFuns(0, u, span, 0, plain); err != nil {
		tst.Errorf("BasisFuns failed: %v", err)
		return
	}
	ders := [][]float64{make([]float64, 3), make([]float64, 3)}
	if err = tm.DerivBasisFuns(0, u, span, 0, 1, ders); err != nil {
		tst.Errorf("DerivBasisFuns failed: %v", err)
		return
	}
	chk.Vector(tst, "basis vs ders[0]", 1e-13, plain, ders[0])
}
