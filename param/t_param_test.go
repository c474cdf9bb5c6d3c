// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package param

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_param01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("param01: uniform-by-domain on a 1D regular grid")

	n := 5
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) * 2.0 // 0,2,4,6,8
	}
	dom := &Domain{
		Ndims:    1,
		NdomPts:  []int{n},
		Coords:   [][]float64{x},
		GeomDims: 1,
	}
	p, err := Compute(dom, UniformByDomain)
	if err != nil {
		tst.Errorf("Compute failed: %v", err)
		return
	}
	chk.Vector(tst, "u", 1e-15, p.Vals[0], []float64{0, 0.25, 0.5, 0.75, 1.0})
}

func Test_param02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("param02: chord-length on a 2D curve grid, endpoints pinned")

	// a single curve along axis 0 (axis 1 has only one point)
	nx, ny := 4, 1
	x := []float64{0, 1, 3, 6}
	y := []float64{0, 0, 0, 0}
	dom := &Domain{
		Ndims:    2,
		NdomPts:  []int{nx, ny},
		Coords:   [][]float64{x, y},
		GeomDims: 2,
	}
	p, err := Compute(dom, ChordLength)
	if err != nil {
		tst.Errorf("Compute failed: %v", err)
		return
	}
	if p.Vals[0][0] != 0 || p.Vals[0][nx-1] != 1 {
		tst.Errorf("endpoints not pinned: %v", p.Vals[0])
	}
	for i := 1; i < nx; i++ {
		if p.Vals[0][i] <= p.Vals[0][i-1] {
			tst.Errorf("params not strictly increasing at i=%d: %v", i, p.Vals[0])
		}
	}
}
