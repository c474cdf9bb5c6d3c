// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pointset

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_pointset01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pointset01: structured construction and variable columns")

	ndomPts := []int{3, 2}
	npts := 6
	domain := [][]float64{make([]float64, npts), make([]float64, npts)}
	science := [][]float64{make([]float64, npts), make([]float64, npts), make([]float64, npts)}
	ps, err := NewStructured(ndomPts, domain, science, []int{1, 2})
	if err != nil {
		tst.Errorf("NewStructured failed: %v", err)
		return
	}
	if ps.Npts != npts {
		tst.Errorf("Npts should be %d, got %d", npts, ps.Npts)
	}
	cols := ps.VarColumns(1)
	if len(cols) != 2 {
		tst.Errorf("expected 2 columns for variable 1, got %d", len(cols))
	}
}

func Test_pointset02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("pointset02: RangeExtent")

	col := []float64{1, -2, 5, 0}
	ext := RangeExtent(col)
	chk.Scalar(tst, "range", 1e-15, ext, 7)
}
