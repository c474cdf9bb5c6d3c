// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/mfa/pointset"
	"github.com/cpmech/mfa/tmesh"
)

func Test_encoder01_linear_exact(tst *testing.T) {

	//verbose()
	chk.PrintTitle("encoder01: fixed encode reproduces a linear function exactly")

	n := 10
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i) / float64(n-1)
		ys[i] = 2*xs[i] + 1
	}
	ps, err := pointset.NewStructured([]int{n}, [][]float64{xs}, [][]float64{ys}, []int{1})
	if err != nil {
		tst.Fatalf("NewStructured failed: %v", err)
	}

	kv, err := tmesh.NewClampedKnotVector(2, 3, nil) // n=3 >= p+1=3, no interior knots
	if err != nil {
		tst.Fatalf("NewClampedKnotVector failed: %v", err)
	}
	tm, err := tmesh.NewTmesh([]int{2}, []*tmesh.KnotVector{kv}, 1)
	if err != nil {
		tst.Fatalf("NewTmesh failed: %v", err)
	}

	reg := Regularization{}
	if err = FixedEncode(tm, ps, [][]float64{xs}, reg, false); err != nil {
		tst.Errorf("FixedEncode failed: %v", err)
		return
	}

	base := tm.Tensors[0]
	if len(base.Ctrl) != 3 {
		tst.Errorf("expected 3 control points, got %d", len(base.Ctrl))
	}
	// a quadratic basis reproducing a linear function exactly should place
	// control points on the line itself
	chk.Scalar(tst, "ctrl[0]", 1e-9, base.Ctrl[0][0], 1.0)
	chk.Scalar(tst, "ctrl[2]", 1e-9, base.Ctrl[2][0], 3.0)
}
