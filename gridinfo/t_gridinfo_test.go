// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gridinfo

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_gridinfo01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gridinfo01: linear <-> multi index round-trip")

	g, err := NewGridInfo([]int{3, 4, 2})
	if err != nil {
		tst.Errorf("NewGridInfo failed: %v", err)
		return
	}
	if g.Total != 24 {
		tst.Errorf("Total should be 24, got %d", g.Total)
		return
	}

	for lin := 0; lin < g.Total; lin++ {
		ijk, err := g.MultiIndex(lin)
		if err != nil {
			tst.Errorf("MultiIndex failed: %v", err)
			return
		}
		back, err := g.LinIndex(ijk)
		if err != nil {
			tst.Errorf("LinIndex failed: %v", err)
			return
		}
		if back != lin {
			tst.Errorf("round-trip mismatch: lin=%d ijk=%v back=%d", lin, ijk, back)
			return
		}
	}
}

func Test_gridinfo02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("gridinfo02: out of range")

	g, _ := NewGridInfo([]int{2, 2})
	if _, err := g.LinIndex([]int{2, 0}); err == nil {
		tst.Errorf("expected error for out-of-range index")
	}
	if _, err := g.MultiIndex(4); err == nil {
		tst.Errorf("expected error for out-of-range linear index")
	}
}

func Test_volIterator01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("volIterator01: visits every index exactly once")

	it := NewVolIterator([]int{2, 3})
	seen := make(map[[2]int]bool)
	n := 0
	for it.Next() {
		idx := it.Index()
		key := [2]int{idx[0], idx[1]}
		if seen[key] {
			tst.Errorf("index %v visited twice", key)
		}
		seen[key] = true
		n++
	}
	if n != 6 {
		tst.Errorf("expected 6 visits, got %d", n)
	}
	if len(seen) != 6 {
		tst.Errorf("expected 6 distinct indices, got %d", len(seen))
	}

	it.Reset()
	n2 := 0
	for it.Next() {
		n2++
	}
	if n2 != 6 {
		tst.Errorf("expected 6 visits after reset, got %d", n2)
	}
}
