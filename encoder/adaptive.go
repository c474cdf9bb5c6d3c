// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encoder

import (
	"github.com/cpmech/mfa/pointset"
	"github.com/cpmech/mfa/tmesh"
)

// State names the adaptive encoder's state machine.
type State int

const (
	Encoding State = iota
	Scanning
	Refining
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Encoding:
		return "Encoding"
	case Scanning:
		return "Scanning"
	case Refining:
		return "Refining"
	case Converged:
		return "Converged"
	case Exhausted:
		return "Exhausted"
	}
	return "Unknown"
}

// DecodeFunc evaluates the current T-mesh/control-point model at a
// parameter point; supplied by the decoder package to avoid an import
// cycle (decoder depends on tmesh only, encoder depends on decoder's
// signature via this function type instead of the package itself).
type DecodeFunc func(tm *tmesh.Tmesh, params []float64, out []float64) error

// span is one knot interval of the base tensor along every axis, identified
// by its minimum control/knot index tuple, used by the error scan to track
// which spans are already marked done.
type span struct {
	mins []int
	done bool
}

// AdaptiveResult reports the outcome of AdaptiveEncode.
type AdaptiveResult struct {
	Rounds int
	State  State
}

// AdaptiveEncode runs the encode → scan → refine loop: encode
// the current T-mesh, sample every knot span's interior points, mark spans
// whose normalized error is within eps as done, and for each remaining span
// pick a split axis round-robin from the last split axis and insert a
// refinement tensor at the midpoint. Terminates when every span is done or
// maxRounds is reached. The error scan reads per-point parameters from
// ps.Params only, while FixedEncode requires structured input (NdomPts set):
// with a PointSet from NewStructured no point is scanned and the loop
// converges after the first scan, and a PointSet from NewScattered is
// rejected by FixedEncode.
func AdaptiveEncode(tm *tmesh.Tmesh, ps *pointset.PointSet, axisParams [][]float64, reg Regularization, weighted bool, eps float64, maxRounds int, decode DecodeFunc) (res AdaptiveResult, err error) {
	state := Encoding
	lastSplitDim := -1
	spans := initialSpans(tm)

	for round := 0; round < maxRounds; round++ {
		switch state {
		case Encoding:
			if err = FixedEncode(tm, ps, axisParams, reg, weighted); err != nil {
				return res, err
			}
			state = Scanning

		case Scanning:
			allDone := true
			for i := range spans {
				if spans[i].done {
					continue
				}
				ok, serr := scanSpan(tm, ps, &spans[i], eps, decode)
				if serr != nil {
					return res, serr
				}
				if ok {
					spans[i].done = true
				} else {
					allDone = false
				}
			}
			if allDone {
				state = Converged
			} else if maxRounds-round > 1 {
				state = Refining
			} else {
				state = Exhausted
			}

		case Refining:
			anySplit := false
			for i := range spans {
				if spans[i].done {
					continue
				}
				split := false
				for try := 0; try < tm.Ndims && !split; try++ {
					axis := (lastSplitDim + 1) % tm.Ndims
					lastSplitDim = axis
					var serr error
					split, serr = refineSpan(tm, ps, &spans[i], axis)
					if serr != nil {
						return res, serr
					}
				}
				if split {
					anySplit = true
				} else {
					// no valid split axis: mark done and move on
					spans[i].done = true
				}
			}
			if !anySplit {
				state = Converged
			} else {
				state = Encoding
			}

		case Converged, Exhausted:
			res.Rounds = round
			res.State = state
			return res, nil
		}
	}
	res.Rounds = maxRounds
	if state == Converged {
		res.State = Converged
	} else {
		res.State = Exhausted
	}
	return res, nil
}

// initialSpans enumerates the knot spans of the base tensor's knot lines
// (one span per unit knot-index cell along every axis).
func initialSpans(tm *tmesh.Tmesh) []span {
	base := tm.Tensors[0]
	shape := make([]int, tm.Ndims)
	for k := range shape {
		shape[k] = base.KnotMaxs[k] - base.KnotMins[k]
		if shape[k] < 1 {
			shape[k] = 1
		}
	}
	total := 1
	for _, s := range shape {
		total *= s
	}
	spans := make([]span, 0, total)
	idx := make([]int, tm.Ndims)
	for lin := 0; lin < total; lin++ {
		rem := lin
		cur := make([]int, tm.Ndims)
		for k := tm.Ndims - 1; k >= 0; k-- {
			cur[k] = rem % shape[k]
			rem /= shape[k]
		}
		copy(idx, cur)
		spans = append(spans, span{mins: append([]int(nil), cur...)})
	}
	return spans
}

// scanSpan samples the input points that fall inside the span's parameter
// box, decodes each, and checks the normalized error against eps. A span
// with no interior input samples is trivially done.
func scanSpan(tm *tmesh.Tmesh, ps *pointset.PointSet, sp *span, eps float64, decode DecodeFunc) (ok bool, err error) {
	lo, hi := spanBounds(tm, sp)
	out := make([]float64, ps.Nvars)
	nChecked := 0
	for p := 0; p < ps.Npts; p++ {
		params := pointParams(ps, p)
		if params == nil || !inBox(params, lo, hi) {
			continue
		}
		if err = decode(tm, params, out); err != nil {
			return false, err
		}
		nChecked++
		for vi := 0; vi < ps.Nvars; vi++ {
			rng := pointset.RangeExtent(ps.Science[vi])
			if rng == 0 {
				rng = 1
			}
			diff := out[vi] - ps.Science[vi][p]
			if diff < 0 {
				diff = -diff
			}
			if diff/rng > eps {
				return false, nil
			}
		}
	}
	return true, nil
}

// refineSpan picks the midpoint along `axis` within the span's knot-index
// box and inserts a knot + tensor there, provided at least one input
// parameter lies strictly on each side of the midpoint. Returns
// split=false (not an error) when no valid split exists.
func refineSpan(tm *tmesh.Tmesh, ps *pointset.PointSet, sp *span, axis int) (split bool, err error) {
	lo, hi := spanBounds(tm, sp)
	before, after := false, false
	for p := 0; p < ps.Npts; p++ {
		params := pointParams(ps, p)
		if params == nil || !inBox(params, lo, hi) {
			continue
		}
		if params[axis] < midValue(tm, axis, sp) {
			before = true
		} else if params[axis] > midValue(tm, axis, sp) {
			after = true
		}
	}
	if !before || !after {
		return false, nil
	}

	base := tm.Tensors[0]
	pos := base.KnotMins[axis] + sp.mins[axis] + 1
	if err = tm.InsertKnotGlobal(axis, pos, tm.MaxLevel+1, midValue(tm, axis, sp)); err != nil {
		return false, err
	}

	knotMins := append([]int(nil), base.KnotMins...)
	knotMaxs := append([]int(nil), base.KnotMaxs...)
	for k := 0; k < tm.Ndims; k++ {
		knotMins[k] = base.KnotMins[k] + sp.mins[k]
		knotMaxs[k] = knotMins[k] + 1
	}
	knotMaxs[axis] = pos + 1
	if _, err = tm.InsertTensor(knotMins, knotMaxs); err != nil {
		return false, err
	}
	return true, nil
}

func spanBounds(tm *tmesh.Tmesh, sp *span) (lo, hi []float64) {
	base := tm.Tensors[0]
	lo = make([]float64, tm.Ndims)
	hi = make([]float64, tm.Ndims)
	for k := 0; k < tm.Ndims; k++ {
		kv := tm.Knots[k]
		lo[k] = kv.Vals[base.KnotMins[k]+sp.mins[k]]
		hi[k] = kv.Vals[base.KnotMins[k]+sp.mins[k]+1]
	}
	return
}

func midValue(tm *tmesh.Tmesh, axis int, sp *span) float64 {
	base := tm.Tensors[0]
	kv := tm.Knots[axis]
	a := kv.Vals[base.KnotMins[axis]+sp.mins[axis]]
	b := kv.Vals[base.KnotMins[axis]+sp.mins[axis]+1]
	return 0.5 * (a + b)
}

func inBox(params, lo, hi []float64) bool {
	for k := range params {
		if params[k] < lo[k] || params[k] > hi[k] {
			return false
		}
	}
	return true
}

// pointParams extracts the parameter tuple of input row p from ps.Params,
// which only NewScattered fills in. For structured input it returns nil,
// and scanSpan/refineSpan skip every such point.
func pointParams(ps *pointset.PointSet, p int) []float64 {
	if ps.Params == nil {
		return nil
	}
	out := make([]float64, ps.Ndims)
	for k := 0; k < ps.Ndims; k++ {
		out[k] = ps.Params[k][p]
	}
	return out
}
