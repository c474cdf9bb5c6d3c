// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfa

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/mfa/tmesh"
)

// persistMagic and persistVersion identify this package's serialization
// format: a versioned magic header wrapping the gob payload. gofem's own
// fem/fileio.go SaveSol/ReadSol has no magic header; a magic+version pair
// is added here so future format changes can be detected on load.
const (
	persistMagic   uint32 = 0x4d464130 // "MFA0"
	persistVersion uint32 = 1
)

// wireKnotVector and wireTensor mirror tmesh's unexported-friendly shape
// into plain exported structs so gob can encode them without relying on
// tmesh exposing its internals beyond what it already does (gofem's
// fem/fileio.go follows the same Encoder/Decoder-interface indirection
// pattern via bytes.Buffer).
type wireKnotVector struct {
	Vals   []float64
	Levels []int
	Degree int
}

type wireTensor struct {
	KnotMins, KnotMaxs []int
	Level              int
	NctrlPts           []int
	Ctrl               [][]float64
	Weights            []float64
	Next, Prev         [][]int
}

type wireModel struct {
	Info       MFAInfo
	Ndims      int
	Degrees    []int
	Nvars      int
	MaxLevel   int
	Knots      []wireKnotVector
	Tensors    []wireTensor
	AxisParams [][]float64
}

// Save serializes the model into a versioned binary layout:
// a 4-byte magic, a 4-byte version, then a gob-encoded payload of degrees,
// knot vectors with levels, the tensor list (mins/maxs/level/nctrl/control
// points/weights/adjacency-as-indices), and the encoding parameterization.
func (m *Model) Save() (data []byte, err error) {
	w := wireModel{
		Info:       *m.Info,
		Ndims:      m.Tmesh.Ndims,
		Degrees:    m.Tmesh.Degrees,
		Nvars:      m.Tmesh.Nvars,
		MaxLevel:   m.Tmesh.MaxLevel,
		AxisParams: m.AxisParams,
	}
	for _, kv := range m.Tmesh.Knots {
		w.Knots = append(w.Knots, wireKnotVector{Vals: kv.Vals, Levels: kv.Levels, Degree: kv.Degree})
	}
	for _, t := range m.Tmesh.Tensors {
		w.Tensors = append(w.Tensors, wireTensor{
			KnotMins: t.KnotMins, KnotMaxs: t.KnotMaxs, Level: t.Level,
			NctrlPts: t.NctrlPts, Ctrl: t.Ctrl, Weights: t.Weights,
			Next: t.Next, Prev: t.Prev,
		})
	}

	var payload bytes.Buffer
	enc := gob.NewEncoder(&payload)
	if err = enc.Encode(&w); err != nil {
		return nil, chk.Err("mfa: gob encode failed: %v", err)
	}

	var buf bytes.Buffer
	if err = binary.Write(&buf, binary.LittleEndian, persistMagic); err != nil {
		return nil, err
	}
	if err = binary.Write(&buf, binary.LittleEndian, persistVersion); err != nil {
		return nil, err
	}
	buf.Write(payload.Bytes())
	return buf.Bytes(), nil
}

// Load deserializes a model previously written by Save.
func Load(data []byte) (m *Model, err error) {
	if len(data) < 8 {
		return nil, chk.Err("mfa: persisted data too short (%d bytes)", len(data))
	}
	buf := bytes.NewReader(data)
	var magic, version uint32
	if err = binary.Read(buf, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != persistMagic {
		return nil, chk.Err("mfa: bad magic header %#x; want %#x", magic, persistMagic)
	}
	if err = binary.Read(buf, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != persistVersion {
		return nil, chk.Err("mfa: unsupported persist version %d; want %d", version, persistVersion)
	}

	var w wireModel
	dec := gob.NewDecoder(buf)
	if err = dec.Decode(&w); err != nil {
		return nil, chk.Err("mfa: gob decode failed: %v", err)
	}

	knots := make([]*tmesh.KnotVector, len(w.Knots))
	for i, kv := range w.Knots {
		knots[i] = &tmesh.KnotVector{Vals: kv.Vals, Levels: kv.Levels, Degree: kv.Degree}
	}
	tensors := make([]*tmesh.TensorProduct, len(w.Tensors))
	for i, t := range w.Tensors {
		tensors[i] = &tmesh.TensorProduct{
			KnotMins: t.KnotMins, KnotMaxs: t.KnotMaxs, Level: t.Level,
			NctrlPts: t.NctrlPts, Ctrl: t.Ctrl, Weights: t.Weights,
			Next: t.Next, Prev: t.Prev,
		}
	}

	info := w.Info
	tm := tmesh.Rebuild(w.Degrees, knots, tensors, w.MaxLevel)
	return &Model{Info: &info, Tmesh: tm, AxisParams: w.AxisParams}, nil
}
