// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// file is the JSON representation of a scene.
type file struct {
	Materials         []Material  `json:"materials"`
	Billboards        []Billboard `json:"billboards"`
	UseEmissiveLights bool        `json:"useEmissiveLights"`
}

// Load decodes a JSON scene from r.
func Load(r io.Reader) (*Scene, error) {
	var f file
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	return New(f.Materials, f.Billboards, WithEmissiveLights(f.UseEmissiveLights))
}

// LoadFile loads a JSON scene from path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path) //nolint:gosec // path supplied by the caller
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes s as JSON to w.
func (s *Scene) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(file{
		Materials:         s.materials,
		Billboards:        s.billboards,
		UseEmissiveLights: s.settings.UseEmissiveLights,
	})
}

// Grid returns a demo scene: a ground material and an n by n grid of
// half-transparent billboards in front of the camera.
func Grid(n int) *Scene {
	materials := []Material{
		{Name: "ground", BaseColor: [4]float32{0.4, 0.4, 0.4, 1}},
		{Name: "sun", BaseColor: [4]float32{1, 1, 1, 1}, Emissive: [3]float32{4, 4, 3.5}},
		{Name: "billboard", BaseColor: [4]float32{0.2, 0.6, 0.2, 1}, Roughness: 0.8},
	}
	var boards []Billboard
	step := 2 / float32(max(n, 1))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			x0 := -1 + float32(x)*step
			y0 := -1 + float32(y)*step
			boards = append(boards, Billboard{
				Min:   [3]float32{x0 + 0.1*step, y0 + 0.1*step, 3 + 0.1*float32(x+y)},
				Max:   [3]float32{x0 + 0.9*step, y0 + 0.9*step, 3.05 + 0.1*float32(x+y)},
				Alpha: 0.75,
			})
		}
	}
	s, _ := New(materials, boards, WithEmissiveLights(true))
	return s
}
