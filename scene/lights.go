// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

// LightCollection lists the emissive materials of a scene.
type LightCollection struct {
	emissive []int
}

func newLightCollection(materials []Material) *LightCollection {
	lc := &LightCollection{}
	for i, m := range materials {
		if m.IsEmissive() {
			lc.emissive = append(lc.emissive, i)
		}
	}
	return lc
}

// ActiveLightCount returns the number of emissive materials.
func (lc *LightCollection) ActiveLightCount() int { return len(lc.emissive) }

// MaterialIDs returns the indices of the emissive materials.
func (lc *LightCollection) MaterialIDs() []int {
	return append([]int(nil), lc.emissive...)
}
