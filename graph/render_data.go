// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

// RenderData is the per-frame resource table handed to a pass.
//
// It maps channel names to the textures the graph allocated for them. A
// channel that the graph did not connect simply has no entry.
type RenderData struct {
	resources map[string]Texture
	dict      Dictionary
	width     uint32
	height    uint32
}

// NewRenderData creates a resource table for one frame. width and height
// are the graph's default texture dimensions, which passes use to size
// their dispatch. A nil dict is replaced by an empty one.
func NewRenderData(dict Dictionary, width, height uint32) *RenderData {
	if dict == nil {
		dict = Dictionary{}
	}
	return &RenderData{
		resources: make(map[string]Texture),
		dict:      dict,
		width:     width,
		height:    height,
	}
}

// Set binds tex to the named channel. A nil tex removes the binding.
func (d *RenderData) Set(name string, tex Texture) *RenderData {
	if tex == nil {
		delete(d.resources, name)
		return d
	}
	d.resources[name] = tex
	return d
}

// Texture returns the texture bound to the named channel, or nil.
func (d *RenderData) Texture(name string) Texture {
	return d.resources[name]
}

// Dictionary returns the frame dictionary shared by all passes.
func (d *RenderData) Dictionary() Dictionary {
	return d.dict
}

// DefaultTextureDims returns the graph's default texture dimensions.
func (d *RenderData) DefaultTextureDims() (width, height uint32) {
	return d.width, d.height
}
