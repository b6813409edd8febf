// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/billboard/graph"
)

// bytesPerTexel is the size of one packed RGBA8 texel.
const bytesPerTexel = 4

// Texture is a render target backed by a storage buffer of packed RGBA8
// texels in row-major order.
type Texture struct {
	label  string
	width  uint32
	height uint32
	format gputypes.TextureFormat
	buffer hal.Buffer
	owner  *Context
}

var _ graph.Texture = (*Texture)(nil)

// Width implements graph.Texture.
func (t *Texture) Width() uint32 { return t.width }

// Height implements graph.Texture.
func (t *Texture) Height() uint32 { return t.height }

// Format implements graph.Texture.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Label returns the debug label.
func (t *Texture) Label() string { return t.label }

// Size returns the backing buffer size in bytes.
func (t *Texture) Size() uint64 {
	return uint64(t.width) * uint64(t.height) * bytesPerTexel
}
