// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"

	"github.com/gogpu/billboard"
)

// uniformAlign is the size granularity of uniform buffers.
const uniformAlign = 16

// defaultUniformLayouts returns the field order of the uniform blocks in
// the billboard shader library.
func defaultUniformLayouts() map[string][]string {
	return map[string][]string{
		billboard.FrameBlock:           {billboard.FieldFrameCount, "gFrameDimX", "gFrameDimY", "gBillboardCount"},
		billboard.SampleGeneratorBlock: {"seed", "kind", "pad0", "pad1"},
	}
}

// SetUniformLayout declares the field order of a uniform block. Every
// field is one 32-bit word. Blocks without a layout are bound zeroed.
func (c *Context) SetUniformLayout(block string, fields ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layouts[block] = append([]string(nil), fields...)
}

// packBlock lays out a uniform block's constants as 32-bit words.
func (c *Context) packBlock(vars *billboard.ProgramVars, block string) []byte {
	fields, ok := c.layouts[block]
	if !ok {
		billboard.Logger().Warn("wgpu: no layout for uniform block, binding zeros", "block", block)
	}
	size := max(len(fields)*4, uniformAlign)
	size = (size + uniformAlign - 1) / uniformAlign * uniformAlign

	data := make([]byte, size)
	for i, f := range fields {
		binary.LittleEndian.PutUint32(data[i*4:], vars.ConstantWord(block, f))
	}
	return data
}
