package billboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// ProgramVars is the variable set bound to a Program for one scene:
// constant blocks, per-frame channel textures and raw scene buffers.
//
// Bindings are keyed by slot name, so a variable set stays valid when the
// program is recompiled for a different define permutation.
type ProgramVars struct {
	program *Program
	blocks  map[string]map[string]any
	tex     map[string]graph.Texture
	buffers map[string][]byte
}

// NewProgramVars creates the variable set for p. It compiles the current
// permutation so the declared slots are known.
func NewProgramVars(p *Program) (*ProgramVars, error) {
	if p == nil {
		panic("billboard: NewProgramVars with nil program")
	}
	kernel, err := p.Kernel()
	if err != nil {
		return nil, err
	}
	v := &ProgramVars{
		program: p,
		blocks:  make(map[string]map[string]any),
		tex:     make(map[string]graph.Texture),
		buffers: make(map[string][]byte),
	}
	for _, b := range kernel.Bindings {
		if b.Space == shader.SpaceUniform {
			v.blocks[b.Name] = make(map[string]any)
		}
	}
	return v, nil
}

// Program returns the program the set was created for.
func (v *ProgramVars) Program() *Program { return v.program }

// SetConstant sets field of a uniform block declared by the program.
func (v *ProgramVars) SetConstant(block, field string, value any) error {
	fields, ok := v.blocks[block]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBlock, block)
	}
	fields[field] = value
	return nil
}

// Constant returns a field previously set with SetConstant.
func (v *ProgramVars) Constant(block, field string) (any, bool) {
	val, ok := v.blocks[block][field]
	return val, ok
}

// ConstantWord returns a numeric or boolean constant as its 32-bit
// shader representation. Unset fields read as zero.
func (v *ProgramVars) ConstantWord(block, field string) uint32 {
	val, ok := v.Constant(block, field)
	if !ok {
		return 0
	}
	w, _ := Word(val)
	return w
}

// Blocks returns the declared uniform block names, sorted.
func (v *ProgramVars) Blocks() []string {
	names := make([]string, 0, len(v.blocks))
	for name := range v.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetTexture binds tex to a resource slot. A nil texture unbinds it.
func (v *ProgramVars) SetTexture(slot string, tex graph.Texture) {
	if tex == nil {
		delete(v.tex, slot)
		return
	}
	v.tex[slot] = tex
}

// Texture returns the texture bound to slot, or nil.
func (v *ProgramVars) Texture(slot string) graph.Texture { return v.tex[slot] }

// ClearTextures drops every texture binding. Channel resources are only
// borrowed for one frame.
func (v *ProgramVars) ClearTextures() {
	clear(v.tex)
}

// SetBuffer binds raw structured data to a storage slot.
func (v *ProgramVars) SetBuffer(slot string, data []byte) {
	v.buffers[slot] = data
}

// Buffer returns the data bound to slot.
func (v *ProgramVars) Buffer(slot string) ([]byte, bool) {
	b, ok := v.buffers[slot]
	return b, ok
}

// Word converts a constant value to its 32-bit shader representation.
func Word(val any) (uint32, bool) {
	switch x := val.(type) {
	case uint32:
		return x, true
	case int32:
		return uint32(x), true //nolint:gosec // reinterpret bits
	case int:
		return uint32(x), true //nolint:gosec // reinterpret bits
	case uint64:
		return uint32(x), true //nolint:gosec // truncation intended
	case float32:
		return math.Float32bits(x), true
	case float64:
		return math.Float32bits(float32(x)), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
