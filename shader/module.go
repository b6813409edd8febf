package shader

import "fmt"

// BindingSpace is the address space of a module-scope resource binding.
type BindingSpace int

const (
	// SpaceUniform is a uniform buffer (constant block).
	SpaceUniform BindingSpace = iota

	// SpaceStorage is a storage buffer.
	SpaceStorage

	// SpaceHandle is a texture or sampler.
	SpaceHandle
)

// String returns the string representation of BindingSpace.
func (s BindingSpace) String() string {
	switch s {
	case SpaceUniform:
		return "uniform"
	case SpaceStorage:
		return "storage"
	case SpaceHandle:
		return "handle"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Binding is one resource slot declared by a compiled module.
type Binding struct {
	Name    string
	Group   uint32
	Binding uint32
	Space   BindingSpace

	// ReadOnly is set for storage buffers declared without write access.
	ReadOnly bool
}

// Module is a compiled program permutation.
type Module struct {
	// Label identifies the module in logs and GPU debug labels.
	Label string

	// EntryPoint is the compute entry that emulates ray generation.
	EntryPoint string

	// Workgroup is the entry point's workgroup size.
	Workgroup [3]uint32

	// Source is the full WGSL that was compiled, prelude included.
	Source string

	// SPIRV is the compiled code as little-endian 32-bit words.
	SPIRV []uint32

	// Bindings lists resource slots in declaration order.
	Bindings []Binding

	// Functions lists the routine names present in the module.
	Functions []string

	// DefinesHash is the hash of the defines the module was compiled with.
	DefinesHash uint64
}

// Binding returns the slot declared under name.
func (m *Module) Binding(name string) (Binding, bool) {
	for _, b := range m.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// HasFunction reports whether the module contains a routine called name.
func (m *Module) HasFunction(name string) bool {
	for _, f := range m.Functions {
		if f == name {
			return true
		}
	}
	return false
}
