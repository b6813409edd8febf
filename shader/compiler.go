package shader

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// Compiler errors.
var (
	// ErrMissingEntry is returned when a routine named by the ProgramDesc
	// is not present in the compiled module.
	ErrMissingEntry = errors.New("shader: missing entry")

	// ErrRayGenStage is returned when the ray generation entry is not a
	// compute entry point.
	ErrRayGenStage = errors.New("shader: ray generation entry must be a compute entry point")
)

// Compiler builds a program permutation.
type Compiler interface {
	Compile(desc *ProgramDesc, defines DefineList) (*Module, error)
}

// CompilerOption configures a NagaCompiler.
type CompilerOption func(*NagaCompiler)

// WithLoader sets the library loader. The default is EmbeddedLoader.
func WithLoader(load SourceLoader) CompilerOption {
	return func(c *NagaCompiler) {
		if load != nil {
			c.load = load
		}
	}
}

// WithDebugInfo emits SPIR-V debug names and line info.
func WithDebugInfo(debug bool) CompilerOption {
	return func(c *NagaCompiler) { c.debug = debug }
}

// WithValidation toggles naga IR validation (on by default).
func WithValidation(validate bool) CompilerOption {
	return func(c *NagaCompiler) { c.validate = validate }
}

// NagaCompiler compiles WGSL shader libraries with naga.
type NagaCompiler struct {
	load     SourceLoader
	debug    bool
	validate bool
}

var _ Compiler = (*NagaCompiler)(nil)

// NewNagaCompiler creates a compiler.
func NewNagaCompiler(opts ...CompilerOption) *NagaCompiler {
	c := &NagaCompiler{
		load:     EmbeddedLoader,
		validate: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile prepends the defines prelude to the library source and compiles
// the result to SPIR-V.
func (c *NagaCompiler) Compile(desc *ProgramDesc, defines DefineList) (*Module, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	lib, err := c.load(desc.Library)
	if err != nil {
		return nil, err
	}
	prelude, err := Prelude(defines)
	if err != nil {
		return nil, err
	}
	source := prelude + lib

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("shader: %s: %w", desc.Library, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("shader: %s: lowering: %w", desc.Library, err)
	}
	if c.validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return nil, fmt.Errorf("shader: %s: validation: %w", desc.Library, err)
		}
		if len(verrs) > 0 {
			return nil, fmt.Errorf("shader: %s: validation failed: %w", desc.Library, &verrs[0])
		}
	}

	out := &Module{
		Label:       desc.Library,
		EntryPoint:  desc.RayGen,
		Source:      source,
		DefinesHash: defines.Hash(),
	}
	for i := range module.Functions {
		out.Functions = append(out.Functions, module.Functions[i].Name)
	}

	found := false
	for _, ep := range module.EntryPoints {
		if ep.Name != desc.RayGen {
			continue
		}
		if ep.Stage != ir.StageCompute {
			return nil, fmt.Errorf("%w: %s", ErrRayGenStage, ep.Name)
		}
		out.Workgroup = ep.Workgroup
		found = true
	}
	if !found {
		return nil, fmt.Errorf("%w: ray generation %q", ErrMissingEntry, desc.RayGen)
	}
	for _, name := range desc.Entries()[1:] {
		if !out.HasFunction(name) {
			return nil, fmt.Errorf("%w: %q", ErrMissingEntry, name)
		}
	}

	writable := writableStorage(source)
	for _, gv := range module.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		space, ok := bindingSpace(gv.Space)
		if !ok {
			continue
		}
		out.Bindings = append(out.Bindings, Binding{
			Name:     gv.Name,
			Group:    gv.Binding.Group,
			Binding:  gv.Binding.Binding,
			Space:    space,
			ReadOnly: space == SpaceStorage && !writable[gv.Name],
		})
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: spirv.Version1_3,
		Debug:   c.debug,
	})
	if err != nil {
		return nil, fmt.Errorf("shader: %s: %w", desc.Library, err)
	}
	out.SPIRV = Words(spirvBytes)

	slogger().Debug("shader: compiled program",
		slog.String("library", desc.Library),
		slog.Int("defines", defines.Len()),
		slog.Int("bindings", len(out.Bindings)),
		slog.Int("spirv_words", len(out.SPIRV)),
	)
	return out, nil
}

// storageDecl matches a module-scope storage declaration and its access mode.
var storageDecl = regexp.MustCompile(`var<storage\s*(?:,\s*(\w+)\s*)?>\s*(\w+)`)

// writableStorage returns the storage variables declared read_write.
// The IR does not keep access modes, so they are read from the source.
func writableStorage(source string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range storageDecl.FindAllStringSubmatch(source, -1) {
		if m[1] == "read_write" || m[1] == "write" {
			out[m[2]] = true
		}
	}
	return out
}

// Words converts SPIR-V bytes to little-endian 32-bit words.
func Words(spirvBytes []byte) []uint32 {
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code
}

func bindingSpace(s ir.AddressSpace) (BindingSpace, bool) {
	switch s {
	case ir.SpaceUniform:
		return SpaceUniform, true
	case ir.SpaceStorage:
		return SpaceStorage, true
	case ir.SpaceHandle:
		return SpaceHandle, true
	default:
		return 0, false
	}
}
