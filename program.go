package billboard

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/billboard/shader"
)

// Traversal limits of the billboard program. They size the ray-tracing
// stack and should stay as small as possible.
const (
	// TransparentDepth is the number of transparent billboard hits a
	// payload can record.
	TransparentDepth = 8

	// HitInfoMaxPackedSizeBytes is the packed size of a default hit record.
	HitInfoMaxPackedSizeBytes = 16

	// MaxPayloadSizeBytes is the larger of the default ray payload and the
	// billboard payload.
	MaxPayloadSizeBytes = max(HitInfoMaxPackedSizeBytes+4, (2*TransparentDepth+16+5)*4)

	// MaxAttributeSizeBytes is the size of intersection attributes.
	MaxAttributeSizeBytes = 8

	// MaxRecursionDepth limits nested TraceRay calls.
	MaxRecursionDepth = 1
)

// Shader library and routine names of the billboard program.
const (
	EntryRayGen             = "rayGen"
	EntryBoxIntersect       = "boxIntersect"
	EntryTriangleClosestHit = "triangleClosestHit"
	EntryTriangleAnyHit     = "triangleAnyHit"
	EntryBoxClosestHit      = "boxClosestHit"
	EntryBoxAnyHit          = "boxAnyHit"
	EntryMiss               = "miss"
)

// NewProgramDesc returns the layout of the billboard program.
func NewProgramDesc() *shader.ProgramDesc {
	desc := new(shader.ProgramDesc)
	desc.AddShaderLibrary(shader.BillboardLibrary).SetRayGen(EntryRayGen)
	desc.AddIntersection(0, EntryBoxIntersect)
	desc.SetMaxTraceRecursionDepth(MaxRecursionDepth)
	desc.AddHitGroup(0, EntryTriangleClosestHit, EntryTriangleAnyHit).AddMiss(0, EntryMiss)
	desc.AddAABBHitGroup(0, EntryBoxClosestHit, EntryBoxAnyHit)
	return desc
}

// Program is a ray-tracing program whose compiled kernel follows its
// define set.
//
// Defines are merged additively. Each merge that changes at least one
// value bumps the version; the kernel is recompiled lazily the next time
// it is requested for a version it was not built for.
type Program struct {
	desc     *shader.ProgramDesc
	compiler shader.Compiler

	defines shader.DefineList
	version uint64

	kernel        *shader.Module
	kernelVersion uint64
	compiles      int
}

// NewProgram validates desc and creates a program compiled by c.
func NewProgram(desc *shader.ProgramDesc, c shader.Compiler) (*Program, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProgramBuild, err)
	}
	if c == nil {
		c = shader.NewNagaCompiler()
	}
	return &Program{desc: desc, compiler: c}, nil
}

// Desc returns the program layout.
func (p *Program) Desc() *shader.ProgramDesc { return p.desc }

// Defines returns the current define snapshot.
func (p *Program) Defines() shader.DefineList { return p.defines }

// Version increases every time a merge changes the define set.
func (p *Program) Version() uint64 { return p.version }

// Compiles returns how many times the kernel was compiled.
func (p *Program) Compiles() int { return p.compiles }

// AddDefines merges defs into the program, last write winning per name.
// It reports whether any value changed.
func (p *Program) AddDefines(defs shader.DefineList) bool {
	changes := p.defines.Diff(defs)
	if len(changes) == 0 {
		return false
	}
	p.defines = p.defines.Merge(defs)
	p.version++

	log := Logger()
	for _, c := range changes {
		log.Debug("billboard: define changed",
			slog.String("name", c.Name),
			slog.String("old", c.Old),
			slog.String("new", c.New),
			slog.Bool("added", c.Added),
		)
	}
	return true
}

// Kernel returns the module compiled for the current defines, compiling it
// if the define set changed since the last build.
func (p *Program) Kernel() (*shader.Module, error) {
	if p.kernel != nil && p.kernelVersion == p.version {
		return p.kernel, nil
	}
	m, err := p.compiler.Compile(p.desc, p.defines)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProgramBuild, err)
	}
	p.kernel = m
	p.kernelVersion = p.version
	p.compiles++

	Logger().Debug("billboard: kernel compiled",
		slog.Uint64("version", p.version),
		slog.Int("compiles", p.compiles),
	)
	return m, nil
}
