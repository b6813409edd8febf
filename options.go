package billboard

import (
	"fmt"

	"github.com/gogpu/billboard/shader"
)

// FootprintMode selects how ray footprints drive texture level of detail.
// Values match the shader's TexLODMode numbering.
type FootprintMode uint32

const (
	// FootprintDisabled samples mip 0 only.
	FootprintDisabled FootprintMode = 0

	// FootprintRayDiffsAnisotropic uses anisotropic ray differentials.
	FootprintRayDiffsAnisotropic FootprintMode = 3
)

// String returns the UI label of the mode.
func (m FootprintMode) String() string {
	switch m {
	case FootprintDisabled:
		return "Disabled"
	case FootprintRayDiffsAnisotropic:
		return "Ray diffs (anisotropic)"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(m))
	}
}

// Valid reports whether the pass supports m.
func (m FootprintMode) Valid() bool {
	return m == FootprintDisabled || m == FootprintRayDiffsAnisotropic
}

// Deep shadow sample range.
const (
	MinDeepShadowSamples = 1
	MaxDeepShadowSamples = 32
)

// Options holds the user-facing toggles of the pass.
type Options struct {
	FootprintMode        FootprintMode
	ReflectionCorrection bool
	RefractionCorrection bool
	Shadows              bool
	RandomColors         bool

	// DeepShadowSamples is the number of shadow samples taken through
	// stacked billboards, in [MinDeepShadowSamples, MaxDeepShadowSamples].
	DeepShadowSamples int
}

// DefaultOptions returns the options a pass starts with.
func DefaultOptions() Options {
	return Options{
		FootprintMode:        FootprintRayDiffsAnisotropic,
		ReflectionCorrection: true,
		RefractionCorrection: true,
		Shadows:              true,
		RandomColors:         false,
		DeepShadowSamples:    1,
	}
}

func clampSamples(n int) int {
	return max(MinDeepShadowSamples, min(n, MaxDeepShadowSamples))
}

// PassOption configures a Pass during creation.
//
// Example:
//
//	pass, err := billboard.New(dict,
//	    billboard.WithFrameRate(clock),
//	    billboard.WithShaderSource(shader.FSLoader(os.DirFS("shaders"))),
//	)
type PassOption func(*passOptions)

type passOptions struct {
	frameRate FrameRate
	compiler  shader.Compiler
	loader    shader.SourceLoader
	sampler   SampleGenerator
}

func defaultPassOptions() passOptions {
	return passOptions{}
}

// WithFrameRate sets the frame timer reset on every option or scene change.
// The default is a fresh Clock.
func WithFrameRate(fr FrameRate) PassOption {
	return func(o *passOptions) {
		o.frameRate = fr
	}
}

// WithCompiler sets the program compiler. The default is a
// shader.NagaCompiler over the embedded shader library behind a
// shader.CachingCompiler.
func WithCompiler(c shader.Compiler) PassOption {
	return func(o *passOptions) {
		o.compiler = c
	}
}

// WithShaderSource sets where the default compiler loads shader libraries
// from. Ignored when WithCompiler is also given.
func WithShaderSource(load shader.SourceLoader) PassOption {
	return func(o *passOptions) {
		o.loader = load
	}
}

// WithSampleGenerator sets the per-pixel random sample generator.
// The default is a UniformSampleGenerator.
func WithSampleGenerator(sg SampleGenerator) PassOption {
	return func(o *passOptions) {
		o.sampler = sg
	}
}
