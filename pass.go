package billboard

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// Pass registration.
const (
	PassName = "BillboardRayTracer"
	PassDesc = "Ray Tracer for Billboard Rendering"
)

// Frame constant block and fields written by the pass.
const (
	FrameBlock      = "CB"
	FieldFrameCount = "gFrameCount"
)

func init() {
	_ = graph.Register(PassName, PassDesc, func(dict graph.Dictionary) (graph.RenderPass, error) {
		p, err := New(dict)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

// Pass is the billboard ray-tracing render pass.
//
// Option changes and scene assignment only mark the pass dirty; Execute
// reconciles program defines and variables before dispatching. The pass is
// not safe for concurrent use.
type Pass struct {
	opts  Options
	dirty bool

	frameRate FrameRate
	sampler   SampleGenerator
	program   *Program

	state          PassState
	scene          Scene
	vars           *ProgramVars
	lastMaterialID int
	primitiveCount int
	frameCount     uint32
}

var _ graph.RenderPass = (*Pass)(nil)

// New creates a pass configured from a scripting dictionary.
// A nil dictionary uses DefaultOptions.
func New(dict graph.Dictionary, options ...PassOption) (*Pass, error) {
	o := defaultPassOptions()
	for _, opt := range options {
		opt(&o)
	}
	if o.frameRate == nil {
		o.frameRate = NewClock(0)
	}
	if o.sampler == nil {
		o.sampler = NewUniformSampleGenerator(0)
	}
	if o.compiler == nil {
		o.compiler = shader.NewCachingCompiler(
			shader.NewNagaCompiler(shader.WithLoader(o.loader)), 0)
	}

	opts, err := ParseOptions(dict)
	if err != nil {
		return nil, err
	}
	program, err := NewProgram(NewProgramDesc(), o.compiler)
	if err != nil {
		return nil, err
	}

	return &Pass{
		opts:      opts,
		dirty:     true,
		frameRate: o.frameRate,
		sampler:   o.sampler,
		program:   program,
		state:     StateNoScene,
	}, nil
}

// Name implements graph.RenderPass.
func (p *Pass) Name() string { return PassName }

// ScriptingDictionary serializes the current options.
func (p *Pass) ScriptingDictionary() graph.Dictionary {
	return p.opts.Serialize()
}

// Reflect declares the pass channels and marks the pass dirty, since
// channel availability may differ in the recompiled graph.
func (p *Pass) Reflect() *graph.Reflection {
	r := graph.NewReflection()
	addInputs(r, InputChannels)
	addOutputs(r, OutputChannels)
	p.dirty = true
	return r
}

// Options returns the current options.
func (p *Pass) Options() Options { return p.opts }

// Dirty reports whether defines will be resynthesized on the next Execute.
func (p *Pass) Dirty() bool { return p.dirty }

// State returns the program state.
func (p *Pass) State() PassState { return p.state }

// FrameCount returns the number of successful dispatches since the last
// scene assignment.
func (p *Pass) FrameCount() uint32 { return p.frameCount }

// Program returns the pass program.
func (p *Pass) Program() *Program { return p.program }

// Vars returns the variable set, or nil until built for the bound scene.
func (p *Pass) Vars() *ProgramVars { return p.vars }

// Scene returns the bound scene, or nil.
func (p *Pass) Scene() Scene { return p.scene }

// LastMaterialID returns the billboard material id of the bound scene.
func (p *Pass) LastMaterialID() int { return p.lastMaterialID }

// ProceduralPrimitiveCount returns the billboard count of the bound scene.
func (p *Pass) ProceduralPrimitiveCount() int { return p.primitiveCount }

// markDirty schedules define resynthesis and restarts frame timing.
func (p *Pass) markDirty() {
	p.dirty = true
	p.frameRate.Reset()
}

// SetFootprintMode selects the ray footprint mode.
func (p *Pass) SetFootprintMode(m FootprintMode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFootprintMode, uint32(m))
	}
	if p.opts.FootprintMode != m {
		p.opts.FootprintMode = m
		p.markDirty()
	}
	return nil
}

// SetReflectionCorrection toggles ray origin correction for reflections.
func (p *Pass) SetReflectionCorrection(on bool) {
	if p.opts.ReflectionCorrection != on {
		p.opts.ReflectionCorrection = on
		p.markDirty()
	}
}

// SetRefractionCorrection toggles ray origin correction for refractions.
func (p *Pass) SetRefractionCorrection(on bool) {
	if p.opts.RefractionCorrection != on {
		p.opts.RefractionCorrection = on
		p.markDirty()
	}
}

// SetShadows toggles shadow rays.
func (p *Pass) SetShadows(on bool) {
	if p.opts.Shadows != on {
		p.opts.Shadows = on
		p.markDirty()
	}
}

// SetRandomColors toggles random billboard tinting.
func (p *Pass) SetRandomColors(on bool) {
	if p.opts.RandomColors != on {
		p.opts.RandomColors = on
		p.markDirty()
	}
}

// SetDeepShadowSamples sets the shadow sample count, clamped to
// [MinDeepShadowSamples, MaxDeepShadowSamples].
func (p *Pass) SetDeepShadowSamples(n int) {
	n = clampSamples(n)
	if p.opts.DeepShadowSamples != n {
		p.opts.DeepShadowSamples = n
		p.markDirty()
	}
}

// SetScene binds sc, or unbinds the current scene when sc is nil.
// The variable set is dropped and the frame counter restarts, even when
// sc is the scene already bound.
func (p *Pass) SetScene(ctx RenderContext, sc Scene) {
	p.vars = nil
	p.frameCount = 0
	p.scene = sc

	if sc == nil {
		p.state = StateNoScene
		p.lastMaterialID = 0
		p.primitiveCount = 0
	} else {
		p.state = StateSceneBoundNoVars
		p.lastMaterialID = sc.MaterialCount() - 1
		p.primitiveCount = sc.ProceduralPrimitiveCount()
		p.program.AddDefines(sc.Defines())

		Logger().Info("billboard: scene bound",
			slog.Int("materials", sc.MaterialCount()),
			slog.Int("billboards", p.primitiveCount),
		)
	}
	p.markDirty()
}

// Execute renders one frame into rd.
//
// Without a scene the present outputs are cleared. Otherwise the variable
// set is built if needed, channels are bound, and one ray per pixel of
// rd's default texture dimensions is dispatched through the scene.
// It panics if those dimensions are zero.
func (p *Pass) Execute(ctx RenderContext, rd *graph.RenderData) error {
	if p.dirty {
		rd.Dictionary().AddRefreshFlags(graph.RefreshRenderOptionsChanged)
		p.program.AddDefines(SynthesizeDefines(p.opts, p.scene, rd))
		p.dirty = false
	}

	if p.state == StateNoScene {
		p.clearOutputs(ctx, rd)
		return nil
	}

	if p.scene.RenderSettings().UseEmissiveLights {
		p.scene.LightCollection(ctx)
	}

	if p.state == StateSceneBoundNoVars {
		if err := p.prepareVars(); err != nil {
			return err
		}
		p.state = StateSceneBoundReady
	}

	if _, err := p.program.Kernel(); err != nil {
		return err
	}
	if err := p.vars.SetConstant(FrameBlock, FieldFrameCount, p.frameCount); err != nil {
		return fmt.Errorf("billboard: frame constants: %w", err)
	}

	bindChannels(p.vars, InputChannels, rd)
	bindChannels(p.vars, OutputChannels, rd)
	defer p.vars.ClearTextures()

	w, h := rd.DefaultTextureDims()
	if w == 0 || h == 0 {
		panic(fmt.Sprintf("billboard: zero dispatch extent %dx%d", w, h))
	}
	extent := gputypes.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	if err := p.scene.Raytrace(ctx, p.program, p.vars, extent); err != nil {
		return fmt.Errorf("billboard: raytrace: %w", err)
	}
	p.frameCount++
	return nil
}

func (p *Pass) clearOutputs(ctx RenderContext, rd *graph.RenderData) {
	for _, c := range OutputChannels {
		tex := rd.Texture(c.Name)
		if tex == nil {
			continue
		}
		if err := ctx.ClearTexture(tex); err != nil {
			Logger().Warn("billboard: clear output failed",
				slog.String("channel", c.Name),
				slog.String("error", err.Error()),
			)
		}
	}
}

// prepareVars builds the variable set for the bound scene. On failure the
// pass keeps no variable set and the next Execute tries again.
func (p *Pass) prepareVars() error {
	p.program.AddDefines(p.sampler.Defines())

	vars, err := NewProgramVars(p.program)
	if err != nil {
		return err
	}
	if err := p.sampler.SetShaderData(vars); err != nil {
		return fmt.Errorf("%w: %w", ErrSampleGeneratorBind, err)
	}
	p.vars = vars
	return nil
}
