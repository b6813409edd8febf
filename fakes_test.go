package billboard

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

type fakeTexture struct {
	name string
	w, h uint32
}

func (t *fakeTexture) Width() uint32                  { return t.w }
func (t *fakeTexture) Height() uint32                 { return t.h }
func (t *fakeTexture) Format() gputypes.TextureFormat { return gputypes.TextureFormatRGBA8Unorm }

// fakeCompiler returns a module declaring the billboard slots.
type fakeCompiler struct {
	err      error
	compiled []shader.DefineList
}

func (c *fakeCompiler) Compile(desc *shader.ProgramDesc, defines shader.DefineList) (*shader.Module, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.compiled = append(c.compiled, defines)
	return &shader.Module{
		Label:      desc.Library,
		EntryPoint: desc.RayGen,
		Workgroup:  [3]uint32{8, 8, 1},
		Bindings: []shader.Binding{
			{Name: FrameBlock, Binding: 0, Space: shader.SpaceUniform},
			{Name: SampleGeneratorBlock, Binding: 1, Space: shader.SpaceUniform},
			{Name: "gBillboards", Binding: 2, Space: shader.SpaceStorage},
			{Name: "gOutputColor", Binding: 3, Space: shader.SpaceStorage},
			{Name: "gDebug", Binding: 4, Space: shader.SpaceStorage},
		},
		Functions:   desc.Entries(),
		DefinesHash: defines.Hash(),
	}, nil
}

type fakeFrameRate struct {
	resets int
}

func (f *fakeFrameRate) Reset() { f.resets++ }

type dispatchRecord struct {
	extent     gputypes.Extent3D
	frameCount uint32
	seed       uint32
	textures   map[string]graph.Texture
	version    uint64
}

type fakeContext struct {
	clears     []graph.Texture
	clearErr   error
	dispatches []dispatchRecord
	err        error
}

func (c *fakeContext) ClearTexture(tex graph.Texture) error {
	c.clears = append(c.clears, tex)
	return c.clearErr
}

func (c *fakeContext) Dispatch(program *Program, vars *ProgramVars, extent gputypes.Extent3D) error {
	if c.err != nil {
		return c.err
	}
	rec := dispatchRecord{
		extent:     extent,
		frameCount: vars.ConstantWord(FrameBlock, FieldFrameCount),
		seed:       vars.ConstantWord(SampleGeneratorBlock, "seed"),
		textures:   make(map[string]graph.Texture),
		version:    program.Version(),
	}
	for _, slot := range []string{"gOutputColor", "gDebug"} {
		if tex := vars.Texture(slot); tex != nil {
			rec.textures[slot] = tex
		}
	}
	c.dispatches = append(c.dispatches, rec)
	return nil
}

type fakeLights struct{}

func (fakeLights) ActiveLightCount() int { return 1 }

type fakeScene struct {
	materials  int
	primitives int
	emissive   bool
	defines    shader.DefineList

	lightRequests int
	traces        int
}

func newFakeScene(materials, primitives int) *fakeScene {
	return &fakeScene{
		materials:  materials,
		primitives: primitives,
		defines:    shader.Defines("SCENE_GEOMETRY_TYPES", "3"),
	}
}

func (s *fakeScene) MaterialCount() int            { return s.materials }
func (s *fakeScene) ProceduralPrimitiveCount() int { return s.primitives }
func (s *fakeScene) RenderSettings() RenderSettings {
	return RenderSettings{UseEmissiveLights: s.emissive}
}
func (s *fakeScene) Defines() shader.DefineList { return s.defines }

func (s *fakeScene) LightCollection(RenderContext) LightCollection {
	s.lightRequests++
	return fakeLights{}
}

func (s *fakeScene) Raytrace(ctx RenderContext, program *Program, vars *ProgramVars, extent gputypes.Extent3D) error {
	s.traces++
	return ctx.Dispatch(program, vars, extent)
}

type failingSampler struct {
	calls int
}

var errBind = errors.New("bind failed")

func (f *failingSampler) Defines() shader.DefineList { return shader.Defines("SAMPLE_GENERATOR_TYPE", "1") }
func (f *failingSampler) SetShaderData(*ProgramVars) error {
	f.calls++
	return errBind
}

// newTestPass creates a pass with a fake compiler and frame rate.
func newTestPass(t testing.TB, dict graph.Dictionary, extra ...PassOption) (*Pass, *fakeCompiler, *fakeFrameRate) {
	fc := &fakeCompiler{}
	fr := &fakeFrameRate{}
	opts := append([]PassOption{WithCompiler(fc), WithFrameRate(fr)}, extra...)
	t.Helper()
	p, err := New(dict, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, fc, fr
}

func newRenderData(w, h uint32, channels ...string) *graph.RenderData {
	rd := graph.NewRenderData(nil, w, h)
	for _, name := range channels {
		rd.Set(name, &fakeTexture{name: name, w: w, h: h})
	}
	return rd
}

func defineValue(p *Pass, name string) string {
	v, _ := p.Program().Defines().Get(name)
	return v
}
