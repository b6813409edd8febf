package billboard

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/billboard/graph"
)

func TestNewDefaults(t *testing.T) {
	p, _, _ := newTestPass(t, nil)

	if p.Options() != DefaultOptions() {
		t.Errorf("Options() = %+v, want %+v", p.Options(), DefaultOptions())
	}
	if p.State() != StateNoScene {
		t.Errorf("State() = %v, want NoScene", p.State())
	}
	if !p.Dirty() {
		t.Error("new pass should start dirty")
	}
	if p.Vars() != nil {
		t.Error("new pass should have no variable set")
	}
	if p.Name() != PassName {
		t.Errorf("Name() = %q, want %q", p.Name(), PassName)
	}
}

func TestNewInvalidDictionary(t *testing.T) {
	_, err := New(graph.Dictionary{KeyShadows: "yes"}, WithCompiler(&fakeCompiler{}))
	if !errors.Is(err, ErrInvalidOption) {
		t.Errorf("New = %v, want ErrInvalidOption", err)
	}
}

func TestReflect(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	rd := newRenderData(4, 4, "color")
	if err := p.Execute(&fakeContext{}, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.Dirty() {
		t.Fatal("Execute should clear dirty")
	}

	r := p.Reflect()
	if !p.Dirty() {
		t.Error("Reflect should mark the pass dirty")
	}
	if len(r.Inputs()) != 0 {
		t.Errorf("inputs = %d, want 0", len(r.Inputs()))
	}
	outs := r.Outputs()
	if len(outs) != 2 || outs[0].Name != "color" || outs[1].Name != "debug" {
		t.Fatalf("outputs = %+v, want color, debug", outs)
	}
	if outs[0].Optional || !outs[1].Optional {
		t.Errorf("optional = %v/%v, want false/true", outs[0].Optional, outs[1].Optional)
	}
}

func TestSettersMarkDirty(t *testing.T) {
	tests := []struct {
		name   string
		change func(p *Pass)
		same   func(p *Pass)
	}{
		{
			name:   "FootprintMode",
			change: func(p *Pass) { _ = p.SetFootprintMode(FootprintDisabled) },
			same:   func(p *Pass) { _ = p.SetFootprintMode(FootprintRayDiffsAnisotropic) },
		},
		{
			name:   "ReflectionCorrection",
			change: func(p *Pass) { p.SetReflectionCorrection(false) },
			same:   func(p *Pass) { p.SetReflectionCorrection(true) },
		},
		{
			name:   "RefractionCorrection",
			change: func(p *Pass) { p.SetRefractionCorrection(false) },
			same:   func(p *Pass) { p.SetRefractionCorrection(true) },
		},
		{
			name:   "Shadows",
			change: func(p *Pass) { p.SetShadows(false) },
			same:   func(p *Pass) { p.SetShadows(true) },
		},
		{
			name:   "RandomColors",
			change: func(p *Pass) { p.SetRandomColors(true) },
			same:   func(p *Pass) { p.SetRandomColors(false) },
		},
		{
			name:   "DeepShadowSamples",
			change: func(p *Pass) { p.SetDeepShadowSamples(4) },
			same:   func(p *Pass) { p.SetDeepShadowSamples(1) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, fr := newTestPass(t, nil)
			if err := p.Execute(&fakeContext{}, newRenderData(4, 4)); err != nil {
				t.Fatalf("Execute: %v", err)
			}

			tt.same(p)
			if p.Dirty() || fr.resets != 0 {
				t.Fatalf("unchanged value: dirty=%v resets=%d, want false/0", p.Dirty(), fr.resets)
			}

			tt.change(p)
			if !p.Dirty() {
				t.Error("changed value should mark dirty")
			}
			if fr.resets != 1 {
				t.Errorf("frame rate resets = %d, want 1", fr.resets)
			}
		})
	}
}

func TestSetFootprintModeInvalid(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	if err := p.SetFootprintMode(FootprintMode(1)); !errors.Is(err, ErrUnknownFootprintMode) {
		t.Errorf("SetFootprintMode(1) = %v, want ErrUnknownFootprintMode", err)
	}
	if p.Options().FootprintMode != FootprintRayDiffsAnisotropic {
		t.Errorf("mode changed to %v", p.Options().FootprintMode)
	}
}

func TestSetDeepShadowSamplesClamps(t *testing.T) {
	p, _, _ := newTestPass(t, nil)

	p.SetDeepShadowSamples(100)
	if got := p.Options().DeepShadowSamples; got != MaxDeepShadowSamples {
		t.Errorf("samples = %d, want %d", got, MaxDeepShadowSamples)
	}
	p.SetDeepShadowSamples(-3)
	if got := p.Options().DeepShadowSamples; got != MinDeepShadowSamples {
		t.Errorf("samples = %d, want %d", got, MinDeepShadowSamples)
	}
}

func TestExecuteNoSceneClearsOutputs(t *testing.T) {
	p, fc, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(16, 16, "color")

	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(ctx.clears) != 1 || ctx.clears[0] != rd.Texture("color") {
		t.Errorf("clears = %v, want the color output only", ctx.clears)
	}
	if len(ctx.dispatches) != 0 {
		t.Errorf("dispatches = %d, want 0", len(ctx.dispatches))
	}
	if p.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", p.FrameCount())
	}
	if len(fc.compiled) != 0 {
		t.Errorf("compiles = %d, want 0 without a scene", len(fc.compiled))
	}

	if got := defineValue(p, "is_valid_gOutputColor"); got != "1" {
		t.Errorf("is_valid_gOutputColor = %q, want 1", got)
	}
	if got := defineValue(p, "is_valid_gDebug"); got != "0" {
		t.Errorf("is_valid_gDebug = %q, want 0", got)
	}
	if _, ok := p.Program().Defines().Get("BILLBOARD_MATERIAL_ID"); ok {
		t.Error("BILLBOARD_MATERIAL_ID should not be defined without a scene")
	}
	if rd.Dictionary().RefreshFlags()&graph.RefreshRenderOptionsChanged == 0 {
		t.Error("first Execute should publish RenderOptionsChanged")
	}
}

func TestExecuteNoSceneClearErrorIgnored(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{clearErr: errors.New("device lost")}
	if err := p.Execute(ctx, newRenderData(4, 4, "color", "debug")); err != nil {
		t.Fatalf("Execute = %v, want nil", err)
	}
	if len(ctx.clears) != 2 {
		t.Errorf("clears = %d, want 2", len(ctx.clears))
	}
}

func TestExecuteDispatchesScene(t *testing.T) {
	p, fc, _ := newTestPass(t, nil)
	sc := newFakeScene(3, 5)
	ctx := &fakeContext{}
	rd := newRenderData(64, 32, "color", "debug")

	p.SetScene(ctx, sc)
	if p.State() != StateSceneBoundNoVars {
		t.Fatalf("State() = %v, want SceneBoundNoVars", p.State())
	}
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if p.State() != StateSceneBoundReady {
		t.Errorf("State() = %v, want SceneBoundReady", p.State())
	}
	if p.LastMaterialID() != 2 || p.ProceduralPrimitiveCount() != 5 {
		t.Errorf("material/primitives = %d/%d, want 2/5", p.LastMaterialID(), p.ProceduralPrimitiveCount())
	}
	if got := defineValue(p, "BILLBOARD_MATERIAL_ID"); got != "2" {
		t.Errorf("BILLBOARD_MATERIAL_ID = %q, want 2", got)
	}
	if got := defineValue(p, "SCENE_GEOMETRY_TYPES"); got != "3" {
		t.Errorf("scene define = %q, want 3", got)
	}
	if got := defineValue(p, "SAMPLE_GENERATOR_TYPE"); got != "1" {
		t.Errorf("SAMPLE_GENERATOR_TYPE = %q, want 1", got)
	}
	if len(fc.compiled) != 1 {
		t.Errorf("compiles = %d, want 1", len(fc.compiled))
	}

	if len(ctx.dispatches) != 1 {
		t.Fatalf("dispatches = %d, want 1", len(ctx.dispatches))
	}
	d := ctx.dispatches[0]
	want := gputypes.Extent3D{Width: 64, Height: 32, DepthOrArrayLayers: 1}
	if d.extent != want {
		t.Errorf("extent = %+v, want %+v", d.extent, want)
	}
	if d.frameCount != 0 {
		t.Errorf("gFrameCount at dispatch = %d, want 0", d.frameCount)
	}
	if d.textures["gOutputColor"] != rd.Texture("color") || d.textures["gDebug"] != rd.Texture("debug") {
		t.Errorf("bound textures = %v", d.textures)
	}
	if p.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", p.FrameCount())
	}
	if p.Vars().Texture("gOutputColor") != nil {
		t.Error("channel bindings should be dropped after dispatch")
	}
}

func TestFrameCountAdvances(t *testing.T) {
	p, fc, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(1, 1))

	const frames = 5
	for i := 0; i < frames; i++ {
		if err := p.Execute(ctx, rd); err != nil {
			t.Fatalf("Execute %d: %v", i, err)
		}
	}
	if p.FrameCount() != frames {
		t.Errorf("FrameCount() = %d, want %d", p.FrameCount(), frames)
	}
	for i, d := range ctx.dispatches {
		if d.frameCount != uint32(i) {
			t.Errorf("dispatch %d gFrameCount = %d, want %d", i, d.frameCount, i)
		}
	}
	if len(fc.compiled) != 1 {
		t.Errorf("compiles = %d, want 1 for unchanged options", len(fc.compiled))
	}
}

func TestSetSceneNil(t *testing.T) {
	p, _, fr := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(2, 2))
	for i := 0; i < 3; i++ {
		if err := p.Execute(ctx, rd); err != nil {
			t.Fatalf("Execute: %v", err)
		}
	}

	resets := fr.resets
	p.SetScene(ctx, nil)
	if p.State() != StateNoScene || p.Vars() != nil || p.FrameCount() != 0 || p.Scene() != nil {
		t.Fatalf("after SetScene(nil): state=%v vars=%v frames=%d", p.State(), p.Vars(), p.FrameCount())
	}
	if !p.Dirty() || fr.resets != resets+1 {
		t.Error("SetScene should mark dirty and reset frame timing")
	}

	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ctx.dispatches) != 3 {
		t.Errorf("dispatches = %d, want 3", len(ctx.dispatches))
	}
	if len(ctx.clears) != 1 {
		t.Errorf("clears = %d, want 1", len(ctx.clears))
	}
}

func TestSetSameSceneResets(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	sc := newFakeScene(2, 2)

	p.SetScene(ctx, sc)
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	first := p.Vars()

	p.SetScene(ctx, sc)
	if p.FrameCount() != 0 || p.State() != StateSceneBoundNoVars {
		t.Fatalf("frames=%d state=%v, want 0/SceneBoundNoVars", p.FrameCount(), p.State())
	}
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.Vars() == first {
		t.Error("variable set should be rebuilt after rebinding the scene")
	}
	if ctx.dispatches[1].frameCount != 0 {
		t.Errorf("gFrameCount = %d, want 0 after rebind", ctx.dispatches[1].frameCount)
	}
}

func TestIdenticalDefinesDoNotRecompile(t *testing.T) {
	p, fc, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(2, 2))
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	version := p.Program().Version()

	p.Reflect()
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.Program().Version() != version {
		t.Errorf("version = %d, want %d", p.Program().Version(), version)
	}
	if len(fc.compiled) != 1 {
		t.Errorf("compiles = %d, want 1", len(fc.compiled))
	}
}

func TestDefineChangeRecompilesWithoutRebuildingVars(t *testing.T) {
	p, fc, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(2, 2))
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	vars := p.Vars()

	p.SetShadows(false)
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if p.Vars() != vars {
		t.Error("define change should not rebuild the variable set")
	}
	if len(fc.compiled) != 2 {
		t.Fatalf("compiles = %d, want 2", len(fc.compiled))
	}
	if got, _ := fc.compiled[1].Get("USE_SHADOWS"); got != "false" {
		t.Errorf("recompiled USE_SHADOWS = %q, want false", got)
	}
	if p.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", p.FrameCount())
	}
}

func TestShadowsToggle(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(2, 2))

	for _, on := range []bool{true, false, true} {
		p.SetShadows(on)
		if err := p.Execute(ctx, rd); err != nil {
			t.Fatalf("Execute: %v", err)
		}
		want := "false"
		if on {
			want = "true"
		}
		if got := defineValue(p, "USE_SHADOWS"); got != want {
			t.Errorf("USE_SHADOWS = %q, want %q", got, want)
		}
	}
}

func TestOptionChangePublishesRefreshFlag(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	if err := p.Execute(ctx, newRenderData(4, 4)); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	rd := newRenderData(4, 4)
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rd.Dictionary().RefreshFlags() != graph.RefreshNone {
		t.Errorf("clean frame flags = %v, want None", rd.Dictionary().RefreshFlags())
	}

	p.SetRandomColors(true)
	rd = newRenderData(4, 4)
	rd.Dictionary().AddRefreshFlags(graph.RefreshLightingChanged)
	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := graph.RefreshLightingChanged | graph.RefreshRenderOptionsChanged
	if got := rd.Dictionary().RefreshFlags(); got != want {
		t.Errorf("flags = %v, want %v", got, want)
	}
}

func TestSampleGeneratorBindFailure(t *testing.T) {
	sg := &failingSampler{}
	p, _, _ := newTestPass(t, nil, WithSampleGenerator(sg))
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(2, 2))

	for attempt := 1; attempt <= 2; attempt++ {
		err := p.Execute(ctx, rd)
		if !errors.Is(err, ErrSampleGeneratorBind) || !errors.Is(err, errBind) {
			t.Fatalf("attempt %d: Execute = %v, want ErrSampleGeneratorBind", attempt, err)
		}
		if p.State() != StateSceneBoundNoVars || p.Vars() != nil {
			t.Errorf("attempt %d: state=%v vars=%v, want SceneBoundNoVars/nil", attempt, p.State(), p.Vars())
		}
		if sg.calls != attempt {
			t.Errorf("bind calls = %d, want %d", sg.calls, attempt)
		}
	}
	if p.FrameCount() != 0 || len(ctx.dispatches) != 0 {
		t.Errorf("frames=%d dispatches=%d, want 0/0", p.FrameCount(), len(ctx.dispatches))
	}
}

func TestCompileFailure(t *testing.T) {
	errCompile := errors.New("syntax error")
	fc := &fakeCompiler{err: errCompile}
	p, err := New(nil, WithCompiler(fc), WithFrameRate(&fakeFrameRate{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := &fakeContext{}
	p.SetScene(ctx, newFakeScene(1, 1))

	err = p.Execute(ctx, newRenderData(8, 8, "color"))
	if !errors.Is(err, ErrProgramBuild) || !errors.Is(err, errCompile) {
		t.Fatalf("Execute = %v, want ErrProgramBuild wrapping the compile error", err)
	}
	if p.State() != StateSceneBoundNoVars {
		t.Errorf("State() = %v, want SceneBoundNoVars", p.State())
	}
}

func TestDispatchErrorDoesNotAdvance(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	errDevice := errors.New("device lost")
	ctx := &fakeContext{}
	p.SetScene(ctx, newFakeScene(1, 1))
	ctx.err = errDevice

	if err := p.Execute(ctx, newRenderData(8, 8, "color")); !errors.Is(err, errDevice) {
		t.Fatalf("Execute = %v, want device error", err)
	}
	if p.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", p.FrameCount())
	}
	if p.State() != StateSceneBoundReady {
		t.Errorf("State() = %v, want SceneBoundReady", p.State())
	}
}

func TestOptionalChannelSkipped(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	rd := newRenderData(8, 8, "color")
	p.SetScene(ctx, newFakeScene(1, 1))

	if err := p.Execute(ctx, rd); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, ok := ctx.dispatches[0].textures["gDebug"]; ok {
		t.Error("missing debug channel should not be bound")
	}
	if got := defineValue(p, "is_valid_gDebug"); got != "0" {
		t.Errorf("is_valid_gDebug = %q, want 0", got)
	}
}

func TestEmissiveLightsRequested(t *testing.T) {
	tests := []struct {
		emissive bool
		want     int
	}{
		{emissive: false, want: 0},
		{emissive: true, want: 2},
	}
	for _, tt := range tests {
		p, _, _ := newTestPass(t, nil)
		ctx := &fakeContext{}
		sc := newFakeScene(1, 1)
		sc.emissive = tt.emissive
		p.SetScene(ctx, sc)
		for i := 0; i < 2; i++ {
			if err := p.Execute(ctx, newRenderData(4, 4, "color")); err != nil {
				t.Fatalf("Execute: %v", err)
			}
		}
		if sc.lightRequests != tt.want {
			t.Errorf("emissive=%v: light requests = %d, want %d", tt.emissive, sc.lightRequests, tt.want)
		}
	}
}

func TestZeroDimsPanics(t *testing.T) {
	p, _, _ := newTestPass(t, nil)
	ctx := &fakeContext{}
	p.SetScene(ctx, newFakeScene(1, 1))

	defer func() {
		if recover() == nil {
			t.Error("Execute with zero dimensions should panic")
		}
	}()
	_ = p.Execute(ctx, newRenderData(0, 8, "color"))
}

func TestRegisteredInGraph(t *testing.T) {
	entry, ok := graph.Lookup(PassName)
	if !ok {
		t.Fatalf("%s is not registered", PassName)
	}
	if entry.Desc != PassDesc {
		t.Errorf("Desc = %q, want %q", entry.Desc, PassDesc)
	}

	rp, err := graph.NewPass(PassName, graph.Dictionary{KeyShadows: false})
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	if rp.ScriptingDictionary()[KeyShadows] != false {
		t.Error("factory should apply the dictionary")
	}

	if _, err := graph.NewPass(PassName, graph.Dictionary{KeyShadows: 1}); err == nil {
		t.Error("factory should report dictionary errors")
	}
}
