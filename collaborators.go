package billboard

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// RenderSettings are the scene-wide switches the pass reads.
type RenderSettings struct {
	UseEmissiveLights bool
}

// LightCollection is the scene's set of emissive triangles. The pass only
// requests it so the scene builds it before tracing.
type LightCollection interface {
	ActiveLightCount() int
}

// Scene is the geometry the pass traces against.
type Scene interface {
	// MaterialCount returns the number of materials. The last material is
	// the billboard material.
	MaterialCount() int

	// ProceduralPrimitiveCount returns the number of procedural (AABB)
	// primitives, one per billboard.
	ProceduralPrimitiveCount() int

	RenderSettings() RenderSettings

	// LightCollection returns the emissive light collection, building it
	// on first use.
	LightCollection(ctx RenderContext) LightCollection

	// Defines returns the defines the scene contributes to every program.
	Defines() shader.DefineList

	// Raytrace binds scene data into vars and dispatches program over
	// extent through the render context it was created for.
	Raytrace(ctx RenderContext, program *Program, vars *ProgramVars, extent gputypes.Extent3D) error
}

// RenderContext records GPU work for the current frame.
type RenderContext interface {
	// ClearTexture clears tex to zero.
	ClearTexture(tex graph.Texture) error

	// Dispatch runs one ray-generation invocation per element of extent.
	Dispatch(program *Program, vars *ProgramVars, extent gputypes.Extent3D) error
}

