package billboard

import (
	"strconv"

	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// SynthesizeDefines derives the program defines for opts, the bound scene
// (may be nil) and the resources present in rd.
func SynthesizeDefines(opts Options, sc Scene, rd *graph.RenderData) shader.DefineList {
	defs := validResourceDefines(InputChannels, rd)
	defs = defs.Merge(validResourceDefines(OutputChannels, rd))

	defs = defs.Add("RAY_FOOTPRINT_MODE", strconv.FormatUint(uint64(opts.FootprintMode), 10))
	defs = defs.Add("RAY_CONE_MODE", "1")
	defs = defs.Add("RAY_FOOTPRINT_USE_MATERIAL_ROUGHNESS", "1")

	defs = defs.Add("USE_REFLECTION_CORRECTION", strconv.FormatBool(opts.ReflectionCorrection))
	defs = defs.Add("USE_REFRACTION_CORRECTION", strconv.FormatBool(opts.RefractionCorrection))
	if sc != nil {
		defs = defs.Add("BILLBOARD_MATERIAL_ID", strconv.Itoa(sc.MaterialCount()-1))
	}
	defs = defs.Add("USE_SHADOWS", strconv.FormatBool(opts.Shadows))
	defs = defs.Add("USE_RANDOM_BILLBOARD_COLORS", strconv.FormatBool(opts.RandomColors))
	defs = defs.Add("BILLBOARD_SHADOW_SAMPLES", strconv.Itoa(clampSamples(opts.DeepShadowSamples)))
	return defs
}
