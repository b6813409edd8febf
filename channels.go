package billboard

import (
	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// ChannelDesc maps a render-graph channel to a program resource slot.
type ChannelDesc struct {
	// Name is the channel name in the render graph.
	Name string

	// TexName is the shader slot the channel binds to. Empty means the
	// channel is declared but never bound.
	TexName string

	Desc     string
	Optional bool
}

// InputChannels is empty; a shadow map input is reserved for later.
var InputChannels = []ChannelDesc{}

// OutputChannels lists the pass outputs.
var OutputChannels = []ChannelDesc{
	{Name: "color", TexName: "gOutputColor", Desc: "Output color (sum of direct and indirect)"},
	{Name: "debug", TexName: "gDebug", Desc: "Debug information", Optional: true},
}

func addInputs(r *graph.Reflection, channels []ChannelDesc) {
	for _, c := range channels {
		r.AddInput(c.Name, c.Desc).SetOptional(c.Optional)
	}
}

func addOutputs(r *graph.Reflection, channels []ChannelDesc) {
	for _, c := range channels {
		r.AddOutput(c.Name, c.Desc).SetOptional(c.Optional)
	}
}

// validResourceDefines returns is_valid_<TexName> for every channel with
// a slot: "1" when the frame holds a resource for it, "0" otherwise.
func validResourceDefines(channels []ChannelDesc, rd *graph.RenderData) shader.DefineList {
	var defs shader.DefineList
	for _, c := range channels {
		if c.TexName == "" {
			continue
		}
		valid := "0"
		if rd.Texture(c.Name) != nil {
			valid = "1"
		}
		defs = defs.Add("is_valid_"+c.TexName, valid)
	}
	return defs
}

// bindChannels binds the frame's resources for channels into vars,
// skipping channels without a slot or without a resource.
func bindChannels(vars *ProgramVars, channels []ChannelDesc, rd *graph.RenderData) {
	for _, c := range channels {
		if c.TexName == "" {
			continue
		}
		tex := rd.Texture(c.Name)
		if tex == nil {
			continue
		}
		vars.SetTexture(c.TexName, tex)
	}
}
