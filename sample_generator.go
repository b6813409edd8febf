package billboard

import (
	"fmt"

	"github.com/gogpu/billboard/shader"
)

// SampleGenerator supplies per-pixel random state to the program.
type SampleGenerator interface {
	// Defines returns the defines that select the generator in shaders.
	Defines() shader.DefineList

	// SetShaderData binds the generator state into vars.
	SetShaderData(vars *ProgramVars) error
}

// Sample generator kinds, as seen by SAMPLE_GENERATOR_TYPE.
const (
	SampleGeneratorTiny    uint32 = 0
	SampleGeneratorUniform uint32 = 1
)

// SampleGeneratorBlock is the uniform block that holds generator state.
const SampleGeneratorBlock = "gSampleGenerator"

// UniformSampleGenerator is a stateless hash-based generator seeded once.
type UniformSampleGenerator struct {
	Seed uint32
}

var _ SampleGenerator = (*UniformSampleGenerator)(nil)

// NewUniformSampleGenerator creates a generator with the given seed.
func NewUniformSampleGenerator(seed uint32) *UniformSampleGenerator {
	return &UniformSampleGenerator{Seed: seed}
}

// Defines implements SampleGenerator.
func (g *UniformSampleGenerator) Defines() shader.DefineList {
	return shader.Defines("SAMPLE_GENERATOR_TYPE", fmt.Sprint(SampleGeneratorUniform))
}

// SetShaderData implements SampleGenerator.
func (g *UniformSampleGenerator) SetShaderData(vars *ProgramVars) error {
	if err := vars.SetConstant(SampleGeneratorBlock, "seed", g.Seed); err != nil {
		return err
	}
	return vars.SetConstant(SampleGeneratorBlock, "kind", SampleGeneratorUniform)
}
