// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/billboard"
	"github.com/gogpu/billboard/shader"
)

// Scene errors.
var (
	// ErrNoMaterials is returned when a scene has no billboard material.
	ErrNoMaterials = errors.New("scene: at least one material is required")

	// ErrInvalidBillboard is returned for a billboard whose box is inverted
	// or whose alpha is outside [0, 1].
	ErrInvalidBillboard = errors.New("scene: invalid billboard")
)

// Shader slots written by Raytrace.
const (
	SlotBillboards       = "gBillboards"
	FieldFrameDimX       = "gFrameDimX"
	FieldFrameDimY       = "gFrameDimY"
	FieldBillboardCount  = "gBillboardCount"
	billboardStrideBytes = 32
)

// Material is a surface description.
type Material struct {
	Name      string     `json:"name"`
	BaseColor [4]float32 `json:"baseColor"`
	Emissive  [3]float32 `json:"emissive,omitempty"`
	Roughness float32    `json:"roughness,omitempty"`
}

// IsEmissive reports whether the material emits light.
func (m Material) IsEmissive() bool {
	return m.Emissive[0] > 0 || m.Emissive[1] > 0 || m.Emissive[2] > 0
}

// Billboard is an axis-aligned procedural box rendered with the billboard
// material.
type Billboard struct {
	Min   [3]float32 `json:"min"`
	Max   [3]float32 `json:"max"`
	Alpha float32    `json:"alpha"`
}

func (b Billboard) validate() error {
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidBillboard, b.Min, b.Max)
		}
	}
	if b.Alpha < 0 || b.Alpha > 1 || math.IsNaN(float64(b.Alpha)) {
		return fmt.Errorf("%w: alpha %v outside [0,1]", ErrInvalidBillboard, b.Alpha)
	}
	return nil
}

// Option configures a Scene.
type Option func(*Scene)

// WithEmissiveLights enables emissive lighting.
func WithEmissiveLights(on bool) Option {
	return func(s *Scene) {
		s.settings.UseEmissiveLights = on
	}
}

// Scene is a billboard scene. It implements billboard.Scene.
type Scene struct {
	materials  []Material
	billboards []Billboard
	settings   billboard.RenderSettings

	lights      *LightCollection
	lightBuilds int
}

var _ billboard.Scene = (*Scene)(nil)

// New creates a scene. The last material is the billboard material.
func New(materials []Material, billboards []Billboard, opts ...Option) (*Scene, error) {
	if len(materials) == 0 {
		return nil, ErrNoMaterials
	}
	for i, b := range billboards {
		if err := b.validate(); err != nil {
			return nil, fmt.Errorf("billboard %d: %w", i, err)
		}
	}
	s := &Scene{
		materials:  append([]Material(nil), materials...),
		billboards: append([]Billboard(nil), billboards...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Materials returns a copy of the materials.
func (s *Scene) Materials() []Material { return append([]Material(nil), s.materials...) }

// Billboards returns a copy of the billboards.
func (s *Scene) Billboards() []Billboard { return append([]Billboard(nil), s.billboards...) }

// MaterialCount implements billboard.Scene.
func (s *Scene) MaterialCount() int { return len(s.materials) }

// ProceduralPrimitiveCount implements billboard.Scene.
func (s *Scene) ProceduralPrimitiveCount() int { return len(s.billboards) }

// RenderSettings implements billboard.Scene.
func (s *Scene) RenderSettings() billboard.RenderSettings { return s.settings }

// BillboardMaterialID returns the material index billboards use.
func (s *Scene) BillboardMaterialID() uint32 {
	return uint32(len(s.materials) - 1) //nolint:gosec // at least one material
}

// Defines implements billboard.Scene.
func (s *Scene) Defines() shader.DefineList {
	return shader.Defines(
		"SCENE_MATERIAL_COUNT", strconv.Itoa(len(s.materials)),
		"SCENE_HAS_PROCEDURAL_GEOMETRY", strconv.FormatBool(len(s.billboards) > 0),
		"SCENE_USE_EMISSIVE_LIGHTS", strconv.FormatBool(s.settings.UseEmissiveLights),
	)
}

// LightCollection implements billboard.Scene. The collection is built on
// the first call and reused afterwards.
func (s *Scene) LightCollection(billboard.RenderContext) billboard.LightCollection {
	if s.lights == nil {
		s.lights = newLightCollection(s.materials)
		s.lightBuilds++
		billboard.Logger().Debug("scene: light collection built",
			slog.Int("emissive", s.lights.ActiveLightCount()))
	}
	return s.lights
}

// Raytrace implements billboard.Scene. It uploads the billboard boxes,
// sets the frame dimensions and dispatches program over extent.
func (s *Scene) Raytrace(ctx billboard.RenderContext, program *billboard.Program, vars *billboard.ProgramVars, extent gputypes.Extent3D) error {
	vars.SetBuffer(SlotBillboards, s.packBillboards())

	count := uint32(len(s.billboards)) //nolint:gosec // bounded by memory
	for _, c := range []struct {
		field string
		value uint32
	}{
		{FieldFrameDimX, extent.Width},
		{FieldFrameDimY, extent.Height},
		{FieldBillboardCount, count},
	} {
		if err := vars.SetConstant(billboard.FrameBlock, c.field, c.value); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	}
	return ctx.Dispatch(program, vars, extent)
}

// packBillboards lays billboards out as the shader's Billboard struct.
func (s *Scene) packBillboards() []byte {
	buf := make([]byte, 0, len(s.billboards)*billboardStrideBytes)
	matID := s.BillboardMaterialID()
	for _, b := range s.billboards {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Min[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Min[1]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Min[2]))
		buf = binary.LittleEndian.AppendUint32(buf, matID)
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Max[0]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Max[1]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Max[2]))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(b.Alpha))
	}
	return buf
}
