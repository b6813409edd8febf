package shader

import (
	"errors"
	"fmt"
)

// Program description errors.
var (
	// ErrNoLibrary is returned when a program has no shader library.
	ErrNoLibrary = errors.New("shader: program has no shader library")

	// ErrNoRayGen is returned when a program has no ray generation entry.
	ErrNoRayGen = errors.New("shader: program has no ray generation entry")

	// ErrNoMiss is returned when a program has no miss handler.
	ErrNoMiss = errors.New("shader: program has no miss handler")

	// ErrHitGroupMismatch is returned when an AABB hit group has no
	// intersection routine at the same geometry index.
	ErrHitGroupMismatch = errors.New("shader: AABB hit group has no matching intersection routine")

	// ErrDuplicateIndex is returned when two routines of the same kind share an index.
	ErrDuplicateIndex = errors.New("shader: duplicate index")
)

// GeometryType selects which primitives a hit group handles.
type GeometryType int

const (
	// GeometryTriangles is built-in triangle geometry.
	GeometryTriangles GeometryType = iota

	// GeometryAABBs is procedural geometry bounded by axis-aligned boxes
	// and resolved by a custom intersection routine.
	GeometryAABBs
)

// String returns the string representation of GeometryType.
func (g GeometryType) String() string {
	switch g {
	case GeometryTriangles:
		return "Triangles"
	case GeometryAABBs:
		return "AABBs"
	default:
		return fmt.Sprintf("Unknown(%d)", int(g))
	}
}

// HitGroup is the pair of routines invoked when a ray hits geometry of a
// given type at a given hit group index.
type HitGroup struct {
	Index      uint32
	Type       GeometryType
	ClosestHit string
	AnyHit     string
}

// IndexedEntry is a routine bound to an index (miss or intersection).
type IndexedEntry struct {
	Index uint32
	Entry string
}

// ProgramDesc describes a ray-tracing program. Build it with the chained
// setters:
//
//	var desc shader.ProgramDesc
//	desc.AddShaderLibrary(path).SetRayGen("rayGen")
//	desc.AddIntersection(0, "boxIntersect")
//	desc.AddHitGroup(0, "triangleClosestHit", "triangleAnyHit").AddMiss(0, "miss")
//	desc.AddAABBHitGroup(0, "boxClosestHit", "boxAnyHit")
type ProgramDesc struct {
	Library                string
	RayGen                 string
	Intersections          []IndexedEntry
	HitGroups              []HitGroup
	Misses                 []IndexedEntry
	MaxTraceRecursionDepth uint32
}

// AddShaderLibrary sets the shader library path.
func (d *ProgramDesc) AddShaderLibrary(path string) *ProgramDesc {
	d.Library = path
	return d
}

// SetRayGen sets the ray generation entry.
func (d *ProgramDesc) SetRayGen(entry string) *ProgramDesc {
	d.RayGen = entry
	return d
}

// AddIntersection adds a custom intersection routine for AABB geometry at
// the given hit group index.
func (d *ProgramDesc) AddIntersection(index uint32, entry string) *ProgramDesc {
	d.Intersections = append(d.Intersections, IndexedEntry{Index: index, Entry: entry})
	return d
}

// AddHitGroup adds a triangle hit group.
func (d *ProgramDesc) AddHitGroup(index uint32, closestHit, anyHit string) *ProgramDesc {
	d.HitGroups = append(d.HitGroups, HitGroup{Index: index, Type: GeometryTriangles, ClosestHit: closestHit, AnyHit: anyHit})
	return d
}

// AddAABBHitGroup adds a procedural (AABB) hit group. It must share its
// index with an intersection routine.
func (d *ProgramDesc) AddAABBHitGroup(index uint32, closestHit, anyHit string) *ProgramDesc {
	d.HitGroups = append(d.HitGroups, HitGroup{Index: index, Type: GeometryAABBs, ClosestHit: closestHit, AnyHit: anyHit})
	return d
}

// AddMiss adds a miss handler.
func (d *ProgramDesc) AddMiss(index uint32, entry string) *ProgramDesc {
	d.Misses = append(d.Misses, IndexedEntry{Index: index, Entry: entry})
	return d
}

// SetMaxTraceRecursionDepth sets the maximum TraceRay nesting.
func (d *ProgramDesc) SetMaxTraceRecursionDepth(depth uint32) *ProgramDesc {
	d.MaxTraceRecursionDepth = depth
	return d
}

// Validate checks that the description is complete and that indices agree.
func (d *ProgramDesc) Validate() error {
	if d.Library == "" {
		return ErrNoLibrary
	}
	if d.RayGen == "" {
		return ErrNoRayGen
	}
	if len(d.Misses) == 0 {
		return ErrNoMiss
	}
	if err := uniqueIndices("miss", d.Misses); err != nil {
		return err
	}
	if err := uniqueIndices("intersection", d.Intersections); err != nil {
		return err
	}

	seen := make(map[GeometryType]map[uint32]bool)
	for _, hg := range d.HitGroups {
		if seen[hg.Type] == nil {
			seen[hg.Type] = make(map[uint32]bool)
		}
		if seen[hg.Type][hg.Index] {
			return fmt.Errorf("%w: %s hit group %d", ErrDuplicateIndex, hg.Type, hg.Index)
		}
		seen[hg.Type][hg.Index] = true

		if hg.Type == GeometryAABBs && d.intersection(hg.Index) == "" {
			return fmt.Errorf("%w: index %d", ErrHitGroupMismatch, hg.Index)
		}
	}
	return nil
}

// Entries returns every routine name the program references, ray
// generation first. Empty any-hit names are skipped.
func (d *ProgramDesc) Entries() []string {
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		for _, n := range out {
			if n == name {
				return
			}
		}
		out = append(out, name)
	}

	add(d.RayGen)
	for _, e := range d.Intersections {
		add(e.Entry)
	}
	for _, hg := range d.HitGroups {
		add(hg.ClosestHit)
		add(hg.AnyHit)
	}
	for _, e := range d.Misses {
		add(e.Entry)
	}
	return out
}

func (d *ProgramDesc) intersection(index uint32) string {
	for _, e := range d.Intersections {
		if e.Index == index {
			return e.Entry
		}
	}
	return ""
}

func uniqueIndices(kind string, entries []IndexedEntry) error {
	seen := make(map[uint32]bool, len(entries))
	for _, e := range entries {
		if seen[e.Index] {
			return fmt.Errorf("%w: %s %d", ErrDuplicateIndex, kind, e.Index)
		}
		seen[e.Index] = true
	}
	return nil
}
