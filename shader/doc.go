// Package shader describes and compiles the billboard ray-tracing program.
//
// Three pieces live here:
//
//   - [DefineList]: an immutable, ordered set of compile-time symbolic
//     constants. Lists are never mutated in place; [DefineList.Add] and
//     [DefineList.Merge] return new lists, and [DefineList.Diff] reports what
//     changed between two snapshots so callers recompile only when a value
//     actually differs.
//   - [ProgramDesc]: the layout of a ray-tracing program (ray generation,
//     intersection routines, hit groups, miss handlers) with index checks.
//   - [NagaCompiler]: turns a ProgramDesc plus defines into a [Module] by
//     prepending a WGSL `const` prelude to the shader library and compiling
//     it to SPIR-V with naga.
//
// WGSL has no ray-tracing stages, so the ray generation entry is a compute
// entry point and the hit, miss and intersection routines are plain
// functions that it calls. The compiler checks that every routine named by
// the ProgramDesc exists in the compiled module.
package shader
