// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package graph holds the render-graph side of the render pass contract.
//
// A render graph compiles passes once, asking each of them to declare its
// input and output channels through a [Reflection]. It then executes the
// passes every frame, handing each one a [RenderData] with the concrete
// resources bound to those channels and a shared [Dictionary] that passes
// use to exchange per-frame flags.
//
// Resources in a RenderData are borrowed: they are valid for exactly one
// execute call and must not be retained by the pass.
package graph
