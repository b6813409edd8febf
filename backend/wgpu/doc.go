// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu implements billboard.RenderContext on gogpu/wgpu HAL devices.
//
// Ray dispatch is emulated with a compute pipeline: the program's ray
// generation entry is a compute entry point, and the kernel walks the
// scene's procedural boxes itself. Render targets are storage buffers of
// packed RGBA8 texels, which keeps readback a plain buffer copy.
//
// # Device Ownership
//
// [New] opens its own Vulkan device. [NewWithDevice] and [NewFromProvider]
// borrow a device owned by the host application (for example a gogpu
// window); [Context.Close] then leaves the device alive.
//
//	ctx, err := wgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	color, _ := ctx.NewTexture("color", 640, 480, gputypes.TextureFormatRGBA8Unorm)
//	rd := graph.NewRenderData(nil, 640, 480).Set("color", color)
//	pass.SetScene(ctx, sc)
//	_ = pass.Execute(ctx, rd)
//	img, _ := ctx.ReadPixels(color)
//
// # Pipelines
//
// Compiled kernels are turned into compute pipelines once and cached by
// module content, so a define permutation seen before reuses its pipeline.
// The cache is safe for concurrent use because a host may share the device
// between several contexts.
package wgpu
