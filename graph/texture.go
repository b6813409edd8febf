// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graph

import "github.com/gogpu/gputypes"

// Texture is a 2D resource bound to a pass channel.
//
// Backends provide the concrete type; the pass only needs its dimensions
// and format, everything else is handed back to the backend through the
// program variables.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the pixel format.
	Format() gputypes.TextureFormat
}
