// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene provides a billboard scene for the billboard render pass.
//
// A Scene holds materials and procedural billboard boxes. The last
// material is the billboard material: every billboard references it, and
// the pass passes its index to shaders as BILLBOARD_MATERIAL_ID.
//
// Scenes are built in code with [New] or loaded from JSON with [Load]:
//
//	{
//	  "materials": [{"name": "ground", "baseColor": [0.5, 0.5, 0.5, 1]},
//	                {"name": "leaf", "baseColor": [0.2, 0.6, 0.2, 1]}],
//	  "billboards": [{"min": [-1, 0, 4], "max": [1, 2, 4.1], "alpha": 1}],
//	  "useEmissiveLights": false
//	}
package scene
