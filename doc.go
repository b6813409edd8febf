// Package billboard implements a ray-tracing render pass that draws
// billboard and impostor geometry with optional shadows and reflection or
// refraction correction.
//
// The pass is a small state machine around a lazily compiled GPU program:
//
//	pass, err := billboard.New(graph.Dictionary{"mShadows": false})
//	pass.SetScene(ctx, sc)
//	for frame := range frames {
//	    if err := pass.Execute(ctx, renderData); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Option changes (setters, [Pass.RenderUI]) and scene assignment only mark
// the pass dirty. [Pass.Execute] reconciles the shader defines, rebuilds the
// variable set when a new scene was bound, binds the frame's channels and
// dispatches one ray per pixel of the output.
//
// Collaborators are interfaces: [Scene] supplies geometry and the trace
// entry point, [RenderContext] clears and dispatches, [SampleGenerator]
// binds per-pixel random state, and [FrameRate] is reset whenever the image
// changes meaning. Concrete implementations live in the scene and
// backend/wgpu packages.
//
// The pass is single threaded: call all methods from the render loop.
package billboard
