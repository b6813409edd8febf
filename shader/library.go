package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

// BillboardLibrary is the library path of the billboard ray tracer.
const BillboardLibrary = "RenderPasses/BillboardRayTracer/BillboardRayTracer.rt.wgsl"

//go:embed shaders/*.wgsl
var embedded embed.FS

// SourceLoader resolves a shader library path to WGSL source.
type SourceLoader func(path string) (string, error)

// EmbeddedLoader resolves library paths against the shaders shipped with
// this package. Only the base name of the path is significant.
func EmbeddedLoader(p string) (string, error) {
	data, err := embedded.ReadFile("shaders/" + path.Base(p))
	if err != nil {
		return "", fmt.Errorf("shader: load %s: %w", p, err)
	}
	return string(data), nil
}

// FSLoader returns a loader that reads libraries from fsys, falling back
// to the embedded shaders when a path is not found there.
func FSLoader(fsys fs.FS) SourceLoader {
	return func(p string) (string, error) {
		data, err := fs.ReadFile(fsys, p)
		if err == nil {
			return string(data), nil
		}
		return EmbeddedLoader(p)
	}
}
