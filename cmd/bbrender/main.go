// Command bbrender renders a billboard scene with the BillboardRayTracer
// pass and saves the color output as PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/billboard"
	wgpu "github.com/gogpu/billboard/backend/wgpu"
	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/scene"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene JSON file (default: built-in grid)")
		grid      = flag.Int("grid", 4, "billboards per side of the built-in grid")
		width     = flag.Int("width", 640, "render width")
		height    = flag.Int("height", 480, "render height")
		frames    = flag.Int("frames", 1, "frames to render")
		scale     = flag.Float64("scale", 1, "output scale factor")
		output    = flag.String("output", "billboards.png", "output file")
		debugOut  = flag.String("debug", "", "optional debug output file")
		verbose   = flag.Bool("v", false, "verbose logging")

		footprint = flag.Uint("footprint", uint(billboard.FootprintRayDiffsAnisotropic), "footprint mode (0 disabled, 3 anisotropic)")
		shadows   = flag.Bool("shadows", true, "enable shadows")
		reflCorr  = flag.Bool("reflection-correction", true, "correct reflections off billboards")
		refrCorr  = flag.Bool("refraction-correction", true, "correct refractions through billboards")
		random    = flag.Bool("random-colors", false, "color billboards randomly")
		samples   = flag.Int("deep-shadow-samples", 1, "shadow samples through stacked billboards")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	billboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *width <= 0 || *height <= 0 || *frames <= 0 {
		log.Fatalf("Invalid size %dx%d or frame count %d", *width, *height, *frames)
	}

	sc, err := loadScene(*scenePath, *grid)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	opts := billboard.Options{
		FootprintMode:        billboard.FootprintMode(*footprint),
		ReflectionCorrection: *reflCorr,
		RefractionCorrection: *refrCorr,
		Shadows:              *shadows,
		RandomColors:         *random,
		DeepShadowSamples:    *samples,
	}
	rp, err := graph.NewPass(billboard.PassName, opts.Serialize())
	if err != nil {
		log.Fatalf("Failed to create pass: %v", err)
	}
	pass := rp.(*billboard.Pass)

	ctx, err := wgpu.New()
	if err != nil {
		log.Fatalf("Failed to open GPU: %v", err)
	}
	defer ctx.Close()

	w, h := uint32(*width), uint32(*height)
	color, err := ctx.NewTexture("color", w, h, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		log.Fatalf("Failed to create color target: %v", err)
	}
	defer ctx.DestroyTexture(color)
	rd := graph.NewRenderData(nil, w, h).Set("color", color)

	var debug *wgpu.Texture
	if *debugOut != "" {
		debug, err = ctx.NewTexture("debug", w, h, gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			log.Fatalf("Failed to create debug target: %v", err)
		}
		defer ctx.DestroyTexture(debug)
		rd.Set("debug", debug)
	}

	pass.SetScene(ctx, sc)
	for i := 0; i < *frames; i++ {
		if err := pass.Execute(ctx, rd); err != nil {
			log.Fatalf("Frame %d failed: %v", i, err)
		}
	}

	if err := save(ctx, color, *output, *scale); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	if debug != nil {
		if err := save(ctx, debug, *debugOut, *scale); err != nil {
			log.Fatalf("Failed to save debug output: %v", err)
		}
	}

	hits, misses := ctx.PipelineStats()
	log.Printf("Rendered %d frame(s) to %s (%dx%d), pipelines %d hit / %d miss\n",
		pass.FrameCount(), *output, w, h, hits, misses)
}

func loadScene(path string, grid int) (*scene.Scene, error) {
	if path == "" {
		if grid <= 0 {
			return nil, fmt.Errorf("grid size must be positive, got %d", grid)
		}
		return scene.Grid(grid), nil
	}
	return scene.LoadFile(path)
}

func save(ctx *wgpu.Context, tex *wgpu.Texture, path string, scale float64) error {
	img, err := ctx.ReadPixels(tex)
	if err != nil {
		return err
	}

	var out image.Image = img
	if scale > 0 && scale != 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(b.Dx())*scale)), max(1, int(float64(b.Dy())*scale))))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
