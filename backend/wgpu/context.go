// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/billboard"
	"github.com/gogpu/billboard/graph"
	"github.com/gogpu/billboard/shader"
)

// Context errors.
var (
	// ErrNilDevice is returned when a context is created without device or queue.
	ErrNilDevice = errors.New("wgpu: device and queue are required")

	// ErrBackendUnavailable is returned when the Vulkan HAL backend is not registered.
	ErrBackendUnavailable = errors.New("wgpu: vulkan backend not available")

	// ErrNoAdapter is returned when no GPU adapter is found.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrProviderNotHAL is returned when a device provider does not expose
	// HAL device and queue.
	ErrProviderNotHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrForeignTexture is returned for textures not created by this context.
	ErrForeignTexture = errors.New("wgpu: texture was not created by this context")

	// ErrUnsupportedFormat is returned for render target formats other than RGBA8.
	ErrUnsupportedFormat = errors.New("wgpu: unsupported texture format")

	// ErrEmptyTexture is returned when creating a texture with zero size.
	ErrEmptyTexture = errors.New("wgpu: texture dimensions must be positive")

	// ErrClosed is returned when using a closed context.
	ErrClosed = errors.New("wgpu: context is closed")

	// ErrGPUTimeout is returned when submitted work does not finish in time.
	ErrGPUTimeout = errors.New("wgpu: timed out waiting for GPU")
)

// fenceTimeout bounds every wait for submitted work.
const fenceTimeout = 5 * time.Second

// placeholderSize is the size of the buffer bound to storage slots that
// have no resource this frame. The shader skips them via is_valid defines.
const placeholderSize = 256

// Context is a billboard.RenderContext on a HAL device.
type Context struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool

	pipelines   *pipelineCache
	placeholder hal.Buffer
	layouts     map[string][]string
}

var _ billboard.RenderContext = (*Context)(nil)

// New opens the first discrete or integrated Vulkan adapter, falling back
// to the first adapter found. The Vulkan backend must be registered by
// importing github.com/gogpu/wgpu/hal/vulkan.
func New() (*Context, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrBackendUnavailable
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}

	c, err := newContext(openDev.Device, openDev.Queue, false)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	c.instance = instance
	billboard.Logger().Info("wgpu: GPU context initialized", slog.String("adapter", selected.Info.Name))
	return c, nil
}

// NewWithDevice creates a context on a device owned by the caller.
func NewWithDevice(device hal.Device, queue hal.Queue) (*Context, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return newContext(device, queue, true)
}

// NewFromProvider creates a context on the device of a host application.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider DeviceHandle) (*Context, error) {
	device, queue, err := halObjects(provider)
	if err != nil {
		return nil, err
	}
	return newContext(device, queue, true)
}

func newContext(device hal.Device, queue hal.Queue, external bool) (*Context, error) {
	placeholder, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "billboard_placeholder",
		Size:  placeholderSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create placeholder buffer: %w", err)
	}
	return &Context{
		device:      device,
		queue:       queue,
		external:    external,
		pipelines:   newPipelineCache(),
		placeholder: placeholder,
		layouts:     defaultUniformLayouts(),
	}, nil
}

// Close releases the pipelines and buffers of the context. A device the
// context did not open is left alive.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return
	}
	c.pipelines.destroy(c.device)
	if c.placeholder != nil {
		c.device.DestroyBuffer(c.placeholder)
		c.placeholder = nil
	}
	if !c.external {
		c.device.Destroy()
		if c.instance != nil {
			c.instance.Destroy()
			c.instance = nil
		}
	}
	c.device = nil
	c.queue = nil
}

// PipelineStats returns pipeline cache hits and misses.
func (c *Context) PipelineStats() (hits, misses uint64) {
	return c.pipelines.stats()
}

// NewTexture creates a render target. Only RGBA8Unorm is supported.
func (c *Context) NewTexture(label string, width, height uint32, format gputypes.TextureFormat) (*Texture, error) {
	if format != gputypes.TextureFormatRGBA8Unorm {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if width == 0 || height == 0 {
		return nil, ErrEmptyTexture
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil, ErrClosed
	}

	t := &Texture{label: label, width: width, height: height, format: format, owner: c}
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  t.Size(),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %q: %w", label, err)
	}
	t.buffer = buf
	return t, nil
}

// DestroyTexture releases a texture created by NewTexture.
func (c *Context) DestroyTexture(t *Texture) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == nil || t.owner != c || t.buffer == nil || c.device == nil {
		return
	}
	c.device.DestroyBuffer(t.buffer)
	t.buffer = nil
}

// texture checks that tex belongs to c.
func (c *Context) texture(tex graph.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t.owner != c || t.buffer == nil {
		return nil, ErrForeignTexture
	}
	return t, nil
}

// ClearTexture implements billboard.RenderContext.
func (c *Context) ClearTexture(tex graph.Texture) error {
	t, err := c.texture(tex)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return ErrClosed
	}
	c.queue.WriteBuffer(t.buffer, 0, make([]byte, t.Size()))
	return nil
}

// Dispatch implements billboard.RenderContext. It runs the program's
// compiled kernel with one invocation per element of extent and waits
// for completion.
func (c *Context) Dispatch(program *billboard.Program, vars *billboard.ProgramVars, extent gputypes.Extent3D) error {
	kernel, err := program.Kernel()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return ErrClosed
	}

	kp, err := c.pipelines.getOrCreate(c.device, kernel)
	if err != nil {
		return err
	}

	var transient []hal.Buffer
	defer func() {
		for _, b := range transient {
			c.device.DestroyBuffer(b)
		}
	}()

	entries := make([]gputypes.BindGroupEntry, 0, len(kp.bindings))
	for _, b := range kp.bindings {
		buf, size, owned, err := c.resolveBinding(b, vars)
		if err != nil {
			return err
		}
		if owned {
			transient = append(transient, buf)
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  b.Binding,
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
		})
	}

	bg, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   kernel.Label + "_bind_group",
		Layout:  kp.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create bind group: %w", err)
	}
	defer c.device.DestroyBindGroup(bg)

	x, y, z := workgroups(extent, kp.workgroup)
	billboard.Logger().Debug("wgpu: dispatch",
		slog.String("kernel", kernel.Label),
		slog.Uint64("width", uint64(extent.Width)),
		slog.Uint64("height", uint64(extent.Height)),
		slog.Uint64("groups_x", uint64(x)),
		slog.Uint64("groups_y", uint64(y)),
	)

	return c.submit("billboard_dispatch", func(encoder hal.CommandEncoder) {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "billboard_trace"})
		pass.SetPipeline(kp.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(x, y, z)
		pass.End()
	})
}

// resolveBinding returns the buffer bound to b this frame. owned reports
// whether the buffer was created for this dispatch only.
func (c *Context) resolveBinding(b shader.Binding, vars *billboard.ProgramVars) (buf hal.Buffer, size uint64, owned bool, err error) {
	if b.Space == shader.SpaceUniform {
		data := c.packBlock(vars, b.Name)
		buf, err = c.uploadBuffer(b.Name, data, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
		return buf, uint64(len(data)), err == nil, err
	}

	if tex := vars.Texture(b.Name); tex != nil {
		t, err := c.texture(tex)
		if err != nil {
			return nil, 0, false, fmt.Errorf("%s: %w", b.Name, err)
		}
		return t.buffer, t.Size(), false, nil
	}

	if data, ok := vars.Buffer(b.Name); ok && len(data) > 0 {
		data = padTo(data, 4)
		buf, err = c.uploadBuffer(b.Name, data, gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
		return buf, uint64(len(data)), err == nil, err
	}

	return c.placeholder, placeholderSize, false, nil
}

func (c *Context) uploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create buffer %q: %w", label, err)
	}
	c.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// submit records commands with encode, submits them and waits for the GPU.
func (c *Context) submit(label string, encode func(hal.CommandEncoder)) error {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	encode(encoder)
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)
	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	ok, err := c.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wgpu: wait: %w", err)
	}
	if !ok {
		return ErrGPUTimeout
	}
	return nil
}

// ReadPixels copies a texture back to host memory.
func (c *Context) ReadPixels(tex graph.Texture) (*image.RGBA, error) {
	t, err := c.texture(tex)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return nil, ErrClosed
	}

	size := t.Size()
	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: t.label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(staging)

	err = c.submit("billboard_readback", func(encoder hal.CommandEncoder) {
		encoder.CopyBufferToBuffer(t.buffer, staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: size},
		})
	})
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, int(t.width), int(t.height)))
	if err := c.queue.ReadBuffer(staging, 0, img.Pix); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}
	return img, nil
}

// workgroups returns the group counts covering extent.
func workgroups(extent gputypes.Extent3D, size [3]uint32) (x, y, z uint32) {
	for i := range size {
		if size[i] == 0 {
			size[i] = 1
		}
	}
	depth := max(extent.DepthOrArrayLayers, 1)
	return (extent.Width + size[0] - 1) / size[0],
		(extent.Height + size[1] - 1) / size[1],
		(depth + size[2] - 1) / size[2]
}

func padTo(data []byte, align int) []byte {
	if rem := len(data) % align; rem != 0 {
		data = append(data[:len(data):len(data)], make([]byte, align-rem)...)
	}
	return data
}
