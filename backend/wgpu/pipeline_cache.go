// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/billboard/shader"
)

// kernelPipeline is a compute pipeline built from one compiled module.
type kernelPipeline struct {
	module     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
	bindings   []shader.Binding
	workgroup  [3]uint32
}

// pipelineCache caches compute pipelines by module content.
//
// It uses RWMutex with double-check locking: lookups take the read lock and
// only a miss takes the write lock.
type pipelineCache struct {
	mu      sync.RWMutex
	entries map[uint64]*kernelPipeline

	hits   atomic.Uint64
	misses atomic.Uint64
}

func newPipelineCache() *pipelineCache {
	return &pipelineCache{entries: make(map[uint64]*kernelPipeline)}
}

// kernelKey hashes everything that affects pipeline creation.
func kernelKey(m *shader.Module) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(m.EntryPoint))
	var word [4]byte
	for _, w := range m.SPIRV {
		binary.LittleEndian.PutUint32(word[:], w)
		_, _ = h.Write(word[:])
	}
	for _, b := range m.Bindings {
		binary.LittleEndian.PutUint32(word[:], b.Group<<16|b.Binding)
		_, _ = h.Write(word[:])
		binary.LittleEndian.PutUint32(word[:], uint32(b.Space)) //nolint:gosec // small enum
		_, _ = h.Write(word[:])
	}
	return h.Sum64()
}

// getOrCreate returns the pipeline for m, creating it on a miss.
func (c *pipelineCache) getOrCreate(device hal.Device, m *shader.Module) (*kernelPipeline, error) {
	key := kernelKey(m)

	c.mu.RLock()
	if kp, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return kp, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if kp, ok := c.entries[key]; ok {
		c.hits.Add(1)
		return kp, nil
	}

	kp, err := createKernelPipeline(device, m)
	if err != nil {
		return nil, err
	}
	c.entries[key] = kp
	c.misses.Add(1)
	return kp, nil
}

// stats returns cache hits and misses.
func (c *pipelineCache) stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// len returns the number of cached pipelines.
func (c *pipelineCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// destroy releases every cached pipeline.
func (c *pipelineCache) destroy(device hal.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, kp := range c.entries {
		kp.destroy(device)
		delete(c.entries, key)
	}
}

func createKernelPipeline(device hal.Device, m *shader.Module) (*kernelPipeline, error) {
	kp := &kernelPipeline{workgroup: m.Workgroup}
	for _, b := range m.Bindings {
		if b.Group != 0 || b.Space == shader.SpaceHandle {
			continue
		}
		kp.bindings = append(kp.bindings, b)
	}

	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  m.Label,
		Source: hal.ShaderSource{SPIRV: m.SPIRV},
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create shader module: %w", err)
	}
	kp.module = module

	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(kp.bindings))
	for _, b := range kp.bindings {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    b.Binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bufferBindingType(b)},
		})
	}
	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   m.Label + "_layout",
		Entries: entries,
	})
	if err != nil {
		kp.destroy(device)
		return nil, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	kp.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            m.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		kp.destroy(device)
		return nil, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	kp.pipeLayout = pipeLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   m.Label,
		Layout:  pipeLayout,
		Compute: hal.ComputeState{Module: module, EntryPoint: m.EntryPoint},
	})
	if err != nil {
		kp.destroy(device)
		return nil, fmt.Errorf("wgpu: create compute pipeline: %w", err)
	}
	kp.pipeline = pipeline
	return kp, nil
}

func bufferBindingType(b shader.Binding) gputypes.BufferBindingType {
	switch {
	case b.Space == shader.SpaceUniform:
		return gputypes.BufferBindingTypeUniform
	case b.ReadOnly:
		return gputypes.BufferBindingTypeReadOnlyStorage
	default:
		return gputypes.BufferBindingTypeStorage
	}
}

func (kp *kernelPipeline) destroy(device hal.Device) {
	if kp.pipeline != nil {
		device.DestroyComputePipeline(kp.pipeline)
		kp.pipeline = nil
	}
	if kp.pipeLayout != nil {
		device.DestroyPipelineLayout(kp.pipeLayout)
		kp.pipeLayout = nil
	}
	if kp.bindLayout != nil {
		device.DestroyBindGroupLayout(kp.bindLayout)
		kp.bindLayout = nil
	}
	if kp.module != nil {
		device.DestroyShaderModule(kp.module)
		kp.module = nil
	}
}
