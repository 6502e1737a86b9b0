//go:build !nogpu

// Package gpu evaluates divergence grids on the GPU with wgpu/hal
// compute shaders.
//
// The WGSL kernel runs one invocation per grid point and writes the
// 1-based escape iteration (or 0 for bounded points) into a storage
// buffer that is read back into a mandel.DivergenceMap. WGSL has no
// f64, so the orbit arithmetic runs in 32-bit floats: counts for
// points near the set boundary can differ from the float64 CPU
// engines, while repeated runs on the same device stay identical.
package gpu

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/mandel"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds how long a dispatch waits for the GPU before the
// evaluation is abandoned.
const fenceTimeout = 5 * time.Second

// paramsSize is the byte size of gridParams in the uniform buffer.
const paramsSize = 16

// gridParams is the uniform block for one dispatch.
// Must match the Params struct in mandelbrot.wgsl.
type gridParams struct {
	Width          uint32
	Height         uint32
	IterationBound uint32
	Padding        uint32 // align to 16 bytes
}

// bytes serializes the params as little-endian words, the layout the
// SPIR-V side reads.
func (p gridParams) bytes() []byte {
	buf := make([]byte, paramsSize)
	binary.LittleEndian.PutUint32(buf[0:], p.Width)
	binary.LittleEndian.PutUint32(buf[4:], p.Height)
	binary.LittleEndian.PutUint32(buf[8:], p.IterationBound)
	binary.LittleEndian.PutUint32(buf[12:], p.Padding)
	return buf
}

// Engine evaluates divergence grids on a Vulkan device through wgpu/hal.
// The zero value is usable: call Init (or SetDeviceProvider) before
// Evaluate, and Close when done.
type Engine struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	deviceName     string
	externalDevice bool // true when using a shared device (don't destroy on Close)
	ready          bool
}

// Name identifies the engine in harness logs and wrapped errors.
func (e *Engine) Name() string { return "gpu" }

// DeviceName returns the name of the adapter in use, or "" before Init.
func (e *Engine) DeviceName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deviceName
}

// Ready reports whether the engine can accept Evaluate calls.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Init opens a Vulkan device and builds the compute pipeline. It fails
// with mandel.ErrEngineUnavailable when no usable adapter is present;
// there is no silent CPU fallback, callers pick the engine explicitly.
// Calling Init on an initialized engine is a no-op.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ready {
		return nil
	}
	if err := e.initGPU(); err != nil {
		return fmt.Errorf("%w: %v", mandel.ErrEngineUnavailable, err)
	}
	e.ready = true
	return nil
}

func (e *Engine) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	e.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
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
		return fmt.Errorf("open device: %w", err)
	}
	e.device = openDev.Device
	e.queue = openDev.Queue

	if err := e.createPipeline(); err != nil {
		e.device.Destroy()
		e.device = nil
		e.queue = nil
		return fmt.Errorf("create pipeline: %w", err)
	}

	e.deviceName = selected.Info.Name
	slogger().Info("gpu engine initialized", "device", e.deviceName)
	return nil
}

// SetDeviceProvider switches the engine to a shared GPU device from an
// external provider (e.g. a host application that already owns one).
// The provider must implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue. On success the engine is ready
// and a later Init is a no-op.
func (e *Engine) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("%w: provider does not expose HAL types", mandel.ErrEngineUnavailable)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: provider HalDevice is not hal.Device", mandel.ErrEngineUnavailable)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: provider HalQueue is not hal.Queue", mandel.ErrEngineUnavailable)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// Destroy own resources if we created them.
	e.destroyPipeline()
	if !e.externalDevice && e.device != nil {
		e.device.Destroy()
	}
	if e.instance != nil {
		e.instance.Destroy()
		e.instance = nil
	}

	e.device = device
	e.queue = queue
	e.externalDevice = true

	if err := e.createPipeline(); err != nil {
		e.ready = false
		return fmt.Errorf("%w: create pipeline with shared device: %v", mandel.ErrEngineUnavailable, err)
	}
	e.ready = true
	e.deviceName = "shared"
	slogger().Info("gpu engine switched to shared device")
	return nil
}

// Close releases the pipeline and, when the engine owns them, the
// device and instance. A closed engine can be re-initialized with Init.
// Close is safe to call multiple times.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.destroyPipeline()
	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
			e.device = nil
		}
		if e.instance != nil {
			e.instance.Destroy()
			e.instance = nil
		}
	} else {
		// Don't destroy shared resources, we don't own them.
		e.device = nil
		e.instance = nil
	}
	e.queue = nil
	e.deviceName = ""
	e.ready = false
	e.externalDevice = false
}

func (e *Engine) createPipeline() error {
	spirv, err := compileToSPIRV(mandelbrotShaderWGSL)
	if err != nil {
		return fmt.Errorf("compile mandelbrot shader: %w", err)
	}

	shader, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mandel_kernel",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	e.shader = shader

	bindLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mandel_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: paramsSize,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageCompute,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	e.bindLayout = bindLayout

	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "mandel_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{e.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	e.pipeLayout = pipeLayout

	pipeline, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "mandel_pipeline",
		Layout:  e.pipeLayout,
		Compute: hal.ComputeState{Module: e.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	e.pipeline = pipeline

	return nil
}

func (e *Engine) destroyPipeline() {
	if e.device == nil {
		return
	}
	if e.pipeline != nil {
		e.device.DestroyComputePipeline(e.pipeline)
	}
	if e.pipeLayout != nil {
		e.device.DestroyPipelineLayout(e.pipeLayout)
	}
	if e.bindLayout != nil {
		e.device.DestroyBindGroupLayout(e.bindLayout)
	}
	if e.shader != nil {
		e.device.DestroyShaderModule(e.shader)
	}
}

// Evaluate dispatches one compute pass over the grid and reads the
// escape counts back into a fresh DivergenceMap.
func (e *Engine) Evaluate(g mandel.Grid, iterationBound int) (*mandel.DivergenceMap, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return nil, fmt.Errorf("%w: gpu engine not initialized", mandel.ErrEngineUnavailable)
	}

	m, err := mandel.NewDivergenceMap(g.Width, g.Height)
	if err != nil {
		return nil, err
	}
	if err := e.dispatch(g, iterationBound, m); err != nil {
		return nil, err
	}
	return m, nil
}

// dispatch runs the pipeline: upload params, one compute pass sized
// ceil(w/8) x ceil(h/8) workgroups of 8x8 invocations, copy the counts
// to a staging buffer and read them back.
func (e *Engine) dispatch(g mandel.Grid, iterationBound int, m *mandel.DivergenceMap) error {
	w, h := uint32(g.Width), uint32(g.Height) //nolint:gosec // dimensions validated to fit
	outSize := uint64(g.Points()) * 4

	uniformBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_params", Size: paramsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: create uniform buffer: %v", mandel.ErrAllocation, err)
	}
	defer e.device.DestroyBuffer(uniformBuf)

	storageBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_counts", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("%w: create storage buffer: %v", mandel.ErrAllocation, err)
	}
	defer e.device.DestroyBuffer(storageBuf)

	stagingBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "mandel_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: create staging buffer: %v", mandel.ErrAllocation, err)
	}
	defer e.device.DestroyBuffer(stagingBuf)

	params := gridParams{
		Width:          w,
		Height:         h,
		IterationBound: uint32(iterationBound), //nolint:gosec // bound validated to fit int32
	}
	e.queue.WriteBuffer(uniformBuf, 0, params.bytes())

	bindGroup, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "mandel_bind", Layout: e.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer e.device.DestroyBindGroup(bindGroup)

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mandel_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mandel_dispatch"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mandel_pass"})
	pass.SetPipeline(e.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch((w+7)/8, (h+7)/8, 1)
	pass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)
	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := e.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := e.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return fmt.Errorf("%w: readback: %v", mandel.ErrAllocation, err)
	}

	counts := m.Counts()
	for i := range counts {
		counts[i] = int32(binary.LittleEndian.Uint32(readback[i*4:])) //nolint:gosec // kernel writes values <= iteration bound
	}

	slogger().Debug("gpu dispatch complete",
		"width", g.Width, "height", g.Height, "iteration_bound", iterationBound)
	return nil
}
