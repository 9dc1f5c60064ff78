//go:build !nogpu

package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	quirk "github.com/AbdallaEssamAli/Quirk"
	"github.com/AbdallaEssamAli/Quirk/coder"
	"github.com/AbdallaEssamAli/Quirk/ket"
)

// Engine executes synthesized programs on a GPU device through
// wgpu/hal. It either owns its Vulkan instance and device or borrows
// them from an external provider.
type Engine struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	fenceTimeout   time.Duration
	externalDevice bool
}

// NewEngine opens the first usable Vulkan adapter, preferring discrete
// and integrated GPUs over software devices.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("dispatch: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("dispatch: no GPU adapters found")
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
		if !o.allowSoftware {
			instance.Destroy()
			return nil, fmt.Errorf("dispatch: no hardware GPU adapter found")
		}
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("dispatch: open device: %w", err)
	}
	quirk.Logger().Debug("dispatch: engine initialized", "adapter", selected.Info.Name)
	return &Engine{
		instance:     instance,
		device:       openDev.Device,
		queue:        openDev.Queue,
		fenceTimeout: o.fenceTimeout,
	}, nil
}

// SetProvider switches the engine to the shared GPU device of a host
// application, typed through the gpucontext ecosystem. The provider
// must additionally expose HAL handles via HalDevice/HalQueue.
func (e *Engine) SetProvider(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return fmt.Errorf("dispatch: nil DeviceProvider")
	}
	return e.SetDeviceProvider(provider)
}

// SetDeviceProvider switches the engine to a shared GPU device from an
// external provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (e *Engine) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("dispatch: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("dispatch: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("dispatch: provider HalQueue is not hal.Queue")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
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
	quirk.Logger().Debug("dispatch: switched to shared GPU device")
	return nil
}

// Close releases the device resources the engine owns. Shared resources
// from a provider are left alone.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.externalDevice {
		if e.device != nil {
			e.device.Destroy()
		}
		if e.instance != nil {
			e.instance.Destroy()
		}
	}
	e.device = nil
	e.instance = nil
	e.queue = nil
	e.externalDevice = false
}

// Run dispatches one synthesized program against a state vector and
// reads the transformed amplitudes back. The input slice is uploaded
// once and never written; output lands in a fresh slice.
//
// One pipeline is built per call. Programs are immutable descriptors,
// so callers wanting reuse can cache at their own layer.
func (e *Engine) Run(prog *ket.Program, amps []complex128) ([]complex128, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.device == nil {
		return nil, fmt.Errorf("dispatch: engine is closed")
	}

	stateTex, err := singleTexture(prog.Args)
	if err != nil {
		return nil, err
	}
	stateBytes, err := PackState(amps, stateTex)
	if err != nil {
		return nil, err
	}
	paramBytes := PackParams(prog.Args)
	outSize := stateTex.ByteSize()

	pl, err := e.buildPipeline(prog.WGSL)
	if err != nil {
		return nil, err
	}
	defer pl.destroy(e.device)

	uniformBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ket_params", Size: uint64(len(paramBytes)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create uniform buffer: %w", err)
	}
	defer e.device.DestroyBuffer(uniformBuf)

	stateBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ket_state", Size: uint64(len(stateBytes)),
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create state buffer: %w", err)
	}
	defer e.device.DestroyBuffer(stateBuf)

	outBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ket_out", Size: outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create output buffer: %w", err)
	}
	defer e.device.DestroyBuffer(outBuf)

	stagingBuf, err := e.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ket_staging", Size: outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create staging buffer: %w", err)
	}
	defer e.device.DestroyBuffer(stagingBuf)

	e.queue.WriteBuffer(uniformBuf, 0, paramBytes)
	e.queue.WriteBuffer(stateBuf, 0, stateBytes)

	bindGroup, err := e.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "ket_bind", Layout: pl.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: uint64(len(paramBytes))}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: stateBuf.NativeHandle(), Offset: 0, Size: uint64(len(stateBytes))}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create bind group: %w", err)
	}
	defer e.device.DestroyBindGroup(bindGroup)

	encoder, err := e.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "ket_encoder"})
	if err != nil {
		return nil, fmt.Errorf("dispatch: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ket_dispatch"); err != nil {
		return nil, fmt.Errorf("dispatch: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "ket_pass"})
	pass.SetPipeline(pl.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(uint32(stateTex.PixelCount()+63)/64, 1, 1)
	pass.End()
	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: outSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("dispatch: end encoding: %w", err)
	}
	defer e.device.FreeCommandBuffer(cmdBuf)

	fence, err := e.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("dispatch: create fence: %w", err)
	}
	defer e.device.DestroyFence(fence)
	if err := e.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("dispatch: submit: %w", err)
	}
	fenceOK, err := e.device.Wait(fence, 1, e.fenceTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("dispatch: wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, outSize)
	if err := e.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("dispatch: readback: %w", err)
	}
	return UnpackState(readback, stateTex)
}

// singleTexture extracts the state texture from a program's argument
// list. Synthesized programs bind exactly one.
func singleTexture(args []coder.Arg) (coder.Texture, error) {
	var tex coder.Texture
	seen := false
	for _, a := range args {
		if a.Kind != coder.ArgTexture {
			continue
		}
		if seen {
			return coder.Texture{}, fmt.Errorf("%w: program binds more than one texture",
				quirk.ErrContractViolation)
		}
		tex, seen = a.Texture, true
	}
	if !seen {
		return coder.Texture{}, fmt.Errorf("%w: program binds no state texture",
			quirk.ErrContractViolation)
	}
	return tex, nil
}

// pipeline bundles the per-program device objects.
type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

func (p *pipeline) destroy(device hal.Device) {
	if p.pipeline != nil {
		device.DestroyComputePipeline(p.pipeline)
	}
	if p.pipeLayout != nil {
		device.DestroyPipelineLayout(p.pipeLayout)
	}
	if p.bindLayout != nil {
		device.DestroyBindGroupLayout(p.bindLayout)
	}
	if p.shader != nil {
		device.DestroyShaderModule(p.shader)
	}
}

// buildPipeline compiles a program's WGSL and wires the fixed binding
// layout: uniform params at 0, the state buffer at 1, the output buffer
// at 2.
func (e *Engine) buildPipeline(wgsl string) (*pipeline, error) {
	var pl pipeline
	shader, err := e.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ket_program",
		Source: hal.ShaderSource{WGSL: wgsl},
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch: compile program: %w", err)
	}
	pl.shader = shader

	bindLayout, err := e.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ket_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		pl.destroy(e.device)
		return nil, fmt.Errorf("dispatch: create bind group layout: %w", err)
	}
	pl.bindLayout = bindLayout

	pipeLayout, err := e.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "ket_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		pl.destroy(e.device)
		return nil, fmt.Errorf("dispatch: create pipeline layout: %w", err)
	}
	pl.pipeLayout = pipeLayout

	compute, err := e.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "ket_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		pl.destroy(e.device)
		return nil, fmt.Errorf("dispatch: create compute pipeline: %w", err)
	}
	pl.pipeline = compute
	return &pl, nil
}
