package gpu

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/skyburst/fireworks/shaders"
)

// CameraUniform matches Camera in fireworks.wgsl.
type CameraUniform struct {
	View       mgl32.Mat4
	Proj       mgl32.Mat4
	Resolution [2]float32
	PixelRatio float32
	_          float32
}

// CloudUniform matches Cloud in fireworks.wgsl.
type CloudUniform struct {
	Origin   [3]float32
	Progress float32
	BaseSize float32
	Texture  uint32
	_        [2]float32
}

// Cloud is the CPU side of one point cloud. Positions and Colors hold 3 floats
// per point, Sizes and TimeMultipliers one.
type Cloud struct {
	Origin          mgl32.Vec3
	Positions       []float32
	Colors          []float32
	Sizes           []float32
	TimeMultipliers []float32
	BaseSize        float32
	Texture         int
}

// PointCloud is a cloud uploaded to the GPU. Buffers and the per-cloud
// program state are released separately.
type PointCloud struct {
	count uint32

	positions       *wgpu.Buffer
	colors          *wgpu.Buffer
	sizes           *wgpu.Buffer
	timeMultipliers *wgpu.Buffer

	uniform   *wgpu.Buffer
	bindGroup *wgpu.BindGroup
	data      CloudUniform
}

// PointsPass draws point clouds as camera-facing textured quads with additive
// blending and no depth writes.
type PointsPass struct {
	Device   *wgpu.Device
	Pipeline *wgpu.RenderPipeline

	cameraBGL       *wgpu.BindGroupLayout
	cloudBGL        *wgpu.BindGroupLayout
	cameraBuffer    *wgpu.Buffer
	cameraBindGroup *wgpu.BindGroup
}

func NewPointsPass(device *wgpu.Device, format wgpu.TextureFormat, textures *TextureArray) (*PointsPass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "FireworksShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.FireworksWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	// Group 0: camera, sprite array and sampler
	cameraBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "FireworksCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(CameraUniform{})),
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	// Group 1: per cloud
	cloudBGL, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "FireworksCloudBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(unsafe.Sizeof(CloudUniform{})),
				},
			},
		},
	})
	if err != nil {
		cameraBGL.Release()
		return nil, err
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{cameraBGL, cloudBGL},
	})
	if err != nil {
		cameraBGL.Release()
		cloudBGL.Release()
		return nil, err
	}
	defer pipelineLayout.Release()

	floatAttr := func(format wgpu.VertexFormat, stride uint64, location uint32) wgpu.VertexBufferLayout {
		return wgpu.VertexBufferLayout{
			ArrayStride: stride,
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: format, Offset: 0, ShaderLocation: location},
			},
		}
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "FireworksPipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				floatAttr(wgpu.VertexFormatFloat32x3, 12, 0), // position
				floatAttr(wgpu.VertexFormatFloat32x3, 12, 1), // color
				floatAttr(wgpu.VertexFormatFloat32, 4, 2),    // size
				floatAttr(wgpu.VertexFormatFloat32, 4, 3),    // time multiplier
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOne,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOne,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		cameraBGL.Release()
		cloudBGL.Release()
		return nil, err
	}

	p := &PointsPass{
		Device:    device,
		Pipeline:  pipeline,
		cameraBGL: cameraBGL,
		cloudBGL:  cloudBGL,
	}

	p.cameraBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "FireworksCameraBuffer",
		Size:  uint64(unsafe.Sizeof(CameraUniform{})),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		p.Release()
		return nil, err
	}

	p.cameraBindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "FireworksCameraBG",
		Layout: cameraBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.cameraBuffer, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: textures.View},
			{Binding: 2, Sampler: textures.Sampler},
		},
	})
	if err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

func (p *PointsPass) UpdateCamera(queue *wgpu.Queue, camera CameraUniform) error {
	return queue.WriteBuffer(p.cameraBuffer, 0, unsafe.Slice((*byte)(unsafe.Pointer(&camera)), unsafe.Sizeof(camera)))
}

func (p *PointsPass) vertexBuffer(label string, data []float32) (*wgpu.Buffer, error) {
	size := uint64(len(data) * 4)
	if size == 0 {
		size = 4
		data = []float32{0}
	}
	return p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageVertex,
	})
}

// NewPointCloud uploads c. An empty cloud is valid and draws nothing.
func (p *PointsPass) NewPointCloud(c Cloud) (*PointCloud, error) {
	count := len(c.Sizes)
	if len(c.Positions) != 3*count || len(c.Colors) != 3*count || len(c.TimeMultipliers) != count {
		return nil, fmt.Errorf("inconsistent point cloud: %d positions, %d colors, %d sizes, %d time multipliers",
			len(c.Positions), len(c.Colors), len(c.Sizes), len(c.TimeMultipliers))
	}

	pc := &PointCloud{
		count: uint32(count),
		data: CloudUniform{
			Origin:   [3]float32{c.Origin.X(), c.Origin.Y(), c.Origin.Z()},
			BaseSize: c.BaseSize,
			Texture:  uint32(c.Texture),
		},
	}

	var err error
	if pc.positions, err = p.vertexBuffer("FireworksPositions", c.Positions); err != nil {
		return nil, err
	}
	if pc.colors, err = p.vertexBuffer("FireworksColors", c.Colors); err != nil {
		pc.ReleaseBuffers()
		return nil, err
	}
	if pc.sizes, err = p.vertexBuffer("FireworksSizes", c.Sizes); err != nil {
		pc.ReleaseBuffers()
		return nil, err
	}
	if pc.timeMultipliers, err = p.vertexBuffer("FireworksTimeMultipliers", c.TimeMultipliers); err != nil {
		pc.ReleaseBuffers()
		return nil, err
	}

	pc.uniform, err = p.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "FireworksCloudUniform",
		Contents: unsafe.Slice((*byte)(unsafe.Pointer(&pc.data)), unsafe.Sizeof(pc.data)),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pc.ReleaseBuffers()
		return nil, err
	}
	pc.bindGroup, err = p.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "FireworksCloudBG",
		Layout: p.cloudBGL,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: pc.uniform, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		pc.ReleaseBuffers()
		pc.ReleaseProgram()
		return nil, err
	}
	return pc, nil
}

func (pc *PointCloud) Count() uint32 {
	return pc.count
}

// Update writes the cloud origin and burst progress for the next draw.
func (pc *PointCloud) Update(queue *wgpu.Queue, origin mgl32.Vec3, progress float32) error {
	if pc.uniform == nil {
		return nil
	}
	pc.data.Origin = [3]float32{origin.X(), origin.Y(), origin.Z()}
	pc.data.Progress = progress
	if err := queue.WriteBuffer(pc.uniform, 0, unsafe.Slice((*byte)(unsafe.Pointer(&pc.data)), unsafe.Sizeof(pc.data))); err != nil {
		return fmt.Errorf("write cloud uniform: %w", err)
	}
	return nil
}

func (pc *PointCloud) drawable() bool {
	return pc.Count() > 0 && pc.positions != nil && pc.bindGroup != nil
}

// ReleaseBuffers frees the four attribute buffers. Safe to call twice.
func (pc *PointCloud) ReleaseBuffers() {
	for _, b := range []**wgpu.Buffer{&pc.positions, &pc.colors, &pc.sizes, &pc.timeMultipliers} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}

// ReleaseProgram frees the per-cloud uniform and bind group. Safe to call twice.
func (pc *PointCloud) ReleaseProgram() {
	if pc.bindGroup != nil {
		pc.bindGroup.Release()
		pc.bindGroup = nil
	}
	if pc.uniform != nil {
		pc.uniform.Release()
		pc.uniform = nil
	}
}

func (p *PointsPass) Draw(pass *wgpu.RenderPassEncoder, clouds []*PointCloud) {
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.cameraBindGroup, nil)
	for _, pc := range clouds {
		if !pc.drawable() {
			continue
		}
		pass.SetBindGroup(1, pc.bindGroup, nil)
		pass.SetVertexBuffer(0, pc.positions, 0, pc.positions.GetSize())
		pass.SetVertexBuffer(1, pc.colors, 0, pc.colors.GetSize())
		pass.SetVertexBuffer(2, pc.sizes, 0, pc.sizes.GetSize())
		pass.SetVertexBuffer(3, pc.timeMultipliers, 0, pc.timeMultipliers.GetSize())
		pass.Draw(6, pc.Count(), 0, 0)
	}
}

func (p *PointsPass) Release() {
	if p.cameraBindGroup != nil {
		p.cameraBindGroup.Release()
		p.cameraBindGroup = nil
	}
	if p.cameraBuffer != nil {
		p.cameraBuffer.Release()
		p.cameraBuffer = nil
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
		p.Pipeline = nil
	}
	if p.cloudBGL != nil {
		p.cloudBGL.Release()
		p.cloudBGL = nil
	}
	if p.cameraBGL != nil {
		p.cameraBGL.Release()
		p.cameraBGL = nil
	}
}
