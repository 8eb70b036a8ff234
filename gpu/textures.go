package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// TextureArray holds every particle sprite as one layer of a 2D array texture.
type TextureArray struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Sampler *wgpu.Sampler
	Layers  uint32
}

// NewTextureArray uploads square RGBA8 layers of size x size texels.
func NewTextureArray(device *wgpu.Device, queue *wgpu.Queue, size int, layers [][]byte) (*TextureArray, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("texture array needs at least one layer")
	}
	extent := wgpu.Extent3D{
		Width:              uint32(size),
		Height:             uint32(size),
		DepthOrArrayLayers: uint32(len(layers)),
	}
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Particle Textures",
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	layerExtent := wgpu.Extent3D{Width: uint32(size), Height: uint32(size), DepthOrArrayLayers: 1}
	for i, texels := range layers {
		if len(texels) != size*size*4 {
			texture.Release()
			return nil, fmt.Errorf("texture layer %d has %d bytes, want %d", i, len(texels), size*size*4)
		}
		dst := texture.AsImageCopy()
		dst.Origin.Z = uint32(i)
		err = queue.WriteTexture(dst, texels, &wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(size) * 4,
			RowsPerImage: uint32(size),
		}, &layerExtent)
		if err != nil {
			texture.Release()
			return nil, err
		}
	}

	view, err := texture.CreateView(&wgpu.TextureViewDescriptor{
		Label:           "Particle Textures View",
		Format:          wgpu.TextureFormatRGBA8Unorm,
		Dimension:       wgpu.TextureViewDimension2DArray,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: uint32(len(layers)),
	})
	if err != nil {
		texture.Release()
		return nil, err
	}

	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		texture.Release()
		return nil, err
	}

	return &TextureArray{Texture: texture, View: view, Sampler: sampler, Layers: uint32(len(layers))}, nil
}

func (t *TextureArray) Release() {
	if t.Sampler != nil {
		t.Sampler.Release()
		t.Sampler = nil
	}
	if t.View != nil {
		t.View.Release()
		t.View = nil
	}
	if t.Texture != nil {
		t.Texture.Release()
		t.Texture = nil
	}
}
