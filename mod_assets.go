package fireworks

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

type AssetId string

// TextureAsset is tightly packed RGBA8 texel data.
type TextureAsset struct {
	Texels []uint8
	Width  uint32
	Height uint32
}

type AssetServer struct {
	textures map[AssetId]TextureAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{textures: make(map[AssetId]TextureAsset)}
}

func (server *AssetServer) CreateTexture(img *image.RGBA) AssetId {
	id := makeAssetId()
	bounds := img.Bounds()
	server.textures[id] = TextureAsset{
		Texels: img.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}
	return id
}

// LoadTexture decodes a PNG and resamples it to size x size when size > 0.
func (server *AssetServer) LoadTexture(filename string, size int) (AssetId, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open texture: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return "", fmt.Errorf("failed to decode texture %s: %w", filename, err)
	}
	return server.CreateTexture(toRGBA(img, size)), nil
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tex, ok := server.textures[id]
	return tex, ok
}

// toRGBA converts img to RGBA, scaling it to size x size with bilinear filtering.
func toRGBA(img image.Image, size int) *image.RGBA {
	bounds := img.Bounds()
	if size <= 0 {
		if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
			return rgba
		}
		dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// TexturePool is the fixed set of particle sprites a burst picks from.
// All textures share one square size so they can be uploaded as an array.
type TexturePool struct {
	Ids  []AssetId
	Size int
}

func (p *TexturePool) Len() int {
	return len(p.Ids)
}

// Pick returns a random texture index.
func (p *TexturePool) Pick() int {
	if len(p.Ids) == 0 {
		return 0
	}
	return rand.Intn(len(p.Ids))
}

// LoadTexturePool loads every *.png of dir in name order.
func LoadTexturePool(server *AssetServer, dir string, size int) (*TexturePool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no png textures in %s", dir)
	}
	sort.Strings(files)

	pool := &TexturePool{Size: size}
	for _, f := range files {
		id, err := server.LoadTexture(f, size)
		if err != nil {
			return nil, err
		}
		pool.Ids = append(pool.Ids, id)
	}
	return pool, nil
}

// ProceduralTexturePool draws count glow sprites: soft discs, rings and stars
// of varying sharpness. White RGB with the shape in both red and alpha.
func ProceduralTexturePool(server *AssetServer, count, size int) *TexturePool {
	pool := &TexturePool{Size: size}
	for i := 0; i < count; i++ {
		pool.Ids = append(pool.Ids, server.CreateTexture(glowSprite(i, size)))
	}
	return pool
}

func glowSprite(variant, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	sharpness := 1 + float64(variant/3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			u := (float64(x)+0.5)/float64(size)*2 - 1
			v := (float64(y)+0.5)/float64(size)*2 - 1
			r := math.Hypot(u, v)

			var a float64
			switch variant % 3 {
			case 0: // disc
				a = 1 - r
			case 1: // ring
				a = 1 - math.Abs(r-0.6)*4
			case 2: // four-point star
				a = 1 - math.Min(math.Abs(u), math.Abs(v))*6 - r*0.5
			}
			a = math.Pow(math.Max(0, math.Min(1, a)), sharpness)
			c := uint8(a * 255)
			img.SetRGBA(x, y, color.RGBA{R: c, G: c, B: c, A: c})
		}
	}
	return img
}

// TexturesModule installs the AssetServer and the particle TexturePool.
type TexturesModule struct {
	Dir   string
	Size  int
	Count int
}

func (m TexturesModule) Install(app *App, cmd *Commands) {
	server := Resource[AssetServer](app)
	if server == nil {
		server = NewAssetServer()
		cmd.AddResources(server)
	}
	size, count := m.Size, m.Count
	if size <= 0 {
		size = 64
	}
	if count <= 0 {
		count = 8
	}

	if m.Dir != "" {
		pool, err := LoadTexturePool(server, m.Dir, size)
		if err == nil {
			app.Logger().Infof("Loaded %d particle textures from %s", pool.Len(), m.Dir)
			cmd.AddResources(pool)
			return
		}
		app.Logger().Warnf("Falling back to procedural textures: %v", err)
	}
	cmd.AddResources(ProceduralTexturePool(server, count, size))
}
