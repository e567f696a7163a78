package render

import (
	"image"
	"image/color"
	"log"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golangdaddy/infiniteroad/pkg/background"
	"github.com/golangdaddy/infiniteroad/pkg/camera"
	"github.com/golangdaddy/infiniteroad/pkg/scene"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// GroundSize is the side of the grass plane kept under the car
	GroundSize = 200.0
	// stripLength keeps projected quads short enough to clip at the near plane
	stripLength = 5.0
)

type cachedTexture struct {
	img   *ebiten.Image
	frame int
}

type drawItem struct {
	quad  camera.ScreenQuad
	tex   *ebiten.Image
	tint  color.RGBA
	depth float64
}

// Renderer draws the scene graph through the camera onto an ebiten screen
type Renderer struct {
	Fog scene.Fog

	white    *ebiten.Image
	ground   *ebiten.Image
	textures map[image.Image]*cachedTexture
	sprites  map[color.RGBA]*ebiten.Image
	frame    int

	items    []drawItem
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderer creates a renderer. A ground texture at groundPath replaces
// the generated grass when it exists.
func NewRenderer(groundPath string) *Renderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)

	r := &Renderer{
		Fog:      scene.DefaultFog(),
		white:    white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		textures: make(map[image.Image]*cachedTexture),
		sprites:  make(map[color.RGBA]*ebiten.Image),
	}

	if groundPath != "" {
		if img, _, err := ebitenutil.NewImageFromFile(groundPath); err == nil {
			r.ground = img
		} else {
			log.Printf("Warning: Could not load ground texture %s, generating grass: %v", groundPath, err)
		}
	}
	if r.ground == nil {
		r.ground = ebiten.NewImageFromImage(background.NewGenerator(256, 256).GenerateGround(1))
	}
	return r
}

// Draw paints the scene back to front. focus is the point the
// ground plane is centred on, normally the car.
func (r *Renderer) Draw(screen *ebiten.Image, cam *camera.Camera, g *scene.Graph, focus mgl64.Vec3) {
	r.frame++
	screen.Fill(background.SkyColor)

	// the ground plane moves with the car; it sits just below the road
	groundCenter := mgl64.Vec3{focus.X(), -0.01, focus.Z()}
	for _, q := range cam.Strips(groundCenter, GroundSize, GroundSize, 0, stripLength) {
		r.drawQuad(screen, q, r.ground, color.RGBA{0xff, 0xff, 0xff, 0xff})
	}

	r.items = r.items[:0]
	var car *scene.Node
	for _, n := range g.Nodes() {
		if n.Kind == scene.KindCar {
			car = n
			continue
		}
		tex := r.white
		if n.Kind == scene.KindMesh && n.Texture != nil {
			tex = r.texture(n.Texture)
		}
		for _, q := range cam.Strips(n.Position, n.Size.X(), n.Size.Z(), n.Yaw, stripLength) {
			r.items = append(r.items, drawItem{quad: q, tex: tex, tint: n.Color, depth: q.Depth})
		}
	}

	// painter's order: farthest first
	sort.SliceStable(r.items, func(i, j int) bool {
		return r.items[i].depth > r.items[j].depth
	})
	for _, it := range r.items {
		r.drawQuad(screen, it.quad, it.tex, it.tint)
	}

	if car != nil {
		r.drawCar(screen, cam, car)
	}
	r.pruneTextures()
}

// drawQuad fills a projected quad with a tinted texture, then lays fog over it
func (r *Renderer) drawQuad(screen *ebiten.Image, q camera.ScreenQuad, tex *ebiten.Image, tint color.RGBA) {
	b := tex.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	ox, oy := float32(b.Min.X), float32(b.Min.Y)

	r.vertices = r.vertices[:0]
	for k := 0; k < 4; k++ {
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:   q.X[k],
			DstY:   q.Y[k],
			SrcX:   ox + q.U[k]*w,
			SrcY:   oy + q.V[k]*h,
			ColorR: float32(tint.R) / 255,
			ColorG: float32(tint.G) / 255,
			ColorB: float32(tint.B) / 255,
			ColorA: 1,
		})
	}
	r.indices = append(r.indices[:0], 0, 1, 2, 0, 2, 3)
	screen.DrawTriangles(r.vertices, r.indices, tex, &ebiten.DrawTrianglesOptions{})

	f := float32(r.Fog.Factor(q.Depth))
	if f <= 0 {
		return
	}
	fc := r.Fog.Color
	wb := r.white.Bounds()
	for k := range r.vertices {
		v := &r.vertices[k]
		v.SrcX, v.SrcY = float32(wb.Min.X)+0.5, float32(wb.Min.Y)+0.5
		v.ColorR = float32(fc.R) / 255 * f
		v.ColorG = float32(fc.G) / 255 * f
		v.ColorB = float32(fc.B) / 255 * f
		v.ColorA = f
	}
	screen.DrawTriangles(r.vertices, r.indices, r.white, &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
	})
}

// texture uploads img once and keeps it while nodes still draw with it
func (r *Renderer) texture(img image.Image) *ebiten.Image {
	t, ok := r.textures[img]
	if !ok {
		t = &cachedTexture{img: ebiten.NewImageFromImage(img)}
		r.textures[img] = t
	}
	t.frame = r.frame
	return t.img
}

// pruneTextures frees uploads for nodes that have left the scene
func (r *Renderer) pruneTextures() {
	for src, t := range r.textures {
		if t.frame != r.frame {
			t.img.Deallocate()
			delete(r.textures, src)
		}
	}
}

// drawCar places the car sprite at the projected car position, scaled to
// its footprint and rolled by its tilt
func (r *Renderer) drawCar(screen *ebiten.Image, cam *camera.Camera, car *scene.Node) {
	sprite := r.carSprite(car)

	x, y, _, ok := cam.Project(car.Position)
	if !ok {
		return
	}
	rx, _, _, okR := cam.Project(car.Position.Add(mgl64.Vec3{-car.Size.X() / 2, 0, 0}))
	lx, _, _, okL := cam.Project(car.Position.Add(mgl64.Vec3{car.Size.X() / 2, 0, 0}))
	if !okR || !okL {
		return
	}
	pxWidth := rx - lx
	if pxWidth <= 0 {
		return
	}

	sb := sprite.Bounds()
	scale := pxWidth / float64(sb.Dx())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(sb.Dx())/2, -float64(sb.Dy())/2)
	op.GeoM.Scale(scale, scale*0.5)
	op.GeoM.Rotate(car.Roll)
	op.GeoM.Translate(x, y)
	screen.DrawImage(sprite, op)
}

func (r *Renderer) carSprite(car *scene.Node) *ebiten.Image {
	if car.Texture != nil {
		return r.texture(car.Texture)
	}
	if s, ok := r.sprites[car.Color]; ok {
		return s
	}
	s := ebiten.NewImageFromImage(CarImage(car.Color))
	r.sprites[car.Color] = s
	return s
}
