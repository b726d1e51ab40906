//go:build !tinygo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunWindow opens a desktop window showing the framebuffer and forwarding
// key presses to the input lines. boot is called once with the HAL before
// the window loop starts; it is expected to start the OS and return. The
// call blocks until the window closes.
func RunWindow(h *Host, boot func(HAL)) error {
	g := &hostGame{
		h: h,
		keys: []boundKey{
			{keyFromName(h.prof.Keys.Rotate), KeyRotate},
			{keyFromName(h.prof.Keys.Drop), KeyDrop},
			{keyFromName(h.prof.Keys.Left), KeyLeft},
			{keyFromName(h.prof.Keys.Right), KeyRight},
		},
	}

	boot(h)

	scale := h.prof.Display.Scale
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowTitle("ember")
	ebiten.SetWindowSize(h.prof.Display.Width*scale, h.prof.Display.Height*scale)
	ebiten.SetTPS(125)
	return ebiten.RunGame(g)
}

type boundKey struct {
	key  ebiten.Key
	mask KeyMask
}

type hostGame struct {
	h    *Host
	keys []boundKey

	img      *image.RGBA
	fbImg    *ebiten.Image
	scratch  []byte
}

func (g *hostGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, b := range g.keys {
		if inpututil.IsKeyJustPressed(b.key) {
			g.h.Press(b.mask)
		}
	}
	g.h.Step()
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	w, h := fb.Size()
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
		g.fbImg = ebiten.NewImage(int(w), int(h))
		g.scratch = make([]byte, fb.Stride()*int(h))
	}

	fb.Snapshot(g.scratch)

	stride := fb.Stride()
	dst := g.img.Pix
	for y := 0; y < int(h); y++ {
		for x := 0; x < int(w); x++ {
			v := byte(0xCF) // unlit: the pale LCD background
			if g.scratch[y*stride+x/8]&(byte(1)<<(uint(x)%8)) != 0 {
				v = 0x10
			}
			i := (y*int(w) + x) * 4
			dst[i+0] = v
			dst[i+1] = v
			dst[i+2] = v
			dst[i+3] = 0xFF
		}
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.prof.Display.Width, g.h.prof.Display.Height
}

func keyFromName(name string) ebiten.Key {
	switch name {
	case "up":
		return ebiten.KeyArrowUp
	case "down":
		return ebiten.KeyArrowDown
	case "left":
		return ebiten.KeyArrowLeft
	case "right":
		return ebiten.KeyArrowRight
	case "space":
		return ebiten.KeySpace
	case "enter":
		return ebiten.KeyEnter
	case "w":
		return ebiten.KeyW
	case "a":
		return ebiten.KeyA
	case "s":
		return ebiten.KeyS
	case "d":
		return ebiten.KeyD
	default:
		return ebiten.KeyArrowUp
	}
}
