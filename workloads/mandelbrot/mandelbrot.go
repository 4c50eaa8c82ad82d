// Package mandelbrot is a fork-join recursive Mandelbrot renderer built on
// top of sched. It recursively subdivides the frame into halves until a
// tile is small enough (TileSize per side) to render directly, matching
// the stress scenario in SPEC_FULL.md §8 ("recursive subdivision of a
// 3840x2160 image into 8x8 tiles").
package mandelbrot

import (
	"fmt"
	"math/cmplx"

	"github.com/Mylloon/scheduler/sched"
)

const (
	Width      = 3840
	Height     = 2160
	Iterations = 1000
	TileSize   = 8

	scale = Width / 4.0
	dx    = Width / 2
	dy    = Height / 2
)

// Image is a flat RGB framebuffer, one packed 0xRRGGBB value per pixel,
// row-major like the original unsigned int image[] buffer.
type Image struct {
	Pixels        []uint32
	Width, Height int
}

func NewImage() *Image {
	return &Image{
		Pixels: make([]uint32, Width*Height),
		Width:  Width,
		Height: Height,
	}
}

func (img *Image) set(x, y int, rgb uint32) {
	img.Pixels[y*img.Width+x] = rgb
}

// iterations returns the escape-time iteration count for the point c.
func iterations(c complex128) int {
	var z complex128
	i := 0
	for i < Iterations && cmplx.Abs(z) <= 2.0 {
		z = z*z + c
		i++
	}
	return i
}

// toComplex maps pixel coordinates to the complex plane, matching the
// original toc().
func toComplex(x, y int) complex128 {
	return complex(float64(x-dx)/scale, float64(y-dy)/scale)
}

// toRGB maps an iteration count to a packed RGB color using the original
// five-band palette from mandelbrot.c's torgb().
func toRGB(n int) uint32 {
	var r, g, b int
	switch {
	case n < 128:
		v := 2 * n
		r, g, b = v, 0, 255-v
	case n < 256:
		v := 2 * (n - 128)
		r, g, b = 0, v, 255-v
	case n < 512:
		v := n - 256
		r, g, b = 255-v, v, 0
	case n < 1024:
		v := (n - 512) / 2
		r, g, b = v, 255, v
	default:
		r, g, b = 255, 255, 255
	}
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

func pixel(img *Image, x, y int) {
	img.set(x, y, toRGB(iterations(toComplex(x, y))))
}

type tile struct {
	img            *Image
	x0, y0, x1, y1 int
}

func renderTile(payload any, h *sched.Handle) {
	t := payload.(tile)
	w := t.x1 - t.x0
	ht := t.y1 - t.y0

	if w <= TileSize && ht <= TileSize {
		for y := t.y0; y < t.y1; y++ {
			for x := t.x0; x < t.x1; x++ {
				pixel(t.img, x, y)
			}
		}
		return
	}

	var left, right tile
	if w >= ht {
		mid := t.x0 + w/2
		left = tile{t.img, t.x0, t.y0, mid, t.y1}
		right = tile{t.img, mid, t.y0, t.x1, t.y1}
	} else {
		mid := t.y0 + ht/2
		left = tile{t.img, t.x0, t.y0, t.x1, mid}
		right = tile{t.img, t.x0, mid, t.x1, t.y1}
	}

	if err := sched.Spawn(renderTile, left, h); err != nil {
		renderTile(left, h)
	}
	if err := sched.Spawn(renderTile, right, h); err != nil {
		renderTile(right, h)
	}
}

// tileCount returns the number of TileSize-by-TileSize tiles needed to
// cover the frame, plus one, used to size the scheduler's per-worker deque
// capacity. It is not a bound on the leaves renderTile produces: halving
// can leave tiles narrower or shorter than TileSize, so there are more
// leaves than this.
func tileCount() int {
	tilesX := (Width + TileSize - 1) / TileSize
	tilesY := (Height + TileSize - 1) / TileSize
	return tilesX*tilesY + 1
}

// Render draws the full frame using nthreads scheduler workers and
// returns the resulting framebuffer. nthreads == 0 uses the online
// processor count.
func Render(nthreads int) (*Image, error) {
	img := NewImage()
	root := tile{img, 0, 0, img.Width, img.Height}
	if err := sched.Init(nthreads, tileCount(), renderTile, root); err != nil {
		return nil, fmt.Errorf("mandelbrot: %w", err)
	}
	return img, nil
}

// RenderSerial draws the full frame without the scheduler, for
// benchmarking and for tests that want a ground truth.
func RenderSerial() *Image {
	img := NewImage()
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			pixel(img, x, y)
		}
	}
	return img
}
