// Package render draws curves and their control polygons, either to the
// terminal through half-block cells or to a PNG image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// The line is clipped to the framebuffer first, so far off-screen endpoints
// cost nothing.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	fb.drawLine(x0, y0, x1, y1, func(x, y int) { fb.SetPixel(x, y, c) })
}

func (fb *Framebuffer) drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	var ok bool
	x0, y0, x1, y1, ok = clipLine(x0, y0, x1, y1, fb.Width-1, fb.Height-1)
	if !ok {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Cohen-Sutherland outcodes.
const (
	outLeft = 1 << iota
	outRight
	outTop
	outBottom
)

func outcode(x, y, maxX, maxY float64) int {
	code := 0
	switch {
	case x < 0:
		code |= outLeft
	case x > maxX:
		code |= outRight
	}
	switch {
	case y < 0:
		code |= outTop
	case y > maxY:
		code |= outBottom
	}
	return code
}

// clipLine clips a segment to [0, maxX] x [0, maxY].
func clipLine(x0, y0, x1, y1, maxX, maxY int) (int, int, int, int, bool) {
	if maxX < 0 || maxY < 0 {
		return 0, 0, 0, 0, false
	}
	fx0, fy0, fx1, fy1 := float64(x0), float64(y0), float64(x1), float64(y1)
	mx, my := float64(maxX), float64(maxY)
	c0, c1 := outcode(fx0, fy0, mx, my), outcode(fx1, fy1, mx, my)

	for c0|c1 != 0 {
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}
		out := c0
		if out == 0 {
			out = c1
		}
		var x, y float64
		switch {
		case out&outBottom != 0:
			x, y = fx0+(fx1-fx0)*(my-fy0)/(fy1-fy0), my
		case out&outTop != 0:
			x, y = fx0+(fx1-fx0)*(0-fy0)/(fy1-fy0), 0
		case out&outRight != 0:
			x, y = mx, fy0+(fy1-fy0)*(mx-fx0)/(fx1-fx0)
		default:
			x, y = 0, fy0+(fy1-fy0)*(0-fx0)/(fx1-fx0)
		}
		if out == c0 {
			fx0, fy0 = x, y
			c0 = outcode(fx0, fy0, mx, my)
		} else {
			fx1, fy1 = x, y
			c1 = outcode(fx1, fy1, mx, my)
		}
	}
	return int(math.Round(fx0)), int(math.Round(fy0)), int(math.Round(fx1)), int(math.Round(fy1)), true
}

// DrawDisc draws a filled disc of radius r centered on (cx, cy).
func (fb *Framebuffer) DrawDisc(cx, cy, r int, c color.RGBA) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				fb.SetPixel(cx+x, cy+y, c)
			}
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		copy(img.Pix[y*img.Stride:], rgbaBytes(fb.Pixels[y*fb.Width:(y+1)*fb.Width]))
	}
	return img
}

func rgbaBytes(row []color.RGBA) []byte {
	b := make([]byte, 0, len(row)*4)
	for _, c := range row {
		b = append(b, c.R, c.G, c.B, c.A)
	}
	return b
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
