package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Screen is a cell screen that can push its contents to the terminal.
// *uv.Terminal satisfies it.
type Screen interface {
	uv.Screen
	Display() error
}

// TerminalRenderer draws framebuffers onto a terminal area, two pixel rows
// per cell row.
type TerminalRenderer struct {
	scr           Screen
	width, height int
}

// NewTerminalRenderer creates a renderer for a width x height cell area.
func NewTerminalRenderer(scr Screen, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: width, height: height}
}

// FramebufferSize returns the pixel size of a framebuffer covering the area.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return r.width, r.height * 2
}

// Render draws fb onto the screen buffer.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(r.scr, uv.Rect(0, 0, r.width, r.height))
}

// Flush displays the screen buffer.
func (r *TerminalRenderer) Flush() error {
	return r.scr.Display()
}

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(r.GetPixel(col, topY)),
					Bg: rgbaToColor(r.GetPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Palette
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorCyan    = color.RGBA{0, 255, 255, 255}
	ColorMagenta = color.RGBA{255, 0, 255, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}

	ColorBackground = color.RGBA{30, 30, 40, 255}
	ColorCurve      = color.RGBA{0, 255, 128, 255}
	ColorControl    = color.RGBA{150, 150, 170, 255}
	ColorSelected   = color.RGBA{255, 200, 0, 255}
	ColorGrid       = color.RGBA{55, 55, 70, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
