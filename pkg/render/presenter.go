package render

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"
)

// Presenter owns the terminal-facing half of the render loop: it knows the
// framebuffer size matching the terminal (double vertical resolution for
// half blocks) and pushes frames to the screen.
type Presenter struct {
	term   *uv.Terminal
	width  int
	height int
}

// NewPresenter wraps a started terminal of the given size in cells.
func NewPresenter(term *uv.Terminal, width, height int) *Presenter {
	return &Presenter{term: term, width: width, height: height}
}

// FramebufferSize returns the pixel dimensions a framebuffer should have
// for this terminal.
func (p *Presenter) FramebufferSize() (width, height int) {
	return p.width, p.height * 2
}

// Present draws the framebuffer into the terminal and flushes it.
func (p *Presenter) Present(fb *Framebuffer) error {
	fb.Draw(p.term, uv.Rectangle(image.Rect(0, 0, p.width, p.height)))
	return p.term.Display()
}
