package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	headingSize = 26
	labelSize   = 15
	tooltipSize = 14
)

// text returns a cached texture for s. Labels are few and fixed (body names,
// button states, the heading), so the cache never needs evicting.
func (ctx *DrawContext) text(s string, size float64, c colorful.Color) (label, bool) {
	key := fmt.Sprintf(`%s|%.1f|%s`, s, size, c.Hex())
	if l, ok := ctx.labels[key]; ok {
		return l, true
	}

	img, err := ctx.txt.Render(s, size, c)
	if err != nil {
		log.Printf(`can't render %q: %s`, s, err)
		return label{}, false
	}

	l := uploadLabel(img)
	ctx.labels[key] = l
	return l, true
}

func uploadLabel(img *image.RGBA) label {
	b := img.Bounds()
	l := label{tex: uploadTexture(img, gl.CLAMP_TO_EDGE), w: float64(b.Dx()), h: float64(b.Dy())}
	gl.BindTexture(gl.TEXTURE_2D, l.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.GENERATE_MIPMAP, gl.FALSE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return l
}

func (ctx *DrawContext) drawText(s string, size float64, c colorful.Color, x, y float64) label {
	l, ok := ctx.text(s, size, c)
	if !ok {
		return l
	}
	drawLabel(l, x, y)
	return l
}

func drawLabel(l label, x, y float64) {
	// Rendered text is premultiplied.
	gl.BlendFunc(gl.ONE, gl.ONE_MINUS_SRC_ALPHA)
	defer gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, l.tex)
	gl.Color4d(1, 1, 1, 1)

	gl.Begin(gl.QUADS)
	gl.TexCoord2d(0, 0)
	gl.Vertex2d(x, y)
	gl.TexCoord2d(1, 0)
	gl.Vertex2d(x+l.w, y)
	gl.TexCoord2d(1, 1)
	gl.Vertex2d(x+l.w, y+l.h)
	gl.TexCoord2d(0, 1)
	gl.Vertex2d(x, y+l.h)
	gl.End()

	gl.Disable(gl.TEXTURE_2D)
}

func drawRect(r Rect, c colorful.Color, alpha float64) {
	gl.Disable(gl.TEXTURE_2D)
	gl.Color4d(c.R, c.G, c.B, alpha)

	gl.Begin(gl.QUADS)
	gl.Vertex2d(r.X, r.Y)
	gl.Vertex2d(r.X+r.W, r.Y)
	gl.Vertex2d(r.X+r.W, r.Y+r.H)
	gl.Vertex2d(r.X, r.Y+r.H)
	gl.End()
}

func (ctx *DrawContext) drawPanel() {
	drawRect(ctx.panel.Rect, black, 0.6)

	for _, s := range ctx.panel.Sliders {
		v := ctx.o.Speed(s.Kind)

		l, _ := ctx.text(s.Label, labelSize, white)
		ctx.drawText(s.Label, labelSize, white, s.Row.X, s.Row.Y+(s.Row.H-l.h)/2)

		drawRect(s.Track, trackGrey, 1)
		kx := s.KnobX(v)
		drawRect(Rect{s.Track.X, s.Track.Y, kx - s.Track.X, s.Track.H}, fillBlue, 1)

		const knob = 12
		drawRect(Rect{kx - knob/2, s.Track.Y + s.Track.H/2 - knob/2, knob, knob}, white, 1)
	}
}

func (ctx *DrawContext) drawPauseButton() {
	paused := ctx.o.Paused()
	bg, fg := PauseColors(paused)
	r := ctx.panel.Pause.Rect

	drawRect(r, bg, 1)

	s := PauseLabel(paused)
	if l, ok := ctx.text(s, labelSize, fg); ok {
		ctx.drawText(s, labelSize, fg, r.X+(r.W-l.w)/2, r.Y+(r.H-l.h)/2)
	}
}

func (ctx *DrawContext) drawTooltip() {
	if !ctx.tooltip.Visible {
		return
	}

	l, ok := ctx.text(ctx.tooltip.Text, tooltipSize, white)
	if !ok {
		return
	}

	const padX, padY = 8, 4
	drawRect(Rect{ctx.tooltip.X, ctx.tooltip.Y, l.w + 2*padX, l.h + 2*padY}, black, 0.7)
	ctx.drawText(ctx.tooltip.Text, tooltipSize, white, ctx.tooltip.X+padX, ctx.tooltip.Y+padY)
}

func (ctx *DrawContext) drawHeading() {
	l, ok := ctx.text(ctx.sc.Heading, headingSize, white)
	if !ok {
		return
	}

	x, y := (float64(ctx.width)-l.w)/2, 10.0
	// Poor man's text shadow.
	ctx.drawText(ctx.sc.Heading, headingSize, black, x+2, y+2)
	ctx.drawText(ctx.sc.Heading, headingSize, white, x, y)
}

// drawHelp shows the key bindings in the bottom left corner.
func (ctx *DrawContext) drawHelp() {
	if !ctx.showHelp {
		return
	}

	if ctx.help.tex == 0 {
		img, err := ctx.txt.RenderMultiline(helpLines(), labelSize, color.RGBA{0, 0, 0, 160}, white)
		if err != nil {
			log.Printf(`can't render help: %s`, err)
			ctx.showHelp = false
			return
		}
		ctx.help = uploadLabel(img)
	}

	drawLabel(ctx.help, panelMargin, float64(ctx.height)-panelMargin-ctx.help.h)
}

// drawOverlay draws the widgets in window coordinates on top of the scene.
func (ctx *DrawContext) drawOverlay() {
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.LIGHTING)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(ctx.width), float64(ctx.height), 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	ctx.drawHeading()
	ctx.drawPanel()
	ctx.drawPauseButton()
	ctx.drawHelp()
	ctx.drawTooltip()
}
