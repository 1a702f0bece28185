package text

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DPI makes font sizes come out in pixels.
const DPI = 72

type Context struct {
	ft  *freetype.Context
	fnt *truetype.Font
}

// NewContext loads a TrueType font from a file.
func NewContext(path string) (*Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewContextFromBytes(data)
}

func NewContextFromBytes(data []byte) (*Context, error) {
	fnt, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf(`can't parse font: %w`, err)
	}

	ctx := freetype.NewContext()
	ctx.SetFont(fnt)
	ctx.SetDPI(DPI)
	ctx.SetHinting(font.HintingFull)

	return &Context{ctx, fnt}, nil
}

// Default uses the Go Regular font, so no font file has to be shipped.
func Default() *Context {
	c, err := NewContextFromBytes(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf(`embedded font is broken: %s`, err))
	}
	return c
}

func (c *Context) face(size float64) font.Face {
	return truetype.NewFace(c.fnt, &truetype.Options{Size: size, DPI: DPI, Hinting: font.HintingFull})
}

// Measure returns the size of the image Render would produce.
func (c *Context) Measure(txt string, size float64) (int, int) {
	f := c.face(size)
	defer f.Close()

	m := f.Metrics()
	return max(1, font.MeasureString(f, txt).Ceil()), (m.Ascent + m.Descent).Ceil()
}

// Render draws txt on a transparent background, tightly sized to the line.
func (c *Context) Render(txt string, size float64, col color.Color) (*image.RGBA, error) {
	w, h := c.Measure(txt, size)

	f := c.face(size)
	ascent := f.Metrics().Ascent
	f.Close()

	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	c.ft.SetSrc(image.NewUniform(col))
	c.ft.SetFontSize(size)
	c.ft.SetDst(dst)
	c.ft.SetClip(dst.Bounds())

	if _, err := c.ft.DrawString(txt, fixed.Point26_6{Y: ascent}); err != nil {
		return nil, err
	}

	return dst, nil
}

func (c *Context) RenderMultiline(txt []string, size float64, bg, fg color.Color) (*image.RGBA, error) {
	w, h := 0, 0
	imgs := []*image.RGBA{}

	for _, l := range txt {
		i, err := c.Render(l, size, fg)
		if err != nil {
			return nil, err
		}
		if i.Bounds().Dx() > w {
			w = i.Bounds().Dx()
		}
		h += i.Bounds().Dy()
		imgs = append(imgs, i)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	y := 0
	for _, src := range imgs {
		sr := src.Bounds()
		dp := image.Point{0, y}
		r := image.Rectangle{dp, dp.Add(sr.Size())}
		draw.Draw(dst, r, src, sr.Min, draw.Over)
		y += sr.Dy()
	}

	return dst, nil
}
