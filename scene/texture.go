package scene

import (
	"fmt"
	"image"
	"log"
	"os"

	// Decoders for texture images.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize is the longest edge a texture is uploaded with. Larger
// images are scaled down.
const MaxTextureSize = 2048

// LoadTexture decodes the image at path into an RGBA buffer ready for upload.
func LoadTexture(path string) (*image.RGBA, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	src, format, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf(`can't decode %s: %w`, path, err)
	}

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf(`%s (%s) is empty`, path, format)
	}

	w, h := fit(b.Dx(), b.Dy(), MaxTextureSize)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	return dst, nil
}

func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// LoadTextures decodes every texture the scene uses. Images that can't be
// loaded are logged and left out; their meshes are drawn untextured.
func (sc *Scene) LoadTextures() map[string]*image.RGBA {
	r := map[string]*image.RGBA{}
	for _, p := range sc.Textures() {
		if _, ok := r[p]; ok {
			continue
		}
		img, err := LoadTexture(p)
		if err != nil {
			log.Printf(`texture %s unavailable, drawing untextured: %s`, p, err)
			continue
		}
		r[p] = img
	}
	return r
}
