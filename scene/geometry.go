package scene

import (
	"math"

	"git.c3pb.de/farhaven/solarsystem/vector"
)

// Geometry is an indexed triangle mesh. UV (0, 0) is the top left corner of
// the texture image.
type Geometry struct {
	Positions []vector.V3
	Normals   []vector.V3
	UVs       [][2]float64
	Indices   []uint32
}

func (g *Geometry) Triangles() int {
	return len(g.Indices) / 3
}

func (g *Geometry) add(p, n vector.V3, u, v float64) {
	g.Positions = append(g.Positions, p)
	g.Normals = append(g.Normals, n)
	g.UVs = append(g.UVs, [2]float64{u, v})
}

// Sphere builds a UV sphere around the origin with its poles on the Y axis.
// The texture seam lies on -X.
func Sphere(radius float64, widthSegments, heightSegments int) *Geometry {
	g := &Geometry{}

	for i := 0; i <= heightSegments; i++ {
		v := float64(i) / float64(heightSegments)
		phi := v * math.Pi

		for j := 0; j <= widthSegments; j++ {
			u := float64(j) / float64(widthSegments)
			theta := u * 2 * math.Pi

			n := vector.V3{
				X: -math.Cos(theta) * math.Sin(phi),
				Y: math.Cos(phi),
				Z: math.Sin(theta) * math.Sin(phi),
			}
			g.add(n.Scaled(radius), n, u, v)
		}
	}

	row := uint32(widthSegments + 1)
	for i := 0; i < heightSegments; i++ {
		for j := 0; j < widthSegments; j++ {
			a := uint32(i)*row + uint32(j) + 1
			b := uint32(i)*row + uint32(j)
			c := uint32(i+1)*row + uint32(j)
			d := uint32(i+1)*row + uint32(j) + 1

			// The pole rows collapse to a point, skip the degenerate half.
			if i != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if i != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}

	return g
}

// Annulus builds a flat ring in the XY plane facing +Z. inner may be larger
// than outer.
func Annulus(inner, outer float64, thetaSegments int) *Geometry {
	g := &Geometry{}
	n := vector.V3{Z: 1}
	span := math.Max(inner, outer)

	for _, r := range []float64{inner, outer} {
		for j := 0; j <= thetaSegments; j++ {
			a := float64(j) / float64(thetaSegments) * 2 * math.Pi
			p := vector.V3{X: r * math.Cos(a), Y: r * math.Sin(a)}
			g.add(p, n, (p.X/span+1)/2, (p.Y/span+1)/2)
		}
	}

	row := uint32(thetaSegments + 1)
	for j := uint32(0); j < uint32(thetaSegments); j++ {
		a, b := j, j+1
		c, d := row+j+1, row+j
		g.Indices = append(g.Indices, a, b, d, b, c, d)
	}

	return g
}

// Face is one side of an axis aligned cube.
type Face int

const (
	PosX Face = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

var faceAxes = [...]struct {
	normal, u, v vector.V3
}{
	PosX: {vector.V3{X: 1}, vector.V3{Z: -1}, vector.V3{Y: -1}},
	NegX: {vector.V3{X: -1}, vector.V3{Z: 1}, vector.V3{Y: -1}},
	PosY: {vector.V3{Y: 1}, vector.V3{X: 1}, vector.V3{Z: 1}},
	NegY: {vector.V3{Y: -1}, vector.V3{X: 1}, vector.V3{Z: -1}},
	PosZ: {vector.V3{Z: 1}, vector.V3{X: 1}, vector.V3{Y: -1}},
	NegZ: {vector.V3{Z: -1}, vector.V3{X: -1}, vector.V3{Y: -1}},
}

// CubeFace builds one outward facing side of a cube with the given edge
// length, as a single quad split into two triangles.
func CubeFace(size float64, f Face) *Geometry {
	g := &Geometry{}
	a := faceAxes[f]
	h := size / 2

	center := a.normal.Scaled(h)
	for _, uv := range [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		p := center.
			Add(a.u.Scaled((uv[0] - 0.5) * size)).
			Add(a.v.Scaled((uv[1] - 0.5) * size))
		g.add(p, a.normal, uv[0], uv[1])
	}
	g.Indices = []uint32{0, 3, 1, 1, 3, 2}

	return g
}
