// Package scene describes everything that gets drawn: skybox, bodies, light,
// orbit rings and the camera setup. It is plain data built once at startup;
// the ui package turns it into GL objects.
package scene

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"git.c3pb.de/farhaven/solarsystem/orrery"
	"git.c3pb.de/farhaven/solarsystem/vector"
)

const (
	Heading = "Solar System Simulation"

	SkyboxSize = 1000

	SphereSegments = 100
	RingSegments   = 100
	RingWidth      = 0.1
)

// Material selects how a mesh is shaded.
type Material int

const (
	// Standard meshes are lit by the scene's light.
	Standard Material = iota
	// Basic meshes ignore lighting and show their texture or colour as is.
	Basic
)

func (m Material) String() string {
	switch m {
	case Standard:
		return "standard"
	case Basic:
		return "basic"
	default:
		return "unknown"
	}
}

// Side selects which faces of a mesh are visible.
type Side int

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

type Config struct {
	// Assets is the directory holding the body textures and a skybox/
	// directory with the six skybox faces.
	Assets string
}

type Skybox struct {
	Size  float64
	Faces [6]string
	Geom  [6]*Geometry
	Side  Side
}

// Mesh is a textured celestial body.
type Mesh struct {
	Kind     orrery.Kind
	Radius   float64
	Texture  string
	Material Material
	Geom     *Geometry

	Pos      vector.V3
	Rotation float64
}

type Light struct {
	Pos       vector.V3
	Color     colorful.Color
	Intensity float64
	// Distance 0 means the light reaches the whole scene without falloff.
	Distance float64
}

type Ring struct {
	Inner, Outer float64
	Color        colorful.Color
	Side         Side
	// RotationX lays the ring flat into the orbital plane.
	RotationX float64
	Geom      *Geometry
}

type Camera struct {
	FovY      float64
	Near, Far float64
	Eye       vector.V3
	Target    vector.V3

	MinDistance, MaxDistance float64
}

type Scene struct {
	Heading string
	Skybox  Skybox
	Meshes  []*Mesh
	Light   Light
	Rings   []Ring
	Camera  Camera
}

var skyboxFaces = [6]string{
	PosX: "space_ft.png",
	NegX: "space_bk.png",
	PosY: "space_up.png",
	NegY: "space_dn.png",
	PosZ: "space_rt.png",
	NegZ: "space_lf.png",
}

func texturePath(cfg Config, k orrery.Kind) string {
	return filepath.Join(cfg.Assets, strings.ToLower(k.String())+"_hd.jpg")
}

// Assemble builds the scene for the given orrery state.
func Assemble(cfg Config, s orrery.State) *Scene {
	white := colorful.Color{R: 1, G: 1, B: 1}

	sc := &Scene{
		Heading: Heading,
		Light: Light{
			Pos:       orrery.SunPos,
			Color:     white,
			Intensity: 1,
		},
		Camera: Camera{
			FovY:        85,
			Near:        0.1,
			Far:         1000,
			Eye:         vector.V3{Z: 100},
			MinDistance: 12,
			MaxDistance: 1000,
		},
	}

	sc.Skybox.Size = SkyboxSize
	sc.Skybox.Side = BackSide
	for f, name := range skyboxFaces {
		sc.Skybox.Faces[f] = filepath.Join(cfg.Assets, "skybox", name)
		sc.Skybox.Geom[f] = CubeFace(SkyboxSize, Face(f))
	}

	for _, b := range s.Bodies {
		m := &Mesh{
			Kind:     b.Kind,
			Radius:   b.Radius,
			Texture:  texturePath(cfg, b.Kind),
			Material: Standard,
			Geom:     Sphere(b.Radius, SphereSegments, SphereSegments),
			Pos:      b.Pos,
			Rotation: b.Rotation,
		}
		if b.Kind == orrery.Sun {
			// The sun is the light source and must not be shaded by it.
			m.Material = Basic
		}
		sc.Meshes = append(sc.Meshes, m)

		if !b.Kind.Orbiting() {
			continue
		}
		outer := b.OrbitRadius - RingWidth
		sc.Rings = append(sc.Rings, Ring{
			Inner:     b.OrbitRadius,
			Outer:     outer,
			Color:     white,
			Side:      DoubleSide,
			RotationX: math.Pi / 2,
			Geom:      Annulus(b.OrbitRadius, outer, RingSegments),
		})
	}

	return sc
}

// Sync copies positions and rotations from s into the meshes.
func (sc *Scene) Sync(s orrery.State) {
	for _, m := range sc.Meshes {
		if b, ok := s.Body(m.Kind); ok {
			m.Pos = b.Pos
			m.Rotation = b.Rotation
		}
	}
}

// Textures lists every image path the scene refers to.
func (sc *Scene) Textures() []string {
	r := append([]string{}, sc.Skybox.Faces[:]...)
	for _, m := range sc.Meshes {
		r = append(r, m.Texture)
	}
	return r
}
