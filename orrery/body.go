package orrery

import (
	"fmt"
	"strings"

	"git.c3pb.de/farhaven/solarsystem/vector"
)

// Kind identifies a celestial body. None marks scene objects that are not
// bodies (skybox, rings).
type Kind int

const (
	None Kind = iota
	Sun
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

var kindNames = [...]string{
	None:    "",
	Sun:     "Sun",
	Mercury: "Mercury",
	Venus:   "Venus",
	Earth:   "Earth",
	Mars:    "Mars",
	Jupiter: "Jupiter",
	Saturn:  "Saturn",
	Uranus:  "Uranus",
	Neptune: "Neptune",
}

func (k Kind) String() string {
	if k < None || int(k) >= len(kindNames) {
		return fmt.Sprintf(`Kind(%d)`, int(k))
	}
	return kindNames[k]
}

// Orbiting reports whether k revolves around the sun.
func (k Kind) Orbiting() bool {
	return k > Sun && int(k) < len(kindNames)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = None
		return nil
	}
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseKind accepts display names and their lower case forms.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n != "" && strings.EqualFold(n, s) {
			return Kind(k), nil
		}
	}
	return None, fmt.Errorf(`unknown body %q`, s)
}

// Kinds lists every body, sun first, in catalogue order.
func Kinds() []Kind {
	r := make([]Kind, 0, len(kindNames)-1)
	for k := Sun; int(k) < len(kindNames); k++ {
		r = append(r, k)
	}
	return r
}

const (
	// RotationStep is the axial rotation applied to every body per running tick.
	RotationStep = 0.005

	MinSpeed = 0.0
	MaxSpeed = 5.0
)

// Body is one celestial body. OrbitRadius and Radius never change after
// construction; Pos.Y stays 0.
type Body struct {
	Kind         Kind      `json:"name"`
	Radius       float64   `json:"radius"`
	OrbitRadius  float64   `json:"orbit_radius"`
	DefaultSpeed float64   `json:"default_speed"`
	Speed        float64   `json:"speed"`
	Rotation     float64   `json:"rotation"`
	Pos          vector.V3 `json:"position"`

	// Speed changes rebase the orbit so the body continues from where it is.
	phase0 float64
	t0     float64
}

func (b Body) String() string {
	return fmt.Sprintf(`%s: r=%.1f orbit=%.0f speed=%.1f pos=%s`, b.Kind, b.Radius, b.OrbitRadius, b.Speed, b.Pos)
}

func (b *Body) angle(t float64) float64 {
	return b.phase0 + Angle(t-b.t0, b.Speed)
}

func (b *Body) setSpeed(t, speed float64) {
	b.phase0 = b.angle(t)
	b.t0 = t
	b.Speed = speed
}

type catalogueEntry struct {
	radius, orbit, speed float64
}

var catalogue = map[Kind]catalogueEntry{
	Sun:     {20, 0, 0},
	Mercury: {2, 50, 2},
	Venus:   {3, 60, 1.5},
	Earth:   {4, 70, 1},
	Mars:    {3.5, 80, 0.8},
	Jupiter: {10, 100, 0.7},
	Saturn:  {8, 120, 0.6},
	Uranus:  {6, 140, 0.5},
	Neptune: {5, 160, 0.4},
}

// NewBody returns k in its initial state: on its orbit at angle 0 with the
// default speed.
func NewBody(k Kind) Body {
	c := catalogue[k]
	b := Body{
		Kind:         k,
		Radius:       c.radius,
		OrbitRadius:  c.orbit,
		DefaultSpeed: c.speed,
		Speed:        c.speed,
	}
	x, z := PositionAt(0, b.OrbitRadius)
	b.Pos = vector.V3{X: x, Z: z}

	return b
}
