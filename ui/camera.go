package ui

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"git.c3pb.de/farhaven/solarsystem/scene"
	"git.c3pb.de/farhaven/solarsystem/vector"
)

type cameraCommand interface{}

// cameraCommandRotate orbits around the target, X and Y in pixels.
type cameraCommandRotate struct {
	X, Y float64
}

// cameraCommandPan moves the target in the view plane, X and Y in pixels.
type cameraCommandPan struct {
	X, Y float64
}

// cameraCommandZoom moves towards the target for positive steps.
type cameraCommandZoom struct {
	Steps float64
}

type cameraCommandReset struct{}

const (
	zoomScale = 0.95
	// Keeps the camera off the poles, where the up vector degenerates.
	polarEps = 1e-6
)

var worldUp = vector.V3{Y: 1}

// Camera is a perspective camera with an orbit manipulator. Input handlers
// queue commands; Update applies them once per frame.
type Camera struct {
	cmds chan cameraCommand

	screenw, screenh int

	Pos    vector.V3
	target vector.V3

	radius, theta, phi float64

	minDistance, maxDistance float64

	home struct {
		eye, target vector.V3
	}

	proj, view mgl64.Mat4

	frustum struct {
		zNear, zFar  float64
		nearH, nearW float64
		fovY, aspect float64
		planes       []vector.Plane
	}
}

func NewCamera(cfg scene.Camera, width, height int) *Camera {
	c := &Camera{
		cmds:        make(chan cameraCommand, 64),
		minDistance: cfg.MinDistance,
		maxDistance: cfg.MaxDistance,
	}
	c.home.eye = cfg.Eye
	c.home.target = cfg.Target
	c.frustum.zNear = cfg.Near
	c.frustum.zFar = cfg.Far
	c.frustum.fovY = cfg.FovY

	c.reset()
	c.SetSize(width, height)
	c.Update()

	return c
}

func (c *Camera) reset() {
	c.target = c.home.target
	offset := c.home.eye.Sub(c.home.target)

	c.radius = offset.Length()
	c.theta = math.Atan2(offset.X, offset.Z)
	c.phi = 0
	if c.radius > 0 {
		c.phi = math.Acos(math.Max(-1, math.Min(1, offset.Y/c.radius)))
	}
}

// SetSize keeps the projection in sync with the window. It is cheap and may
// be called redundantly.
func (c *Camera) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.screenw, c.screenh = width, height

	c.frustum.aspect = float64(width) / float64(height)

	t := math.Tan(c.frustum.fovY / 360 * math.Pi)
	c.frustum.nearH = t * c.frustum.zNear
	c.frustum.nearW = c.frustum.nearH * c.frustum.aspect

	c.proj = mgl64.Perspective(mgl64.DegToRad(c.frustum.fovY), c.frustum.aspect, c.frustum.zNear, c.frustum.zFar)
}

func (c *Camera) Aspect() float64 {
	return c.frustum.aspect
}

func (c *Camera) Projection() mgl64.Mat4 {
	return c.proj
}

func (c *Camera) View() mgl64.Mat4 {
	return c.view
}

func (c *Camera) Distance() float64 {
	return c.Pos.Distance(c.target)
}

// QueueCommand never blocks; commands arriving while the queue is full are
// dropped.
func (c *Camera) QueueCommand(cmd cameraCommand) {
	select {
	case c.cmds <- cmd:
	default:
		log.Printf(`camera queue full, dropping %T`, cmd)
	}
}

func (c *Camera) apply(cmd cameraCommand) {
	h := float64(c.screenh)
	if h == 0 {
		h = 1
	}

	switch cmd := cmd.(type) {
	case cameraCommandRotate:
		c.theta -= 2 * math.Pi * cmd.X / h
		c.phi -= 2 * math.Pi * cmd.Y / h
		c.phi = math.Max(polarEps, math.Min(math.Pi-polarEps, c.phi))
	case cameraCommandPan:
		_, side, up := c.basis()
		d := c.radius * math.Tan(c.frustum.fovY/360*math.Pi)
		c.target = c.target.
			Add(side.Scaled(-2 * cmd.X * d / h)).
			Add(up.Scaled(2 * cmd.Y * d / h))
	case cameraCommandZoom:
		c.radius *= math.Pow(zoomScale, cmd.Steps)
	case cameraCommandReset:
		c.reset()
	}

	c.radius = math.Max(c.minDistance, math.Min(c.maxDistance, c.radius))
}

func (c *Camera) basis() (fw, side, up vector.V3) {
	fw = c.target.Sub(c.Pos).Normalized()
	side = fw.Cross(worldUp).Normalized()
	up = side.Cross(fw).Normalized()
	return
}

// Update applies queued input and recomputes the view and the frustum. It
// has to be called once per drawn frame.
func (c *Camera) Update() {
	for done := false; !done; {
		select {
		case cmd := <-c.cmds:
			c.apply(cmd)
		default:
			done = true
		}
	}
	c.radius = math.Max(c.minDistance, math.Min(c.maxDistance, c.radius))

	s := math.Sin(c.phi)
	c.Pos = c.target.Add(vector.V3{
		X: c.radius * s * math.Sin(c.theta),
		Y: c.radius * math.Cos(c.phi),
		Z: c.radius * s * math.Cos(c.theta),
	})

	c.view = mgl64.LookAtV(v3ToMgl(c.Pos), v3ToMgl(c.target), v3ToMgl(worldUp))
	c.updateFrustum()
}

func (c *Camera) updateFrustum() {
	fw, side, up := c.basis()

	nc := c.Pos.Add(fw.Scaled(c.frustum.zNear))
	fc := c.Pos.Add(fw.Scaled(c.frustum.zFar))

	planes := []vector.Plane{
		{fw, nc},            // NEAR
		{fw.Scaled(-1), fc}, // FAR
	}

	nh, nw := c.frustum.nearH, c.frustum.nearW

	// TOP
	aux := nc.Add(up.Scaled(nh)).Sub(c.Pos).Normalized()
	planes = append(planes, vector.Plane{aux.Cross(side), nc.Add(up.Scaled(nh))})

	// BOTTOM
	aux = nc.Sub(up.Scaled(nh)).Sub(c.Pos).Normalized()
	planes = append(planes, vector.Plane{side.Cross(aux), nc.Sub(up.Scaled(nh))})

	// LEFT
	aux = nc.Sub(side.Scaled(nw)).Sub(c.Pos).Normalized()
	planes = append(planes, vector.Plane{aux.Cross(up), nc.Sub(side.Scaled(nw))})

	// RIGHT
	aux = nc.Add(side.Scaled(nw)).Sub(c.Pos).Normalized()
	planes = append(planes, vector.Plane{up.Cross(aux), nc.Add(side.Scaled(nw))})

	c.frustum.planes = planes
}

type FrustumCheckResult int

const (
	INSIDE FrustumCheckResult = iota
	OUTSIDE
	INTERSECT
)

func (r FrustumCheckResult) String() string {
	switch r {
	case INSIDE:
		return "INSIDE"
	case OUTSIDE:
		return "OUTSIDE"
	case INTERSECT:
		return "INTERSECT"
	default:
		return "UNKNOWN"
	}
}

func (c *Camera) SphereInFrustum(p vector.V3, r float64) FrustumCheckResult {
	rv := INSIDE

	for _, pl := range c.frustum.planes {
		d := pl.Distance(p)
		if d < -r {
			return OUTSIDE
		} else if d < r {
			rv = INTERSECT
		}
	}

	return rv
}

// NDC converts window coordinates to normalized device coordinates.
func (c *Camera) NDC(x, y float64) (float64, float64) {
	return x/float64(c.screenw)*2 - 1, -(y/float64(c.screenh))*2 + 1
}

// Ray returns the pick ray from the eye through the given point in
// normalized device coordinates.
func (c *Camera) Ray(ndcX, ndcY float64) vector.Ray {
	inv := c.proj.Mul4(c.view).Inv()

	p := inv.Mul4x1(mgl64.Vec4{ndcX, ndcY, 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}

	through := vector.V3{X: p.X(), Y: p.Y(), Z: p.Z()}

	return vector.Ray{Origin: c.Pos, Dir: through.Sub(c.Pos).Normalized()}
}

func v3ToMgl(v vector.V3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
