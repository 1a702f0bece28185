package vector

import "math"

// Ray is a half-line starting at Origin. Dir is expected to be normalized, so
// the distances returned by the intersection methods are in world units.
type Ray struct {
	Origin V3
	Dir    V3
}

func (r Ray) At(t float64) V3 {
	return r.Origin.Add(r.Dir.Scaled(t))
}

// IntersectSphere returns the distance to the point where r enters the
// sphere. Only the outside is hit: a ray starting inside misses.
func (r Ray) IntersectSphere(center V3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	if c < 0 {
		return 0, false
	}

	t := -b - math.Sqrt(disc)
	if t < 0 {
		return 0, false
	}

	return t, true
}

// IntersectPlane returns the distance along r to the plane. Rays parallel to
// the plane never hit it.
func (r Ray) IntersectPlane(p Plane) (float64, bool) {
	denom := p[0].Dot(r.Dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}

	t := -p.Distance(r.Origin) / denom
	if t < 0 {
		return 0, false
	}

	return t, true
}

// IntersectBoxInside tests r against the inner walls of the axis aligned box
// [min, max] and returns the distance to where r leaves the box, no matter
// whether it starts inside or outside.
func (r Ray) IntersectBoxInside(min, max V3) (float64, bool) {
	tNear, tFar := math.Inf(-1), math.Inf(1)

	axes := [3][4]float64{
		{r.Origin.X, r.Dir.X, min.X, max.X},
		{r.Origin.Y, r.Dir.Y, min.Y, max.Y},
		{r.Origin.Z, r.Dir.Z, min.Z, max.Z},
	}
	for _, a := range axes {
		o, d, lo, hi := a[0], a[1], a[2], a[3]
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}

	if tFar < 0 {
		return 0, false
	}

	return tFar, true
}
