package scene

import (
	"math"
	"sort"

	"git.c3pb.de/farhaven/solarsystem/orrery"
	"git.c3pb.de/farhaven/solarsystem/vector"
)

// Hit is one intersection of a pick ray with the scene. Kind is None for
// objects that aren't bodies.
type Hit struct {
	Kind     orrery.Kind
	Distance float64
}

// Intersect returns every object hit by r, nearest first.
func (sc *Scene) Intersect(r vector.Ray) []Hit {
	hits := []Hit{}

	h := sc.Skybox.Size / 2
	if d, ok := r.IntersectBoxInside(vector.V3{X: -h, Y: -h, Z: -h}, vector.V3{X: h, Y: h, Z: h}); ok {
		hits = append(hits, Hit{orrery.None, d})
	}

	// Bodies are drawn front side only; a ray from inside one misses it.
	for _, m := range sc.Meshes {
		if d, ok := r.IntersectSphere(m.Pos, m.Radius); ok {
			hits = append(hits, Hit{m.Kind, d})
		}
	}

	// Rings lie flat in the orbital plane around the sun.
	plane := vector.Plane{vector.V3{Y: 1}, sc.Light.Pos}
	if d, ok := r.IntersectPlane(plane); ok {
		p := r.At(d).Sub(sc.Light.Pos)
		dist := math.Hypot(p.X, p.Z)
		for _, rg := range sc.Rings {
			lo, hi := math.Min(rg.Inner, rg.Outer), math.Max(rg.Inner, rg.Outer)
			if dist >= lo && dist <= hi {
				hits = append(hits, Hit{orrery.None, d})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	return hits
}

// Pick returns the body under r, or None when the nearest object isn't a
// body or nothing is hit.
func (sc *Scene) Pick(r vector.Ray) orrery.Kind {
	hits := sc.Intersect(r)
	if len(hits) == 0 {
		return orrery.None
	}
	return hits[0].Kind
}
