package orrery

import (
	"math"

	"git.c3pb.de/farhaven/solarsystem/vector"
)

// SpeedScale converts milliseconds times speed into radians.
const SpeedScale = 0.001

// SunPos is where the sun sits. Every orbit is centred on it.
var SunPos = vector.V3{}

// Angle maps elapsed milliseconds and a revolution speed to an orbital angle.
func Angle(t, speed float64) float64 {
	return t * SpeedScale * speed
}

// Position is the planar (x, z) position after t milliseconds on an orbit of
// the given radius.
func Position(t, speed, radius float64) (x, z float64) {
	return PositionAt(Angle(t, speed), radius)
}

func PositionAt(angle, radius float64) (x, z float64) {
	return SunPos.X + radius*math.Cos(angle), SunPos.Z + radius*math.Sin(angle)
}
