package orrery

import (
	"fmt"
	"math"
	"sync"

	"git.c3pb.de/farhaven/solarsystem/vector"
)

// Orrery owns the simulation state: every body, the pause flag and the
// active clock. The frame loop drives it through Tick; input handlers (local
// widgets or the remote control) mutate it through SetSpeed and the pause
// methods. All methods are safe for concurrent use.
type Orrery struct {
	l sync.Mutex

	bodies []Body

	paused  bool
	started bool
	last    float64
	elapsed float64
	ticks   uint64
}

// State is a copy of the orrery taken under its lock.
type State struct {
	Bodies  []Body  `json:"bodies"`
	Paused  bool    `json:"paused"`
	Elapsed float64 `json:"elapsed"`
	Ticks   uint64  `json:"ticks"`
}

func (s State) Body(k Kind) (Body, bool) {
	for _, b := range s.Bodies {
		if b.Kind == k {
			return b, true
		}
	}
	return Body{}, false
}

func New() *Orrery {
	o := &Orrery{}
	for _, k := range Kinds() {
		o.bodies = append(o.bodies, NewBody(k))
	}
	return o
}

func (o *Orrery) body(k Kind) *Body {
	for i := range o.bodies {
		if o.bodies[i].Kind == k {
			return &o.bodies[i]
		}
	}
	return nil
}

// Tick advances the simulation to host time now (milliseconds). Only time
// spent running counts towards the orbit clock, so a paused and resumed run
// ends up where an uninterrupted run with the same active time would be.
// Tick reports whether the frame should be redrawn.
func (o *Orrery) Tick(now float64) bool {
	o.l.Lock()
	defer o.l.Unlock()

	o.ticks++

	delta := 0.0
	if o.started {
		delta = math.Max(0, now-o.last)
	}
	o.last = now
	o.started = true

	if o.paused {
		return false
	}

	o.elapsed += delta

	for i := range o.bodies {
		b := &o.bodies[i]
		b.Rotation += RotationStep
		if !b.Kind.Orbiting() {
			continue
		}
		x, z := PositionAt(b.angle(o.elapsed), b.OrbitRadius)
		b.Pos = vector.V3{X: x, Z: z}
	}

	return true
}

// SetSpeed changes the revolution speed of an orbiting body, clamped to
// [MinSpeed, MaxSpeed]. It is picked up by the next Tick.
func (o *Orrery) SetSpeed(k Kind, speed float64) error {
	if !k.Orbiting() {
		return fmt.Errorf(`%q has no orbit`, k.String())
	}
	if math.IsNaN(speed) {
		return fmt.Errorf(`invalid speed for %s`, k)
	}

	o.l.Lock()
	defer o.l.Unlock()

	o.body(k).setSpeed(o.elapsed, math.Max(MinSpeed, math.Min(MaxSpeed, speed)))

	return nil
}

func (o *Orrery) Speed(k Kind) float64 {
	o.l.Lock()
	defer o.l.Unlock()

	if b := o.body(k); b != nil {
		return b.Speed
	}
	return 0
}

// TogglePause flips the pause flag and returns the new value.
func (o *Orrery) TogglePause() bool {
	o.l.Lock()
	defer o.l.Unlock()

	o.paused = !o.paused
	return o.paused
}

func (o *Orrery) SetPaused(p bool) {
	o.l.Lock()
	defer o.l.Unlock()

	o.paused = p
}

func (o *Orrery) Paused() bool {
	o.l.Lock()
	defer o.l.Unlock()

	return o.paused
}

func (o *Orrery) Snapshot() State {
	o.l.Lock()
	defer o.l.Unlock()

	r := make([]Body, len(o.bodies))
	copy(r, o.bodies)

	return State{Bodies: r, Paused: o.paused, Elapsed: o.elapsed, Ticks: o.ticks}
}
