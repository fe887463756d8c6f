package camera

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Controllable is the camera-control surface the mapper drives. It assumes
// nothing about the implementation beyond a spherical offset from a target
// with distance bounds; any external renderer's camera can adapt to it.
type Controllable interface {
	Distance() float64
	SetDistance(d float64)
	MinDistance() float64
	MaxDistance() float64
	Target() r3.Vec
	Position() r3.Vec
	SetPosition(p r3.Vec)
}

// Orbit is the reference Controllable: a camera orbiting a fixed target.
type Orbit struct {
	target   r3.Vec
	position r3.Vec
	minDist  float64
	maxDist  float64
}

// NewOrbit creates an orbit camera at the given position looking at target.
func NewOrbit(target, position r3.Vec, minDist, maxDist float64) *Orbit {
	return &Orbit{
		target:   target,
		position: position,
		minDist:  minDist,
		maxDist:  maxDist,
	}
}

// Distance returns the current distance from the camera to its target.
func (o *Orbit) Distance() float64 {
	return r3.Norm(r3.Sub(o.position, o.target))
}

// SetDistance moves the camera along its current offset direction so that it
// sits d away from the target, clamped to the [min,max] bounds.
func (o *Orbit) SetDistance(d float64) {
	if d < o.minDist {
		d = o.minDist
	}
	if d > o.maxDist {
		d = o.maxDist
	}
	offset := r3.Sub(o.position, o.target)
	if r3.Norm(offset) == 0 {
		offset = r3.Vec{Z: 1}
	}
	o.position = r3.Add(o.target, r3.Scale(d, r3.Unit(offset)))
}

func (o *Orbit) MinDistance() float64 { return o.minDist }
func (o *Orbit) MaxDistance() float64 { return o.maxDist }

// Target returns the point the camera orbits.
func (o *Orbit) Target() r3.Vec { return o.target }

// SetTarget moves the orbit center, carrying the camera's offset with it.
func (o *Orbit) SetTarget(t r3.Vec) {
	offset := r3.Sub(o.position, o.target)
	o.target = t
	o.position = r3.Add(t, offset)
}

func (o *Orbit) Position() r3.Vec     { return o.position }
func (o *Orbit) SetPosition(p r3.Vec) { o.position = p }
