package vehicle

import (
	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/track"
)

const (
	DefaultSteering = 0.1
	// waypointDrag is heavier than the default so computer cars corner tighter.
	waypointDrag = 0.9
)

// WaypointCar steers towards the target its waypoint source hands out.
type WaypointCar struct {
	base
	waypoints track.WaypointSource
	offset    float64
	speed     float64
	steering  float64
}

var _ Vehicle = (*WaypointCar)(nil)

// NewWaypointCar creates a computer-driven car. offset shifts every target
// vertically so cars sharing a track do not drive the same line.
func NewWaypointCar(name string, position physics.Vec2, extent physics.Extent, waypoints track.WaypointSource, speed, offset float64) *WaypointCar {
	c := &WaypointCar{
		base:      newBase(name, position, extent),
		waypoints: waypoints,
		offset:    offset,
		speed:     speed,
		steering:  DefaultSteering,
	}
	c.body.Drag = waypointDrag
	return c
}

func (c *WaypointCar) Kind() Kind { return KindWaypoint }

func (c *WaypointCar) Speed() float64  { return c.speed }
func (c *WaypointCar) Offset() float64 { return c.offset }

func (c *WaypointCar) Steering() float64 { return c.steering }

// SetSteering sets the heading interpolation factor, clamped to [0, 1].
func (c *WaypointCar) SetSteering(s float64) {
	c.steering = min(max(s, 0), 1)
}

// Waypoints returns the source the car follows.
func (c *WaypointCar) Waypoints() track.WaypointSource { return c.waypoints }

// Update integrates the body, then turns towards the current target and
// queues thrust for the next tick.
func (c *WaypointCar) Update(dt float64) {
	c.body.Update(dt)

	pos := c.body.Position
	target := c.waypoints.GetTarget(pos)
	target[1] += c.offset

	dir := physics.Normalize(target.Sub(pos))
	heading := physics.SmoothStep(c.body.Forward(), dir, c.steering)
	// exactly opposite headings blend to zero; keep the current angle then
	if heading[0] != 0 || heading[1] != 0 {
		c.body.SetForward(heading)
	}

	c.ApplyForce(c.body.Forward().Mul(c.speed * 2))
}
