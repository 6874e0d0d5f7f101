package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxAxisSpeed bounds each velocity component after integration.
	MaxAxisSpeed = 300.0

	DefaultDrag        = 0.99
	DefaultAngularDrag = 0.9

	// torqueScale converts ApplyTorque input into degrees of angular acceleration.
	torqueScale = 0.1
)

// Extent is the width and height of a body's visual, used only to size its
// circular collider.
type Extent struct {
	Width  float64 `yaml:"width" mapstructure:"width"`
	Height float64 `yaml:"height" mapstructure:"height"`
}

// Radius returns the radius of the circle fitting the larger side.
func (e Extent) Radius() float64 {
	return math.Max(e.Width, e.Height) / 2
}

// Body is a circular physical entity. Forces and torques are accumulated
// between ticks and consumed by Update.
type Body struct {
	Position Vec2
	Velocity Vec2
	Angle    float64 // radians

	Drag        float64
	AngularDrag float64

	radius  float64
	mass    float64
	invMass float64

	angularVelocity     float64
	angularAcceleration float64
	acceleration        Vec2
}

// NewBody returns a body centred on position with a collider derived from
// extent. Mass is approximated as radius squared. A degenerate extent falls
// back to a unit radius.
func NewBody(position Vec2, extent Extent) *Body {
	r := extent.Radius()
	if r <= 0 || math.IsNaN(r) {
		r = 1
	}
	b := &Body{
		Position:    position,
		Drag:        DefaultDrag,
		AngularDrag: DefaultAngularDrag,
		radius:      r,
	}
	b.SetMass(r * r)
	return b
}

func (b *Body) Radius() float64          { return b.radius }
func (b *Body) Mass() float64            { return b.mass }
func (b *Body) InvMass() float64         { return b.invMass }
func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

// PendingForce returns the force accumulated since the last Update.
func (b *Body) PendingForce() Vec2 { return b.acceleration }

// ApplyForce queues f for the next Update.
func (b *Body) ApplyForce(f Vec2) {
	b.acceleration = b.acceleration.Add(f)
}

// ApplyTorque queues angular acceleration of amount*0.1 degrees for the next Update.
func (b *Body) ApplyTorque(amount float64) {
	b.angularAcceleration += mgl64.DegToRad(amount * torqueScale)
}

// Update integrates one tick. Velocity absorbs the pending force and is damped
// and clamped before the position moves by velocity*dt. Angle advances by the
// angular velocity of the previous tick.
func (b *Body) Update(dt float64) {
	b.Velocity = b.Velocity.Add(b.acceleration)
	b.acceleration = Vec2{}
	b.Velocity = b.Velocity.Mul(b.Drag)

	b.Velocity[0] = mgl64.Clamp(b.Velocity[0], -MaxAxisSpeed, MaxAxisSpeed)
	b.Velocity[1] = mgl64.Clamp(b.Velocity[1], -MaxAxisSpeed, MaxAxisSpeed)

	b.Position = b.Position.Add(b.Velocity.Mul(dt))

	b.Angle += b.angularVelocity
	b.angularVelocity += b.angularAcceleration
	b.angularAcceleration = 0
	b.angularVelocity *= b.AngularDrag
}

// ClosestPoint returns p when it lies inside the body, otherwise the point on
// the boundary nearest to p.
func (b *Body) ClosestPoint(p Vec2) Vec2 {
	delta := p.Sub(b.Position)
	if delta.Dot(delta) > b.radius*b.radius {
		delta = Normalize(delta).Mul(b.radius)
	}
	return b.Position.Add(delta)
}

// SetMass sets the mass and its reciprocal. A zero mass makes the body
// immovable, same as MakeStatic.
func (b *Body) SetMass(m float64) {
	b.mass = m
	if m == 0 {
		b.invMass = 0
		return
	}
	b.invMass = 1 / m
}

// MakeStatic gives the body infinite mass without touching Mass.
func (b *Body) MakeStatic() {
	b.invMass = 0
}

// Forward is the unit heading.
func (b *Body) Forward() Vec2 {
	return Polar(b.Angle)
}

// SetForward points the body along v.
func (b *Body) SetForward(v Vec2) {
	b.Angle = math.Atan2(v[1], v[0])
}

// Right is the heading rotated a quarter turn.
func (b *Body) Right() Vec2 {
	return Vec2{-math.Sin(b.Angle), math.Cos(b.Angle)}
}

func (b *Body) SetRight(v Vec2) {
	b.Angle = math.Atan2(-v[0], v[1])
}
