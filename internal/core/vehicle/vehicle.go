package vehicle

import (
	"github.com/google/uuid"

	"github.com/zeusync/racetracks/internal/core/physics"
)

// Kind tells player and waypoint cars apart without a type switch.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindWaypoint
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindWaypoint:
		return "waypoint"
	default:
		return "unknown"
	}
}

// Vehicle is a car driven by the race world once per tick.
type Vehicle interface {
	ID() uuid.UUID
	Name() string
	Kind() Kind
	Body() *physics.Body

	Update(dt float64)
	ApplyForce(f physics.Vec2)
	ApplyTorque(amount float64)
}

// base carries the identity and body shared by every car.
type base struct {
	body *physics.Body
	id   uuid.UUID
	name string
}

func newBase(name string, position physics.Vec2, extent physics.Extent) base {
	return base{body: physics.NewBody(position, extent), id: uuid.New(), name: name}
}

func (b *base) ID() uuid.UUID       { return b.id }
func (b *base) Name() string        { return b.name }
func (b *base) Body() *physics.Body { return b.body }

func (b *base) ApplyForce(f physics.Vec2)  { b.body.ApplyForce(f) }
func (b *base) ApplyTorque(amount float64) { b.body.ApplyTorque(amount) }
