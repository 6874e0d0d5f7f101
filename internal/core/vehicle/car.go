package vehicle

import (
	"github.com/zeusync/racetracks/internal/core/input"
	"github.com/zeusync/racetracks/internal/core/physics"
)

// PlayerTuning sets how hard a player car responds to its keys.
type PlayerTuning struct {
	Thrust float64 `yaml:"thrust" mapstructure:"thrust"` // force along Forward per tick
	Turn   float64 `yaml:"turn" mapstructure:"turn"`     // ApplyTorque amount per tick
}

// DefaultPlayerTuning gives 5 units of thrust and one
// degree of angular acceleration per tick.
func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{Thrust: 5, Turn: 10}
}

// PlayerCar converts held keys into forces.
type PlayerCar struct {
	base
	tuning PlayerTuning
}

var _ Vehicle = (*PlayerCar)(nil)

func NewPlayerCar(name string, position physics.Vec2, extent physics.Extent, tuning PlayerTuning) *PlayerCar {
	return &PlayerCar{base: newBase(name, position, extent), tuning: tuning}
}

func (c *PlayerCar) Kind() Kind { return KindPlayer }

func (c *PlayerCar) Update(dt float64) { c.body.Update(dt) }

// HandleInput queues the forces for the keys held this tick. Turning left is
// negative torque.
func (c *PlayerCar) HandleInput(keys input.KeyState) {
	if keys.IsDown(input.KeyLeft) {
		c.ApplyTorque(-c.tuning.Turn)
	}
	if keys.IsDown(input.KeyRight) {
		c.ApplyTorque(c.tuning.Turn)
	}
	if keys.IsDown(input.KeyForward) {
		c.ApplyForce(c.body.Forward().Mul(c.tuning.Thrust))
	}
	if keys.IsDown(input.KeyBackward) {
		c.ApplyForce(c.body.Forward().Mul(-c.tuning.Thrust))
	}
}
