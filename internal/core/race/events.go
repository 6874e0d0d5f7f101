package race

import (
	"github.com/google/uuid"

	"github.com/zeusync/racetracks/internal/core/physics"
)

// Event types published on the world's bus.
const (
	EventCollision = "race.collision"
	EventLap       = "race.lap"
)

const eventSource = "race.world"

// CollisionEvent is the payload of EventCollision.
type CollisionEvent struct {
	Tick  uint64
	A, B  uuid.UUID
	Point physics.Vec2
	Depth float64
}

// LapEvent is the payload of EventLap.
type LapEvent struct {
	Tick    uint64
	Vehicle uuid.UUID
	Name    string
	Laps    int
}
