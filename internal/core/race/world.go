package race

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/racetracks/internal/core/events/bus"
	"github.com/zeusync/racetracks/internal/core/input"
	"github.com/zeusync/racetracks/internal/core/observability/log"
	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/track"
	"github.com/zeusync/racetracks/internal/core/vehicle"
)

var (
	ErrDuplicateVehicle = errors.New("vehicle already in the race")
	ErrPlayerTaken      = errors.New("race already has a player car")
)

// World owns every car in a race and advances them one tick at a time. It is
// not safe for concurrent use; a single loop goroutine drives it.
type World struct {
	track    *track.Track
	bus      bus.EventBus
	log      log.Log
	vehicles []vehicle.Vehicle
	ids      map[uuid.UUID]struct{}
	laps     map[uuid.UUID]int

	player *vehicle.PlayerCar
	keys   input.KeyState

	tick uint64
}

func NewWorld(tr *track.Track, eventBus bus.EventBus, logger log.Log) *World {
	if eventBus == nil {
		eventBus = bus.New()
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &World{
		track: tr,
		bus:   eventBus,
		log:   logger,
		ids:   make(map[uuid.UUID]struct{}),
		laps:  make(map[uuid.UUID]int),
		keys:  input.NoKeys,
	}
}

func (w *World) Track() *track.Track        { return w.track }
func (w *World) Bus() bus.EventBus          { return w.bus }
func (w *World) Tick() uint64               { return w.tick }
func (w *World) Player() *vehicle.PlayerCar { return w.player }

// Vehicles returns the cars in collision order.
func (w *World) Vehicles() []vehicle.Vehicle {
	return append([]vehicle.Vehicle(nil), w.vehicles...)
}

// AddVehicle puts v on the track. Cars collide in the order they were added.
func (w *World) AddVehicle(v vehicle.Vehicle) error {
	if _, ok := w.ids[v.ID()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateVehicle, v.Name())
	}
	w.ids[v.ID()] = struct{}{}
	w.vehicles = append(w.vehicles, v)
	w.log.Debug("vehicle added",
		log.Stringer("id", v.ID()),
		log.String("name", v.Name()),
		log.Stringer("kind", v.Kind()),
		log.Vec2("position", v.Body().Position),
	)
	return nil
}

// SetPlayer adds the keyboard-driven car and the key state it reads.
func (w *World) SetPlayer(p *vehicle.PlayerCar, keys input.KeyState) error {
	if w.player != nil {
		return ErrPlayerTaken
	}
	if err := w.AddVehicle(p); err != nil {
		return err
	}
	w.player = p
	if keys != nil {
		w.keys = keys
	}
	return nil
}

// Step advances the race by dt seconds: every car integrates, the player's
// keys queue forces for the next tick, then every pair is checked once for
// collision. The tick's collision and lap events are published together once
// the tick completes; bus handler errors are returned joined.
func (w *World) Step(dt float64) error {
	w.tick++

	for _, v := range w.vehicles {
		v.Update(dt)
	}
	if w.player != nil {
		w.player.HandleInput(w.keys)
	}

	var events []bus.Event
	for i := 0; i < len(w.vehicles); i++ {
		a := w.vehicles[i]
		for j := i + 1; j < len(w.vehicles); j++ {
			b := w.vehicles[j]
			contact, ok := physics.Resolve(a.Body(), b.Body())
			if !ok {
				continue
			}
			w.log.Debug("collision",
				log.Int64("tick", int64(w.tick)),
				log.String("a", a.Name()),
				log.String("b", b.Name()),
				log.Float64("depth", contact.Depth),
			)
			ev := CollisionEvent{Tick: w.tick, A: a.ID(), B: b.ID(), Point: contact.Point, Depth: contact.Depth}
			events = append(events, bus.NewEvent(EventCollision, eventSource, ev))
		}
	}

	events = append(events, w.checkLaps()...)
	if len(events) == 0 {
		return nil
	}
	return w.bus.PublishBatch(events...)
}

func (w *World) checkLaps() []bus.Event {
	var events []bus.Event
	for _, v := range w.vehicles {
		laps := lapsOf(v)
		if laps <= w.laps[v.ID()] {
			continue
		}
		w.laps[v.ID()] = laps
		w.log.Info("lap completed", log.String("name", v.Name()), log.Int("laps", laps))
		ev := LapEvent{Tick: w.tick, Vehicle: v.ID(), Name: v.Name(), Laps: laps}
		events = append(events, bus.NewEvent(EventLap, eventSource, ev))
	}
	return events
}

func lapsOf(v vehicle.Vehicle) int {
	wc, ok := v.(*vehicle.WaypointCar)
	if !ok {
		return 0
	}
	if lc, ok := wc.Waypoints().(track.LapCounter); ok {
		return lc.Laps()
	}
	return 0
}

// VehicleState is a read-only view of one car.
type VehicleState struct {
	ID       uuid.UUID
	Name     string
	Kind     vehicle.Kind
	Position physics.Vec2
	Velocity physics.Vec2
	Angle    float64
	Radius   float64
	Laps     int
}

// Speed is the magnitude of the velocity.
func (s VehicleState) Speed() float64 { return s.Velocity.Len() }

// Snapshot is the state of the race after a tick.
type Snapshot struct {
	Tick     uint64
	Vehicles []VehicleState
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{Tick: w.tick, Vehicles: make([]VehicleState, 0, len(w.vehicles))}
	for _, v := range w.vehicles {
		b := v.Body()
		s.Vehicles = append(s.Vehicles, VehicleState{
			ID:       v.ID(),
			Name:     v.Name(),
			Kind:     v.Kind(),
			Position: b.Position,
			Velocity: b.Velocity,
			Angle:    b.Angle,
			Radius:   b.Radius(),
			Laps:     w.laps[v.ID()],
		})
	}
	return s
}
