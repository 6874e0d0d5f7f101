package race

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/racetracks/internal/core/events/bus"
	"github.com/zeusync/racetracks/internal/core/input"
	"github.com/zeusync/racetracks/internal/core/observability/log"
	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/track"
	"github.com/zeusync/racetracks/internal/core/vehicle"
)

var disc = physics.Extent{Width: 20, Height: 20}

type scriptedLaps struct{ laps int }

func (s *scriptedLaps) GetTarget(pos physics.Vec2) physics.Vec2 { return pos.Add(physics.V(100, 0)) }
func (s *scriptedLaps) Laps() int                               { return s.laps }

func collect(t *testing.T, b bus.EventBus, eventType string) *[]bus.Event {
	t.Helper()
	var got []bus.Event
	_, err := b.Subscribe(eventType, func(e bus.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	return &got
}

func passive(name string, x, y float64) *vehicle.PlayerCar {
	return vehicle.NewPlayerCar(name, physics.V(x, y), disc, vehicle.DefaultPlayerTuning())
}

func TestStep_CollisionPassPublishesOverlaps(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	collisions := collect(t, w.Bus(), EventCollision)

	a := passive("a", 0, 0)
	b := passive("b", 15, 0)
	c := passive("c", 200, 0)
	require.NoError(t, w.AddVehicle(a))
	require.NoError(t, w.AddVehicle(b))
	require.NoError(t, w.AddVehicle(c))

	require.NoError(t, w.Step(0))

	require.Len(t, *collisions, 1)
	ev, ok := (*collisions)[0].Data().(CollisionEvent)
	require.True(t, ok)
	assert.Equal(t, a.ID(), ev.A)
	assert.Equal(t, b.ID(), ev.B)
	assert.Equal(t, uint64(1), ev.Tick)
	assert.InDelta(t, 5, ev.Depth, 1e-9)

	assert.InDelta(t, -2.5, a.Body().Velocity[0], 1e-9)
	assert.InDelta(t, 2.5, b.Body().Velocity[0], 1e-9)
	assert.Equal(t, physics.Vec2{}, c.Body().Velocity)
}

func TestStep_TouchingIsNotACollision(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	collisions := collect(t, w.Bus(), EventCollision)
	require.NoError(t, w.AddVehicle(passive("a", 0, 0)))
	require.NoError(t, w.AddVehicle(passive("b", 20, 0)))

	require.NoError(t, w.Step(0))
	assert.Empty(t, *collisions)
}

func TestStep_PlayerInputAppliesNextTick(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	p := vehicle.NewPlayerCar("you", physics.V(0, 0), disc, vehicle.DefaultPlayerTuning())
	require.NoError(t, w.SetPlayer(p, input.StaticKeys{input.KeyForward: true}))

	require.NoError(t, w.Step(1))
	assert.Equal(t, physics.Vec2{}, p.Body().Velocity)
	assert.InDelta(t, 5, p.Body().PendingForce()[0], 1e-9)

	require.NoError(t, w.Step(1))
	assert.InDelta(t, 5*physics.DefaultDrag, p.Body().Velocity[0], 1e-9)
	assert.InDelta(t, 5*physics.DefaultDrag, p.Body().Position[0], 1e-9)
	assert.Equal(t, uint64(2), w.Tick())
	assert.Same(t, p, w.Player())
}

func TestAddVehicle_Errors(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	a := passive("a", 0, 0)
	require.NoError(t, w.AddVehicle(a))
	assert.ErrorIs(t, w.AddVehicle(a), ErrDuplicateVehicle)

	require.NoError(t, w.SetPlayer(passive("p", 50, 50), nil))
	assert.ErrorIs(t, w.SetPlayer(passive("q", 90, 90), nil), ErrPlayerTaken)
	assert.Len(t, w.Vehicles(), 2)
}

func TestStep_LapEvents(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	laps := collect(t, w.Bus(), EventLap)
	src := &scriptedLaps{}
	npc := vehicle.NewWaypointCar("npc", physics.V(0, 0), disc, src, 3, 0)
	require.NoError(t, w.AddVehicle(npc))

	require.NoError(t, w.Step(0))
	assert.Empty(t, *laps)

	src.laps = 1
	require.NoError(t, w.Step(0))
	require.NoError(t, w.Step(0))
	require.Len(t, *laps, 1)
	ev := (*laps)[0].Data().(LapEvent)
	assert.Equal(t, 1, ev.Laps)
	assert.Equal(t, "npc", ev.Name)

	snap := w.Snapshot()
	require.Len(t, snap.Vehicles, 1)
	assert.Equal(t, 1, snap.Vehicles[0].Laps)
	assert.Equal(t, vehicle.KindWaypoint, snap.Vehicles[0].Kind)
}

func TestStep_PublishesTickEventsInOrder(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	var order []string
	for _, typ := range []string{EventCollision, EventLap} {
		_, err := w.Bus().Subscribe(typ, func(e bus.Event) error {
			order = append(order, e.Type())
			return nil
		})
		require.NoError(t, err)
	}
	src := &scriptedLaps{laps: 1}
	require.NoError(t, w.AddVehicle(vehicle.NewWaypointCar("npc", physics.V(0, 0), disc, src, 3, 0)))
	require.NoError(t, w.AddVehicle(passive("a", 5, 0)))
	require.NoError(t, w.AddVehicle(passive("b", 300, 0)))

	require.NoError(t, w.Step(0))
	assert.Equal(t, []string{EventCollision, EventLap}, order)
	assert.Equal(t, uint64(2), w.Bus().Metrics().Published)

	quiet := NewWorld(nil, nil, nil)
	require.NoError(t, quiet.AddVehicle(passive("c", 0, 0)))
	require.NoError(t, quiet.Step(0))
	assert.Zero(t, quiet.Bus().Metrics().Published)
}

func TestStep_ReturnsHandlerErrors(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	boom := errors.New("boom")
	_, err := w.Bus().Subscribe(EventCollision, func(bus.Event) error { return boom })
	require.NoError(t, err)
	require.NoError(t, w.AddVehicle(passive("a", 0, 0)))
	require.NoError(t, w.AddVehicle(passive("b", 1, 0)))

	assert.ErrorIs(t, w.Step(0), boom)
}

func TestStep_LogsCollisions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewWorld(nil, nil, log.Wrap(zap.New(core), log.LevelDebug))
	require.NoError(t, w.AddVehicle(passive("a", 0, 0)))
	require.NoError(t, w.AddVehicle(passive("b", 1, 0)))

	require.NoError(t, w.Step(0))
	assert.Equal(t, 1, logs.FilterMessage("collision").Len())
	assert.Equal(t, 2, logs.FilterMessage("vehicle added").Len())
}

func TestWorld_RaceOnOval(t *testing.T) {
	tr := track.Oval("oval", physics.V(400, 300), 300, 200, 24, 60)
	w := NewWorld(tr, nil, nil)
	for i, off := range []float64{-20, 20} {
		car := vehicle.NewWaypointCar("npc", tr.Start.Add(physics.V(float64(i)*40, 0)), disc, tr.Follow(), 12, off)
		car.Body().SetForward(physics.V(0, 1))
		require.NoError(t, w.AddVehicle(car))
	}
	loop := NewLoop(w, LoopOptions{TicksPerSecond: 60, MaxTicks: 600}, nil)
	require.NoError(t, loop.RunTicks(context.Background(), 10_000))
	assert.Equal(t, uint64(600), w.Tick())

	for _, v := range w.Snapshot().Vehicles {
		assert.Greater(t, v.Speed(), 0.0)
	}
}

func TestLoop_FrameHooksAndStop(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	loop := NewLoop(w, LoopOptions{}, nil)
	assert.InDelta(t, 1.0/60, loop.Dt(), 1e-12)

	var seen []uint64
	loop.OnFrame(func(s Snapshot) error {
		seen = append(seen, s.Tick)
		if s.Tick == 3 {
			return ErrStop
		}
		return nil
	})
	require.NoError(t, loop.RunTicks(context.Background(), 100))
	assert.Equal(t, []uint64{1, 2, 3}, seen)

	fast := NewLoop(NewWorld(nil, nil, nil), LoopOptions{TicksPerSecond: 2_000_000_000, MaxTicks: 1}, nil)
	assert.InDelta(t, 1e-9, fast.Dt(), 1e-18)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, fast.Run(ctx), "an oversized tick rate must not panic the ticker")

	failing := NewLoop(NewWorld(nil, nil, nil), LoopOptions{}, nil)
	boom := errors.New("render failed")
	failing.OnFrame(func(Snapshot) error { return boom })
	assert.ErrorIs(t, failing.RunTicks(context.Background(), 10), boom)
}

func TestLoop_RunRealTime(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	loop := NewLoop(w, LoopOptions{TicksPerSecond: 500, MaxTicks: 5}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, uint64(5), w.Tick())
}

func TestLoop_RunCancelled(t *testing.T) {
	w := NewWorld(nil, nil, nil)
	loop := NewLoop(w, LoopOptions{TicksPerSecond: 100}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	loop.OnFrame(func(s Snapshot) error {
		if s.Tick == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, loop.Run(ctx))
	assert.GreaterOrEqual(t, w.Tick(), uint64(2))

	assert.ErrorIs(t, loop.RunTicks(ctx, 1), context.Canceled)
}

func TestGrid(t *testing.T) {
	tr := &track.Track{Start: physics.V(100, 50), StartHeading: 90}
	slots := Grid(tr, 40, 3)
	require.Len(t, slots, 3)
	for i, s := range slots {
		assert.InDelta(t, 100, s.Position[0], 1e-9)
		assert.InDelta(t, 50-40*float64(i), s.Position[1], 1e-9)
		assert.InDelta(t, math.Pi/2, s.Heading, 1e-12)
	}

	bare := Grid(nil, 10, 2)
	assert.Equal(t, physics.V(-10, 0), bare[1].Position)
	assert.Empty(t, Grid(tr, 10, 0))
}
