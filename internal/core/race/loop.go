package race

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/racetracks/internal/core/observability/log"
)

const (
	DefaultTicksPerSecond = 60
	// MaxTicksPerSecond keeps the tick duration at one nanosecond or more.
	MaxTicksPerSecond = int(time.Second)
)

// ErrStop may be returned by a FrameFunc to end the loop without error.
var ErrStop = errors.New("race loop stopped")

// FrameFunc runs after every world step with the snapshot of that tick.
type FrameFunc func(s Snapshot) error

// LoopOptions configures a Loop.
type LoopOptions struct {
	TicksPerSecond int
	// MaxTicks stops the loop after that many ticks; zero runs until cancelled.
	MaxTicks uint64
}

// Loop drives a World at a fixed tick rate. The world is only touched from the
// goroutine calling Run.
type Loop struct {
	world        *World
	log          log.Log
	tps          int
	tickDuration time.Duration
	maxTicks     uint64
	frames       []FrameFunc

	slowTicks uint64
}

func NewLoop(world *World, opts LoopOptions, logger log.Log) *Loop {
	if opts.TicksPerSecond <= 0 {
		opts.TicksPerSecond = DefaultTicksPerSecond
	}
	opts.TicksPerSecond = min(opts.TicksPerSecond, MaxTicksPerSecond)
	if logger == nil {
		logger = log.NewNop()
	}
	return &Loop{
		world:        world,
		log:          logger,
		tps:          opts.TicksPerSecond,
		tickDuration: time.Second / time.Duration(opts.TicksPerSecond),
		maxTicks:     opts.MaxTicks,
	}
}

// OnFrame registers fn to run after every tick, in registration order.
func (l *Loop) OnFrame(fn FrameFunc) {
	l.frames = append(l.frames, fn)
}

// Dt is the simulated duration of one tick in seconds.
func (l *Loop) Dt() float64 { return 1 / float64(l.tps) }

// SlowTicks counts ticks whose work took longer than the tick duration.
func (l *Loop) SlowTicks() uint64 { return l.slowTicks }

// Run ticks in real time until ctx is cancelled, MaxTicks is reached or a
// frame returns an error. Cancellation and ErrStop end the loop cleanly.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tickDuration)
	defer ticker.Stop()

	l.log.Info("race loop started",
		log.Int("tps", l.tps),
		log.Uint64("max_ticks", l.maxTicks),
		log.Int("vehicles", len(l.world.vehicles)),
	)
	defer func() { l.log.Info("race loop stopped", log.Uint64("tick", l.world.Tick())) }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			start := time.Now()
			done, err := l.step()
			if elapsed := time.Since(start); elapsed > l.tickDuration {
				l.slowTicks++
				l.log.Warn("slow tick", log.Duration("elapsed", elapsed), log.Uint64("tick", l.world.Tick()))
			}
			if err != nil || done {
				return err
			}
		}
	}
}

// RunTicks steps the world n times without waiting between ticks.
func (l *Loop) RunTicks(ctx context.Context, n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := l.step()
		if err != nil || done {
			return err
		}
	}
	return nil
}

func (l *Loop) step() (done bool, err error) {
	if err := l.world.Step(l.Dt()); err != nil {
		// handler failures do not stop the race
		l.log.Warn("event handler failed", log.Uint64("tick", l.world.Tick()), log.Error(err))
	}

	snap := l.world.Snapshot()
	for _, fn := range l.frames {
		if err := fn(snap); err != nil {
			if errors.Is(err, ErrStop) {
				return true, nil
			}
			return true, err
		}
	}
	return l.maxTicks > 0 && l.world.Tick() >= l.maxTicks, nil
}
