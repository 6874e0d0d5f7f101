package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/racetracks/internal/config"
	"github.com/zeusync/racetracks/internal/core/events/bus"
	"github.com/zeusync/racetracks/internal/core/input"
	"github.com/zeusync/racetracks/internal/core/observability/log"
	"github.com/zeusync/racetracks/internal/core/physics"
	"github.com/zeusync/racetracks/internal/core/race"
	"github.com/zeusync/racetracks/internal/core/track"
	"github.com/zeusync/racetracks/internal/core/vehicle"
)

// Race bundles everything a front end needs to drive one race.
type Race struct {
	Config *config.Config
	Log    *log.Logger
	Track  *track.Track
	Keys   *input.Tracker
	World  *race.World
	Loop   *race.Loop
}

// ProviderSet builds a Race from a *config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideBus,
	ProvideTrack,
	ProvideKeys,
	ProvideWorld,
	ProvideLoop,
	wire.Bind(new(log.Log), new(*log.Logger)),
	wire.Struct(new(Race), "*"),
)

// DefaultTrack is raced when no track file is configured.
func DefaultTrack() *track.Track {
	return track.Oval("oval", physics.V(400, 300), 300, 200, 24, 60)
}

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	logger, err := log.New(log.Options{
		Level:    log.ParseLevel(cfg.Log.Level),
		Encoding: cfg.Log.Encoding,
		Outputs:  cfg.Log.Outputs,
	})
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideBus() bus.EventBus {
	return bus.New()
}

func ProvideTrack(cfg *config.Config) (*track.Track, error) {
	if cfg.Race.Track == "" {
		return DefaultTrack(), nil
	}
	return track.LoadFile(cfg.Race.Track)
}

func ProvideKeys(cfg *config.Config) *input.Tracker {
	return input.NewTracker(input.DefaultKeymap(), cfg.Race.HoldTicks)
}

// ProvideWorld places the player first on the grid followed by every
// configured computer car.
func ProvideWorld(cfg *config.Config, tr *track.Track, eventBus bus.EventBus, logger log.Log, keys *input.Tracker) (*race.World, error) {
	w := race.NewWorld(tr, eventBus, logger.Named("world"))

	n := len(cfg.NPCs)
	if cfg.Player.Enabled {
		n++
	}
	slots := race.Grid(tr, cfg.Race.GridSpacing, n)

	if cfg.Player.Enabled {
		slot := slots[0]
		slots = slots[1:]
		p := vehicle.NewPlayerCar(cfg.Player.Name, slot.Position, cfg.Player.Extent, cfg.Player.Tuning)
		p.Body().Angle = slot.Heading
		if err := w.SetPlayer(p, keys); err != nil {
			return nil, err
		}
	}

	for i, npc := range cfg.NPCs {
		car := vehicle.NewWaypointCar(npc.Name, slots[i].Position, npc.Extent, tr.Follow(), npc.Speed, npc.Offset)
		car.Body().Angle = slots[i].Heading
		if err := w.AddVehicle(car); err != nil {
			return nil, err
		}
	}

	logger.Info("race ready",
		log.String("track", tr.Name),
		log.Uint64("fingerprint", tr.Fingerprint()),
		log.Int("vehicles", len(w.Vehicles())),
	)
	return w, nil
}

func ProvideLoop(cfg *config.Config, world *race.World, logger log.Log) *race.Loop {
	return race.NewLoop(world, race.LoopOptions{
		TicksPerSecond: cfg.Race.TicksPerSecond,
		MaxTicks:       cfg.Race.MaxTicks,
	}, logger.Named("loop"))
}
