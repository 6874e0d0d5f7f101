package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/racetracks/internal/core/input"
	"github.com/zeusync/racetracks/internal/core/observability/log"
	"github.com/zeusync/racetracks/internal/core/race"
	"github.com/zeusync/racetracks/internal/injector"
	"github.com/zeusync/racetracks/internal/render/tui"
)

const fallbackLogFile = "racetracks.log"

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Race in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Log.Outputs = offScreen(a.cfg.Log.Outputs)
			r, cleanup, err := injector.InitializeRace(a.cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err = screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return play(ctx, screen, r)
		},
	}
}

// offScreen drops the standard streams from log outputs since they share the
// terminal with the race. Logs go to fallbackLogFile when nothing is left.
func offScreen(outputs []string) []string {
	kept := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if o == "stderr" || o == "stdout" {
			continue
		}
		kept = append(kept, o)
	}
	if len(kept) == 0 {
		kept = append(kept, fallbackLogFile)
	}
	return kept
}

// play runs the race loop and the terminal event poller until the player
// quits, a signal arrives or the race ends. It finalizes screen.
func play(ctx context.Context, screen tcell.Screen, r *injector.Race) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.NewView(screen, r.Track)
	r.Loop.OnFrame(func(s race.Snapshot) error {
		r.Keys.Tick()
		return view.Draw(s)
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer screen.Fini()
		return r.Loop.Run(ctx)
	})
	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
				continue
			}
			if k, ok := r.Keys.HandleEvent(ev); ok && k == input.KeyQuit {
				r.Log.Info("player quit")
				cancel()
			}
		}
	})
	err := g.Wait()
	// the loop goroutine is done; the world is safe to read again
	r.Log.Info("race finished",
		log.Uint64("tick", r.World.Tick()),
		log.Uint64("slow_ticks", r.Loop.SlowTicks()),
	)
	return err
}
