package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zeusync/racetracks/internal/core/events/bus"
	"github.com/zeusync/racetracks/internal/core/observability/log"
	"github.com/zeusync/racetracks/internal/core/race"
	"github.com/zeusync/racetracks/internal/injector"
)

func newSimCmd(a *app) *cobra.Command {
	var ticks uint64
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the computer cars headless and print the standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			// nobody is at the keyboard
			a.cfg.Player.Enabled = false

			r, cleanup, err := injector.InitializeRace(a.cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			collisions := 0
			events := r.World.Bus()
			sub, err := events.Subscribe(race.EventCollision, func(bus.Event) error {
				collisions++
				return nil
			})
			if err != nil {
				return err
			}
			defer func() { _ = events.Unsubscribe(sub) }()

			if err = r.Loop.RunTicks(cmd.Context(), ticks); err != nil {
				return err
			}
			snap := r.World.Snapshot()
			r.Log.Info("simulation finished",
				log.Uint64("tick", snap.Tick),
				log.Int("collisions", collisions),
				log.Uint64("events_published", events.Metrics().Published),
			)
			return printStandings(cmd.OutOrStdout(), snap, collisions)
		},
	}
	cmd.Flags().Uint64Var(&ticks, "ticks", 3600, "number of ticks to simulate")
	return cmd
}

func printStandings(out io.Writer, s race.Snapshot, collisions int) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "tick %d, %d collisions\n", s.Tick, collisions)
	fmt.Fprintln(tw, "NAME\tKIND\tLAPS\tX\tY\tSPEED")
	for _, v := range s.Vehicles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.1f\t%.1f\t%.1f\n",
			v.Name, v.Kind, v.Laps, v.Position[0], v.Position[1], v.Speed())
	}
	return tw.Flush()
}
