package main

import (
	"github.com/spf13/cobra"

	"github.com/zeusync/racetracks/internal/config"
)

type app struct {
	cfgFile string
	track   string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "racetracks",
		Short:         "Top-down racing against waypoint-following cars",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			if a.track != "" {
				cfg.Race.Track = a.track
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./racetracks.yaml)")
	root.PersistentFlags().StringVarP(&a.track, "track", "t", "", "track YAML file, overrides race.track")

	root.AddCommand(newRunCmd(a), newSimCmd(a))
	return root
}
