package main

import (
	"github.com/spf13/cobra"

	"github.com/storyloom/loom/internal/sim"
)

func newExportCmd() *cobra.Command {
	var spawn []string
	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Write a YAML snapshot of the freshly loaded world without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

			// No collector for a pure export.
			cfg.Collect.Enabled = false

			s, err := sim.New(cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, prefab := range spawn {
				if _, err := s.SpawnPrefab(prefab); err != nil {
					return err
				}
			}
			return s.Export(args[0])
		},
	}
	cmd.Flags().StringArrayVar(&spawn, "spawn", nil, "Prefab to spawn before exporting (repeatable)")
	return cmd
}
