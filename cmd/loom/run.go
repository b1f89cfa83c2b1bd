package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/storyloom/loom/internal/sim"
)

func newRunCmd() *cobra.Command {
	var (
		ticks    int
		seed     int64
		spawn    []string
		exportTo string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation for the configured number of ticks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Simulation.Ticks = ticks
			}
			if cmd.Flags().Changed("seed") {
				cfg.Simulation.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer log.Sync()

			s, err := sim.New(cfg, log)
			if err != nil {
				return err
			}
			defer s.Close()

			for _, prefab := range spawn {
				if _, err := s.SpawnPrefab(prefab); err != nil {
					return fmt.Errorf("spawn %q: %w", prefab, err)
				}
			}

			if err := s.Run(cfg.Simulation.Ticks); err != nil {
				return err
			}
			if exportTo != "" {
				if err := s.Export(exportTo); err != nil {
					return err
				}
				log.Info("snapshot written", zap.String("path", exportTo))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 0, "Override the configured tick count")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Override the configured RNG seed")
	cmd.Flags().StringArrayVar(&spawn, "spawn", nil, "Prefab to spawn before the run (repeatable)")
	cmd.Flags().StringVarP(&exportTo, "export", "o", "", "Write a YAML world snapshot after the run")
	return cmd
}
