package main

import (
	"github.com/spf13/cobra"

	"go-dealer-jobwatch/internal/scheduler"
)

func scheduleCmd() *cobra.Command {
	var spec string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run now, then repeat on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" {
				spec = cfg.Schedule
			}
			s, err := scheduler.New(spec, runOnce, log)
			if err != nil {
				return err
			}
			if err := s.Start(cmd.Context()); err != nil {
				return err
			}
			<-cmd.Context().Done()
			s.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "override schedule")
	return cmd
}
