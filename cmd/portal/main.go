package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/yigit/interviewportal/internal/bootstrap"
	"github.com/yigit/interviewportal/internal/pkg/logger"
	"github.com/yigit/interviewportal/internal/server"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "portal",
		Short:         "Interview portal web server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(configPath)
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}
	root.Flags().StringVar(&configPath, "config", bootstrap.DefaultConfigPath, "path to the portal configuration file")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("Portal stopped with an error")
		os.Exit(1)
	}
	logger.Info().Msg("Portal finished gracefully.")
}
