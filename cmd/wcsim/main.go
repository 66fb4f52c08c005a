package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/san-kum/wcsim/internal/config"
	"github.com/san-kum/wcsim/internal/storage"
	"github.com/spf13/cobra"
)

var settings config.Settings

func main() {
	rootCmd := &cobra.Command{
		Use:           "wcsim",
		Short:         "wilson-cowan population dynamics lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings(cmd.Flags())
			if err != nil {
				return err
			}
			settings = s
			return setupLogger(s.LogLevel)
		},
	}

	rootCmd.PersistentFlags().String("data", ".wcsim", "data directory (env WCSIM_DATA)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (env WCSIM_LOG_LEVEL)")

	rootCmd.AddCommand(
		newRunCmd(),
		newBenchCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newPhaseCmd(),
		newSweepCmd(),
		newBifurcateCmd(),
		newPresetsCmd(),
		newExportCSVCmd(),
		newExportJSONCmd(),
		newExportSVGCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	return nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(settings.DataDir).WithLogger(log.Logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}
