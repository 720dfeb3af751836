package cmd

import (
	"fmt"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/components/telemetry"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gfa",
	Short: "gfa scrapes the hazardous waste truck schedule of Göteborg and notifies subscribers.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		config, err := globals.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config: config,
			Tel:    telemetry.SlogAPI{},
			Time:   chrono.NewStandardImpl(),
		}))
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.json5", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
