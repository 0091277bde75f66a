package commands

import (
	"context"
	"os"

	"MediaMiner/internal/app"
	"MediaMiner/internal/logging"
	"MediaMiner/pkg/config"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	pretty     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "miner",
	Short:        "miner scrapes TV, movie and villain data and analyses it.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(logLevel, pretty)
		var err error
		cfg, err = config.LoadConfig(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yml", "Path to the YAML config file.")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "Human readable console logs.")
}

// task builds a subcommand running one App method.
func task(use, short string, run func(*app.App, context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			log.Info().Str("task", use).Msg("running task")
			return run(a, cmd.Context())
		},
	}
}

// ExecuteContext runs the command line and exits with status 1 on failure.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("task failed")
		os.Exit(1)
	}
}
