package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"shorthorizon/internal/config"
	"shorthorizon/internal/logging"
	"shorthorizon/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "shorthorizon",
	Short: "shorthorizon is a newsvendor decision-game MCP server",
	Long: `A treatment and demand engine for a single-period inventory game: assigns
demand treatments, fits log-normal distributions, computes optimal order
quantities and scores ordering decisions against simulated demand.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("shorthorizon starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server := mcp.NewServer(cfg, Version)
		return server.Run(cmd.Context())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
