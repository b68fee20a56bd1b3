package cmd

import (
	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/config"
	"github.com/emotiquest/emotiquest/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "emotiquest",
	Short: "Emotional check-in for students",
	Long:  "EmotiQuest is a terminal app where students answer a short questionnaire about how they feel and administrators review the results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EMOTIQUEST_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides EMOTIQUEST_CONFIG env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(ratingsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by --config.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	p, _ := cmd.Flags().GetString("config")
	return config.Load(p)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path (config file or EMOTIQUEST_DB), then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
