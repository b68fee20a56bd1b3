package cmd

import (
	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := openDeps(cmd, true)
	if err != nil {
		return err
	}
	defer d.Close()

	d.withInsight(cmd)
	env, err := d.env()
	if err != nil {
		return err
	}
	return app.Run(env)
}
