package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data",
	Long:  "Delete the session history, the ratings and any unfinished session. Wellness view counts are kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireYes(cmd, "reset all data"); err != nil {
			return err
		}
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		steps := []struct {
			name string
			run  func() bool
		}{
			{"history", func() bool { return d.store.ClearHistory(ctx) }},
			{"ratings", func() bool { return d.store.ClearRatings(ctx) }},
			{"current session", func() bool { return d.store.ClearCurrentSession(ctx) }},
			{"current user", func() bool { return d.store.ClearCurrentUser(ctx) }},
		}
		for _, s := range steps {
			if !s.run() {
				return fmt.Errorf("reset %s failed", s.name)
			}
		}
		d.log.Info("data reset")
		fmt.Fprintln(cmd.OutOrStdout(), "All data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deleting all data")
}
