package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Inspect and manage the satisfaction ratings",
}

var ratingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ratings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ratings := d.store.LoadRatings(cmd.Context())
		out := cmd.OutOrStdout()
		if len(ratings) == 0 {
			fmt.Fprintln(out, "No ratings found.")
			return nil
		}

		fmt.Fprintf(out, "%-28s  %-22s  %-10s  %-5s  %-9s  %s\n",
			"ID", "Sesión", "Fecha", "★", "Volvería", "Comentarios")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for i := len(ratings) - 1; i >= 0; i-- {
			r := ratings[i]
			fmt.Fprintf(out, "%-28s  %-22s  %-10s  %-5s  %-9s  %s\n",
				r.ID, r.SessionID, r.Date, strings.Repeat("★", r.Stars), r.WouldReturn.Label(), truncate(r.Comments, 40))
		}
		return nil
	},
}

var ratingsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete one rating",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.store.RemoveRating(cmd.Context(), args[0]) {
			return fmt.Errorf("rating %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed rating %s.\n", args[0])
		return nil
	},
}

var ratingsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireYes(cmd, "clear the ratings"); err != nil {
			return err
		}
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.store.ClearRatings(cmd.Context()) {
			return fmt.Errorf("clear ratings failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Ratings cleared.")
		return nil
	},
}

func init() {
	ratingsClearCmd.Flags().Bool("yes", false, "Confirm deleting every rating")

	ratingsCmd.AddCommand(ratingsListCmd)
	ratingsCmd.AddCommand(ratingsRemoveCmd)
	ratingsCmd.AddCommand(ratingsClearCmd)
}
