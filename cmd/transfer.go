package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/validation"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the history and ratings to a JSON snapshot",
	Long:  "Write the history and ratings to a JSON snapshot. Without a file the snapshot is written to emotiquest_datos_<fecha>.json; \"-\" writes to stdout.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		now := time.Now()
		snap := admin.Export(d.store.LoadHistory(ctx), d.store.LoadRatings(ctx), now, version)
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}

		name := admin.FileName(now)
		if len(args) == 1 {
			name = args[0]
		}
		if name == "-" {
			_, err := cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		d.log.Info("snapshot exported", "file", name, "sessions", snap.TotalSessions, "ratings", snap.TotalRatings)
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sessions and %d ratings to %s\n", snap.TotalSessions, snap.TotalRatings, name)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the history with a JSON snapshot",
	Long:  "Replace the stored history (and the ratings, when the snapshot has them) with a JSON snapshot. Nothing is merged. \"-\" reads from stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()
			r = f
		}

		snap, err := admin.DecodeSnapshot(r)
		if err != nil {
			if verr, ok := validation.As(err); ok {
				return fmt.Errorf("invalid snapshot: %s", verr.Error())
			}
			return err
		}

		out := cmd.OutOrStdout()
		if snap.NewerThan(version) {
			fmt.Fprintf(out, "Warning: snapshot was written by version %s, newer than %s.\n", snap.AppVersion, version)
		}
		fmt.Fprintf(out, "Snapshot has %d sessions", len(snap.Sessions))
		if snap.HasRatings() {
			fmt.Fprintf(out, " and %d ratings", len(snap.Ratings))
		}
		fmt.Fprintln(out, ".")

		if err := requireYes(cmd, "replace the stored history"); err != nil {
			return err
		}

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := admin.Import(cmd.Context(), d.store, snap)
		if err != nil {
			return fmt.Errorf("import snapshot: %w", err)
		}
		d.log.Info("snapshot imported", "sessions", res.Sessions, "ratings", res.Ratings, "ratings_replaced", res.RatingsReplaced)
		fmt.Fprintf(out, "Imported %d sessions", res.Sessions)
		if res.RatingsReplaced {
			fmt.Fprintf(out, " and %d ratings", res.Ratings)
		}
		fmt.Fprintln(out, ".")
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("yes", false, "Confirm replacing the stored history")
}
