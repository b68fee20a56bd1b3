package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/wellness"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session, rating and wellness statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		history := d.store.LoadHistory(ctx)
		st := admin.Aggregate(history, admin.Today(time.Now()))
		sum := rating.Aggregate(d.store.LoadRatings(ctx))
		views := d.store.ViewCounts(ctx)

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 48)

		fmt.Fprintln(out, "Sesiones")
		fmt.Fprintln(out, sep)
		fmt.Fprintf(out, "%-24s %d\n", "Total", st.Total)
		fmt.Fprintf(out, "%-24s %d\n", "Hoy", st.TodayCount)
		dominant := "—"
		if st.Dominant != "" {
			dominant = emotion.EmojiOf(st.Dominant) + " " + emotion.NameOf(st.Dominant)
		}
		fmt.Fprintf(out, "%-24s %s\n", "Emoción predominante", dominant)
		fmt.Fprintf(out, "%-24s %d\n", "Edad promedio", st.AverageAge)

		if rows := admin.EmotionDistribution(history); len(rows) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Distribución de emociones")
			fmt.Fprintln(out, sep)
			for _, r := range rows {
				fmt.Fprintf(out, "%-24s %d\n", r.Emoji+" "+r.Name, r.Count)
			}
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Calificaciones")
		fmt.Fprintln(out, sep)
		fmt.Fprintf(out, "%-24s %d\n", "Total", sum.Total)
		fmt.Fprintf(out, "%-24s %.1f\n", "Promedio de estrellas", sum.AverageStars)
		fmt.Fprintf(out, "%-24s %d%%\n", "Volverían", sum.PercentReturnYes)

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Rutas de bienestar")
		fmt.Fprintln(out, sep)
		for _, r := range wellness.All() {
			fmt.Fprintf(out, "%-24s %d\n", r.Title, views[r.Key])
		}
		return nil
	},
}
