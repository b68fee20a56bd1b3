package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emotiquest/emotiquest/internal/admin"
	"github.com/emotiquest/emotiquest/internal/emotion"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/validation"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect and manage the stored questionnaire history",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List completed sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		visible := admin.FilterSessions(d.store.LoadHistory(cmd.Context()), f)
		slices.Reverse(visible)
		if limit > 0 && len(visible) > limit {
			visible = visible[:limit]
		}

		out := cmd.OutOrStdout()
		if len(visible) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}

		fmt.Fprintf(out, "%-22s  %-10s  %-5s  %-24s  %-14s  %4s  %s\n",
			"ID", "Fecha", "Hora", "Nombre", "Género", "Edad", "Emoción")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, s := range visible {
			fmt.Fprintf(out, "%-22s  %-10s  %-5s  %-24s  %-14s  %4d  %s\n",
				s.ID, s.Date, s.Time, truncate(s.Name, 24), s.Gender.Label(), s.Age,
				emotion.EmojiOf(s.Dominant)+" "+emotion.NameOf(s.Dominant))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one session with its answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		s, ok := admin.FindSession(d.store.LoadHistory(cmd.Context()), args[0])
		if !ok {
			return fmt.Errorf("session %s not found", args[0])
		}

		out := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(out, "ID:        %s\n", s.ID)
		fmt.Fprintf(out, "Nombre:    %s\n", s.Name)
		fmt.Fprintf(out, "Género:    %s\n", s.Gender.Label())
		fmt.Fprintf(out, "Edad:      %d\n", s.Age)
		fmt.Fprintf(out, "Grado:     %s\n", s.Grade)
		fmt.Fprintf(out, "Fecha:     %s %s\n", s.Date, s.Time)
		if s.Avatar != nil {
			fmt.Fprintf(out, "Avatar:    %s\n", s.Avatar.Emoji)
		}
		fmt.Fprintf(out, "Resultado: %s %s\n", emotion.EmojiOf(s.Dominant), emotion.NameOf(s.Dominant))

		fmt.Fprintln(out)
		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "DISTRIBUCIÓN")
		fmt.Fprintln(out, sep)
		for _, sl := range admin.ResponseDistribution(s) {
			fmt.Fprintf(out, "%s %-16s %3d  %5.1f%%\n", sl.Emoji, sl.Name, sl.Count, sl.Percent)
		}

		fmt.Fprintln(out, sep)
		fmt.Fprintln(out, "RESPUESTAS")
		fmt.Fprintln(out, sep)
		for i, a := range s.Answers {
			fmt.Fprintf(out, "%2d. %s\n    → %s (%s)\n", i+1, a.Question, a.Text, emotion.NameOf(a.Emotion))
		}
		return nil
	},
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete one session from the history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.store.RemoveSession(cmd.Context(), args[0]) {
			return fmt.Errorf("session %s not found", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s.\n", args[0])
		return nil
	},
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole session history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireYes(cmd, "clear the session history"); err != nil {
			return err
		}
		d, err := openDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		if !d.store.ClearHistory(cmd.Context()) {
			return fmt.Errorf("clear history failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Session history cleared.")
		return nil
	},
}

// filterFromFlags reads the list filters. Gender accepts the stored values
// (masculino, femenino, pnd).
func filterFromFlags(cmd *cobra.Command) (admin.Filter, error) {
	date, _ := cmd.Flags().GetString("fecha")
	emo, _ := cmd.Flags().GetString("emocion")
	age, _ := cmd.Flags().GetInt("edad")
	gender, _ := cmd.Flags().GetString("genero")

	f := admin.Filter{
		Date:    strings.TrimSpace(date),
		Emotion: strings.TrimSpace(emo),
		Age:     age,
		Gender:  session.Gender(strings.TrimSpace(gender)),
	}
	verr := &validation.Error{}
	if age < 0 {
		verr.Add("edad", "debe ser un número entero positivo")
	}
	if f.Gender != "" && !f.Gender.Valid() {
		verr.Add("genero", session.MsgGender)
	}
	if f.Emotion != "" && !emotion.Known(f.Emotion) {
		verr.Add("emocion", fmt.Sprintf("emoción desconocida %q", f.Emotion))
	}
	return f, verr.Err()
}

// requireYes refuses destructive commands run without --yes.
func requireYes(cmd *cobra.Command, action string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return fmt.Errorf("refusing to %s without --yes", action)
	}
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func init() {
	sessionsListCmd.Flags().String("fecha", "", "Only sessions on this date (YYYY-MM-DD)")
	sessionsListCmd.Flags().String("emocion", "", "Only sessions with this dominant emotion (e.g. alegria)")
	sessionsListCmd.Flags().Int("edad", 0, "Only sessions of this age")
	sessionsListCmd.Flags().String("genero", "", "Only sessions of this gender (masculino, femenino, pnd)")
	sessionsListCmd.Flags().IntP("limit", "n", 0, "Number of sessions to show (0 = all)")
	sessionsClearCmd.Flags().Bool("yes", false, "Confirm deleting every session")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
}
