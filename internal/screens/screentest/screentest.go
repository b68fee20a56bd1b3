// Package screentest has helpers shared by the screen tests.
package screentest

import (
	"context"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/flow"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/screen"
	"github.com/emotiquest/emotiquest/internal/session"
	"github.com/emotiquest/emotiquest/internal/store"
)

// Now is the fixed clock used by Env: a Wednesday morning.
var Now = time.Date(2025, time.March, 5, 10, 30, 0, 0, time.Local)

// Env returns an environment over a fresh SQLite store with a fixed clock
// and seeded random source. Insight is disabled.
func Env(t testing.TB) *screen.Env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "screens.db"), logging.Nop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	c, err := flow.New(st, flow.Options{
		Now:  func() time.Time { return Now },
		Rand: rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return &screen.Env{Flow: c, Store: st, Log: logging.Nop(), Version: "1.0.0"}
}

// Finish runs a whole visit up to the result step, picking option for
// every question.
func Finish(t testing.TB, env *screen.Env, option int) session.Summary {
	t.Helper()
	ctx := context.Background()
	c := env.Flow
	steps := []func() error{
		func() error {
			return c.Login(ctx, session.ProfileInput{Name: "Fer Soto", Gender: session.GenderMale, Age: 12, Grade: "Secundaria"})
		},
		func() error { return c.ChooseAvatar(ctx, "avatar-m1") },
		func() error { return c.MarkInstructionsViewed(ctx) },
		func() error { _, err := c.StartQuiz(ctx); return err },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("visit: %v", err)
		}
	}
	for i := 0; i < c.Engine().Len(); i++ {
		if err := c.Answer(ctx, option); err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if err := c.Advance(); err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	sum, err := c.Finish(ctx, false)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	return sum
}

// Key returns a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special returns a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Type sends each rune of text to s.
func Type(s screen.Screen, text string) screen.Screen {
	for _, r := range text {
		s, _ = s.Update(Key(r))
	}
	return s
}

// Press sends msgs in order and returns the screen and the last command.
func Press(s screen.Screen, msgs ...tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	for _, m := range msgs {
		s, cmd = s.Update(m)
	}
	return s, cmd
}

// Messages runs cmd and flattens batches into the messages they produce.
func Messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, Messages(c)...)
	}
	return out
}

// Find returns the first message of type T produced by cmd.
func Find[T tea.Msg](cmd tea.Cmd) (T, bool) {
	for _, m := range Messages(cmd) {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
