package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

func TestPopScreenMsgRevealsPrevious(t *testing.T) {
	s1 := &stubScreen{title: "menu"}
	r := New(s1)
	r.Update(PushScreenMsg{Screen: &stubScreen{title: "login"}})
	r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "avatar"}})
	r.Update(PopScreenMsg{})

	if r.Active().Title() != "menu" {
		t.Errorf("expected active 'menu', got %q", r.Active().Title())
	}
	if r.View(10, 10) != "menu" {
		t.Errorf("expected menu view, got %q", r.View(10, 10))
	}
}

type refreshingScreen struct {
	stubScreen
	refreshed int
}

func (s *refreshingScreen) Refresh() tea.Cmd {
	s.refreshed++
	return nil
}

func TestPopRefreshesRevealedScreen(t *testing.T) {
	menu := &refreshingScreen{stubScreen: stubScreen{title: "menu"}}
	r := New(menu)
	r.Push(&stubScreen{title: "login"})
	r.Pop()

	if menu.refreshed != 1 {
		t.Errorf("expected one refresh, got %d", menu.refreshed)
	}
	r.Pop()
	if menu.refreshed != 1 {
		t.Errorf("pop at bottom should not refresh, got %d", menu.refreshed)
	}
}
