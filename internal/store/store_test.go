package store

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/rating"
	"github.com/emotiquest/emotiquest/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logging.Nop())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func openObservedStore(t *testing.T) (*Store, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, logs
}

func completed(id, dominant string) session.Session {
	return session.Session{
		ID: id, Name: "Ana", Gender: session.GenderFemale, Age: 10, Grade: "5to",
		Date: "2025-03-07", Time: "09:05", Answers: []session.Answer{},
		Completed: true, Dominant: dominant,
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{tableKV, tableHistory, tableRatings, tableViews, tableLLMEvent, "event_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !s.UpsertHistory(ctx, completed("EMQ-1", "calma")) {
		t.Fatal("upsert failed")
	}
	s.Close()

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if got := s.LoadHistory(ctx); len(got) != 1 || got[0].ID != "EMQ-1" {
		t.Errorf("history after reopen = %+v", got)
	}
}

func TestCurrentUserSlot(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok := s.LoadCurrentUser(ctx); ok {
		t.Fatal("expected empty slot")
	}

	p := session.Profile{ID: "EMQ-1", Name: "Ana", Gender: session.GenderFemale, Age: 10, Grade: "5to"}
	if !s.SaveCurrentUser(ctx, p) {
		t.Fatal("save failed")
	}
	got, ok := s.LoadCurrentUser(ctx)
	if !ok || got != p {
		t.Errorf("LoadCurrentUser = %+v, %v", got, ok)
	}

	if !s.ClearCurrentUser(ctx) || !s.ClearCurrentUser(ctx) {
		t.Error("clear should be idempotent")
	}
	if _, ok := s.LoadCurrentUser(ctx); ok {
		t.Error("expected empty slot after clear")
	}
}

func TestCurrentSessionOverwrite(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := completed("EMQ-1", "")
	first.Completed = false
	second := completed("EMQ-2", "")
	second.Completed = false

	s.SaveCurrentSession(ctx, &first)
	s.SaveCurrentSession(ctx, &second)

	got, ok := s.LoadCurrentSession(ctx)
	if !ok || got.ID != "EMQ-2" {
		t.Fatalf("LoadCurrentSession = %+v, %v", got, ok)
	}
	if s.SaveCurrentSession(ctx, nil) {
		t.Error("saving nil session should fail")
	}
}

func TestMalformedSlotLoadsAsNone(t *testing.T) {
	s, logs := openObservedStore(t)
	ctx := context.Background()

	if _, err := s.DB().Exec("INSERT INTO kv (\"key\", value, updated_at) VALUES (?, ?, ?)",
		KeyCurrentSession, "{not json", "2025-01-01 00:00:00"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok := s.LoadCurrentSession(ctx); ok {
		t.Error("malformed slot should load as none")
	}
	if logs.FilterMessage("malformed slot ignored").Len() != 1 {
		t.Error("expected a warning for the malformed slot")
	}
}

func TestUpsertHistoryKeepsPosition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"A", "B", "C"} {
		if !s.UpsertHistory(ctx, completed(id, "calma")) {
			t.Fatalf("upsert %s failed", id)
		}
	}
	if !s.UpsertHistory(ctx, completed("B", "miedo")) {
		t.Fatal("re-upsert failed")
	}

	got := s.LoadHistory(ctx)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	wantIDs := []string{"A", "B", "C"}
	for i, sess := range got {
		if sess.ID != wantIDs[i] {
			t.Errorf("history[%d] = %s, want %s", i, sess.ID, wantIDs[i])
		}
	}
	if got[1].Dominant != "miedo" {
		t.Errorf("B dominant = %q, want miedo", got[1].Dominant)
	}
}

func TestUpsertHistoryRefusesIncomplete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if s.UpsertHistory(ctx, completed("", "calma")) {
		t.Error("expected refusal without id")
	}
	if s.UpsertHistory(ctx, completed("X", "")) {
		t.Error("expected refusal without dominant emotion")
	}
	if n := len(s.LoadHistory(ctx)); n != 0 {
		t.Errorf("history len = %d, want 0", n)
	}
}

func TestLoadHistorySkipsBadRows(t *testing.T) {
	s, logs := openObservedStore(t)
	ctx := context.Background()

	s.UpsertHistory(ctx, completed("A", "calma"))
	seed := "INSERT INTO history (record_id, data, updated_at) VALUES (?, ?, ?)"
	if _, err := s.DB().Exec(seed, "broken", "[1,2", "2025-01-01 00:00:00"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.DB().Exec(seed, "noid", `{"id":"","completada":true}`, "2025-01-01 00:00:00"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	s.UpsertHistory(ctx, completed("B", "alegria"))

	got := s.LoadHistory(ctx)
	if len(got) != 2 || got[0].ID != "A" || got[1].ID != "B" {
		t.Fatalf("history = %+v", got)
	}
	if n := logs.Len(); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

func TestRemoveAndClearHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertHistory(ctx, completed("A", "calma"))
	s.UpsertHistory(ctx, completed("B", "calma"))

	if !s.RemoveSession(ctx, "A") {
		t.Error("remove existing should succeed")
	}
	if s.RemoveSession(ctx, "A") {
		t.Error("remove absent should report false")
	}
	if !s.ClearHistory(ctx) || !s.ClearHistory(ctx) {
		t.Error("clear should be idempotent")
	}
	if n := len(s.LoadHistory(ctx)); n != 0 {
		t.Errorf("history len = %d, want 0", n)
	}
}

func TestReplaceHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.UpsertHistory(ctx, completed("old", "calma"))
	repl := []session.Session{completed("Z", "miedo"), completed("Y", "calma")}
	if !s.ReplaceHistory(ctx, repl) {
		t.Fatal("replace failed")
	}
	got := s.LoadHistory(ctx)
	if len(got) != 2 || got[0].ID != "Z" || got[1].ID != "Y" {
		t.Errorf("history = %+v", got)
	}

	if !s.ReplaceHistory(ctx, nil) {
		t.Fatal("replace with empty failed")
	}
	if n := len(s.LoadHistory(ctx)); n != 0 {
		t.Errorf("history len = %d, want 0", n)
	}
}

func testRating(id string, stars int) rating.Rating {
	return rating.Rating{ID: id, SessionID: "EMQ-1", Stars: stars, WouldReturn: rating.ReturnYes, Dominant: "calma"}
}

func TestRatingsAppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if !s.AppendRating(ctx, testRating("CAL-1", 4)) {
		t.Fatal("append failed")
	}
	if s.AppendRating(ctx, testRating("CAL-1", 1)) {
		t.Error("duplicate id should be refused")
	}
	s.AppendRating(ctx, testRating("CAL-2", 5))

	got := s.LoadRatings(ctx)
	if len(got) != 2 || got[0].Stars != 4 || got[1].ID != "CAL-2" {
		t.Fatalf("ratings = %+v", got)
	}

	if !s.RemoveRating(ctx, "CAL-1") || s.RemoveRating(ctx, "CAL-1") {
		t.Error("remove should succeed once")
	}
	if !s.ReplaceRatings(ctx, []rating.Rating{testRating("CAL-9", 3)}) {
		t.Fatal("replace failed")
	}
	if got := s.LoadRatings(ctx); len(got) != 1 || got[0].ID != "CAL-9" {
		t.Errorf("ratings after replace = %+v", got)
	}
	if !s.ClearRatings(ctx) || len(s.LoadRatings(ctx)) != 0 {
		t.Error("clear failed")
	}
}

func TestRecordView(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, ok := s.RecordView(ctx, "meditacion")
		if !ok || n != i {
			t.Fatalf("RecordView #%d = %d, %v", i, n, ok)
		}
	}
	s.RecordView(ctx, "guias")
	if _, ok := s.RecordView(ctx, ""); ok {
		t.Error("empty resource should be refused")
	}

	counts := s.ViewCounts(ctx)
	if counts["meditacion"] != 3 || counts["guias"] != 1 || len(counts) != 2 {
		t.Errorf("ViewCounts = %v", counts)
	}
}
