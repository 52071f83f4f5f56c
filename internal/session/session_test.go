package session

import (
	"fmt"
	"testing"
	"time"
)

func TestHistoryNewestFirstAndCapped(t *testing.T) {
	s := newSession("s1", 3)
	for i := 1; i <= 5; i++ {
		s.RecordTranslation("Korean / translate / default", fmt.Sprintf("src%d", i), fmt.Sprintf("out%d", i))
	}

	h := s.History()
	if len(h) != 3 {
		t.Fatalf("history length = %d, want 3", len(h))
	}
	if h[0].Source != "src5" || h[2].Source != "src3" {
		t.Fatalf("unexpected order: %q, %q", h[0].Source, h[2].Source)
	}

	src, out := s.Last()
	if src != "src5" || out != "out5" {
		t.Fatalf("Last() = %q, %q", src, out)
	}
}

func TestVocabAddAndSearch(t *testing.T) {
	s := newSession("s1", 10)
	if !s.AddVocab("annotation", "주석", "from docs") {
		t.Fatal("AddVocab returned false for valid term")
	}
	if !s.AddVocab("deadline", "마감", "") {
		t.Fatal("AddVocab returned false for valid term")
	}
	if s.AddVocab("   ", "ignored", "") {
		t.Fatal("blank term should be dropped")
	}

	all := s.Vocab("")
	if len(all) != 2 {
		t.Fatalf("vocab length = %d, want 2", len(all))
	}
	if all[0].Term != "annotation" {
		t.Fatalf("insertion order broken: %q", all[0].Term)
	}

	if got := s.Vocab("DEAD"); len(got) != 1 || got[0].Term != "deadline" {
		t.Fatalf("case-insensitive term search failed: %+v", got)
	}
	if got := s.Vocab("주석"); len(got) != 1 || got[0].Term != "annotation" {
		t.Fatalf("meaning search failed: %+v", got)
	}
	if got := s.Vocab("nothing"); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestClearVocab(t *testing.T) {
	s := newSession("s1", 10)
	s.AddVocab("a", "b", "")
	s.AddVocab("c", "d", "")
	if n := s.ClearVocab(); n != 2 {
		t.Fatalf("ClearVocab = %d, want 2", n)
	}
	if len(s.Vocab("")) != 0 {
		t.Fatal("vocab not empty after clear")
	}
}

func TestStoreGetOrCreate(t *testing.T) {
	st := NewStore(0, 10)
	defer st.Close()

	s1, created := st.GetOrCreate("")
	if !created || s1.ID == "" {
		t.Fatalf("expected a fresh session, created=%v id=%q", created, s1.ID)
	}

	s2, created := st.GetOrCreate(s1.ID)
	if created || s2 != s1 {
		t.Fatal("known id should return the same session without creating")
	}

	s3, created := st.GetOrCreate("no-such-id")
	if !created || s3.ID == "no-such-id" {
		t.Fatal("unknown id should create a session with a new id")
	}
}

func TestStoreSweepEvictsIdle(t *testing.T) {
	st := NewStore(time.Minute, 10)
	defer st.Close()

	old, _ := st.GetOrCreate("")
	fresh, _ := st.GetOrCreate("")

	old.mu.Lock()
	old.lastSeen = time.Now().Add(-2 * time.Minute)
	old.mu.Unlock()

	if removed := st.sweep(time.Now()); removed != 1 {
		t.Fatalf("sweep removed %d, want 1", removed)
	}
	if _, ok := st.Get(old.ID); ok {
		t.Fatal("idle session should be gone")
	}
	if _, ok := st.Get(fresh.ID); !ok {
		t.Fatal("fresh session should survive")
	}
}
