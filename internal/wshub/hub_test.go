package wshub

import (
	"testing"
)

func TestPublishRecordsHistory(t *testing.T) {
	h := New("test")
	defer h.Stop()

	h.Publish(map[string]any{"n": 1})
	h.Publish(map[string]any{"n": 2})
	h.Publish(map[string]any{"n": 3})

	msgs, next, more := h.FetchSince(0, 10)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].ID != 1 || msgs[2].ID != 3 {
		t.Fatalf("unexpected sequence: %d..%d", msgs[0].ID, msgs[2].ID)
	}
	if next != 3 || more {
		t.Fatalf("unexpected cursor state: next=%d more=%v", next, more)
	}
}

func TestFetchSinceCursor(t *testing.T) {
	h := New("test")
	defer h.Stop()

	for i := 0; i < 5; i++ {
		h.Publish(i)
	}
	msgs, next, more := h.FetchSince(2, 2)
	if len(msgs) != 2 || msgs[0].ID != 3 || msgs[1].ID != 4 {
		t.Fatalf("unexpected window: %+v", msgs)
	}
	if next != 4 || !more {
		t.Fatalf("unexpected cursor state: next=%d more=%v", next, more)
	}

	// Cursor at the end yields nothing.
	tail, _, tailMore := h.FetchSince(5, 10)
	if len(tail) != 0 || tailMore {
		t.Fatalf("expected empty tail, got %+v", tail)
	}
}

func TestHistoryCapBounded(t *testing.T) {
	h := New("test")
	defer h.Stop()
	h.historyCap = 10

	for i := 0; i < 50; i++ {
		h.Publish(i)
	}
	msgs, _, _ := h.FetchSince(0, 100)
	if len(msgs) != 10 {
		t.Fatalf("history not capped: %d", len(msgs))
	}
	if msgs[0].ID != 41 {
		t.Fatalf("expected oldest retained ID 41, got %d", msgs[0].ID)
	}
}
