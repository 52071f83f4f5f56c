package chunk

import (
	"strings"
	"testing"
)

func TestReassembleSingleOutput(t *testing.T) {
	got := Reassemble([]string{"  translated text \n"})
	if got != "translated text" {
		t.Fatalf("expected trimmed output without label, got %q", got)
	}
	if strings.Contains(got, "part") {
		t.Fatalf("single output must not be labeled: %q", got)
	}
}

func TestReassembleEmpty(t *testing.T) {
	if got := Reassemble(nil); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestReassembleWithMarkers(t *testing.T) {
	got := Reassemble([]string{"first", "second", "third"})
	want := "[part 1 of 3]\nfirst\n\n[part 2 of 3]\nsecond\n\n[part 3 of 3]\nthird"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	for _, label := range []string{"part 1 of 3", "part 2 of 3", "part 3 of 3"} {
		if !strings.Contains(got, label) {
			t.Fatalf("missing label %q in %q", label, got)
		}
	}
}

func TestReassembleDropsEmptyOutputs(t *testing.T) {
	got := Reassemble([]string{"x", "", "y"})
	want := "[part 1 of 3]\nx\n\n[part 3 of 3]\ny"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if strings.Contains(got, "part 2") {
		t.Fatalf("empty output should be dropped entirely: %q", got)
	}
}

func TestReassembleWhitespaceOnlyOutputIsDropped(t *testing.T) {
	got := Reassemble([]string{"a", "   \n\t ", "b"})
	if strings.Contains(got, "part 2") {
		t.Fatalf("whitespace-only output should be dropped: %q", got)
	}
}
