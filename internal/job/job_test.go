package job

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"transmate/internal/apperrors"
	"transmate/internal/progress"
	"transmate/internal/prompt"
)

func testRunner(budget int, transform TransformFunc) (*Runner, *[]progress.Event) {
	events := &[]progress.Event{}
	r := &Runner{
		Budget:     budget,
		Prompt:     prompt.Options{TargetLang: "Korean", Mode: prompt.ModeTranslate, Tone: prompt.ToneDefault},
		Transform:  transform,
		OnProgress: func(ev progress.Event) { *events = append(*events, ev) },
	}
	return r, events
}

func TestRunSingleChunk(t *testing.T) {
	r, _ := testRunner(100, func(ctx context.Context, p string) (string, error) {
		if !strings.Contains(p, "short text") {
			t.Fatalf("prompt missing source text: %q", p)
		}
		return "  translated  ", nil
	})

	res, err := r.Run(context.Background(), "short text")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.JobID == "" {
		t.Fatal("empty job id")
	}
	if res.Chunks != 1 {
		t.Fatalf("chunks = %d, want 1", res.Chunks)
	}
	// Single-chunk output has no part markers and is trimmed.
	if res.Output != "translated" {
		t.Fatalf("output = %q", res.Output)
	}
}

func TestRunMultiChunkOrderAndMarkers(t *testing.T) {
	var prompts []string
	r, _ := testRunner(10, func(ctx context.Context, p string) (string, error) {
		prompts = append(prompts, p)
		lines := strings.Split(p, "\n")
		return "T:" + lines[len(lines)-1], nil
	})

	src := "aaaa\nbbbb\ncccc\ndddd\n"
	res, err := r.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Chunks != 2 {
		t.Fatalf("chunks = %d, want 2", res.Chunks)
	}
	if len(prompts) != 2 {
		t.Fatalf("transform called %d times", len(prompts))
	}
	// Chunks must be translated in source order.
	if !strings.Contains(prompts[0], "aaaa") || !strings.Contains(prompts[1], "cccc") {
		t.Fatalf("chunks out of order: %q then %q", prompts[0], prompts[1])
	}
	if !strings.Contains(res.Output, "[part 1 of 2]") || !strings.Contains(res.Output, "[part 2 of 2]") {
		t.Fatalf("missing part markers: %q", res.Output)
	}
	if strings.Index(res.Output, "[part 1 of 2]") > strings.Index(res.Output, "[part 2 of 2]") {
		t.Fatalf("parts out of order: %q", res.Output)
	}
}

func TestRunFailFast(t *testing.T) {
	calls := 0
	r, events := testRunner(10, func(ctx context.Context, p string) (string, error) {
		calls++
		if calls == 2 {
			return "", apperrors.Upstream(http.StatusTooManyRequests, "quota exceeded", nil)
		}
		return "ok", nil
	})

	_, err := r.Run(context.Background(), "aaaa\nbbbb\ncccc\ndddd\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Fatalf("transform called %d times after failure, want 2", calls)
	}
	if !strings.Contains(err.Error(), "chunk 2/2") {
		t.Fatalf("error should name the failing chunk: %v", err)
	}

	var api *apperrors.APIError
	if !errors.As(err, &api) || api.HTTPStatus != http.StatusTooManyRequests {
		t.Fatalf("wrapped APIError lost: %v", err)
	}

	last := (*events)[len(*events)-1]
	if last.State != progress.StateFailed || last.Error == "" {
		t.Fatalf("last event should be a failure: %+v", last)
	}
}

func TestRunProgressSequence(t *testing.T) {
	r, events := testRunner(10, func(ctx context.Context, p string) (string, error) {
		return "x", nil
	})

	res, err := r.Run(context.Background(), "aaaa\nbbbb\ncccc\ndddd\n")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 queued + (translating, done) per chunk.
	if len(*events) != 6 {
		t.Fatalf("events = %d, want 6: %+v", len(*events), *events)
	}
	for _, ev := range *events {
		if ev.JobID != res.JobID || ev.Total != 2 {
			t.Fatalf("bad event: %+v", ev)
		}
	}
	states := []string{(*events)[0].State, (*events)[2].State, (*events)[3].State}
	want := []string{progress.StateQueued, progress.StateTranslating, progress.StateDone}
	for i := range states {
		if states[i] != want[i] {
			t.Fatalf("state[%d] = %q, want %q", i, states[i], want[i])
		}
	}
}

func TestRunInvalidBudget(t *testing.T) {
	r, _ := testRunner(0, func(ctx context.Context, p string) (string, error) { return "x", nil })
	if _, err := r.Run(context.Background(), "text"); err == nil {
		t.Fatal("expected error for invalid budget")
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _ := testRunner(10, func(ctx context.Context, p string) (string, error) { return "x", nil })
	if _, err := r.Run(ctx, "aaaa\nbbbb\n"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
