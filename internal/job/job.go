// Package job runs a translation end to end: split the source under the
// chunk budget, translate each chunk in order, reassemble the outputs.
// Chunks are processed sequentially so partial progress is meaningful and
// the upstream rate gate stays effective.
package job

import (
	"context"
	"fmt"
	"time"

	"transmate/internal/chunk"
	"transmate/internal/progress"
	"transmate/internal/prompt"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TransformFunc turns one prompt into model output.
type TransformFunc func(ctx context.Context, promptText string) (string, error)

// Runner executes translation jobs with a fixed budget and prompt options.
type Runner struct {
	Budget     int
	Prompt     prompt.Options
	Transform  TransformFunc
	OnProgress func(progress.Event)
}

// Result is the outcome of a completed job.
type Result struct {
	JobID    string `json:"job_id"`
	Output   string `json:"output"`
	Chunks   int    `json:"chunks"`
	Duration string `json:"duration"`
}

func (r *Runner) publish(ev progress.Event) {
	if r.OnProgress != nil {
		r.OnProgress(ev)
	}
}

// Run translates text. The first failing chunk fails the whole job; outputs
// produced so far are discarded rather than returned half-assembled.
func (r *Runner) Run(ctx context.Context, text string) (Result, error) {
	jobID := uuid.NewString()
	start := time.Now()

	chunks, err := chunk.Split(text, r.Budget)
	if err != nil {
		return Result{JobID: jobID}, err
	}
	total := len(chunks)

	logger := log.WithFields(log.Fields{
		"job_id": jobID,
		"chunks": total,
		"prompt": r.Prompt.Summary(),
	})
	logger.Info("translation job started")

	for i := 1; i <= total; i++ {
		r.publish(progress.Event{JobID: jobID, Chunk: i, Total: total, State: progress.StateQueued})
	}

	outputs := make([]string, 0, total)
	for i, piece := range chunks {
		if err := ctx.Err(); err != nil {
			return Result{JobID: jobID}, err
		}
		r.publish(progress.Event{JobID: jobID, Chunk: i + 1, Total: total, State: progress.StateTranslating})

		out, err := r.Transform(ctx, r.Prompt.Build(piece))
		if err != nil {
			r.publish(progress.Event{JobID: jobID, Chunk: i + 1, Total: total, State: progress.StateFailed, Error: err.Error()})
			logger.WithField("chunk", i+1).WithError(err).Warn("translation job failed")
			return Result{JobID: jobID}, fmt.Errorf("chunk %d/%d: %w", i+1, total, err)
		}
		outputs = append(outputs, out)
		r.publish(progress.Event{JobID: jobID, Chunk: i + 1, Total: total, State: progress.StateDone})
	}

	elapsed := time.Since(start)
	logger.WithField("elapsed_ms", elapsed.Milliseconds()).Info("translation job finished")

	return Result{
		JobID:    jobID,
		Output:   chunk.Reassemble(outputs),
		Chunks:   total,
		Duration: elapsed.Round(time.Millisecond).String(),
	}, nil
}
