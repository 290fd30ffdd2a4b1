package profile

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/happykids/kidsdiag/internal/games"
)

// RecordSource supplies a child's game history, oldest first.
type RecordSource interface {
	RecordsFor(ctx context.Context, childID string, limit int) ([]games.Record, error)
}

// Outcome is the result of one child in a batch.
type Outcome struct {
	Subject Subject
	Report  *Report
	Err     error
}

// BuildAll computes reports for every subject using at most workers
// goroutines. Outcomes keep the order of subjects. Per-child failures are
// reported in the outcome; only cancellation aborts the batch.
func (e *Engine) BuildAll(ctx context.Context, src RecordSource, subjects []Subject, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]Outcome, len(subjects))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(workers, max(len(subjects), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				s := subjects[i]
				out[i].Subject = s
				records, err := src.RecordsFor(ctx, s.ID, e.cfg.MaxRecords)
				if err != nil {
					out[i].Err = fmt.Errorf("load records for %s: %w", s.ID, err)
					continue
				}
				out[i].Report = e.BuildFor(s, records)
			}
		}()
	}

	var err error
feed:
	for i := range subjects {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	return out, err
}
