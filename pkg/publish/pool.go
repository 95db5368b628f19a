package publish

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"encyc-sync/pkg/domain"
)

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeUpdated
	outcomeUnpublished
)

// result is what one worker reports back for one key.
type result struct {
	key     string
	outcome outcome
	stage   string
	err     error
}

// runPool pushes keys through process on a fixed number of workers and
// folds the results into the report. One failed key never stops the
// others; the wiki session lives in the shared client's cookie jar so
// all workers reuse it.
func (p *Publisher) runPool(
	ctx context.Context,
	keys []string,
	workers int,
	process func(ctx context.Context, key string) result,
	report *domain.RunReport,
) {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan string, len(keys))
	for _, key := range keys {
		jobs <- key
	}
	close(jobs)

	results := make(chan result, len(keys))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				select {
				case <-ctx.Done():
					results <- result{key: key, stage: domain.StageFetch, err: ctx.Err()}
					continue
				default:
				}
				results <- process(ctx, key)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// single aggregator, so the report needs no locking
	for r := range results {
		if r.err != nil {
			p.log.Error("key failed",
				zap.String("key", r.key),
				zap.String("stage", r.stage),
				zap.Error(r.err))
			report.AddFailure(r.key, r.stage, r.err)
			continue
		}
		switch r.outcome {
		case outcomeCreated:
			report.Created++
		case outcomeUpdated:
			report.Updated++
		case outcomeUnpublished:
			report.AddUnpublishable(r.key)
		}
	}
}
