package ingest

import (
	"context"
	"time"
)

// Run processes items strictly in input order, one at a time. A failed
// item is logged and skipped; the batch itself never fails. Between two
// items the runner waits the configured delay — deliberate backpressure
// against the model provider's rate limit, not an accident.
//
// Cancelling ctx stops scheduling new items; the item in flight runs to
// completion because the browser and model calls carry their own
// bounded timeouts and expose no interruption midway.
//
// The returned slice holds the successful results in input order;
// failures appear only in the log.
func (p *Pipeline) Run(ctx context.Context, items []Item) []Result {
	log := p.cfg.Logger
	results := make([]Result, 0, len(items))
	failed := 0

	for i, item := range items {
		if ctx.Err() != nil {
			log.Warn("ingest: batch cancelled",
				"processed", i, "remaining", len(items)-i)
			break
		}

		log.Info("ingest: processing item", "index", i+1, "total", len(items))

		res, err := p.Process(ctx, item)
		if err != nil {
			failed++
			log.Error("ingest: item failed",
				"index", i+1, "url", item.Input.URL, "title", item.Meta.Title, "error", err)
		} else {
			results = append(results, *res)
		}

		// Sleep only between items, never after the last.
		if i < len(items)-1 {
			select {
			case <-time.After(p.cfg.Delay):
			case <-ctx.Done():
			}
		}
	}

	log.Info("ingest: batch complete",
		"succeeded", len(results), "failed", failed, "total", len(items))
	return results
}
