package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sitelens/sitelens/capture"
	"github.com/sitelens/sitelens/catalog"
)

func batchItems(urls ...string) []Item {
	items := make([]Item, 0, len(urls))
	for _, u := range urls {
		items = append(items, Item{Input: capture.URLInput(u), Meta: catalog.Metadata{Title: u}})
	}
	return items
}

func TestRun_ProcessesInOrder(t *testing.T) {
	p, capt, _, _, _ := testPipeline(t, nil)

	results := p.Run(context.Background(), batchItems("https://a.test", "https://b.test", "https://c.test"))

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	// Strictly sequential, strictly FIFO.
	for i, want := range []string{"https://a.test", "https://b.test", "https://c.test"} {
		if capt.calls[i].URL != want {
			t.Errorf("call %d = %q, want %q", i, capt.calls[i].URL, want)
		}
		if results[i].Example.URL != want {
			t.Errorf("result %d = %q, want %q", i, results[i].Example.URL, want)
		}
	}
}

func TestRun_FailedItemIsSkippedNotFatal(t *testing.T) {
	// WHAT: A mid-batch failure drops that item and nothing else.
	// WHY: One broken site must not cost the rest of an industry run.
	p, capt, an, _, st := testPipeline(t, nil)
	an.failOn = map[int]error{2: errors.New("model refused")}

	results := p.Run(context.Background(), batchItems("https://a.test", "https://b.test", "https://c.test"))

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Example.URL != "https://a.test" || results[1].Example.URL != "https://c.test" {
		t.Errorf("results = [%s, %s]", results[0].Example.URL, results[1].Example.URL)
	}
	// The failing item was still attempted.
	if len(capt.calls) != 3 {
		t.Errorf("capture calls = %d, want 3", len(capt.calls))
	}
	if len(st.created) != 2 {
		t.Errorf("stored = %d, want 2", len(st.created))
	}
}

func TestRun_AllItemsFail(t *testing.T) {
	p, _, an, _, _ := testPipeline(t, nil)
	an.failOn = map[int]error{1: errors.New("x"), 2: errors.New("y")}

	results := p.Run(context.Background(), batchItems("https://a.test", "https://b.test"))
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	p, _, _, _, _ := testPipeline(t, nil)
	if results := p.Run(context.Background(), nil); len(results) != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestRun_DelayBetweenItemsOnly(t *testing.T) {
	const delay = 30 * time.Millisecond
	p, _, _, _, _ := testPipeline(t, func(cfg *Config) { cfg.Delay = delay })

	start := time.Now()
	p.Run(context.Background(), batchItems("https://a.test", "https://b.test", "https://c.test"))
	elapsed := time.Since(start)

	// Two gaps for three items; no trailing sleep.
	if elapsed < 2*delay {
		t.Errorf("elapsed = %v, want at least %v", elapsed, 2*delay)
	}
	if elapsed > 10*delay {
		t.Errorf("elapsed = %v, suspiciously long for two gaps", elapsed)
	}
}

func TestRun_CancelStopsScheduling(t *testing.T) {
	p, capt, _, _, _ := testPipeline(t, func(cfg *Config) { cfg.Delay = 10 * time.Millisecond })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := p.Run(ctx, batchItems("https://a.test", "https://b.test"))
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
	if len(capt.calls) != 0 {
		t.Errorf("capture calls = %d, want 0 after pre-cancel", len(capt.calls))
	}
}
