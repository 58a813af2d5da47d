package provider

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/observability"
	"github.com/matzehuels/semtree/pkg/treeio"
)

type countingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets atomic.Int32
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string)      { h.hits.Add(1) }
func (h *countingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses.Add(1) }
func (h *countingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets.Add(1) }

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	return NewRunner(fc, nil, log.New(io.Discard))
}

func TestRunnerCachesSuccessfulTrees(t *testing.T) {
	hooks := &countingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := newTestRunner(t)
	p := New(openMini(t), "mini")
	ctx := context.Background()

	first := r.Convert(ctx, p, "n02084071", DefaultConfig(), false)
	if first.Status != StatusSuccess || first.CacheHit {
		t.Fatalf("first = %s, cache hit %v", first.Status, first.CacheHit)
	}

	cfg := DefaultConfig()
	cfg.Settings.SweepFactor = 3
	second := r.Convert(ctx, p, "n02084071", cfg, false)
	if !second.CacheHit {
		t.Fatal("second conversion should be served from the cache")
	}
	if second.Settings.SweepFactor != 3 {
		t.Errorf("SweepFactor = %v, want settings from the request", second.Settings.SweepFactor)
	}
	if second.ID == first.ID {
		t.Error("cached result should get its own ID")
	}
	if second.Tree == first.Tree {
		t.Error("cached result must not share the tree")
	}

	a, _ := treeio.Marshal(treeio.Document{Tree: first.Tree, Images: first.Images})
	b, _ := treeio.Marshal(treeio.Document{Tree: second.Tree, Images: second.Images})
	if diff := cmp.Diff(string(a), string(b)); diff != "" {
		t.Errorf("cached tree differs (-first +second):\n%s", diff)
	}

	refreshed := r.Convert(ctx, p, "n02084071", DefaultConfig(), true)
	if refreshed.CacheHit {
		t.Error("refresh must bypass the cache")
	}

	if hooks.hits.Load() != 1 || hooks.misses.Load() != 1 || hooks.sets.Load() != 2 {
		t.Errorf("hits/misses/sets = %d/%d/%d, want 1/1/2",
			hooks.hits.Load(), hooks.misses.Load(), hooks.sets.Load())
	}
}

func TestRunnerKeysOnStructure(t *testing.T) {
	r := newTestRunner(t)
	p := New(openMini(t), "mini")
	ctx := context.Background()

	r.Convert(ctx, p, "n02084071", DefaultConfig(), false)
	cfg := DefaultConfig()
	cfg.MaxRecurse = 1
	if res := r.Convert(ctx, p, "n02084071", cfg, false); res.CacheHit {
		t.Error("a different recursion depth must not hit the cache")
	}
}

func TestRunnerDoesNotCacheFailures(t *testing.T) {
	r := newTestRunner(t)
	p := New(openMini(t), "mini")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res := r.Convert(ctx, p, "n00000000", DefaultConfig(), false)
		if res.CacheHit || res.Status != StatusFailed {
			t.Fatalf("attempt %d: status %s, cache hit %v", i, res.Status, res.CacheHit)
		}
	}
}

type countingConvertHooks struct {
	observability.NoopConvertHooks
	started, completed atomic.Int32
}

func (h *countingConvertHooks) OnConvertStart(context.Context, string, string) { h.started.Add(1) }
func (h *countingConvertHooks) OnConvertComplete(context.Context, string, string, int, time.Duration, error) {
	h.completed.Add(1)
}

func TestRunnerConvertMany(t *testing.T) {
	hooks := &countingConvertHooks{}
	observability.SetConvertHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, log.New(io.Discard))
	p := New(openMini(t), "mini")
	roots := []string{"n02084071", "n02083346", "missing", "n02075296", "n01317541"}

	results := r.ConvertMany(context.Background(), p, roots, DefaultConfig(), false, 2)
	if len(results) != len(roots) {
		t.Fatalf("got %d results, want %d", len(results), len(roots))
	}
	for i, res := range results {
		if res.Root != roots[i] {
			t.Errorf("results[%d].Root = %s, want %s", i, res.Root, roots[i])
		}
		wantOK := roots[i] != "missing"
		if res.OK() != wantOK {
			t.Errorf("results[%d].OK() = %v, want %v", i, res.OK(), wantOK)
		}
	}
	if hooks.started.Load() != 5 || hooks.completed.Load() != 5 {
		t.Errorf("started/completed = %d/%d, want 5/5", hooks.started.Load(), hooks.completed.Load())
	}
}
