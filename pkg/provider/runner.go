package provider

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/observability"
	"github.com/matzehuels/semtree/pkg/treeio"
)

// DefaultConcurrency bounds ConvertMany when no limit is given.
const DefaultConcurrency = 8

// Runner wraps conversions with the tree cache and observability hooks.
// Both CLI and server use it so that caching behaves the same everywhere.
//
// The Runner keeps no conversion results; multiple goroutines can use the
// same Runner. Cached trees are stored serialized, so every hit returns a
// tree the caller owns.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// the default keyer and a nil logger the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Convert serves root from the tree cache or converts it with p. Only
// successful conversions are cached; partial trees are recomputed so that
// a repaired source is picked up. Set refresh to bypass the cache lookup.
func (r *Runner) Convert(ctx context.Context, p *Provider, root string, cfg Config, refresh bool) *Result {
	hooks := observability.Convert()
	hooks.OnConvertStart(ctx, p.Name(), root)

	corrected, _ := cfg.Correct()
	key := r.Keyer.TreeKey(p.Name(), root, corrected.KeyOpts(p.Scheme(corrected)))

	if !refresh {
		if res, ok := r.fromCache(ctx, key, p, root, corrected); ok {
			hooks.OnConvertComplete(ctx, p.Name(), root, res.Tree.Len(), res.Duration, nil)
			return res
		}
	}

	res := p.Convert(ctx, root, cfg)
	nodes := 0
	if res.Tree != nil {
		nodes = res.Tree.Len()
	}
	hooks.OnConvertComplete(ctx, p.Name(), root, nodes, res.Duration, res.Err)

	switch res.Status {
	case StatusSuccess:
		r.Logger.Info("converted", "root", root, "nodes", nodes, "duration", res.Duration)
		r.store(ctx, key, res)
	case StatusPartial:
		r.Logger.Warn("converted with skipped targets", "root", root, "nodes", nodes, "skipped", len(res.Report.Skipped))
	default:
		r.Logger.Error("conversion failed", "root", root, "err", res.Err)
	}
	return res
}

func (r *Runner) fromCache(ctx context.Context, key string, p *Provider, root string, cfg Config) (*Result, bool) {
	start := time.Now()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "tree")
		return nil, false
	}
	doc, err := treeio.Unmarshal(data)
	if err != nil {
		r.Logger.Debug("discarding unreadable cached tree", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "tree")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "tree")
	r.Logger.Debug("tree cache hit", "root", root, "nodes", doc.Tree.Len())

	res := p.cached(root, cfg, doc)
	res.Duration = time.Since(start)
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := treeio.Marshal(res.Document())
	if err != nil {
		r.Logger.Debug("tree not cached", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLTree); err != nil {
		r.Logger.Debug("tree not cached", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "tree", len(data))
}

// ConvertMany converts several roots concurrently, at most limit at a time
// (DefaultConcurrency if limit <= 0). Results are in the order of roots and
// each owns its own tree.
func (r *Runner) ConvertMany(ctx context.Context, p *Provider, roots []string, cfg Config, refresh bool, limit int) []*Result {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	results := make([]*Result, len(roots))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, root := range roots {
		g.Go(func() error {
			results[i] = r.Convert(ctx, p, root, cfg, refresh)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
