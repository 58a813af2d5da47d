package provider

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/semtree/pkg/decorate"
	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/treeio"
	"github.com/matzehuels/semtree/pkg/walker"
)

// Provider converts concepts of one open source. It holds no per-conversion
// state and is safe for concurrent use when the source is.
type Provider struct {
	src      semantic.Source
	name     string
	registry *Registry
	diag     Diagnostics
	logger   *log.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithRegistry sets the variant registry used by ConvertMap.
func WithRegistry(r *Registry) Option { return func(p *Provider) { p.registry = r } }

// WithDiagnostics sets the diagnostics callback.
func WithDiagnostics(d Diagnostics) Option { return func(p *Provider) { p.diag = d } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(p *Provider) { p.logger = l } }

// New returns a provider over src. The name identifies the source in results
// and cache keys; use the URI the source was opened from.
func New(src semantic.Source, name string, opts ...Option) *Provider {
	p := &Provider{
		src:      src,
		name:     name,
		registry: Builtin(),
		diag:     NopDiagnostics{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the source name.
func (p *Provider) Name() string { return p.name }

// Source returns the underlying source.
func (p *Provider) Source() semantic.Source { return p.src }

// Registry returns the variant registry.
func (p *Provider) Registry() *Registry { return p.registry }

// Scheme returns the link scheme for cfg: the configured one, else the
// source's own, else decorate.DefaultScheme.
func (p *Provider) Scheme(cfg Config) string {
	if cfg.Scheme != "" {
		return cfg.Scheme
	}
	if s := SchemeOf(p.src); s != "" {
		return s
	}
	return decorate.DefaultScheme
}

// ConvertMap decodes a configuration map and converts root.
func (p *Provider) ConvertMap(ctx context.Context, root string, raw map[string]any) *Result {
	cfg, unused, err := DecodeConfig(raw, p.registry)
	if err != nil {
		return p.failed(root, Config{}, newCollector(p.diag), time.Now(), err)
	}
	if len(unused) > 0 {
		p.logger.Debug("ignoring unknown config keys", "keys", unused)
	}
	return p.Convert(ctx, root, cfg)
}

// Convert converts the concept root into a display tree. It never panics and
// never returns nil.
func (p *Provider) Convert(ctx context.Context, root string, cfg Config) (res *Result) {
	start := time.Now()
	diag := newCollector(p.diag)

	defer func() {
		if r := recover(); r != nil {
			res = p.failed(root, cfg, diag, start, errors.New(errors.ErrCodeInternal, "conversion panicked: %v", r))
		}
	}()

	if err := errors.ValidateConceptID(root); err != nil {
		return p.failed(root, cfg, diag, start, err)
	}

	cfg, notes := cfg.Correct()
	for _, n := range notes {
		p.logger.Debug("corrected config", "note", n)
		diag.Info(n)
	}

	table := decorate.NewTable()
	groupImage := table.Position(decorate.Index{Role: decorate.RoleGroup})
	w := walker.New(p.src, cfg.WalkerConfig(groupImage),
		walker.WithDecorator(table),
		walker.WithLinker(decorate.NewSchemeLinker(p.Scheme(cfg))),
		walker.WithDiagnostics(diag),
		walker.WithLogger(p.logger),
	)

	diag.Progress(fmt.Sprintf("converting %s from %s", root, p.name), false)
	t, rep, err := w.Build(ctx, root)
	if err != nil {
		return p.failed(root, cfg, diag, start, err)
	}

	res = &Result{
		ID:       uuid.NewString(),
		Source:   p.name,
		Root:     root,
		Status:   statusOf(rep),
		Tree:     t,
		Images:   table.Images(),
		Settings: cfg.Settings,
		Config:   cfg,
		Report:   rep,
		Duration: time.Since(start),
	}
	if res.Status == StatusPartial {
		diag.Info(fmt.Sprintf("%d unresolved targets skipped", len(rep.Skipped)))
	}
	diag.Progress(fmt.Sprintf("converted %s: %d nodes", root, t.Len()), false)
	res.Messages = diag.messages()
	p.logger.Debug("conversion finished", "id", res.ID, "root", root, "status", res.Status,
		"nodes", t.Len(), "duration", res.Duration)
	return res
}

// cached builds a result from a cached document. Display settings come from
// cfg, since they are not part of the tree.
func (p *Provider) cached(root string, cfg Config, doc treeio.Document) *Result {
	return &Result{
		ID:       uuid.NewString(),
		Source:   p.name,
		Root:     root,
		Status:   statusOf(doc.Report),
		Tree:     doc.Tree,
		Images:   doc.Images,
		Settings: cfg.Settings,
		Config:   cfg,
		Report:   doc.Report,
		CacheHit: true,
	}
}

func (p *Provider) failed(root string, cfg Config, diag *collector, start time.Time, err error) *Result {
	diag.Progress(fmt.Sprintf("conversion of %s failed: %s", root, errors.UserMessage(err)), true)
	return &Result{
		ID:       uuid.NewString(),
		Source:   p.name,
		Root:     root,
		Status:   StatusFailed,
		Settings: cfg.Settings,
		Config:   cfg,
		Messages: diag.messages(),
		Err:      err,
		Duration: time.Since(start),
	}
}

// Convert is the one-shot provider contract: it opens uri, decodes raw,
// converts root and closes the source. Failures, including an unavailable
// source, are reported through the result.
func Convert(ctx context.Context, uri, root string, raw map[string]any, diag Diagnostics) *Result {
	src, err := Open(ctx, uri)
	if err != nil {
		p := New(nil, uri, WithDiagnostics(diag))
		return p.failed(root, Config{}, newCollector(p.diag), time.Now(), err)
	}
	defer src.Close()
	return New(src, uri, WithDiagnostics(diag)).ConvertMap(ctx, root, raw)
}
