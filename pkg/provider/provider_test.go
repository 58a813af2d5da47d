package provider

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/semantic"
	"github.com/matzehuels/semtree/pkg/tree"
)

var miniPath = filepath.Join("..", "semantic", "testdata", "mini.toml")

func openMini(t *testing.T) *semantic.MemorySource {
	t.Helper()
	src, err := semantic.OpenFile(miniPath)
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	return src
}

// recordingDiagnostics keeps every message it receives.
type recordingDiagnostics struct {
	mu   sync.Mutex
	msgs []Message
}

func (d *recordingDiagnostics) record(m Message) {
	d.mu.Lock()
	d.msgs = append(d.msgs, m)
	d.mu.Unlock()
}

func (d *recordingDiagnostics) Info(msg string) { d.record(Message{Severity: SeverityInfo, Text: msg}) }
func (d *recordingDiagnostics) Warn(msg string) {
	d.record(Message{Severity: SeverityWarning, Text: msg})
}
func (d *recordingDiagnostics) Progress(msg string, failed bool) {
	d.record(Message{Severity: SeverityProgress, Text: msg, Failed: failed})
}

func countSeverity(msgs []Message, s Severity) int {
	n := 0
	for _, m := range msgs {
		if m.Severity == s {
			n++
		}
	}
	return n
}

func TestProviderConvert(t *testing.T) {
	diag := &recordingDiagnostics{}
	p := New(openMini(t), miniPath, WithDiagnostics(diag))

	res := p.Convert(context.Background(), "n02084071", DefaultConfig())
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %s, want success (err %v)", res.Status, res.Err)
	}
	if !res.OK() || res.Err != nil || res.Code() != "" {
		t.Errorf("OK() = %v, Err = %v", res.OK(), res.Err)
	}
	if res.ID == "" || res.Source != miniPath || res.Root != "n02084071" {
		t.Errorf("identity = %q %q %q", res.ID, res.Source, res.Root)
	}
	if err := res.Tree.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	root := res.Tree.Root()
	if root.Label != "dog" {
		t.Errorf("root label = %q, want dog", root.Label)
	}
	if root.Link != "wordnet:n02084071" {
		t.Errorf("root link = %q, want the source scheme", root.Link)
	}
	if got := res.Tree.CountKind(tree.KindConcept); got != 4 {
		t.Errorf("concept nodes = %d, want 4", got)
	}
	if got := res.Tree.CountKind(tree.KindRelation); got != 2 {
		t.Errorf("relation nodes = %d, want 2", got)
	}
	if len(res.Images) == 0 || res.Images[0] != "group" {
		t.Errorf("Images = %v, want group first", res.Images)
	}

	if got := countSeverity(diag.msgs, SeverityProgress); got != 2 {
		t.Errorf("progress messages = %d, want 2", got)
	}
	if len(res.Messages) != len(diag.msgs) {
		t.Errorf("result has %d messages, diagnostics saw %d", len(res.Messages), len(diag.msgs))
	}
}

func TestProviderConvertPartial(t *testing.T) {
	doc := &semantic.Document{Concepts: []semantic.Concept{
		{ID: "a", Members: []string{"alpha"}, Relations: []semantic.Relation{
			{Kind: semantic.Hypernym, Targets: []string{"b", "gone"}},
		}},
		{ID: "b", Members: []string{"beta"}},
	}}
	src, err := semantic.NewMemorySource(doc)
	if err != nil {
		t.Fatal(err)
	}

	res := New(src, "mem").Convert(context.Background(), "a", DefaultConfig())
	if res.Status != StatusPartial {
		t.Fatalf("Status = %s, want partial", res.Status)
	}
	if !res.OK() || res.Tree == nil {
		t.Error("partial result must carry a tree")
	}
	if len(res.Report.Skipped) != 1 || res.Report.Skipped[0] != "gone" {
		t.Errorf("Skipped = %v, want [gone]", res.Report.Skipped)
	}
	if countSeverity(res.Messages, SeverityWarning) != 1 || countSeverity(res.Messages, SeverityInfo) != 1 {
		t.Errorf("Messages = %+v", res.Messages)
	}
	if res.Tree.Root().Link != "concept:a" {
		t.Errorf("root link = %q, want default scheme", res.Tree.Root().Link)
	}
}

func TestProviderConvertFailures(t *testing.T) {
	p := New(openMini(t), "mini")
	tests := []struct {
		name string
		root string
		code errors.Code
	}{
		{"missing root", "n00000000", errors.ErrCodeNotFound},
		{"empty root", "", errors.ErrCodeInvalidInput},
		{"whitespace", "a b", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := p.Convert(context.Background(), tt.root, DefaultConfig())
			if res.Status != StatusFailed || res.OK() || res.Tree != nil {
				t.Fatalf("Status = %s, want failed without tree", res.Status)
			}
			if res.Code() != tt.code {
				t.Errorf("Code() = %s, want %s", res.Code(), tt.code)
			}
			last := res.Messages[len(res.Messages)-1]
			if last.Severity != SeverityProgress || !last.Failed {
				t.Errorf("last message = %+v, want failed progress", last)
			}
		})
	}
}

func TestProviderConvertCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := New(openMini(t), "mini").Convert(ctx, "n02084071", DefaultConfig())
	if res.Code() != errors.ErrCodeSourceUnavailable {
		t.Errorf("Code() = %s, want %s", res.Code(), errors.ErrCodeSourceUnavailable)
	}
}

type panicSource struct{}

func (panicSource) Lookup(context.Context, string) (*semantic.Concept, error) { panic("boom") }
func (panicSource) Close() error                                              { return nil }

func TestProviderConvertRecoversPanics(t *testing.T) {
	res := New(panicSource{}, "panic").Convert(context.Background(), "x", DefaultConfig())
	if res.Code() != errors.ErrCodeInternal {
		t.Errorf("Code() = %s, want %s", res.Code(), errors.ErrCodeInternal)
	}
}

func TestProviderConvertMap(t *testing.T) {
	p := New(openMini(t), "mini")
	res := p.ConvertMap(context.Background(), "n02084071", map[string]any{
		"variant":    "compact",
		"maxRecurse": 1,
		"relations":  "hypernym,part-meronym",
		"sweep":      2,
		"unknownKey": true,
	})
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %s (err %v)", res.Status, res.Err)
	}
	if res.Config.Variant != "compact" || res.Config.MaxRecurse != 1 {
		t.Errorf("Config = %+v", res.Config)
	}
	if res.Settings.SweepFactor != 2 {
		t.Errorf("SweepFactor = %v, want 2", res.Settings.SweepFactor)
	}
	if res.Tree.CountKind(tree.KindRelation) != 0 {
		t.Error("compact variant must not produce relation nodes")
	}
	if !strings.Contains(res.Tree.Root().Label, "Canis familiaris") {
		t.Errorf("root label = %q, want merged members", res.Tree.Root().Label)
	}

	bad := p.ConvertMap(context.Background(), "n02084071", map[string]any{"features": "sparkle"})
	if bad.Code() != errors.ErrCodeInvalidConfig {
		t.Errorf("Code() = %s, want %s", bad.Code(), errors.ErrCodeInvalidConfig)
	}
}

func TestProviderReportsCorrections(t *testing.T) {
	diag := &recordingDiagnostics{}
	p := New(openMini(t), "mini", WithDiagnostics(diag))
	res := p.ConvertMap(context.Background(), "n02084071", map[string]any{"maxLinks": -1})
	if res.Status != StatusSuccess {
		t.Fatalf("Status = %s (err %v)", res.Status, res.Err)
	}
	if res.Config.MaxLinks <= 0 {
		t.Errorf("MaxLinks = %d, want corrected", res.Config.MaxLinks)
	}
	var found bool
	for _, m := range res.Messages {
		if m.Severity == SeverityInfo && strings.Contains(m.Text, "maxLinks -1 out of range") {
			found = true
		}
	}
	if !found {
		t.Errorf("Messages = %+v, want an info note for maxLinks", res.Messages)
	}
	if len(diag.msgs) != len(res.Messages) {
		t.Errorf("diagnostics saw %d messages, result has %d", len(diag.msgs), len(res.Messages))
	}
}

func TestProviderScheme(t *testing.T) {
	p := New(openMini(t), "mini")
	if got := p.Scheme(DefaultConfig()); got != "wordnet" {
		t.Errorf("Scheme() = %q, want wordnet", got)
	}
	cfg := DefaultConfig()
	cfg.Scheme = "wn"
	if got := p.Scheme(cfg); got != "wn" {
		t.Errorf("Scheme() = %q, want wn", got)
	}
}

func TestConvertOneShot(t *testing.T) {
	abs, err := filepath.Abs(miniPath)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		uri  string
		code errors.Code
	}{
		{"path", miniPath, ""},
		{"file uri", "file://" + abs, ""},
		{"missing file", filepath.Join(t.TempDir(), "none.json"), errors.ErrCodeSourceUnavailable},
		{"bad scheme", "ftp://host/graph", errors.ErrCodeInvalidSource},
		{"empty", "", errors.ErrCodeInvalidSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Convert(context.Background(), tt.uri, "n02084071", nil, nil)
			if res.Code() != tt.code {
				t.Errorf("Code() = %q, want %q (err %v)", res.Code(), tt.code, res.Err)
			}
			if (tt.code == "") != res.OK() {
				t.Errorf("OK() = %v", res.OK())
			}
		})
	}
}

func TestOpenInvalidDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("concepts:\n  - members: [orphan]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(context.Background(), path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Open() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}
