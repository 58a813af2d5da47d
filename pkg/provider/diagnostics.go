package provider

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/semtree/pkg/walker"
)

// Severity classifies a diagnostic message.
type Severity string

// Severities.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityProgress Severity = "progress"
)

// Diagnostics receives messages during a conversion. Implementations shared
// between concurrent conversions must be safe for concurrent use.
type Diagnostics interface {
	walker.Diagnostics
	Progress(msg string, failed bool)
}

// Message is a collected diagnostic.
type Message struct {
	Severity Severity `json:"severity"`
	Text     string   `json:"text"`
	Failed   bool     `json:"failed,omitempty"`
}

// NopDiagnostics discards all messages.
type NopDiagnostics struct{ walker.NopDiagnostics }

func (NopDiagnostics) Progress(string, bool) {}

// LogDiagnostics writes messages to a logger.
type LogDiagnostics struct {
	Logger *log.Logger
}

// NewLogDiagnostics returns diagnostics that log to l, or to the default
// logger when l is nil.
func NewLogDiagnostics(l *log.Logger) LogDiagnostics {
	if l == nil {
		l = log.Default()
	}
	return LogDiagnostics{Logger: l}
}

func (d LogDiagnostics) Info(msg string) { d.Logger.Info(msg) }
func (d LogDiagnostics) Warn(msg string) { d.Logger.Warn(msg) }

func (d LogDiagnostics) Progress(msg string, failed bool) {
	if failed {
		d.Logger.Error(msg)
		return
	}
	d.Logger.Debug(msg)
}

// collector records messages for the result and forwards them.
type collector struct {
	mu   sync.Mutex
	msgs []Message
	next Diagnostics
}

func newCollector(next Diagnostics) *collector {
	if next == nil {
		next = NopDiagnostics{}
	}
	return &collector{next: next}
}

func (c *collector) add(m Message) {
	c.mu.Lock()
	c.msgs = append(c.msgs, m)
	c.mu.Unlock()
}

func (c *collector) Info(msg string) {
	c.add(Message{Severity: SeverityInfo, Text: msg})
	c.next.Info(msg)
}

func (c *collector) Warn(msg string) {
	c.add(Message{Severity: SeverityWarning, Text: msg})
	c.next.Warn(msg)
}

func (c *collector) Progress(msg string, failed bool) {
	c.add(Message{Severity: SeverityProgress, Text: msg, Failed: failed})
	c.next.Progress(msg, failed)
}

func (c *collector) messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.msgs...)
}

var (
	_ Diagnostics = NopDiagnostics{}
	_ Diagnostics = LogDiagnostics{}
	_ Diagnostics = (*collector)(nil)
)
