package walker

// Diagnostics receives non-fatal messages during a conversion.
type Diagnostics interface {
	Info(msg string)
	Warn(msg string)
}

// NopDiagnostics discards all messages.
type NopDiagnostics struct{}

func (NopDiagnostics) Info(string) {}
func (NopDiagnostics) Warn(string) {}

// Report summarizes what a conversion left out.
type Report struct {
	Lookups   int      `json:"lookups"`           // Concepts resolved
	Skipped   []string `json:"skipped,omitempty"` // Dangling target IDs, in encounter order
	Cycles    int      `json:"cycles"`            // Targets skipped because they were already on the path
	Truncated int      `json:"truncated"`         // Truncation markers emitted
	Omitted   int      `json:"omitted"`           // Children summarized by truncation markers
	Mounts    int      `json:"mounts"`            // Nodes tagged for deferred expansion
}

// Partial reports whether targets were dropped because they did not resolve.
// Truncation, depth limits and cycles are deliberate and do not count.
func (r Report) Partial() bool { return len(r.Skipped) > 0 }

// Path is the set of concept IDs from the root down to the concept being
// expanded.
type Path map[string]bool

// Contains reports whether id is on the path.
func (p Path) Contains(id string) bool { return p[id] }

// Push adds id to the path.
func (p Path) Push(id string) { p[id] = true }

// Pop removes id from the path.
func (p Path) Pop(id string) { delete(p, id) }
