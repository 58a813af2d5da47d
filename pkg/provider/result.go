package provider

import (
	"time"

	"github.com/matzehuels/semtree/pkg/errors"
	"github.com/matzehuels/semtree/pkg/tree"
	"github.com/matzehuels/semtree/pkg/treeio"
	"github.com/matzehuels/semtree/pkg/walker"
)

// Status is the outcome of a conversion.
type Status int

const (
	// StatusSuccess means every target resolved.
	StatusSuccess Status = iota
	// StatusPartial means a tree was produced but some targets were skipped.
	StatusPartial
	// StatusFailed means no tree was produced.
	StatusFailed
)

var statusNames = [...]string{"success", "partial", "failed"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Result is the typed outcome of one conversion. Tree is nil when the status
// is StatusFailed, and Err is nil otherwise.
type Result struct {
	ID       string        // Unique conversion ID
	Source   string        // Source the tree was converted from
	Root     string        // Root concept ID
	Status   Status        //
	Tree     *tree.Tree    // Display tree, owned by the caller
	Images   []string      // Image names by index
	Settings Settings      // Display settings for the renderer
	Config   Config        // Corrected configuration
	Report   walker.Report // What the conversion left out
	Messages []Message     // Diagnostics in emission order
	Err      error         // Failure cause
	CacheHit bool          // Tree was served from the tree cache
	Duration time.Duration //
}

// OK reports whether a tree was produced.
func (r *Result) OK() bool { return r.Status != StatusFailed }

// Code returns the error code of a failed result, or "".
func (r *Result) Code() errors.Code {
	if r.Err == nil {
		return ""
	}
	return errors.GetCode(r.Err)
}

// Document returns the tree with its rendering context.
func (r *Result) Document() treeio.Document {
	return treeio.Document{Tree: r.Tree, Settings: r.Settings, Images: r.Images, Report: r.Report}
}

func statusOf(rep walker.Report) Status {
	if rep.Partial() {
		return StatusPartial
	}
	return StatusSuccess
}
