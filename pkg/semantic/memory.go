package semantic

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemorySource is an in-memory Source built from a Document.
// It is safe for concurrent lookups.
type MemorySource struct {
	name     string
	scheme   string
	roots    []string
	order    []string
	concepts map[string]*Concept
	mu       sync.RWMutex
}

// NewMemorySource indexes the concepts of doc.
func NewMemorySource(doc *Document) (*MemorySource, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	s := &MemorySource{
		name:     doc.Name,
		scheme:   doc.Scheme,
		roots:    slices.Clone(doc.Roots),
		concepts: make(map[string]*Concept, len(doc.Concepts)),
	}
	for i := range doc.Concepts {
		c := doc.Concepts[i].Clone()
		s.concepts[c.ID] = c
		s.order = append(s.order, c.ID)
	}
	return s, nil
}

// OpenFile loads a JSON, TOML or YAML document into a MemorySource.
func OpenFile(path string) (*MemorySource, error) {
	doc, err := ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	return NewMemorySource(doc)
}

// Lookup returns a copy of the concept with the given ID.
func (s *MemorySource) Lookup(ctx context.Context, id string) (*Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.concepts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.Clone(), nil
}

// Put adds or replaces a concept.
func (s *MemorySource) Put(c *Concept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.concepts[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.concepts[c.ID] = c.Clone()
}

// IDs returns all concept IDs in document order.
func (s *MemorySource) IDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order), nil
}

// Roots returns the suggested entry points declared by the document.
func (s *MemorySource) Roots() []string { return slices.Clone(s.roots) }

// Name returns the document name.
func (s *MemorySource) Name() string { return s.name }

// Scheme returns the document link scheme.
func (s *MemorySource) Scheme() string { return s.scheme }

// Document exports the source as a Document, concepts in insertion order.
func (s *MemorySource) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := &Document{Name: s.name, Scheme: s.scheme, Roots: slices.Clone(s.roots)}
	for _, id := range s.order {
		doc.Concepts = append(doc.Concepts, *s.concepts[id].Clone())
	}
	return doc
}

// Close does nothing.
func (s *MemorySource) Close() error { return nil }

var (
	_ Source = (*MemorySource)(nil)
	_ Lister = (*MemorySource)(nil)
	_ Named  = (*MemorySource)(nil)
)
