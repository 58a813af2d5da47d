package semantic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Document is the file representation of a semantic graph.
//
// The same structure is accepted as JSON, TOML and YAML:
//
//	name = "mini-wordnet"
//	scheme = "wordnet"
//	roots = ["n02084071"]
//
//	[[concepts]]
//	id = "n02084071"
//	category = "noun.animal"
//	members = ["dog", "domestic dog"]
//	gloss = "a member of the genus Canis"
//
//	  [[concepts.relations]]
//	  kind = "hypernym"
//	  targets = ["n02083346"]
type Document struct {
	Name     string    `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Scheme   string    `json:"scheme,omitempty" toml:"scheme,omitempty" yaml:"scheme,omitempty"`
	Roots    []string  `json:"roots,omitempty" toml:"roots,omitempty" yaml:"roots,omitempty"`
	Concepts []Concept `json:"concepts" toml:"concepts" yaml:"concepts"`
}

// Validate checks that every concept has a unique, non-empty ID and that
// every relation has a kind. Dangling targets are allowed.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Concepts))
	for i, c := range d.Concepts {
		if c.ID == "" {
			return fmt.Errorf("%w: concept %d has no id", ErrInvalidDocument, i)
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: duplicate concept id %q", ErrInvalidDocument, c.ID)
		}
		seen[c.ID] = true
		for _, r := range c.Relations {
			if r.Kind == "" {
				return fmt.Errorf("%w: concept %q has a relation without kind", ErrInvalidDocument, c.ID)
			}
		}
	}
	for _, r := range d.Roots {
		if !seen[r] {
			return fmt.Errorf("%w: root %q is not a concept", ErrInvalidDocument, r)
		}
	}
	return nil
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown extension %q", ErrInvalidDocument, filepath.Ext(path))
}

// ReadDocument decodes and validates a document in the given format.
func ReadDocument(r io.Reader, format string) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", ErrInvalidDocument, err)
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode toml: %v", ErrInvalidDocument, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidDocument, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidDocument, format)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadDocumentFile reads a document, inferring the format from the extension.
func ReadDocumentFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrUnavailable, path, err)
	}
	defer f.Close()
	return ReadDocument(f, format)
}

// WriteDocument encodes a document in the given format.
func WriteDocument(w io.Writer, doc *Document, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("%w: unsupported format %q", ErrInvalidDocument, format)
}
