// Package redisstore stores a semantic graph in Redis.
//
// Each concept is a JSON value under "<prefix>concept:<id>". The document
// header (name, scheme, roots) lives under "<prefix>meta". The default
// prefix is "semtree:".
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/semantic"
)

// DefaultPrefix namespaces all keys written by this package.
const DefaultPrefix = "semtree:"

// scanCount is the COUNT hint for SCAN; import batch size for pipelines.
const (
	scanCount = 500
	batchSize = 500
)

type meta struct {
	Name   string   `json:"name,omitempty"`
	Scheme string   `json:"scheme,omitempty"`
	Roots  []string `json:"roots,omitempty"`
}

// Source resolves concepts from Redis.
type Source struct {
	client redis.UniversalClient
	prefix string
	owned  bool
	meta   meta
}

// Open connects to url ("redis://host:port/db") and loads the graph header.
func Open(ctx context.Context, url string) (*Source, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: parse redis url: %v", semantic.ErrUnavailable, err)
	}
	client := redis.NewClient(opts)
	err = cache.Retry(ctx, cache.ConnectAttempts, cache.ConnectDelay, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", semantic.ErrUnavailable, err)
	}
	s := New(client, DefaultPrefix)
	s.owned = true
	if err := s.loadMeta(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing client. Close does not close it.
func New(client redis.UniversalClient, prefix string) *Source {
	return &Source{client: client, prefix: prefix}
}

// ConceptKey returns the key a concept is stored under.
func ConceptKey(prefix, id string) string { return prefix + "concept:" + id }

// MetaKey returns the key of the graph header.
func MetaKey(prefix string) string { return prefix + "meta" }

func (s *Source) loadMeta(ctx context.Context) error {
	data, err := s.client.Get(ctx, MetaKey(s.prefix)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read meta: %v", semantic.ErrUnavailable, err)
	}
	if err := json.Unmarshal(data, &s.meta); err != nil {
		return fmt.Errorf("%w: decode meta: %v", semantic.ErrInvalidDocument, err)
	}
	return nil
}

// Lookup fetches and decodes one concept. Connection failures are retried.
func (s *Source) Lookup(ctx context.Context, id string) (*semantic.Concept, error) {
	var data []byte
	err := cache.RetryWithBackoff(ctx, func() error {
		v, err := s.client.Get(ctx, ConceptKey(s.prefix, id)).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", semantic.ErrNotFound, id)
		}
		if err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", semantic.ErrUnavailable, err))
		}
		data = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	var c semantic.Concept
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: concept %s: %v", semantic.ErrInvalidDocument, id, err)
	}
	if c.ID == "" {
		c.ID = id
	}
	return &c, nil
}

// IDs scans the concept keys. Redis does not keep insertion order, so the
// result is sorted.
func (s *Source) IDs(ctx context.Context) ([]string, error) {
	prefix := ConceptKey(s.prefix, "")
	var ids []string
	iter := s.client.Scan(ctx, 0, prefix+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, strings.TrimPrefix(iter.Val(), prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan: %v", semantic.ErrUnavailable, err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Name returns the stored graph name.
func (s *Source) Name() string { return s.meta.Name }

// Scheme returns the stored link scheme.
func (s *Source) Scheme() string { return s.meta.Scheme }

// Roots returns the stored entry points.
func (s *Source) Roots() []string { return s.meta.Roots }

// Close closes the client if Open created it.
func (s *Source) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}

// Import writes every concept of doc and the header, in pipelined batches.
// Existing concepts with the same ID are overwritten. It returns the number
// of concepts written.
func Import(ctx context.Context, client redis.UniversalClient, prefix string, doc *semantic.Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	header, err := json.Marshal(meta{Name: doc.Name, Scheme: doc.Scheme, Roots: doc.Roots})
	if err != nil {
		return 0, err
	}

	written := 0
	for start := 0; start < len(doc.Concepts); start += batchSize {
		end := min(start+batchSize, len(doc.Concepts))
		pipe := client.Pipeline()
		for i := start; i < end; i++ {
			data, err := json.Marshal(&doc.Concepts[i])
			if err != nil {
				return written, err
			}
			pipe.Set(ctx, ConceptKey(prefix, doc.Concepts[i].ID), data, 0)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return written, fmt.Errorf("%w: write batch: %v", semantic.ErrUnavailable, err)
		}
		written = end
	}

	if err := client.Set(ctx, MetaKey(prefix), header, 0).Err(); err != nil {
		return written, fmt.Errorf("%w: write meta: %v", semantic.ErrUnavailable, err)
	}
	return written, nil
}

// ImportURL connects to url and imports doc under DefaultPrefix.
func ImportURL(ctx context.Context, url string, doc *semantic.Document) (int, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return 0, fmt.Errorf("%w: parse redis url: %v", semantic.ErrUnavailable, err)
	}
	client := redis.NewClient(opts)
	defer client.Close()
	return Import(ctx, client, DefaultPrefix, doc)
}

var (
	_ semantic.Source = (*Source)(nil)
	_ semantic.Lister = (*Source)(nil)
	_ semantic.Named  = (*Source)(nil)
)
