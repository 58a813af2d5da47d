// Package mongostore stores a semantic graph in MongoDB.
//
// Concepts are documents in the "concepts" collection keyed by _id; the graph
// header is a single document with _id "meta" in the "graphs" collection.
// The database name is taken from the connection URI path and defaults to
// "semtree".
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/semtree/pkg/cache"
	"github.com/matzehuels/semtree/pkg/semantic"
)

// Defaults for database and collection names.
const (
	DefaultDatabase   = "semtree"
	ConceptCollection = "concepts"
	GraphCollection   = "graphs"
)

const (
	connectTimeout = 10 * time.Second
	batchSize      = 1000
)

type meta struct {
	ID     string   `bson:"_id"`
	Name   string   `bson:"name,omitempty"`
	Scheme string   `bson:"scheme,omitempty"`
	Roots  []string `bson:"roots,omitempty"`
}

// Source resolves concepts from a MongoDB collection.
type Source struct {
	client   *mongo.Client
	concepts *mongo.Collection
	graphs   *mongo.Collection
	owned    bool
	meta     meta
}

// DatabaseFromURI returns the database named in the URI path, or
// DefaultDatabase.
func DatabaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultDatabase
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return DefaultDatabase
}

// Open connects to uri, pings the server and loads the graph header.
func Open(ctx context.Context, uri string) (*Source, error) {
	client, err := connect(ctx, uri)
	if err != nil {
		return nil, err
	}
	s := New(client.Database(DatabaseFromURI(uri)))
	s.client = client
	s.owned = true
	if err := s.loadMeta(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// New uses an existing database handle. Close does not disconnect it.
func New(db *mongo.Database) *Source {
	return &Source{
		concepts: db.Collection(ConceptCollection),
		graphs:   db.Collection(GraphCollection),
	}
}

func connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect mongodb: %v", semantic.ErrUnavailable, err)
	}
	err = cache.Retry(ctx, cache.ConnectAttempts, cache.ConnectDelay, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping mongodb: %v", semantic.ErrUnavailable, err)
	}
	return client, nil
}

func (s *Source) loadMeta(ctx context.Context) error {
	err := s.graphs.FindOne(ctx, bson.M{"_id": "meta"}).Decode(&s.meta)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read meta: %v", semantic.ErrUnavailable, err)
	}
	return nil
}

// Lookup finds one concept by _id.
func (s *Source) Lookup(ctx context.Context, id string) (*semantic.Concept, error) {
	var c semantic.Concept
	err := s.concepts.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", semantic.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: find %s: %v", semantic.ErrUnavailable, id, err)
	}
	return &c, nil
}

// IDs returns every concept _id in ascending order.
func (s *Source) IDs(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := s.concepts.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: list ids: %v", semantic.ErrUnavailable, err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var row struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%w: list ids: %v", semantic.ErrUnavailable, err)
	}
	return ids, nil
}

// Name returns the stored graph name.
func (s *Source) Name() string { return s.meta.Name }

// Scheme returns the stored link scheme.
func (s *Source) Scheme() string { return s.meta.Scheme }

// Roots returns the stored entry points.
func (s *Source) Roots() []string { return s.meta.Roots }

// Close disconnects if Open created the client.
func (s *Source) Close() error {
	if s.owned && s.client != nil {
		return s.client.Disconnect(context.Background())
	}
	return nil
}

// Import upserts every concept of doc and the graph header into db using
// unordered bulk writes. It returns the number of concepts written.
func Import(ctx context.Context, db *mongo.Database, doc *semantic.Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	coll := db.Collection(ConceptCollection)
	bulk := options.BulkWrite().SetOrdered(false)

	written := 0
	for start := 0; start < len(doc.Concepts); start += batchSize {
		end := min(start+batchSize, len(doc.Concepts))
		models := make([]mongo.WriteModel, 0, end-start)
		for i := start; i < end; i++ {
			c := doc.Concepts[i]
			models = append(models, mongo.NewReplaceOneModel().
				SetFilter(bson.M{"_id": c.ID}).
				SetReplacement(c).
				SetUpsert(true))
		}
		if _, err := coll.BulkWrite(ctx, models, bulk); err != nil {
			return written, fmt.Errorf("%w: bulk write: %v", semantic.ErrUnavailable, err)
		}
		written = end
	}

	header := meta{ID: "meta", Name: doc.Name, Scheme: doc.Scheme, Roots: doc.Roots}
	_, err := db.Collection(GraphCollection).ReplaceOne(ctx, bson.M{"_id": "meta"}, header, options.Replace().SetUpsert(true))
	if err != nil {
		return written, fmt.Errorf("%w: write meta: %v", semantic.ErrUnavailable, err)
	}
	return written, nil
}

// ImportURI connects to uri and imports doc.
func ImportURI(ctx context.Context, uri string, doc *semantic.Document) (int, error) {
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	client, err := connect(ctx, uri)
	if err != nil {
		return 0, err
	}
	defer client.Disconnect(context.Background())
	return Import(ctx, client.Database(DatabaseFromURI(uri)), doc)
}

var (
	_ semantic.Source = (*Source)(nil)
	_ semantic.Lister = (*Source)(nil)
	_ semantic.Named  = (*Source)(nil)
)
