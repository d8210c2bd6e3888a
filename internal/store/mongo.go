// Package store provides the record source: a thin wrapper around a MongoDB
// orders collection. A Store is scoped to a single pipeline run -- the
// caller connects at run start and releases the client in a deferred
// cleanup, so a failure in one product line's run can never corrupt
// another's connection lifecycle.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"nudge/internal/types"
)

// RecordSource abstracts the order collection for the pipeline. The only
// operation the pipeline requires is a full fetch; no filtering is pushed
// down to the database.
type RecordSource interface {
	// FetchAll returns every document in the collection. Records are
	// re-read fresh on every run; there is no cursor persistence and no
	// incremental fetch.
	FetchAll(ctx context.Context) ([]types.Record, error)
}

// Store is a per-run handle on one orders collection.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Config holds the connection parameters for one product line's collection.
type Config struct {
	URI            string
	Database       string // empty means the database named in the URI
	Collection     string
	ConnectTimeout time.Duration
}

// Connect establishes a client against the configured URI and verifies it
// with a ping. The returned Store must be released with Close once the run
// completes.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to connect to MongoDB", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		// Best-effort disconnect; the ping failure is the error that matters.
		_ = client.Disconnect(context.Background())
		return nil, types.NewAppError(types.ErrCodeInternalDB, "MongoDB ping failed", err)
	}

	db := cfg.Database
	var database *mongo.Database
	if db == "" {
		database = client.Database(defaultDatabaseName(cfg.URI))
	} else {
		database = client.Database(db)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "orders"
	}

	return &Store{
		client:     client,
		collection: database.Collection(collection),
	}, nil
}

// FetchAll reads every document from the orders collection into memory.
// Documents that fail to decode into the Record shape fail the whole fetch;
// field-level looseness (timestamps, amounts) is absorbed by the Record type
// itself, not here.
func (s *Store) FetchAll(ctx context.Context) ([]types.Record, error) {
	cursor, err := s.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to query orders collection", err)
	}
	defer cursor.Close(ctx)

	var records []types.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalDB, "failed to decode order documents", err)
	}

	return records, nil
}

// Close releases the underlying client. Safe to call exactly once per
// Connect, typically via defer at the top of a run.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("store: disconnect: %w", err)
	}
	return nil
}

// defaultDatabaseName extracts the database path segment from a MongoDB
// connection URI, falling back to "test" (the driver default) when the URI
// names none.
func defaultDatabaseName(uri string) string {
	cs, err := connstringDatabase(uri)
	if err == nil && cs != "" {
		return cs
	}
	return "test"
}

// connstringDatabase pulls the auth database out of the URI without
// re-implementing full connection string parsing: everything between the
// last '/' and the first '?' after the host list.
func connstringDatabase(uri string) (string, error) {
	// Strip scheme.
	rest := uri
	for _, scheme := range []string{"mongodb+srv://", "mongodb://"} {
		if len(rest) > len(scheme) && rest[:len(scheme)] == scheme {
			rest = rest[len(scheme):]
			break
		}
	}
	slash := -1
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return "", nil
	}
	db := rest[slash+1:]
	for i := 0; i < len(db); i++ {
		if db[i] == '?' {
			db = db[:i]
			break
		}
	}
	return db, nil
}

// Compile-time assertion that Store implements RecordSource.
var _ RecordSource = (*Store)(nil)
