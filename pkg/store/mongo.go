package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/ballotgrid/pkg/election"
)

// Mongo defaults.
const (
	DefaultDatabase   = "ballotgrid"
	DefaultCollection = "elections"
)

// MongoStore keeps records in a MongoDB collection keyed by hash.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the connection. An empty
// database uses DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

// Save upserts the record for e.
func (s *MongoStore) Save(ctx context.Context, e *election.Election) (string, error) {
	rec, err := Encode(e)
	if err != nil {
		return "", err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": rec.Hash}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("save election %s: %w", rec.Hash, err)
	}
	return rec.Hash, nil
}

// Load returns the definition stored under hash.
func (s *MongoStore) Load(ctx context.Context, hash string) (*election.Election, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": hash}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(hash)
	}
	if err != nil {
		return nil, fmt.Errorf("load election %s: %w", hash, err)
	}
	return rec.Decode()
}

// Delete removes the record stored under hash.
func (s *MongoStore) Delete(ctx context.Context, hash string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": hash}); err != nil {
		return fmt.Errorf("delete election %s: %w", hash, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
