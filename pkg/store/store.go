// Package store persists built election definitions.
//
// A built definition carries its ballot styles and grid layouts, the
// vote-position tables that scanners and the mark overlay read. Records
// are content addressed: the key is the SHA-256 of the definition's JSON,
// so saving the same build twice yields the same hash.
//
// Backends:
//   - [FileStore]: one JSON file per definition, for the CLI
//   - [MongoStore]: a MongoDB collection, for the API server
package store

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/ballotgrid/pkg/cache"
	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/errors"
)

// Store saves and loads election definitions by content hash.
type Store interface {
	// Save stores e and returns its hash.
	Save(ctx context.Context, e *election.Election) (string, error)

	// Load returns the definition stored under hash. A missing record is a
	// NOT_FOUND error.
	Load(ctx context.Context, hash string) (*election.Election, error)

	// Delete removes a definition. Deleting a missing record is not an
	// error.
	Delete(ctx context.Context, hash string) error

	Close() error
}

// Record is the stored form of a definition.
type Record struct {
	Hash       string    `json:"hash" bson:"_id"`
	ElectionID string    `json:"election_id" bson:"electionId"`
	Definition []byte    `json:"definition" bson:"definition"`
	SavedAt    time.Time `json:"saved_at" bson:"savedAt"`
}

// Encode serializes e and returns the record to store.
func Encode(e *election.Election) (Record, error) {
	var buf bytes.Buffer
	if err := election.Write(&buf, e); err != nil {
		return Record{}, errors.Wrap(errors.ErrCodeInternal, err, "encode election")
	}
	data := buf.Bytes()
	return Record{
		Hash:       cache.Hash(data),
		ElectionID: e.ID,
		Definition: data,
		SavedAt:    time.Now().UTC(),
	}, nil
}

// Decode parses and validates the stored definition.
func (r Record) Decode() (*election.Election, error) {
	return election.Read(bytes.NewReader(r.Definition))
}

func notFound(hash string) *errors.Error {
	return errors.New(errors.ErrCodeNotFound, "election not found").With("hash", hash)
}
