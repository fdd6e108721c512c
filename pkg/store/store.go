// Package store persists timeline snapshots: named, computed layouts that can
// be listed and re-rendered later through the HTTP API.
//
// Two backends implement [Store]. [MemoryStore] keeps snapshots for the life
// of the process and is the default. [MongoStore] keeps them in a MongoDB
// collection and is used when store.mongo_uri is configured.
//
// Snapshots hold derived render data only. Books themselves are owned by the
// catalog backend and never written here.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	cerrors "github.com/matzehuels/chronoshelf/pkg/errors"
	"github.com/matzehuels/chronoshelf/pkg/timeline"
)

// ErrNotFound is returned when no snapshot has the requested ID.
var ErrNotFound = errors.New("snapshot not found")

// Limits for listing and naming snapshots.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
	MaxNameLen       = 200
)

// Snapshot is a saved layout together with the options it was computed with.
type Snapshot struct {
	ID        string          `json:"id" bson:"_id"`
	Name      string          `json:"name" bson:"name"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	Width     float64         `json:"width" bson:"width"`
	Zoom      float64         `json:"zoom" bson:"zoom"`
	Epoch     timeline.Epoch  `json:"epoch" bson:"epoch"`
	Layout    timeline.Result `json:"layout" bson:"layout"`
}

// Store saves and retrieves snapshots.
type Store interface {
	// Save assigns an ID and creation time when missing and stores s.
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	// List returns up to limit snapshots, newest first.
	List(ctx context.Context, limit int) ([]*Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// prepare validates s and fills in its ID and timestamp.
func prepare(s *Snapshot) error {
	s.Name = strings.TrimSpace(s.Name)
	if len(s.Name) > MaxNameLen {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "snapshot name too long (max %d characters)", MaxNameLen)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	} else if _, err := uuid.Parse(s.ID); err != nil {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "snapshot id must be a UUID: %q", s.ID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.Name == "" {
		s.Name = "timeline " + s.CreatedAt.Format(time.DateTime)
	}
	return nil
}

// ValidID reports whether id could name a snapshot. Callers use it to reject
// malformed IDs before touching the backend.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

// Open returns a MongoStore when mongoURI is set and a MemoryStore otherwise.
func Open(ctx context.Context, mongoURI, database string) (Store, error) {
	if mongoURI == "" {
		return NewMemoryStore(), nil
	}
	s, err := NewMongoStore(ctx, mongoURI, database)
	if err != nil {
		return nil, err
	}
	return s, nil
}
