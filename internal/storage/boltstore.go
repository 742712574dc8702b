package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// BoltStore backs the record store with a single bbolt file: one bucket
// per collection, one key per record id. Useful when the data lake should
// travel as one file instead of a directory tree.
type BoltStore struct {
	db     *bolt.DB
	logger *logrus.Logger
}

// NewBoltStore opens (or creates) the bbolt file at path.
func NewBoltStore(path string, logger *logrus.Logger) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store path missing")
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

// List returns every record in a collection bucket. A missing bucket is an
// empty collection.
func (s *BoltStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cp := make([]byte, len(v))
			copy(cp, v)
			records = append(records, json.RawMessage(cp))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}
	return records, nil
}

// Read unmarshals one record into v.
func (s *BoltStore) Read(ctx context.Context, collection, id string, v any) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		if raw := b.Get([]byte(id)); raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("read record %s/%s: %w", collection, id, err)
	}
	if data == nil {
		return fmt.Errorf("record %s/%s: %w", collection, id, ErrNotFound)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Write marshals v and stores it under collection/id.
func (s *BoltStore) Write(ctx context.Context, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record %s/%s: %w", collection, id, err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return fmt.Errorf("write record %s/%s: %w", collection, id, err)
	}
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
		}).Debug("record written")
	}
	return nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
