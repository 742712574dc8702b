package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileStore is the flat-file JSON data lake: one file per record, one
// directory per collection. Collections may be nested ("votes/119").
type FileStore struct {
	root   string
	logger *logrus.Logger
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string, logger *logrus.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store root missing")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &FileStore{root: dir, logger: logger}, nil
}

// List returns every .json record in a collection directory. A missing
// directory is an empty collection.
func (s *FileStore) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(collection))
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list collection %s: %w", collection, err)
	}

	// Deterministic order regardless of filesystem.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var records []json.RawMessage
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read record %s/%s: %w", collection, entry.Name(), err)
		}
		records = append(records, json.RawMessage(data))
	}
	return records, nil
}

// Read unmarshals one record into v.
func (s *FileStore) Read(ctx context.Context, collection, id string, v any) error {
	path := s.recordPath(collection, id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("record %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read record %s/%s: %w", collection, id, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record %s/%s: %w", collection, id, err)
	}
	return nil
}

// Write stores v as an indented JSON file, via a temp file and rename so a
// crashed batch never leaves a half-written record behind.
func (s *FileStore) Write(ctx context.Context, collection, id string, v any) error {
	path := s.recordPath(collection, id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record %s/%s: %w", collection, id, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write record %s/%s: %w", collection, id, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit record %s/%s: %w", collection, id, err)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"collection": collection,
			"id":         id,
			"bytes":      len(data),
		}).Debug("record written")
	}
	return nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) recordPath(collection, id string) string {
	return filepath.Join(s.root, filepath.FromSlash(collection), sanitizeID(id)+".json")
}

// sanitizeID keeps record ids filesystem-safe.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, id)
}
