// Package cache keeps downloaded assets on disk so repeated exports do not
// refetch remote logos and signatures.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Entry is the metadata stored next to a cached blob.
type Entry struct {
	Key       string    `json:"key"`
	MIME      string    `json:"mime"`
	Size      int       `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store is a file-based blob cache rooted at dir.
type Store struct {
	dir string
	ttl time.Duration
}

// New creates a cache store in dir. Entries older than ttl are treated as
// missing; a zero ttl never expires.
func New(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

// Load returns the cached blob for key. It returns (nil, nil, nil) when the
// key is not cached or has expired.
func (s *Store) Load(key string) ([]byte, *Entry, error) {
	meta, err := os.ReadFile(s.metaPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil // a miss is not an error
		}
		return nil, nil, err
	}

	var entry Entry
	if err := json.Unmarshal(meta, &entry); err != nil {
		return nil, nil, err
	}
	if s.ttl > 0 && time.Since(entry.FetchedAt) > s.ttl {
		return nil, nil, nil
	}

	data, err := os.ReadFile(s.blobPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return data, &entry, nil
}

// Save writes a blob and its metadata, creating directories as needed.
func (s *Store) Save(key, mime string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	if err := os.WriteFile(s.blobPath(key), data, 0644); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(Entry{Key: key, MIME: mime, Size: len(data), FetchedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.metaPath(key), meta, 0644)
}

// Invalidate removes the cached blob for key.
func (s *Store) Invalidate(key string) error {
	for _, p := range []string{s.blobPath(key), s.metaPath(key)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *Store) name(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (s *Store) blobPath(key string) string {
	return filepath.Join(s.dir, s.name(key)+".bin")
}

func (s *Store) metaPath(key string) string {
	return filepath.Join(s.dir, s.name(key)+".json")
}
