// Package store implements the two pieces of durable state the shell
// needs: the flat virtual filesystem and history persistence, both
// backed by a single bbolt database and a single bucket.
package store

import (
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketFiles = []byte("files")

// Store is the persistence backend for the flat virtual filesystem.
// History persistence is layered on top of it by pkg/shell: HIST_FILE
// is an ordinary path in this same store, read and written through
// Read/Write/Append like any other file, since the filesystem and
// key-value storage are one and the same backing store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFiles)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database file.
func (s *Store) Close() error { return s.db.Close() }

// NotFoundError reports that path does not exist in the store.
type NotFoundError struct{ Path string }

func (e NotFoundError) Error() string { return fmt.Sprintf("%s: no such file", e.Path) }

// Read returns the content of path, or a NotFoundError if absent.
func (s *Store) Read(path string) (string, error) {
	var content string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketFiles).Get([]byte(path))
		if v == nil {
			return NotFoundError{Path: path}
		}
		content = string(v)
		return nil
	})
	return content, err
}

// Write sets path's content, creating it if absent.
func (s *Store) Write(path, content string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(path), []byte(content))
	})
}

// Append adds content to the end of path's current value, creating the
// key if absent.
func (s *Store) Append(path, content string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		cur := b.Get([]byte(path))
		return b.Put([]byte(path), append(append([]byte{}, cur...), content...))
	})
}

// List returns every key currently in the store, sorted lexically. path
// is accepted but ignored, since the store is flat.
func (s *Store) List(path string) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	sort.Strings(keys)
	return keys, err
}

// Move renames path to target, or returns a NotFoundError if path is
// absent.
func (s *Store) Move(path, target string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		v := b.Get([]byte(path))
		if v == nil {
			return NotFoundError{Path: path}
		}
		if err := b.Put([]byte(target), v); err != nil {
			return err
		}
		return b.Delete([]byte(path))
	})
}

// Remove deletes path. It is idempotent: removing an absent key is not
// an error.
func (s *Store) Remove(path string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).Delete([]byte(path))
	})
}

// SplitLines splits HIST_FILE content into its constituent lines,
// dropping a single trailing empty line if present.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
