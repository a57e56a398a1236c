package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// boltBucket holds every key written through BoltStore.
const boltBucket = "tally"

// BoltStore is a Store backed by a bbolt database file.
type BoltStore struct {
	db     *bolt.DB
	closed bool
}

// OpenBolt opens (or creates) the bbolt database at path.
func OpenBolt(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt store: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(boltBucket)); err != nil {
			return fmt.Errorf("creating bucket %s: %w", boltBucket, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(key string) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	var (
		value string
		ok    bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", boltBucket)
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		// data is only valid inside the transaction; string() copies it.
		value, ok = string(data), true
		return nil
	})
	return value, ok, err
}

func (s *BoltStore) Set(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket))
		if b == nil {
			return fmt.Errorf("bucket %s not found", boltBucket)
		}
		return b.Put([]byte(key), []byte(value))
	})
}

func (s *BoltStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
