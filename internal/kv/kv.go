// Package kv provides the key/value stores the ledger persists into.
// Every backend stores opaque strings under string keys; the ledger
// overwrites its whole serialized collection on each mutation.
package kv

import (
	"errors"
	"fmt"
	"strings"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is a synchronous string key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)
	// Set overwrites the value for key.
	Set(key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Backends lists every supported backend name.
func Backends() []string {
	return []string{BackendMemory, BackendFile, BackendBolt, BackendSQLite}
}

// IsBackend reports whether name is a supported backend.
func IsBackend(name string) bool {
	for _, b := range Backends() {
		if b == strings.ToLower(name) {
			return true
		}
	}
	return false
}

// Open creates the named backend. path is a directory for the file backend
// and a database file for bolt and sqlite; it is ignored for memory.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(path)
	case BackendBolt:
		return OpenBolt(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want one of %s)", backend, strings.Join(Backends(), ", "))
	}
}
