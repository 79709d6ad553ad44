// Package store is the embedded disk-backed key-value store holding the
// accession to taxonomy mapping.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Backend names an embedded store implementation.
type Backend string

const (
	BackendBolt   Backend = "bolt"
	BackendBadger Backend = "badger"

	// DefaultMode is the permission used when creating a store.
	DefaultMode fs.FileMode = 0o666
	// DefaultBatchSize is the number of puts grouped in one write transaction.
	DefaultBatchSize = 10000

	defaultBucket = "taxodb"
)

var ErrUnsupportedBackend = errors.New("unsupported store backend")

// Store is the put/get/iterate contract used by the builders.
type Store interface {
	// Put writes value under key, replacing any previous value.
	Put(key, value []byte) error
	// Get returns nil when key is absent.
	Get(key []byte) ([]byte, error)
	// ForEach visits every pair; fn must not retain k or v.
	ForEach(fn func(k, v []byte) error) error
	Close() error
}

// Config selects and tunes a backend.
type Config struct {
	Path      string
	Backend   Backend
	Mode      fs.FileMode
	ReadOnly  bool
	BatchSize int
	Bucket    string
}

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendBolt:
		return BackendBolt, nil
	case BackendBadger:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBackend, s)
}

// Open creates the store if needed and opens it.
func Open(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store path is required")
	}
	if cfg.Mode == 0 {
		cfg.Mode = DefaultMode
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendBolt:
		s, err = openBolt(cfg)
	case BackendBadger:
		s, err = openBadger(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
