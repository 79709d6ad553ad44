package driver

import (
	"fmt"

	"github.com/Doomsbay/TaxoDB/taxodb/internal/store"
)

// Sink receives the emitted (key, value) pairs.
type Sink interface {
	Put(key, value string) error
}

// storeSink adapts a key-value store.
type storeSink struct {
	s store.Store
}

func (ss storeSink) Put(key, value string) error {
	if err := ss.s.Put([]byte(key), []byte(value)); err != nil {
		return fmt.Errorf("%w: put %q: %v", ErrStoreWrite, key, err)
	}
	return nil
}

// multiSink forwards every pair to each sink in turn.
type multiSink []Sink

func (ms multiSink) Put(key, value string) error {
	for _, s := range ms {
		if err := s.Put(key, value); err != nil {
			return err
		}
	}
	return nil
}
