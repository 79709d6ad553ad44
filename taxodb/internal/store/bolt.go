package store

import (
	"errors"
	"time"

	"github.com/boltdb/bolt"
)

type pair struct {
	key   []byte
	value []byte
}

// boltStore buffers puts and commits them in one transaction per batch.
type boltStore struct {
	db        *bolt.DB
	bucket    []byte
	batchSize int
	pending   []pair
}

func openBolt(cfg Config) (*boltStore, error) {
	db, err := bolt.Open(cfg.Path, cfg.Mode, &bolt.Options{
		Timeout:  time.Second,
		ReadOnly: cfg.ReadOnly,
	})
	if err != nil {
		return nil, err
	}
	bucket := []byte(cfg.Bucket)
	if cfg.ReadOnly {
		err = db.View(func(tx *bolt.Tx) error {
			if tx.Bucket(bucket) == nil {
				return errors.New("bucket " + cfg.Bucket + " not found")
			}
			return nil
		})
	} else {
		db.NoSync = true
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(bucket)
			return err
		})
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{
		db:        db,
		bucket:    bucket,
		batchSize: cfg.BatchSize,
		pending:   make([]pair, 0, cfg.BatchSize),
	}, nil
}

func (bs *boltStore) Put(key, value []byte) error {
	bs.pending = append(bs.pending, pair{key: cloneBytes(key), value: cloneBytes(value)})
	if len(bs.pending) >= bs.batchSize {
		return bs.flush()
	}
	return nil
}

func (bs *boltStore) flush() error {
	if len(bs.pending) == 0 {
		return nil
	}
	err := bs.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		for _, p := range bs.pending {
			if err := b.Put(p.key, p.value); err != nil {
				return err
			}
		}
		return nil
	})
	bs.pending = bs.pending[:0]
	return err
}

func (bs *boltStore) Get(key []byte) (value []byte, err error) {
	if err := bs.flush(); err != nil {
		return nil, err
	}
	err = bs.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bs.bucket).Get(key); v != nil {
			value = cloneBytes(v)
		}
		return nil
	})
	return
}

func (bs *boltStore) ForEach(fn func(k, v []byte) error) error {
	if err := bs.flush(); err != nil {
		return err
	}
	return bs.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).ForEach(fn)
	})
}

func (bs *boltStore) Close() error {
	err := bs.flush()
	if !bs.db.IsReadOnly() {
		if serr := bs.db.Sync(); err == nil {
			err = serr
		}
	}
	if cerr := bs.db.Close(); err == nil {
		err = cerr
	}
	return err
}
