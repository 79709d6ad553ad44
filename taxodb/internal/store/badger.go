package store

import (
	"os"

	"github.com/dgraph-io/badger"
)

// badgerStore keeps its files in the directory named by the store path. The
// directory is created with cfg.Mode plus search permission. Puts share one
// write transaction, committed every batchSize puts or when it grows too big.
type badgerStore struct {
	db        *badger.DB
	txn       *badger.Txn
	batchSize int
	pending   int
}

func openBadger(cfg Config) (*badgerStore, error) {
	if !cfg.ReadOnly {
		if err := os.MkdirAll(cfg.Path, cfg.Mode|0o111); err != nil {
			return nil, err
		}
	}
	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(false).
		WithReadOnly(cfg.ReadOnly).
		WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &badgerStore{db: db, batchSize: cfg.BatchSize}, nil
}

func (bs *badgerStore) Put(key, value []byte) error {
	if bs.txn == nil {
		bs.txn = bs.db.NewTransaction(true)
	}
	k, v := cloneBytes(key), cloneBytes(value)
	err := bs.txn.Set(k, v)
	if err == badger.ErrTxnTooBig {
		if err := bs.flush(); err != nil {
			return err
		}
		bs.txn = bs.db.NewTransaction(true)
		err = bs.txn.Set(k, v)
	}
	if err != nil {
		bs.txn.Discard()
		bs.txn = nil
		bs.pending = 0
		return err
	}
	bs.pending++
	if bs.batchSize > 0 && bs.pending >= bs.batchSize {
		return bs.flush()
	}
	return nil
}

// flush commits the open write transaction, if any.
func (bs *badgerStore) flush() error {
	if bs.txn == nil {
		return nil
	}
	err := bs.txn.Commit()
	bs.txn = nil
	bs.pending = 0
	return err
}

func (bs *badgerStore) Get(key []byte) (value []byte, err error) {
	if err := bs.flush(); err != nil {
		return nil, err
	}
	err = bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return
}

func (bs *badgerStore) ForEach(fn func(k, v []byte) error) error {
	if err := bs.flush(); err != nil {
		return err
	}
	return bs.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := fn(item.Key(), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (bs *badgerStore) Close() error {
	err := bs.flush()
	if cerr := bs.db.Close(); err == nil {
		err = cerr
	}
	return err
}
