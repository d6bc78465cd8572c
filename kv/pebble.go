package kv

import (
	"github.com/cockroachdb/pebble"
)

// PebbleStore is a Fork backed by a cockroachdb/pebble LSM-tree database.
// It is the storage engine intended for long-lived proof lists, mirroring
// the role MemoryStore plays for tests: same Fork contract, durable backend.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebbleStore opens (or creates) a pebble database at dir.
func OpenPebbleStore(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func (s *PebbleStore) Has(key []byte) (bool, error) {
	_, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (s *PebbleStore) Get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err == pebble.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(val))
	copy(out, val)
	closer.Close()
	return out, nil
}

func (s *PebbleStore) Put(key, value []byte) error {
	return s.db.Set(key, value, pebble.Sync)
}

func (s *PebbleStore) Delete(key []byte) error {
	return s.db.Delete(key, pebble.Sync)
}

// Clear deletes every key with the given prefix using a single range delete.
func (s *PebbleStore) Clear(prefix []byte) error {
	upper := upperBound(prefix)
	return s.db.DeleteRange(prefix, upper, pebble.Sync)
}

// Iterator returns keys with the given prefix, starting at the first key
// >= start (or at prefix itself when start is nil).
func (s *PebbleStore) Iterator(prefix, start []byte) Iterator {
	lower := prefix
	if len(start) > 0 {
		lower = start
	}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: lower,
		UpperBound: upperBound(prefix),
	})
	if err != nil {
		return &errIterator{err: err}
	}
	return &pebbleIterator{iter: iter, started: false}
}

// upperBound computes the exclusive upper bound of the key range covered
// by prefix, by incrementing its last byte that is not 0xff and dropping
// the bytes after it. A prefix of all 0xff bytes (or empty) has no finite
// upper bound, so nil is returned and the caller's iteration runs to the
// end of the keyspace.
func upperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	limit := make([]byte, len(prefix))
	copy(limit, prefix)
	for i := len(limit) - 1; i >= 0; i-- {
		limit[i]++
		if limit[i] != 0 {
			return limit[:i+1]
		}
	}
	return nil
}

type pebbleIterator struct {
	iter     *pebble.Iterator
	started  bool
	released bool
}

func (it *pebbleIterator) Next() bool {
	if !it.started {
		it.started = true
		return it.iter.First()
	}
	return it.iter.Next()
}

func (it *pebbleIterator) Key() []byte {
	k := it.iter.Key()
	if k == nil {
		return nil
	}
	out := make([]byte, len(k))
	copy(out, k)
	return out
}

func (it *pebbleIterator) Value() []byte {
	v := it.iter.Value()
	if v == nil {
		return nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (it *pebbleIterator) Err() error { return it.iter.Error() }

func (it *pebbleIterator) Release() {
	if it.released {
		return
	}
	it.released = true
	it.iter.Close()
}

// errIterator is a zero-item iterator that surfaces a setup failure through
// Err, rather than panicking synchronously from Iterator.
type errIterator struct{ err error }

func (errIterator) Next() bool    { return false }
func (errIterator) Key() []byte   { return nil }
func (errIterator) Value() []byte { return nil }
func (it errIterator) Err() error { return it.err }
func (errIterator) Release()      {}

var _ Fork = (*PebbleStore)(nil)
