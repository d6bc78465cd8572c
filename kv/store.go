// Package kv defines the key-value storage contracts that back prooflist
// indexes. Snapshot is a read-only, point-in-time view; Fork additionally
// allows mutation. Index code is written against these two interfaces only,
// so any storage engine that implements them can host a proof list.
package kv

import "errors"

// ErrNotFound is returned by Get when the requested key does not exist.
// Callers distinguish "absent" from other failures with errors.Is.
var ErrNotFound = errors.New("kv: key not found")

// Iterator walks keys in ascending lexicographic order starting at or after
// a given position. Iteration is exhausted once Next returns false; callers
// must always check Err after the loop to distinguish a clean end of range
// from a storage failure that cut the scan short.
type Iterator interface {
	// Next advances the iterator and reports whether an item is available.
	Next() bool
	// Key returns the key at the current position. Valid only after a Next
	// call that returned true.
	Key() []byte
	// Value returns the value at the current position. Valid only after a
	// Next call that returned true.
	Value() []byte
	// Err returns the first error, if any, encountered during iteration.
	Err() error
	// Release frees resources held by the iterator. Safe to call multiple
	// times.
	Release()
}

// Snapshot is a read-only view of a key-value store.
type Snapshot interface {
	// Get returns the value stored under key, or ErrNotFound if absent.
	Get(key []byte) ([]byte, error)
	// Has reports whether key is present.
	Has(key []byte) (bool, error)
	// Iterator returns an iterator over all keys with the given prefix,
	// beginning at the first key >= start. A nil start begins at prefix
	// itself.
	Iterator(prefix, start []byte) Iterator
}

// Fork is a mutable view of a key-value store, layered on top of Snapshot.
type Fork interface {
	Snapshot

	// Put writes value under key, overwriting any existing entry.
	Put(key, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error
	// Clear removes every key with the given prefix.
	Clear(prefix []byte) error
}
