package prooflist

import (
	"encoding/binary"

	"github.com/eth2030/prooflist/kv"
)

// BaseIndex scopes a single logical index (identified by name, and
// optionally by a family key for grouped/sharded indexes) to its own
// namespace within a shared key-value store, the way rawdb.Table prepends
// a fixed prefix to every key so unrelated data domains can share one
// physical database. Unlike Table's fixed string prefix, BaseIndex's
// namespace is self-delimiting (length-prefixed name, then length-prefixed
// family bytes) so that no two distinct (name, family) pairs can produce a namespace
// that is a prefix of the other's.
type BaseIndex struct {
	snapshot kv.Snapshot
	fork     kv.Fork // nil when the index was opened read-only
	ns       []byte
}

// namespace computes the self-delimiting prefix for (name, family): the
// name and the family bytes are each preceded by their 8-byte big-endian
// length. A nil family encodes the same as an empty one.
func namespace(name string, family []byte) []byte {
	nameBytes := []byte(name)
	buf := make([]byte, 8, 16+len(nameBytes)+len(family))
	binary.BigEndian.PutUint64(buf, uint64(len(nameBytes)))
	buf = append(buf, nameBytes...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(family)))
	buf = append(buf, family...)
	return buf
}

// NewBaseIndex opens a read-only handle to the named index.
func NewBaseIndex(name string, view kv.Snapshot) *BaseIndex {
	return &BaseIndex{snapshot: view, ns: namespace(name, nil)}
}

// NewBaseIndexInFamily opens a read-only handle to one member of a family
// of indexes sharing the name but scoped by a distinct family key, mirroring
// Exonum's Group<Address, ProofListIndex<_>> sharding.
func NewBaseIndexInFamily(name string, family []byte, view kv.Snapshot) *BaseIndex {
	return &BaseIndex{snapshot: view, ns: namespace(name, family)}
}

// NewMutableBaseIndex opens a read-write handle to the named index.
func NewMutableBaseIndex(name string, view kv.Fork) *BaseIndex {
	return &BaseIndex{snapshot: view, fork: view, ns: namespace(name, nil)}
}

// NewMutableBaseIndexInFamily opens a read-write handle to one member of a
// family of indexes.
func NewMutableBaseIndexInFamily(name string, family []byte, view kv.Fork) *BaseIndex {
	return &BaseIndex{snapshot: view, fork: view, ns: namespace(name, family)}
}

// Writable reports whether the index was opened against a Fork and so
// supports mutation.
func (b *BaseIndex) Writable() bool { return b.fork != nil }

func (b *BaseIndex) key(local []byte) []byte {
	full := make([]byte, 0, len(b.ns)+len(local))
	full = append(full, b.ns...)
	full = append(full, local...)
	return full
}

// getBytes reads the value stored under local, reporting ok=false (and a
// nil error) when it is absent.
func (b *BaseIndex) getBytes(local []byte) (value []byte, ok bool, err error) {
	v, err := b.snapshot.Get(b.key(local))
	if err == kv.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// putBytes writes value under local. The index must have been opened
// mutably.
func (b *BaseIndex) putBytes(local, value []byte) error {
	return b.fork.Put(b.key(local), value)
}

// clear removes every key in this index's namespace.
func (b *BaseIndex) clear() error {
	return b.fork.Clear(b.ns)
}

// iterator returns the index's keys scoped under localPrefix, starting at
// or after localStart (nil to start at the beginning of localPrefix).
func (b *BaseIndex) iterator(localPrefix, localStart []byte) kv.Iterator {
	return &strippingIterator{
		inner:  b.snapshot.Iterator(b.key(localPrefix), b.keyOrNil(localStart)),
		nsSize: len(b.ns),
	}
}

func (b *BaseIndex) keyOrNil(local []byte) []byte {
	if local == nil {
		return nil
	}
	return b.key(local)
}

// strippingIterator strips the namespace prefix from keys returned by the
// backing Snapshot, so callers see only their own local keys, mirroring
// rawdb.Table's tableIterator.
type strippingIterator struct {
	inner  kv.Iterator
	nsSize int
}

func (it *strippingIterator) Next() bool { return it.inner.Next() }

func (it *strippingIterator) Key() []byte {
	k := it.inner.Key()
	if len(k) < it.nsSize {
		return k
	}
	return k[it.nsSize:]
}

func (it *strippingIterator) Value() []byte { return it.inner.Value() }

func (it *strippingIterator) Err() error { return it.inner.Err() }

func (it *strippingIterator) Release() { it.inner.Release() }
