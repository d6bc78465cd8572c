// Package prooflist implements a Merkleized, append-oriented list index: a
// persistent binary Merkle tree over sequentially positioned values, backed
// by an external key-value store (see package kv), that can produce compact
// cryptographic proofs of membership, range membership and absence. It
// follows the design of Exonum's ProofListIndex, adapted here onto a plain
// Go key-value contract instead of a Rust ORM-style fork/snapshot split.
package prooflist

import (
	"encoding/binary"
	"fmt"

	"github.com/eth2030/prooflist/kv"
)

// Codec describes how to turn a value of type V into its canonical byte
// encoding and back. leaf_hash(v) is always HashLeaf(Marshal(v)), so the
// content hash is fully determined by the canonical encoding rather than
// tracked separately.
type Codec[V any] struct {
	Marshal   func(V) ([]byte, error)
	Unmarshal func([]byte) (V, error)
}

// ProofListIndex is a Merkleized append-oriented list of values of type V.
// A list opened against a read-only kv.Snapshot supports only the read
// methods; Push, Set, Extend and Clear require a list opened against a
// kv.Fork, and panic otherwise.
type ProofListIndex[V any] struct {
	base   *BaseIndex
	codec  Codec[V]
	name   string
	length *uint64 // cached; nil until first observed
	m      *Metrics
}

// New opens a read-only handle to the named list.
func New[V any](name string, view kv.Snapshot, codec Codec[V]) *ProofListIndex[V] {
	return &ProofListIndex[V]{base: NewBaseIndex(name, view), codec: codec, name: name}
}

// NewInFamily opens a read-only handle to one member of a family of lists
// sharing name but scoped by a distinct family key (e.g. an account
// address), mirroring Exonum's Group<Address, ProofListIndex<_, Hash>>.
func NewInFamily[V any](name string, family []byte, view kv.Snapshot, codec Codec[V]) *ProofListIndex[V] {
	return &ProofListIndex[V]{base: NewBaseIndexInFamily(name, family, view), codec: codec, name: name}
}

// NewMutable opens a read-write handle to the named list.
func NewMutable[V any](name string, fork kv.Fork, codec Codec[V]) *ProofListIndex[V] {
	return &ProofListIndex[V]{base: NewMutableBaseIndex(name, fork), codec: codec, name: name}
}

// NewMutableInFamily opens a read-write handle to one member of a family of
// lists.
func NewMutableInFamily[V any](name string, family []byte, fork kv.Fork, codec Codec[V]) *ProofListIndex[V] {
	return &ProofListIndex[V]{base: NewMutableBaseIndexInFamily(name, family, fork), codec: codec, name: name}
}

// WithMetrics attaches a Metrics recorder to the list, returning the same
// index for chaining.
func (l *ProofListIndex[V]) WithMetrics(m *Metrics) *ProofListIndex[V] {
	l.m = m
	return l
}

// lengthKey is the empty local key, sitting at the index's namespace
// boundary; it sorts before every NodeKey-encoded key because an empty byte
// string is a prefix of (and so orders before) any non-empty one.
var lengthKey = []byte{}

// Len returns the number of elements pushed to the list.
func (l *ProofListIndex[V]) Len() (uint64, error) {
	if l.length != nil {
		return *l.length, nil
	}
	raw, ok, err := l.base.getBytes(lengthKey)
	if err != nil {
		return 0, err
	}
	var n uint64
	if ok {
		if len(raw) != 8 {
			return 0, fmt.Errorf("prooflist: corrupt length record (%d bytes)", len(raw))
		}
		n = binary.BigEndian.Uint64(raw)
	}
	l.length = &n
	return n, nil
}

func (l *ProofListIndex[V]) setLen(n uint64) error {
	l.length = &n
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return l.base.putBytes(lengthKey, buf[:])
}

// IsEmpty reports whether the list has no elements.
func (l *ProofListIndex[V]) IsEmpty() (bool, error) {
	n, err := l.Len()
	return n == 0, err
}

// Height returns the height of the list's Merkle tree.
func (l *ProofListIndex[V]) Height() (uint8, error) {
	n, err := l.Len()
	if err != nil {
		return 0, err
	}
	return TreeHeight(n), nil
}

// getBranch reads the hash stored at k, returning ok=false if k has never
// been written.
func (l *ProofListIndex[V]) getBranch(k NodeKey) (h Hash, ok bool, err error) {
	raw, found, err := l.base.getBytes(k.Encode())
	if err != nil || !found {
		return Hash{}, false, err
	}
	if len(raw) != len(h) {
		return Hash{}, false, fmt.Errorf("prooflist: corrupt branch record at height %d index %d", k.Height(), k.Index())
	}
	copy(h[:], raw)
	return h, true, nil
}

// getBranchUnchecked reads the hash stored at k, assuming the caller has
// already established (via HasBranch or construction order) that it exists.
func (l *ProofListIndex[V]) getBranchUnchecked(k NodeKey) (Hash, error) {
	h, ok, err := l.getBranch(k)
	if err != nil {
		return Hash{}, err
	}
	if !ok {
		return Hash{}, fmt.Errorf("prooflist: expected branch at height %d index %d to exist", k.Height(), k.Index())
	}
	return h, nil
}

func (l *ProofListIndex[V]) setBranch(k NodeKey, h Hash) error {
	return l.base.putBytes(k.Encode(), h[:])
}

// MerkleRoot returns the hash of the tree's root node, or the zero Hash for
// an empty list.
func (l *ProofListIndex[V]) MerkleRoot() (Hash, error) {
	n, err := l.Len()
	if err != nil {
		return Hash{}, err
	}
	if n == 0 {
		return Hash{}, nil
	}
	h, _, err := l.getBranch(rootKey(n))
	return h, err
}

// ListHash returns the list's externally visible, length-bound digest.
// This is the value that proofs are ultimately verified against.
func (l *ProofListIndex[V]) ListHash() (Hash, error) {
	n, err := l.Len()
	if err != nil {
		return Hash{}, err
	}
	root, err := l.MerkleRoot()
	if err != nil {
		return Hash{}, err
	}
	return HashListNode(n, root), nil
}

// Get returns the value at position i, reporting ok=false if i is out of
// bounds.
func (l *ProofListIndex[V]) Get(i uint64) (v V, ok bool, err error) {
	n, err := l.Len()
	if err != nil {
		return v, false, err
	}
	if i >= n {
		return v, false, nil
	}
	raw, found, err := l.base.getBytes(LeafKey(i).Encode())
	if err != nil {
		return v, false, err
	}
	if !found {
		return v, false, fmt.Errorf("prooflist: missing leaf at index %d below length %d", i, n)
	}
	v, err = l.codec.Unmarshal(raw)
	if err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Last returns the most recently pushed value.
func (l *ProofListIndex[V]) Last() (v V, ok bool, err error) {
	n, err := l.Len()
	if err != nil {
		return v, false, err
	}
	if n == 0 {
		return v, false, nil
	}
	return l.Get(n - 1)
}

// Push appends v to the end of the list, updating the spine of hashes from
// the new leaf up to (and including) the root.
func (l *ProofListIndex[V]) Push(v V) error {
	l.requireMutable("Push")

	n, err := l.Len()
	if err != nil {
		return err
	}

	raw, err := l.codec.Marshal(v)
	if err != nil {
		return err
	}
	if err := l.base.putBytes(LeafKey(n).Encode(), raw); err != nil {
		return err
	}
	leafHash := HashLeaf(raw)
	if err := l.setBranch(HashKeyAt(1, n), leafHash); err != nil {
		return err
	}

	newHeight := TreeHeight(n + 1)
	key := HashKeyAt(1, n)
	for key.Height() < newHeight {
		cur, err := l.getBranchUnchecked(key)
		if err != nil {
			return err
		}
		var combined Hash
		if key.IsLeft() {
			combined = HashSingleNode(cur)
		} else {
			sibling, err := l.getBranchUnchecked(key.AsLeft())
			if err != nil {
				return err
			}
			combined = HashNode(sibling, cur)
		}
		key = key.Parent()
		if err := l.setBranch(key, combined); err != nil {
			return err
		}
	}

	if err := l.setLen(n + 1); err != nil {
		return err
	}
	if l.m != nil {
		l.m.Pushes.WithLabelValues(l.name).Inc()
		l.m.Length.WithLabelValues(l.name).Set(float64(n + 1))
		l.m.Height.WithLabelValues(l.name).Set(float64(newHeight))
	}
	return nil
}

// Set overwrites the value at position i and recomputes every ancestor hash
// up to the root. It panics if i is out of bounds: unlike Push, Set can
// only ever touch an existing position, so an out-of-range index is always
// a caller bug.
func (l *ProofListIndex[V]) Set(i uint64, v V) error {
	l.requireMutable("Set")

	n, err := l.Len()
	if err != nil {
		return err
	}
	if i >= n {
		panic(fmt.Sprintf("prooflist: index out of bounds: the len is %d but the index is %d", n, i))
	}

	raw, err := l.codec.Marshal(v)
	if err != nil {
		return err
	}
	if err := l.base.putBytes(LeafKey(i).Encode(), raw); err != nil {
		return err
	}
	leafHash := HashLeaf(raw)
	if err := l.setBranch(HashKeyAt(1, i), leafHash); err != nil {
		return err
	}

	height := TreeHeight(n)
	key := HashKeyAt(1, i)
	for key.Height() < height {
		left, right := key.AsLeft(), key.AsRight()
		leftHash, err := l.getBranchUnchecked(left)
		if err != nil {
			return err
		}
		var combined Hash
		if right.HasBranch(n) {
			rightHash, err := l.getBranchUnchecked(right)
			if err != nil {
				return err
			}
			combined = HashNode(leftHash, rightHash)
		} else {
			combined = HashSingleNode(leftHash)
		}
		key = key.Parent()
		if err := l.setBranch(key, combined); err != nil {
			return err
		}
	}

	if l.m != nil {
		l.m.Sets.WithLabelValues(l.name).Inc()
	}
	return nil
}

// Extend appends every value in vs, in order.
func (l *ProofListIndex[V]) Extend(vs []V) error {
	l.requireMutable("Extend")
	for _, v := range vs {
		if err := l.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes every entry belonging to this list, resetting its length to
// zero.
func (l *ProofListIndex[V]) Clear() error {
	l.requireMutable("Clear")
	if err := l.base.clear(); err != nil {
		return err
	}
	zero := uint64(0)
	l.length = &zero
	if l.m != nil {
		l.m.Clears.WithLabelValues(l.name).Inc()
		l.m.Length.WithLabelValues(l.name).Set(0)
		l.m.Height.WithLabelValues(l.name).Set(1)
	}
	return nil
}

func (l *ProofListIndex[V]) requireMutable(op string) {
	if !l.base.Writable() {
		panic(fmt.Sprintf("prooflist: %s called on a read-only list %q", op, l.name))
	}
}

// Iterator walks the leaves of a list in ascending position order. The
// zero value is not ready to use; obtain one from Iter or IterFrom.
type Iterator[V any] struct {
	inner kv.Iterator
	codec Codec[V]
	value V
	err   error
}

// Next advances the iterator. It returns false once the leaves are
// exhausted or a storage/decoding error occurs; callers must check Err
// after the loop.
func (it *Iterator[V]) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.inner.Next() {
		it.err = it.inner.Err()
		return false
	}
	v, err := it.codec.Unmarshal(it.inner.Value())
	if err != nil {
		it.err = err
		return false
	}
	it.value = v
	return true
}

// Value returns the value at the iterator's current position.
func (it *Iterator[V]) Value() V { return it.value }

// Err returns the first error encountered, if any.
func (it *Iterator[V]) Err() error { return it.err }

// Release frees resources held by the iterator.
func (it *Iterator[V]) Release() { it.inner.Release() }

// Iter returns an iterator over every leaf, starting at position 0.
func (l *ProofListIndex[V]) Iter() *Iterator[V] {
	return l.IterFrom(0)
}

// IterFrom returns an iterator over every leaf at position >= from.
func (l *ProofListIndex[V]) IterFrom(from uint64) *Iterator[V] {
	leafPrefix := []byte{0}
	start := LeafKey(from).Encode()
	return &Iterator[V]{inner: l.base.iterator(leafPrefix, start), codec: l.codec}
}
