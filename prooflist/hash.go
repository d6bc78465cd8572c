package prooflist

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hash is a 256-bit domain-separated digest. The zero Hash never occurs as
// the output of a HashTag function and is used as the sentinel "no value"
// result where a Hash is needed but no node exists yet.
type Hash [32]byte

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// HashTag namespaces, by a leading one-byte tag, every hash computed over
// the tree so that a leaf digest, an internal-node digest and a list-root
// digest can never collide with one another regardless of their payload.
// This mirrors the Merkle domain separation used throughout SSZ tree
// hashing (see ssz.Merkleize's layered hash(a,b) construction), generalized
// here to tag leaves and single-child spine nodes as distinct domains.
const (
	tagLeaf       byte = 0x00
	tagSingleNode byte = 0x01
	tagNode       byte = 0x02
	tagListNode   byte = 0x03
)

// HashLeaf returns the digest of a leaf's canonical byte encoding.
func HashLeaf(data []byte) Hash {
	h := sha256.New()
	h.Write([]byte{tagLeaf})
	h.Write(data)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashSingleNode returns the digest of an internal node whose right child
// does not yet exist, i.e. a node on the tree's right spine.
func HashSingleNode(left Hash) Hash {
	h := sha256.New()
	h.Write([]byte{tagSingleNode})
	h.Write(left[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashNode returns the digest of a fully populated internal node.
func HashNode(left, right Hash) Hash {
	h := sha256.New()
	h.Write([]byte{tagNode})
	h.Write(left[:])
	h.Write(right[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// HashListNode binds a tree root to the list's length, producing the value
// ultimately exposed as ListHash. Without this step two lists of different
// length but coincidentally equal roots (e.g. one empty, one not) would be
// indistinguishable.
func HashListNode(length uint64, root Hash) Hash {
	h := sha256.New()
	h.Write([]byte{tagListNode})
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], length)
	h.Write(lenBuf[:])
	h.Write(root[:])
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// EmptyListHash is the ListHash of a list with zero elements.
var EmptyListHash = HashListNode(0, Hash{})
