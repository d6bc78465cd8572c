package prooflist

import (
	"fmt"
)

// ProofKind identifies which variant of ListProof a given node represents.
type ProofKind uint8

const (
	// KindLeaf carries a value directly; it terminates recursion at
	// height 1.
	KindLeaf ProofKind = iota
	// KindLeft covers a query range wholly contained in the left half of
	// the subtree. SiblingHash is the right child's hash, or nil if the
	// right child does not exist (the query range reached the tree's
	// right spine).
	KindLeft
	// KindRight covers a query range wholly contained in the right half
	// of the subtree. SiblingHash (the left child's hash) is always
	// present, since any populated subtree has a left leaf.
	KindRight
	// KindFull covers a query range spanning both halves of the subtree.
	KindFull
	// KindAbsent proves that a query lay entirely outside [0, len) for
	// a list of the stated length and root. It only ever appears as the
	// outermost proof, never nested.
	KindAbsent
)

func (k ProofKind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindLeft:
		return "left"
	case KindRight:
		return "right"
	case KindFull:
		return "full"
	case KindAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// ListProof is a cryptographic proof over a ProofListIndex: either a proof
// that one or more positions hold specific values, or a proof that a list
// of a given length and root cannot contain the queried positions.
//
// This mirrors Exonum's tagged ListProof enum (Leaf/Left/Right/Full/Absent)
// as a single struct with a discriminant, which is the idiomatic Go
// rendering of a sum type; only the fields relevant to Kind are populated.
type ListProof[V any] struct {
	Kind ProofKind

	Leaf V // KindLeaf

	Left  *ListProof[V] // KindLeft, KindFull
	Right *ListProof[V] // KindRight, KindFull

	// SiblingHash is the hash of the sibling not covered by Left/Right:
	// the right child's hash for KindLeft (nil if absent), the left
	// child's hash for KindRight (always present).
	SiblingHash *Hash

	Len  uint64 // KindAbsent
	Root Hash   // KindAbsent
}

// GetProof returns a proof of the value at position i, or a proof of
// absence if i is out of bounds.
func (l *ProofListIndex[V]) GetProof(i uint64) (ListProof[V], error) {
	n, err := l.Len()
	if err != nil {
		return ListProof[V]{}, err
	}
	if i >= n {
		root, err := l.MerkleRoot()
		if err != nil {
			return ListProof[V]{}, err
		}
		return ListProof[V]{Kind: KindAbsent, Len: n, Root: root}, nil
	}
	return l.constructProof(rootKey(n), i, i+1)
}

// GetRangeProof returns a proof covering every position in the half-open
// range [from, to), or a proof of absence if to exceeds the list's length.
//
// It panics if to <= from: a malformed range, like an out-of-bounds index,
// is a caller bug. Note this deviates from the original Exonum API, whose
// Rust RangeBounds parameter treated Included and Excluded end bounds
// identically (effectively ignoring the distinction); taking an explicit
// half-open [from, to) here sidesteps that ambiguity entirely rather than
// reproducing it.
func (l *ProofListIndex[V]) GetRangeProof(from, to uint64) (ListProof[V], error) {
	if to <= from {
		panic(fmt.Errorf("%w: the range start is %d, but the range end is %d", ErrIllegalRange, from, to))
	}
	n, err := l.Len()
	if err != nil {
		return ListProof[V]{}, err
	}
	if to > n {
		root, err := l.MerkleRoot()
		if err != nil {
			return ListProof[V]{}, err
		}
		return ListProof[V]{Kind: KindAbsent, Len: n, Root: root}, nil
	}
	return l.constructProof(rootKey(n), from, to)
}

// constructProof builds the proof covering [from, to) rooted at key. It
// assumes from < to <= len, so key always has a populated left child and
// every recursive call is within bounds.
func (l *ProofListIndex[V]) constructProof(key NodeKey, from, to uint64) (ListProof[V], error) {
	if key.Height() == 1 {
		v, ok, err := l.Get(key.Index())
		if err != nil {
			return ListProof[V]{}, err
		}
		if !ok {
			return ListProof[V]{}, fmt.Errorf("prooflist: expected leaf at index %d to exist", key.Index())
		}
		if l.m != nil {
			l.m.ProofsGenerated.WithLabelValues(l.name).Inc()
		}
		return ListProof[V]{Kind: KindLeaf, Leaf: v}, nil
	}

	mid := key.FirstRightLeaf()
	switch {
	case to <= mid:
		sub, err := l.constructProof(key.Left(), from, to)
		if err != nil {
			return ListProof[V]{}, err
		}
		rightHash, ok, err := l.getBranch(key.Right())
		if err != nil {
			return ListProof[V]{}, err
		}
		var sibling *Hash
		if ok {
			sibling = &rightHash
		}
		return ListProof[V]{Kind: KindLeft, Left: &sub, SiblingHash: sibling}, nil

	case mid <= from:
		leftHash, err := l.getBranchUnchecked(key.Left())
		if err != nil {
			return ListProof[V]{}, err
		}
		sub, err := l.constructProof(key.Right(), from, to)
		if err != nil {
			return ListProof[V]{}, err
		}
		return ListProof[V]{Kind: KindRight, Right: &sub, SiblingHash: &leftHash}, nil

	default:
		leftSub, err := l.constructProof(key.Left(), from, mid)
		if err != nil {
			return ListProof[V]{}, err
		}
		rightSub, err := l.constructProof(key.Right(), mid, to)
		if err != nil {
			return ListProof[V]{}, err
		}
		return ListProof[V]{Kind: KindFull, Left: &leftSub, Right: &rightSub}, nil
	}
}
