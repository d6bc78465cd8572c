package prooflist

// LeafEntry is one (position, value) pair recovered while verifying a
// ListProof. Verify returns these in ascending position order.
type LeafEntry[V any] struct {
	Index uint64
	Value V
}

// Verify checks proof against the expected list length and ListHash,
// recomputing the Merkle tree bottom-up from the values and sibling hashes
// the proof carries. On success it returns every (index, value) pair the
// proof attests to, in ascending order (empty for a proof of absence).
//
// marshal must be the same canonical encoding function used to build the
// list, since leaf hashes are recomputed from it.
func Verify[V any](proof ListProof[V], length uint64, listHash Hash, marshal func(V) ([]byte, error)) ([]LeafEntry[V], error) {
	if proof.Kind == KindAbsent {
		if proof.Len != length {
			return nil, newVerifyError(ErrLengthMismatch, "absence proof length does not match expected length")
		}
		recomputed := HashListNode(proof.Len, proof.Root)
		if recomputed != listHash {
			return nil, newVerifyError(ErrHashMismatch, "absence proof root does not hash to the expected list hash")
		}
		return nil, nil
	}

	width := nextPowerOfTwo(maxUint64(length, 1))
	root, entries, err := verifyNode(proof, 0, width, length, marshal)
	if err != nil {
		return nil, err
	}
	recomputed := HashListNode(length, root)
	if recomputed != listHash {
		return nil, newVerifyError(ErrHashMismatch, "recomputed root does not hash to the expected list hash")
	}
	return entries, nil
}

// verifyNode recomputes the hash of the subtree proof covers, where offset
// is the absolute leaf index of the subtree's first leaf and width is the
// number of leaf positions the subtree spans (always a power of two).
// length is the verified list's total element count, needed to check that
// KindLeft's absent-sibling case and KindRight's always-present sibling
// agree with where the list's right spine actually ends.
func verifyNode[V any](proof ListProof[V], offset, width, length uint64, marshal func(V) ([]byte, error)) (Hash, []LeafEntry[V], error) {
	switch proof.Kind {
	case KindLeaf:
		if width != 1 {
			return Hash{}, nil, newVerifyError(ErrStructural, "leaf variant encountered above tree height 1")
		}
		raw, err := marshal(proof.Leaf)
		if err != nil {
			return Hash{}, nil, err
		}
		return HashLeaf(raw), []LeafEntry[V]{{Index: offset, Value: proof.Leaf}}, nil

	case KindLeft:
		if proof.Left == nil {
			return Hash{}, nil, newVerifyError(ErrStructural, "left variant missing its left child")
		}
		half := width / 2
		mid := offset + half
		leftHash, entries, err := verifyNode(*proof.Left, offset, half, length, marshal)
		if err != nil {
			return Hash{}, nil, err
		}
		if proof.SiblingHash == nil {
			if mid < length {
				return Hash{}, nil, newVerifyError(ErrStructural, "left variant omits a right sibling that should exist")
			}
			return HashSingleNode(leftHash), entries, nil
		}
		if mid >= length {
			return Hash{}, nil, newVerifyError(ErrStructural, "left variant carries a right sibling that should not exist")
		}
		return HashNode(leftHash, *proof.SiblingHash), entries, nil

	case KindRight:
		if proof.Right == nil || proof.SiblingHash == nil {
			return Hash{}, nil, newVerifyError(ErrStructural, "right variant missing its right child or left sibling")
		}
		half := width / 2
		mid := offset + half
		if mid >= length {
			return Hash{}, nil, newVerifyError(ErrStructural, "right variant descends into a right subtree that should not exist")
		}
		rightHash, entries, err := verifyNode(*proof.Right, mid, half, length, marshal)
		if err != nil {
			return Hash{}, nil, err
		}
		return HashNode(*proof.SiblingHash, rightHash), entries, nil

	case KindFull:
		if proof.Left == nil || proof.Right == nil {
			return Hash{}, nil, newVerifyError(ErrStructural, "full variant missing a child")
		}
		half := width / 2
		mid := offset + half
		leftHash, leftEntries, err := verifyNode(*proof.Left, offset, half, length, marshal)
		if err != nil {
			return Hash{}, nil, err
		}
		rightHash, rightEntries, err := verifyNode(*proof.Right, mid, half, length, marshal)
		if err != nil {
			return Hash{}, nil, err
		}
		return HashNode(leftHash, rightHash), append(leftEntries, rightEntries...), nil

	default:
		return Hash{}, nil, newVerifyError(ErrStructural, "unexpected absence variant nested inside a proof")
	}
}

func maxUint64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
