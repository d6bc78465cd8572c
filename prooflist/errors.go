package prooflist

import "errors"

// ErrIllegalRange is the sentinel wrapped into the panic raised by
// GetRangeProof when the requested range is not well-formed (to <= from).
// Like an out-of-bounds index, a malformed range is a caller bug rather
// than a runtime condition callers are expected to recover from.
var ErrIllegalRange = errors.New("prooflist: illegal range: to <= from")

// VerifyErrorKind classifies why Verify rejected a proof.
type VerifyErrorKind int

const (
	// ErrStructural means the proof's shape violates the tree's topology:
	// a Leaf variant deeper than height 1, a Left/Right/Full variant
	// missing a required child, or a sibling hash present/absent where
	// the declared length forbids it.
	ErrStructural VerifyErrorKind = iota
	// ErrHashMismatch means the proof is well-formed but the hash it
	// recomputes does not match the list hash the caller expected.
	ErrHashMismatch
	// ErrLengthMismatch means an absence proof's claimed length does not
	// match the length the caller expected to verify against.
	ErrLengthMismatch
)

func (k VerifyErrorKind) String() string {
	switch k {
	case ErrStructural:
		return "structural"
	case ErrHashMismatch:
		return "hash_mismatch"
	case ErrLengthMismatch:
		return "length_mismatch"
	default:
		return "unknown"
	}
}

// VerifyError reports why Verify rejected a proof. Verify returns it for
// every rejection of the proof itself; an error from the caller's marshal
// function is returned as is. Callers that need to branch on the failure
// kind should use errors.As.
type VerifyError struct {
	Kind VerifyErrorKind
	Msg  string
}

func (e *VerifyError) Error() string {
	return "prooflist: verify: " + e.Kind.String() + ": " + e.Msg
}

func newVerifyError(kind VerifyErrorKind, msg string) *VerifyError {
	return &VerifyError{Kind: kind, Msg: msg}
}
